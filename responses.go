package main

import (
	"github.com/paulmach/orb/geojson"

	"github.com/ttpr0/go-streetwalker/algorithm"
	"github.com/ttpr0/go-streetwalker/graph"
	"github.com/ttpr0/go-streetwalker/navigator"
	. "github.com/ttpr0/go-streetwalker/util"
)

type ErrorResponse struct {
	Request string `json:"request"`
	Error   any    `json:"error"`
}

func NewErrorResponse(request string, error any) ErrorResponse {
	return ErrorResponse{
		Request: request,
		Error:   error,
	}
}

type StatusResponse struct {
	Ready   bool             `json:"ready"`
	Ticking bool             `json:"ticking"`
	Hud     string           `json:"hud"`
	Status  navigator.Status `json:"status"`
}

func NewStatusResponse(status navigator.Status, ticking bool) StatusResponse {
	return StatusResponse{
		Ready:   true,
		Ticking: ticking,
		Hud:     status.String(),
		Status:  status,
	}
}

// Junction choices as line features in ranking order.
func NewChoicesResponse(g graph.IGraph, choices List[navigator.Choice], selected int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, choice := range choices {
		feature := geojson.NewFeature(g.GetEdgeGeom(choice.Edge).LineString())
		feature.Properties["index"] = i
		feature.Properties["bearing"] = choice.Bearing
		feature.Properties["turn"] = choice.Turn
		feature.Properties["selected"] = i == selected
		fc.Append(feature)
	}
	return fc
}

type GraphInfoResponse struct {
	Precision  int              `json:"precision"`
	Components int              `json:"components"`
	Stats      graph.GraphStats `json:"stats"`
}

func NewGraphInfoResponse(g *graph.Graph) GraphInfoResponse {
	return GraphInfoResponse{
		Precision:  g.Precision(),
		Components: len(algorithm.ComponentSizes(algorithm.ConnectedComponents(g))),
		Stats:      g.Stats(),
	}
}
