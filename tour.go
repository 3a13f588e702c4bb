package main

import (
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/ttpr0/go-streetwalker/geo"
	"github.com/ttpr0/go-streetwalker/graph"
	"github.com/ttpr0/go-streetwalker/navigator"
	"github.com/ttpr0/go-streetwalker/structs"
)

//**********************************************************
// headless auto tour
//**********************************************************

type TourReport struct {
	Steps     int     `json:"steps"`
	Seconds   float64 `json:"seconds"`
	Distance  float64 `json:"distance"`
	Visited   int     `json:"visited"`
	Segments  int     `json:"segments"`
	Coverage  float64 `json:"coverage"`
	Junctions int     `json:"junctions"`
	DeadEnds  int     `json:"dead_ends"`
}

func (self TourReport) String() string {
	return fmt.Sprintf("%d steps (%.0f s, %.0f m): visited %d/%d segments (%.1f%%), %d junctions, %d dead ends",
		self.Steps, self.Seconds, self.Distance, self.Visited, self.Segments, self.Coverage*100, self.Junctions, self.DeadEnds)
}

type _TourListener struct {
	track     geo.CoordArray
	distance  float64
	junctions int
	dead_ends int
}

func (self *_TourListener) OnPose(pose navigator.Pose) {
	if len(self.track) > 0 {
		self.distance += geo.Distance(self.track[len(self.track)-1], pose.Loc)
	}
	self.track = append(self.track, pose.Loc)
}
func (self *_TourListener) OnEdgeEnter(edge structs.Edge, cause navigator.EnterCause) {
	if cause == navigator.ENTER_AUTO {
		self.junctions += 1
	}
}
func (self *_TourListener) OnDeadEnd(node int32) {
	self.dead_ends += 1
}

// Drives the navigator in auto mode for steps ticks of dt.
//
// Returns the coverage report and the walked track.
func RunTour(g *graph.Graph, nav *navigator.Navigator, steps int, dt time.Duration) (TourReport, geo.CoordArray) {
	listener := &_TourListener{
		track: make(geo.CoordArray, 0, steps+1),
	}
	listener.OnPose(nav.Pose())
	nav.SetListener(listener)
	defer nav.SetListener(nil)

	nav.SetAuto(true)
	for i := 0; i < steps; i++ {
		nav.AutoStep(dt)
	}

	report := TourReport{
		Steps:     steps,
		Seconds:   (time.Duration(steps) * dt).Seconds(),
		Distance:  listener.distance,
		Visited:   nav.VisitedCount(),
		Segments:  g.UndirectedCount(),
		Junctions: listener.junctions,
		DeadEnds:  listener.dead_ends,
	}
	if report.Segments > 0 {
		report.Coverage = float64(report.Visited) / float64(report.Segments)
	}
	return report, listener.track
}

func NewTrackFeature(track geo.CoordArray, report TourReport) *geojson.Feature {
	feature := geojson.NewFeature(track.LineString())
	feature.Properties["visited"] = report.Visited
	feature.Properties["segments"] = report.Segments
	feature.Properties["coverage"] = report.Coverage
	feature.Properties["distance"] = report.Distance
	return feature
}
