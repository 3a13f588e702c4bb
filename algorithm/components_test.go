package algorithm

import (
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/ttpr0/go-streetwalker/geo"
	"github.com/ttpr0/go-streetwalker/graph"
	. "github.com/ttpr0/go-streetwalker/util"
)

func _Graph(lines ...geo.CoordArray) *graph.Graph {
	fc := geojson.NewFeatureCollection()
	for _, line := range lines {
		fc.Append(geojson.NewFeature(line.LineString()))
	}
	return graph.BuildGraph(fc, 6)
}

func TestConnectedComponents(t *testing.T) {
	g := _Graph(
		geo.CoordArray{{0, 0}, {0.001, 0}, {0.002, 0}},
		geo.CoordArray{{0.001, 0}, {0.001, 0.001}},
		geo.CoordArray{{1, 1}, {1.001, 1}},
	)
	groups := ConnectedComponents(g)
	if len(groups) != g.NodeCount() {
		t.Fatalf("got %v labels; want %v", len(groups), g.NodeCount())
	}
	sizes := ComponentSizes(groups)
	if len(sizes) != 2 || sizes[0] != 4 || sizes[1] != 2 {
		t.Errorf("component sizes = %v; want {0: 4, 1: 2}", sizes)
	}
	if GetMostCommon(groups) != 0 {
		t.Errorf("GetMostCommon() = %v; want 0", GetMostCommon(groups))
	}
}

func TestGetMostCommonTie(t *testing.T) {
	if v := GetMostCommon(Array[int32]{3, 1, 3, 1}); v != 1 {
		t.Errorf("GetMostCommon() = %v; want 1", v)
	}
}

func TestKeepLargestComponent(t *testing.T) {
	g := _Graph(
		geo.CoordArray{{0, 0}, {0.001, 0}, {0.002, 0}},
		geo.CoordArray{{1, 1}, {1.001, 1}},
	)
	kept := KeepLargestComponent(g)
	if kept.EdgeCount() != 2 || kept.NodeCount() != 3 {
		t.Errorf("got %v edges, %v nodes; want 2, 3", kept.EdgeCount(), kept.NodeCount())
	}
	if _, ok := kept.GetNodeID(geo.Coord{1, 1}); ok {
		t.Errorf("island node should be removed")
	}

	connected := _Graph(geo.CoordArray{{0, 0}, {0.001, 0}})
	if KeepLargestComponent(connected) != connected {
		t.Errorf("connected graph should be returned unchanged")
	}
}
