package graph

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/ttpr0/go-streetwalker/geo"
	"github.com/ttpr0/go-streetwalker/structs"
	. "github.com/ttpr0/go-streetwalker/util"
	"golang.org/x/exp/slog"
)

//*******************************************
// build graph
//*******************************************

// Builds the street graph from LineString and MultiLineString features.
//
// Endpoints are merged by rounding to precision decimal digits.
// Features without geometry or with other geometry types are skipped.
func BuildGraph(fc *geojson.FeatureCollection, precision int) *Graph {
	builder := _NewGraphBuilder(precision)
	if fc != nil {
		for _, feature := range fc.Features {
			if feature == nil {
				builder.skipped += 1
				continue
			}
			switch geom := feature.Geometry.(type) {
			case orb.LineString:
				builder.AddLine(geom)
			case orb.MultiLineString:
				for _, line := range geom {
					builder.AddLine(line)
				}
			default:
				builder.skipped += 1
			}
		}
	}
	g := builder.Build()
	slog.Debug("graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "skipped", g.SkippedFeatures())
	return g
}

type _GraphBuilder struct {
	precision int
	nodes     List[structs.Node]
	node_keys Dict[structs.NodeKey, int32]
	edges     List[structs.Edge]
	topology  List[List[structs.Edge]]
	skipped   int
}

func _NewGraphBuilder(precision int) *_GraphBuilder {
	return &_GraphBuilder{
		precision: precision,
		nodes:     NewList[structs.Node](1000),
		node_keys: NewDict[structs.NodeKey, int32](1000),
		edges:     NewList[structs.Edge](1000),
		topology:  NewList[List[structs.Edge]](1000),
	}
}

func (self *_GraphBuilder) AddLine(line orb.LineString) {
	for i := 0; i < len(line)-1; i++ {
		self.AddEdge(geo.FromPoint(line[i]), geo.FromPoint(line[i+1]))
	}
}

func (self *_GraphBuilder) AddEdge(a geo.Coord, b geo.Coord) {
	node_a := self._GetOrCreateNode(a)
	node_b := self._GetOrCreateNode(b)
	edge := structs.Edge{NodeA: node_a, NodeB: node_b}
	self.edges.Add(edge)
	self.topology[node_a].Add(edge)
	self.topology[node_b].Add(edge.Reversed())
}

func (self *_GraphBuilder) _GetOrCreateNode(loc geo.Coord) int32 {
	key := structs.MakeNodeKey(loc, self.precision)
	if self.node_keys.ContainsKey(key) {
		return self.node_keys.Get(key)
	}
	id := int32(self.nodes.Length())
	self.nodes.Add(structs.Node{Loc: loc, Key: key})
	self.node_keys.Set(key, id)
	self.topology.Add(NewList[structs.Edge](4))
	return id
}

func (self *_GraphBuilder) Build() *Graph {
	return &Graph{
		precision: self.precision,
		nodes:     Array[structs.Node](self.nodes),
		node_keys: self.node_keys,
		edges:     Array[structs.Edge](self.edges),
		topology:  Array[List[structs.Edge]](self.topology),
		skipped:   self.skipped,
	}
}
