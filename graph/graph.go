package graph

import (
	"github.com/ttpr0/go-streetwalker/geo"
	"github.com/ttpr0/go-streetwalker/structs"
	. "github.com/ttpr0/go-streetwalker/util"
)

// Segments shorter than this (metres) cannot be traversed.
const DEGENERATE_LENGTH = 0.001

// Largest node key precision, 180 * 10^15 still fits an int64.
const MAX_PRECISION = 15

//*******************************************
// graph interface
//******************************************

type IGraph interface {
	NodeCount() int
	EdgeCount() int
	GetNode(node int32) structs.Node
	GetNodeGeom(node int32) geo.Coord
	GetNodeID(loc geo.Coord) (int32, bool)
	GetEdge(edge int32) structs.Edge
	GetOutgoing(node int32) List[structs.Edge]
	ForAdjacentEdges(node int32, callback func(structs.Edge))
	HasEdge(edge structs.Edge) bool
	GetEdgeLength(edge structs.Edge) float64
	GetEdgeBearing(edge structs.Edge) float64
	GetEdgeGeom(edge structs.Edge) geo.CoordArray
	IsDegenerate(edge structs.Edge) bool
	GetLongestEdge() (structs.Edge, bool)
	GetClosestEdge(point geo.Coord) (Snap, bool)
}

//*******************************************
// graph
//******************************************

var _ IGraph = &Graph{}

// Undirected street graph, every segment is stored in both directions.
//
// Immutable after BuildGraph, safe for concurrent reads.
type Graph struct {
	precision int
	nodes     Array[structs.Node]
	node_keys Dict[structs.NodeKey, int32]
	edges     Array[structs.Edge]
	topology  Array[List[structs.Edge]]
	skipped   int
}

func (self *Graph) NodeCount() int {
	return len(self.nodes)
}

// Number of input segments (each one is traversable in both directions).
func (self *Graph) EdgeCount() int {
	return len(self.edges)
}
func (self *Graph) Precision() int {
	return self.precision
}
func (self *Graph) SkippedFeatures() int {
	return self.skipped
}
func (self *Graph) IsNode(node int32) bool {
	return node >= 0 && node < int32(len(self.nodes))
}
func (self *Graph) GetNode(node int32) structs.Node {
	return self.nodes[node]
}
func (self *Graph) GetNodeGeom(node int32) geo.Coord {
	return self.nodes[node].Loc
}

// Looks up the node the coordinate rounds to.
func (self *Graph) GetNodeID(loc geo.Coord) (int32, bool) {
	key := structs.MakeNodeKey(loc, self.precision)
	if !self.node_keys.ContainsKey(key) {
		return -1, false
	}
	return self.node_keys.Get(key), true
}
func (self *Graph) GetEdge(edge int32) structs.Edge {
	return self.edges[edge]
}

// Outgoing edges of node in insertion order.
func (self *Graph) GetOutgoing(node int32) List[structs.Edge] {
	if !self.IsNode(node) {
		return nil
	}
	return self.topology[node]
}
func (self *Graph) ForAdjacentEdges(node int32, callback func(structs.Edge)) {
	for _, edge := range self.GetOutgoing(node) {
		callback(edge)
	}
}
func (self *Graph) HasEdge(edge structs.Edge) bool {
	for _, e := range self.GetOutgoing(edge.NodeA) {
		if e == edge {
			return true
		}
	}
	return false
}

// Geodesic length in metres.
func (self *Graph) GetEdgeLength(edge structs.Edge) float64 {
	return geo.Distance(self.GetNodeGeom(edge.NodeA), self.GetNodeGeom(edge.NodeB))
}

// Bearing from NodeA to NodeB in degrees [0, 360), 0 for degenerate edges.
func (self *Graph) GetEdgeBearing(edge structs.Edge) float64 {
	if self.IsDegenerate(edge) {
		return 0
	}
	return geo.Bearing(self.GetNodeGeom(edge.NodeA), self.GetNodeGeom(edge.NodeB))
}
func (self *Graph) GetEdgeGeom(edge structs.Edge) geo.CoordArray {
	return geo.CoordArray{self.GetNodeGeom(edge.NodeA), self.GetNodeGeom(edge.NodeB)}
}
func (self *Graph) IsDegenerate(edge structs.Edge) bool {
	if edge.IsLoop() {
		return true
	}
	return self.GetEdgeLength(edge) < DEGENERATE_LENGTH
}

// Longest input segment, first one wins on ties.
func (self *Graph) GetLongestEdge() (structs.Edge, bool) {
	found := false
	longest := structs.Edge{}
	max_length := -1.0
	for _, edge := range self.edges {
		length := self.GetEdgeLength(edge)
		if length > max_length {
			max_length = length
			longest = edge
			found = true
		}
	}
	return longest, found
}

// Number of distinct traversable segments.
func (self *Graph) UndirectedCount() int {
	keys := NewDict[structs.UndirectedKey, bool](len(self.edges))
	for _, edge := range self.edges {
		if self.IsDegenerate(edge) {
			continue
		}
		keys.Set(edge.Undirected(), true)
	}
	return keys.Length()
}
