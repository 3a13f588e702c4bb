package algorithm

import (
	"github.com/paulmach/orb/geojson"
	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-streetwalker/graph"
	"github.com/ttpr0/go-streetwalker/structs"
	. "github.com/ttpr0/go-streetwalker/util"
)

// Labels every node with the id of its connected component.
//
// Component ids are assigned in order of the smallest node id.
func ConnectedComponents(g graph.IGraph) Array[int32] {
	groups := NewArray[int32](g.NodeCount())
	for i := range groups {
		groups[i] = -1
	}
	queue := NewList[int32](100)
	group := int32(0)
	for start := int32(0); start < int32(g.NodeCount()); start++ {
		if groups[start] != -1 {
			continue
		}
		groups[start] = group
		queue = queue[:0]
		queue.Add(start)
		for len(queue) > 0 {
			curr := queue.Last()
			queue = queue[:len(queue)-1]
			g.ForAdjacentEdges(curr, func(edge structs.Edge) {
				if groups[edge.NodeB] != -1 {
					return
				}
				groups[edge.NodeB] = group
				queue.Add(edge.NodeB)
			})
		}
		group += 1
	}
	return groups
}

// Most frequent value, the smallest one wins on ties.
func GetMostCommon(values Array[int32]) int32 {
	counts := NewDict[int32, int](10)
	best := int32(-1)
	for _, value := range values {
		count := counts.Get(value) + 1
		counts.Set(value, count)
		if count > counts.Get(best) || (count == counts.Get(best) && value < best) {
			best = value
		}
	}
	return best
}

// Node count of every component.
func ComponentSizes(groups Array[int32]) Dict[int32, int] {
	sizes := NewDict[int32, int](10)
	for _, group := range groups {
		sizes.Set(group, sizes.Get(group)+1)
	}
	return sizes
}

// Rebuilds the graph from the segments of its largest connected component.
func KeepLargestComponent(g *graph.Graph) *graph.Graph {
	groups := ConnectedComponents(g)
	if len(groups) == 0 {
		return g
	}
	max_group := GetMostCommon(groups)

	fc := geojson.NewFeatureCollection()
	removed := 0
	for i := 0; i < g.EdgeCount(); i++ {
		edge := g.GetEdge(int32(i))
		if groups[edge.NodeA] != max_group {
			removed += 1
			continue
		}
		fc.Append(geojson.NewFeature(g.GetEdgeGeom(edge).LineString()))
	}
	if removed == 0 {
		return g
	}
	slog.Info("removed unconnected segments", "count", removed, "components", len(ComponentSizes(groups)))
	return graph.BuildGraph(fc, g.Precision())
}
