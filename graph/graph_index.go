package graph

import (
	"github.com/ttpr0/go-streetwalker/geo"
	"github.com/ttpr0/go-streetwalker/structs"
)

//*******************************************
// snapping
//*******************************************

// Closest point on the street network.
type Snap struct {
	Edge     structs.Edge
	Progress float64
	Loc      geo.Coord
	Distance float64
}

// Finds the traversable segment closest to point.
//
// Progress is the projection of point onto the segment, clamped to [0, 1].
func (self *Graph) GetClosestEdge(point geo.Coord) (Snap, bool) {
	found := false
	best := Snap{}
	for _, edge := range self.edges {
		if self.IsDegenerate(edge) {
			continue
		}
		a := self.GetNodeGeom(edge.NodeA)
		b := self.GetNodeGeom(edge.NodeB)
		t, loc := geo.ProjectOnSegment(point, a, b)
		dist := geo.Distance(point, loc)
		if !found || dist < best.Distance {
			best = Snap{
				Edge:     edge,
				Progress: t,
				Loc:      loc,
				Distance: dist,
			}
			found = true
		}
	}
	return best, found
}
