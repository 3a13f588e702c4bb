package structs

import (
	"math"

	"github.com/ttpr0/go-streetwalker/geo"
)

//*******************************************
// graph structs
//*******************************************

// Directed traversal NodeA -> NodeB of one segment.
type Edge struct {
	NodeA int32
	NodeB int32
}

func (self Edge) Reversed() Edge {
	return Edge{
		NodeA: self.NodeB,
		NodeB: self.NodeA,
	}
}

func (self Edge) Undirected() UndirectedKey {
	if self.NodeA < self.NodeB {
		return UndirectedKey{self.NodeA, self.NodeB}
	}
	return UndirectedKey{self.NodeB, self.NodeA}
}

func (self Edge) IsLoop() bool {
	return self.NodeA == self.NodeB
}

type Node struct {
	Loc geo.Coord
	Key NodeKey
}

//*******************************************
// keys
//*******************************************

// Physical segment regardless of traversal direction, (min, max) of the node ids.
type UndirectedKey [2]int32

// Quantized coordinate, coordinates rounding to the same key are one node.
type NodeKey struct {
	X int64
	Y int64
}

// Rounds the coordinate to precision decimal digits.
func MakeNodeKey(loc geo.Coord, precision int) NodeKey {
	scale := math.Pow(10, float64(precision))
	return NodeKey{
		X: int64(math.Round(loc[0] * scale)),
		Y: int64(math.Round(loc[1] * scale)),
	}
}
