package parser

import (
	"github.com/ttpr0/go-streetwalker/geo"
	. "github.com/ttpr0/go-streetwalker/util"
)

//*******************************************
// parser structs
//*******************************************

type TempNode struct {
	Point geo.Coord
	Found bool
}

type OSMWay struct {
	ID    int64
	Nodes List[int64]
	Props Dict[string, any]
}
