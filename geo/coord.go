package geo

import (
	"github.com/paulmach/orb"
)

//*******************************************
// coordinates
//*******************************************

// Longitude, latitude in degrees.
type Coord [2]float64

func (self Coord) Lon() float64 {
	return self[0]
}
func (self Coord) Lat() float64 {
	return self[1]
}
func (self Coord) Point() orb.Point {
	return orb.Point(self)
}

func FromPoint(point orb.Point) Coord {
	return Coord(point)
}

type CoordArray []Coord

func (self CoordArray) LineString() orb.LineString {
	line := make(orb.LineString, 0, len(self))
	for _, c := range self {
		line = append(line, c.Point())
	}
	return line
}

func FromLineString(line orb.LineString) CoordArray {
	coords := make(CoordArray, 0, len(line))
	for _, p := range line {
		coords = append(coords, FromPoint(p))
	}
	return coords
}
