package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/project"
)

// Distance in metres between two coordinates.
func Distance(start Coord, end Coord) float64 {
	return orbgeo.Distance(start.Point(), end.Point())
}

// Initial bearing from start to end in degrees [0, 360).
//
// Identical points have no direction, 0 is returned.
func Bearing(start Coord, end Coord) float64 {
	if start == end {
		return 0
	}
	return NormalizeBearing(orbgeo.Bearing(start.Point(), end.Point()))
}

func NormalizeBearing(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// Maps an angle difference into [-180, 180).
func Normalize180(deg float64) float64 {
	return NormalizeBearing(deg+180) - 180
}

// Absolute turn angle in [0, 180] needed to go from heading "from" to heading "to".
func TurnAngle(from float64, to float64) float64 {
	return math.Abs(Normalize180(to - from))
}

// Linear interpolation in coordinate space.
func Lerp(start Coord, end Coord, t float64) Coord {
	return Coord{
		start[0] + (end[0]-start[0])*t,
		start[1] + (end[1]-start[1])*t,
	}
}

func PointAtDistance(start Coord, bearing float64, dist float64) Coord {
	return FromPoint(orbgeo.PointAtBearingAndDistance(start.Point(), bearing, dist))
}

// Projects point onto the segment start-end (web mercator plane).
//
// Returns the clamped segment parameter in [0, 1] and the projected coordinate,
// which is mapped back from the mercator plane.
func ProjectOnSegment(point Coord, start Coord, end Coord) (float64, Coord) {
	p := project.WGS84.ToMercator(point.Point())
	a := project.WGS84.ToMercator(start.Point())
	b := project.WGS84.ToMercator(end.Point())

	dx := b[0] - a[0]
	dy := b[1] - a[1]
	len_sq := dx*dx + dy*dy
	if len_sq == 0 {
		return 0, start
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / len_sq
	t = Clamp01(t)
	switch t {
	case 0:
		return t, start
	case 1:
		return t, end
	}
	proj := project.Mercator.ToWGS84(orb.Point{a[0] + dx*t, a[1] + dy*t})
	return t, FromPoint(proj)
}

func Clamp01(value float64) float64 {
	return math.Max(0, math.Min(1, value))
}
