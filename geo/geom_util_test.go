package geo

import (
	"math"
	"testing"
)

func TestBearing(t *testing.T) {
	origin := Coord{0, 0}

	cases := []struct {
		end  Coord
		want float64
	}{
		{Coord{0, 1}, 0},
		{Coord{1, 0}, 90},
		{Coord{0, -1}, 180},
		{Coord{-1, 0}, 270},
	}
	for _, c := range cases {
		got := Bearing(origin, c.end)
		if math.Abs(got-c.want) > 1e-6 {
			t.Errorf("Bearing(%v, %v) = %v; want %v", origin, c.end, got, c.want)
		}
	}

	if b := Bearing(origin, origin); b != 0 {
		t.Errorf("Bearing of identical points = %v; want 0", b)
	}
}

func TestTurnAngle(t *testing.T) {
	cases := [][3]float64{
		{0, 90, 90},
		{350, 10, 20},
		{10, 350, 20},
		{0, 180, 180},
		{90, 270, 180},
		{45, 45, 0},
	}
	for _, c := range cases {
		got := TurnAngle(c[0], c[1])
		if math.Abs(got-c[2]) > 1e-9 {
			t.Errorf("TurnAngle(%v, %v) = %v; want %v", c[0], c[1], got, c[2])
		}
	}
	if n := Normalize180(190); math.Abs(n+170) > 1e-9 {
		t.Errorf("Normalize180(190) = %v; want -170", n)
	}
	if n := NormalizeBearing(-90); n != 270 {
		t.Errorf("NormalizeBearing(-90) = %v; want 270", n)
	}
}

func TestDistanceAndPointAtDistance(t *testing.T) {
	start := Coord{-74.0958, 4.7215}
	end := PointAtDistance(start, 90, 1000)

	d := Distance(start, end)
	if math.Abs(d-1000) > 2 {
		t.Errorf("Distance = %v; want ~1000", d)
	}
	b := Bearing(start, end)
	if TurnAngle(b, 90) > 0.1 {
		t.Errorf("Bearing = %v; want ~90", b)
	}
}

func TestProjectOnSegment(t *testing.T) {
	start := Coord{0, 0}
	end := Coord{0.01, 0}

	tt, proj := ProjectOnSegment(Coord{0.0025, 0.001}, start, end)
	if math.Abs(tt-0.25) > 1e-6 {
		t.Errorf("t = %v; want 0.25", tt)
	}
	if math.Abs(proj[0]-0.0025) > 1e-9 || math.Abs(proj[1]) > 1e-9 {
		t.Errorf("projection = %v; want [0.0025 0]", proj)
	}

	tt, proj = ProjectOnSegment(Coord{-0.5, 0}, start, end)
	if tt != 0 || proj != start {
		t.Errorf("before start: t = %v, proj = %v; want 0, start", tt, proj)
	}

	tt, _ = ProjectOnSegment(Coord{1, 1}, start, start)
	if tt != 0 {
		t.Errorf("degenerate segment t = %v; want 0", tt)
	}
}

func TestProjectOnSegmentNorthSouth(t *testing.T) {
	start := Coord{0, 0}
	end := Coord{0, 60}
	point := Coord{0.5, 30}

	tt, proj := ProjectOnSegment(point, start, end)
	if tt <= 0 || tt >= 0.5 {
		t.Errorf("t = %v; want mercator parameter below 0.5", tt)
	}
	if math.Abs(proj[0]) > 1e-9 || math.Abs(proj[1]-30) > 1e-6 {
		t.Errorf("projection = %v; want [0 30]", proj)
	}
	want := Distance(point, Coord{0, 30})
	if d := Distance(point, proj); math.Abs(d-want) > 0.01 {
		t.Errorf("distance = %v; want %v", d, want)
	}
}
