package structs

import (
	"testing"

	"github.com/ttpr0/go-streetwalker/geo"
)

func TestMakeNodeKey(t *testing.T) {
	a := MakeNodeKey(geo.Coord{-74.0958001, 4.7215002}, 6)
	b := MakeNodeKey(geo.Coord{-74.0957999, 4.7214998}, 6)
	if a != b {
		t.Errorf("keys %v and %v should merge at precision 6", a, b)
	}

	c := MakeNodeKey(geo.Coord{-74.095801, 4.7215}, 6)
	if a == c {
		t.Errorf("keys %v and %v should differ at precision 6", a, c)
	}
	d := MakeNodeKey(geo.Coord{-74.095801, 4.7215}, 5)
	e := MakeNodeKey(geo.Coord{-74.0958, 4.7215}, 5)
	if d != e {
		t.Errorf("keys %v and %v should merge at precision 5", d, e)
	}
}

func TestUndirectedKey(t *testing.T) {
	e := Edge{NodeA: 7, NodeB: 3}
	if e.Undirected() != e.Reversed().Undirected() {
		t.Errorf("undirected key differs between directions")
	}
	if e.Undirected() != (UndirectedKey{3, 7}) {
		t.Errorf("Undirected() = %v; want [3 7]", e.Undirected())
	}
	if e.IsLoop() || !(Edge{2, 2}).IsLoop() {
		t.Errorf("IsLoop wrong")
	}
}
