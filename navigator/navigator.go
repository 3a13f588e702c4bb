package navigator

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-streetwalker/geo"
	"github.com/ttpr0/go-streetwalker/graph"
	"github.com/ttpr0/go-streetwalker/structs"
	. "github.com/ttpr0/go-streetwalker/util"
)

var ErrEmptyGraph = errors.New("graph has no traversable segments")
var ErrSnapFailed = errors.New("start point could not be snapped to the network")

//*******************************************
// navigator
//*******************************************

// Walks along the edges of a street graph.
//
// Not safe for concurrent use, a single owner has to serialize all calls.
type Navigator struct {
	graph    graph.IGraph
	options  Options
	listener IListener

	edge     structs.Edge
	progress float64
	heading  float64
	loc      geo.Coord
	cooldown float64

	at_junction  bool
	choices      List[Choice]
	choice_index int

	auto       bool
	auto_speed float64
	auto_pause time.Duration
	visited    Dict[structs.UndirectedKey, bool]
}

// Creates a navigator placed on the graph.
//
// Without a start point the walker is put on the longest segment at options.StartProgress.
func New(g graph.IGraph, options Options, start Optional[geo.Coord]) (*Navigator, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if g.EdgeCount() == 0 {
		return nil, ErrEmptyGraph
	}

	var edge structs.Edge
	var progress float64
	if start.HasValue() {
		snap, ok := g.GetClosestEdge(start.Value)
		if !ok {
			return nil, ErrEmptyGraph
		}
		if options.SnapTolerance > 0 && snap.Distance > options.SnapTolerance {
			return nil, fmt.Errorf("%w: nearest segment is %.1f m away", ErrSnapFailed, snap.Distance)
		}
		edge = snap.Edge
		progress = snap.Progress
	} else {
		longest, ok := g.GetLongestEdge()
		if !ok || g.IsDegenerate(longest) {
			return nil, ErrEmptyGraph
		}
		edge = longest
		progress = geo.Clamp01(options.StartProgress)
	}

	nav := &Navigator{
		graph:      g,
		options:    options,
		listener:   NopListener{},
		edge:       edge,
		progress:   progress,
		auto_speed: _ClampSpeed(options.AutoSpeed, options),
		visited:    NewDict[structs.UndirectedKey, bool](g.EdgeCount()),
	}
	nav.visited.Set(edge.Undirected(), true)
	nav._UpdatePose()
	nav._UpdateJunction()
	slog.Debug("navigator placed", "edge", edge, "progress", progress)
	return nav, nil
}

func (self *Navigator) SetListener(listener IListener) {
	if listener == nil {
		listener = NopListener{}
	}
	self.listener = listener
}

//*******************************************
// getters
//*******************************************

func (self *Navigator) Options() Options {
	return self.options
}
func (self *Navigator) Edge() structs.Edge {
	return self.edge
}
func (self *Navigator) Progress() float64 {
	return self.progress
}
func (self *Navigator) Heading() float64 {
	return self.heading
}
func (self *Navigator) Location() geo.Coord {
	return self.loc
}
func (self *Navigator) AtJunction() bool {
	return self.at_junction
}
func (self *Navigator) IsAuto() bool {
	return self.auto
}
func (self *Navigator) AutoSpeed() float64 {
	return self.auto_speed
}
func (self *Navigator) ChoiceIndex() int {
	return self.choice_index
}

// Current continuation choices (empty when not at a junction).
func (self *Navigator) Choices() List[Choice] {
	choices := NewList[Choice](self.choices.Length())
	for _, choice := range self.choices {
		choices.Add(choice)
	}
	return choices
}
func (self *Navigator) IsVisited(edge structs.Edge) bool {
	return self.visited.ContainsKey(edge.Undirected())
}
func (self *Navigator) VisitedCount() int {
	return self.visited.Length()
}

func (self *Navigator) State() State {
	if self.auto && self.auto_pause > 0 {
		return AUTO_PAUSED
	}
	if self.at_junction {
		return AT_JUNCTION
	}
	return ON_EDGE
}

func (self *Navigator) Pose() Pose {
	return Pose{
		Loc:      self.loc,
		Heading:  self.heading,
		Edge:     self.edge,
		Progress: self.progress,
	}
}

func (self *Navigator) Status() Status {
	mode := MANUAL
	if self.auto {
		mode = AUTO
	}
	return Status{
		Mode:        mode,
		State:       self.State(),
		Choices:     self.choices.Length(),
		ChoiceIndex: self.choice_index,
		Speed:       self.auto_speed,
		Progress:    self.progress * 100,
		Visited:     self.visited.Length(),
		Pose:        self.Pose(),
	}
}

//*******************************************
// movement
//*******************************************

// Moves the walker delta metres along the current edge (negative towards NodeA).
//
// Crossing an endpoint hands over to the best continuing edge, at a dead end the progress is clamped.
func (self *Navigator) Advance(delta float64) {
	self._Move(delta, false)
}

// Crossing an endpoint with auto set ranks the continuations like a junction pick.
func (self *Navigator) _Move(delta float64, auto bool) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}

	var new_progress float64
	if self.graph.IsDegenerate(self.edge) {
		switch {
		case delta > 0:
			new_progress = 2
		case delta < 0:
			new_progress = -1
		default:
			new_progress = self.progress
		}
	} else {
		new_progress = self.progress + delta/self.graph.GetEdgeLength(self.edge)
	}

	if new_progress > 1 {
		end := self.edge.NodeB
		choices := self._ContinuationChoices(end, self.graph.GetEdgeBearing(self.edge), false)
		if choices.Length() > 0 {
			self._Continue(choices, false, auto)
			return
		}
		self.progress = 1
		self.listener.OnDeadEnd(end)
	} else if new_progress < 0 {
		start := self.edge.NodeA
		choices := self._ContinuationChoices(start, self.graph.GetEdgeBearing(self.edge.Reversed()), false)
		if choices.Length() > 0 {
			self._Continue(choices, true, auto)
			return
		}
		self.progress = 0
		self.listener.OnDeadEnd(start)
	} else {
		self.progress = new_progress
	}

	self.cooldown = math.Max(0, self.cooldown-math.Abs(delta))
	self._UpdatePose()
	self._UpdateJunction()
}

// Every outgoing edge of vertex ranked by the turn needed from heading.
//
// Equal turns keep the adjacency order.
func (self *Navigator) ListOutgoingChoices(vertex int32, heading float64) List[Choice] {
	outgoing := self.graph.GetOutgoing(vertex)
	choices := NewList[Choice](outgoing.Length())
	for _, edge := range outgoing {
		bearing := self.graph.GetEdgeBearing(edge)
		choices.Add(Choice{
			Edge:    edge,
			Bearing: bearing,
			Turn:    geo.TurnAngle(heading, bearing),
		})
	}
	slices.SortStableFunc(choices, func(a, b Choice) int {
		return cmp.Compare(a.Turn, b.Turn)
	})
	return choices
}

// Steps through the junction choices, returns false if there is nothing to choose from.
func (self *Navigator) CycleChoice(direction int) bool {
	count := self.choices.Length()
	if !self.at_junction || count <= 1 || direction == 0 {
		return false
	}
	self.choice_index = ((self.choice_index+direction)%count + count) % count
	return true
}

// Enters the selected junction choice.
func (self *Navigator) ConfirmChoice() bool {
	if !self.at_junction || self.choices.Length() == 0 {
		return false
	}
	index := self.choice_index
	if index < 0 || index >= self.choices.Length() {
		index = 0
	}
	self._EnterEdge(self.choices[index].Edge, false, ENTER_CONFIRM)
	return true
}

//*******************************************
// auto mode
//*******************************************

func (self *Navigator) ToggleAutoMode() {
	self.SetAuto(!self.auto)
}
func (self *Navigator) SetAuto(on bool) {
	self.auto = on
	self.auto_pause = 0
}

// Changes the auto speed by delta m/s, returns the clamped new speed.
func (self *Navigator) AdjustSpeed(delta float64) float64 {
	self.auto_speed = _ClampSpeed(self.auto_speed+delta, self.options)
	return self.auto_speed
}

// Moves the walker for dt in auto mode and picks a new edge at junctions.
func (self *Navigator) AutoStep(dt time.Duration) {
	if !self.auto || dt <= 0 {
		return
	}
	if self.auto_pause > 0 {
		self.auto_pause -= dt
		if self.auto_pause < 0 {
			self.auto_pause = 0
		}
		return
	}

	self._Move(self.auto_speed*dt.Seconds(), true)
	if !self.at_junction || self.choices.Length() == 0 {
		return
	}
	self._AutoEnter(self._PickAutoChoice(self.choices), false)
}

// Enters the continuation after an endpoint overflow.
func (self *Navigator) _Continue(choices List[Choice], backward bool, auto bool) {
	if auto {
		self._AutoEnter(self._PickAutoChoice(choices), backward)
		return
	}
	edge := choices[0].Edge
	if backward {
		edge = edge.Reversed()
	}
	self._EnterEdge(edge, backward, ENTER_CONTINUE)
}

// Records edge as visited, enters it and starts the auto pause.
func (self *Navigator) _AutoEnter(edge structs.Edge, backward bool) {
	self.visited.Set(edge.Undirected(), true)
	if backward {
		edge = edge.Reversed()
	}
	self._EnterEdge(edge, backward, ENTER_AUTO)
	self.auto_pause = self.options.AutoPause
}

// Ranks choices by (unvisited, within straight bias, turn), choices must not be empty.
func (self *Navigator) _PickAutoChoice(choices List[Choice]) structs.Edge {
	ranked := slices.Clone(choices)
	rank := func(choice Choice) int {
		r := 0
		if self.visited.ContainsKey(choice.Edge.Undirected()) {
			r += 2
		}
		if choice.Turn > self.options.StraightBias {
			r += 1
		}
		return r
	}
	slices.SortStableFunc(ranked, func(a, b Choice) int {
		if c := cmp.Compare(rank(a), rank(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.Turn, b.Turn)
	})
	return ranked[0].Edge
}

//*******************************************
// internal
//*******************************************

// Choices at vertex without reversals and degenerate edges.
//
// If allow_reversal is set reversals are kept when nothing else remains.
func (self *Navigator) _ContinuationChoices(vertex int32, heading float64, allow_reversal bool) List[Choice] {
	all := self.ListOutgoingChoices(vertex, heading)
	current := self.edge.Undirected()
	choices := NewList[Choice](all.Length())
	reversals := NewList[Choice](1)
	for _, choice := range all {
		if self.graph.IsDegenerate(choice.Edge) {
			continue
		}
		if choice.Edge.Undirected() == current || choice.Turn >= 180-self.options.ReversalEpsilon {
			reversals.Add(choice)
			continue
		}
		choices.Add(choice)
	}
	if choices.Length() == 0 && allow_reversal {
		return reversals
	}
	return choices
}

func (self *Navigator) _EnterEdge(edge structs.Edge, from_end bool, cause EnterCause) {
	length := math.Max(self.graph.GetEdgeLength(edge), graph.DEGENERATE_LENGTH)
	entry := geo.Clamp01((self.options.VertexTolerance + self.options.ExitMargin) / length)

	self.edge = edge
	if from_end {
		self.progress = 1 - entry
	} else {
		self.progress = entry
	}
	self.cooldown = self.options.LeaveJunction
	self.at_junction = false
	self.choices = nil
	self.choice_index = 0

	self.listener.OnEdgeEnter(edge, cause)
	self._UpdatePose()
}

func (self *Navigator) _UpdatePose() {
	a := self.graph.GetNodeGeom(self.edge.NodeA)
	b := self.graph.GetNodeGeom(self.edge.NodeB)
	self.loc = geo.Lerp(a, b, self.progress)
	self.heading = self.graph.GetEdgeBearing(self.edge)
	self.listener.OnPose(self.Pose())
}

func (self *Navigator) _UpdateJunction() {
	self.at_junction = false
	self.choices = nil
	self.choice_index = 0
	if self.cooldown > 0 {
		return
	}

	near, far := self.edge.NodeA, self.edge.NodeB
	if self.progress > 0.5 {
		near, far = far, near
	}
	if geo.Distance(self.loc, self.graph.GetNodeGeom(near)) > self.options.VertexTolerance {
		return
	}
	approach := self.graph.GetEdgeBearing(structs.Edge{NodeA: far, NodeB: near})
	self.at_junction = true
	self.choices = self._ContinuationChoices(near, approach, true)
}

func _ClampSpeed(speed float64, options Options) float64 {
	return math.Max(options.MinAutoSpeed, math.Min(options.MaxAutoSpeed, speed))
}
