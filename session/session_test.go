package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/ttpr0/go-streetwalker/geo"
	"github.com/ttpr0/go-streetwalker/graph"
	"github.com/ttpr0/go-streetwalker/navigator"
	"github.com/ttpr0/go-streetwalker/structs"
	. "github.com/ttpr0/go-streetwalker/util"
)

//*******************************************
// helpers
//*******************************************

var (
	_C = geo.Coord{0, 0}
	_N = geo.Coord{0, 0.001}
	_E = geo.Coord{0.001, 0}
	_W = geo.Coord{-0.001, 0}
	_S = geo.Coord{0, -0.003}
)

func _PlusGraph() *graph.Graph {
	fc := geojson.NewFeatureCollection()
	for _, line := range []geo.CoordArray{{_S, _C}, {_C, _E}, {_C, _W}, {_C, _N}} {
		fc.Append(geojson.NewFeature(line.LineString()))
	}
	return graph.BuildGraph(fc, 6)
}

type _Observer struct {
	mu       sync.Mutex
	commands List[Command]
	ticks    int
}

func (self *_Observer) OnCommand(cmd Command, err error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.commands.Add(cmd)
}
func (self *_Observer) OnTick(dt time.Duration) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.ticks += 1
}
func (self *_Observer) OnEdgeEnter(edge structs.Edge, cause navigator.EnterCause) {}
func (self *_Observer) OnDeadEnd(node int32)                                      {}

func (self *_Observer) Ticks() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.ticks
}

// Starts a session on the plus graph, the walker is 5 m before the center if at_junction is set.
func _StartSession(t *testing.T, at_junction bool, observer IObserver) (*Session, *graph.Graph, func()) {
	t.Helper()
	g := _PlusGraph()
	nav, err := navigator.New(g, navigator.DefaultOptions(), None[geo.Coord]())
	if err != nil {
		t.Fatalf("navigator.New() failed: %v", err)
	}
	if at_junction {
		nav.Advance(g.GetEdgeLength(nav.Edge())*0.9 - 5)
	}
	options := DefaultOptions()
	options.TickInterval = 5 * time.Millisecond
	session := NewSession(nav, options, observer)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		session.Run(ctx)
		close(stopped)
	}()
	return session, g, func() {
		cancel()
		<-stopped
	}
}

func _Context(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

//*******************************************
// tests
//*******************************************

func TestCommandFromString(t *testing.T) {
	cases := map[string]Command{
		"forward":    FORWARD,
		"ArrowUp":    FORWARD,
		"back":       BACK,
		"left":       LEFT,
		"ArrowRight": RIGHT,
		"enter":      CONFIRM,
		" auto ":     AUTO,
		"Escape":     STOP,
		"+":          FASTER,
		"slower":     SLOWER,
		"start":      TICKER_START,
		"pause":      TICKER_PAUSE,
	}
	for name, want := range cases {
		got, err := CommandFromString(name)
		if err != nil || got != want {
			t.Errorf("CommandFromString(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := CommandFromString("jump"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("CommandFromString(jump) error = %v; want ErrUnknownCommand", err)
	}

	var cmd Command
	if err := cmd.UnmarshalJSON([]byte(`"right"`)); err != nil || cmd != RIGHT {
		t.Errorf("UnmarshalJSON = %v, %v; want right", cmd, err)
	}
}

func TestSessionManualCommands(t *testing.T) {
	observer := &_Observer{}
	session, g, stop := _StartSession(t, false, observer)
	defer stop()
	ctx := _Context(t)

	before, err := session.Status(ctx)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	status, err := session.Do(ctx, FORWARD)
	if err != nil {
		t.Fatalf("Do(forward) failed: %v", err)
	}
	step := 6 / g.GetEdgeLength(status.Pose.Edge)
	if diff := status.Pose.Progress - before.Pose.Progress; diff < step-1e-9 || diff > step+1e-9 {
		t.Errorf("forward moved %v; want %v", diff, step)
	}

	// left moves back when there is nothing to choose
	status, _ = session.Do(ctx, LEFT)
	if diff := status.Pose.Progress - before.Pose.Progress; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("left should move back to %v, got %v", before.Pose.Progress, status.Pose.Progress)
	}

	status, _ = session.Do(ctx, FASTER)
	if status.Speed != 9 {
		t.Errorf("speed after faster = %v; want 9", status.Speed)
	}
	status, _ = session.AdjustSpeed(ctx, -100)
	if status.Speed != 1 {
		t.Errorf("speed after AdjustSpeed(-100) = %v; want 1", status.Speed)
	}

	observer.mu.Lock()
	count := observer.commands.Length()
	observer.mu.Unlock()
	if count != 3 {
		t.Errorf("observed %v commands; want 3", count)
	}
}

func TestSessionJunctionCommands(t *testing.T) {
	session, g, stop := _StartSession(t, true, nil)
	defer stop()
	ctx := _Context(t)

	choices, err := session.Choices(ctx)
	if err != nil || choices.Length() != 3 {
		t.Fatalf("Choices() = %v, %v; want 3 choices", choices, err)
	}
	status, _ := session.Do(ctx, RIGHT)
	if status.ChoiceIndex != 1 || status.State != navigator.AT_JUNCTION {
		t.Errorf("right at junction: index %v state %v; want 1 at-junction", status.ChoiceIndex, status.State)
	}
	session.Do(ctx, LEFT)
	status, _ = session.Do(ctx, LEFT)
	if status.ChoiceIndex != 2 {
		t.Errorf("choice index = %v; want 2", status.ChoiceIndex)
	}

	snapshot, snapshot_choices, err := session.Snapshot(ctx)
	if err != nil || snapshot.Choices != snapshot_choices.Length() || snapshot.ChoiceIndex != 2 {
		t.Errorf("Snapshot() = %+v, %v, %v; want index 2 of 3 choices", snapshot, snapshot_choices, err)
	}

	status, _ = session.Do(ctx, FORWARD)
	west, _ := g.GetNodeID(_W)
	if status.Pose.Edge != choices[2].Edge || status.Pose.Edge.NodeB != west {
		t.Errorf("forward at junction entered %v; want %v", status.Pose.Edge, choices[2].Edge)
	}
}

func TestSessionTickerIdempotent(t *testing.T) {
	session, _, stop := _StartSession(t, false, nil)
	defer stop()
	ctx := _Context(t)

	for i := 0; i < 2; i++ {
		if _, err := session.Do(ctx, TICKER_PAUSE); err != nil {
			t.Fatalf("pause %v failed: %v", i, err)
		}
	}
	if ticking, _ := session.IsTicking(ctx); ticking {
		t.Errorf("ticker should be paused")
	}
	for i := 0; i < 2; i++ {
		session.Do(ctx, TICKER_START)
	}
	if ticking, _ := session.IsTicking(ctx); !ticking {
		t.Errorf("ticker should be running")
	}
}

func TestSessionAutoTicks(t *testing.T) {
	observer := &_Observer{}
	session, _, stop := _StartSession(t, false, observer)
	defer stop()
	ctx := _Context(t)

	start, _ := session.Status(ctx)
	time.Sleep(30 * time.Millisecond)
	if observer.Ticks() != 0 {
		t.Errorf("ticks delivered in manual mode")
	}

	status, err := session.Do(ctx, AUTO)
	if err != nil || status.Mode != navigator.AUTO {
		t.Fatalf("Do(auto) = %v, %v", status.Mode, err)
	}
	moved := false
	for i := 0; i < 200 && !moved; i++ {
		time.Sleep(5 * time.Millisecond)
		status, _ = session.Status(ctx)
		moved = status.Pose.Progress > start.Pose.Progress
	}
	if !moved {
		t.Fatalf("walker did not move in auto mode")
	}

	// paused ticker freezes the walker
	session.Do(ctx, TICKER_PAUSE)
	paused, _ := session.Status(ctx)
	time.Sleep(30 * time.Millisecond)
	after, _ := session.Status(ctx)
	if after.Pose != paused.Pose {
		t.Errorf("walker moved while the ticker was paused")
	}

	status, _ = session.Do(ctx, STOP)
	if status.Mode != navigator.MANUAL {
		t.Errorf("stop should turn auto off")
	}
}

func TestSessionPoseStream(t *testing.T) {
	session, _, stop := _StartSession(t, false, nil)
	defer stop()
	ctx := _Context(t)

	id, poses := session.Subscribe()
	if session.SubscriberCount() != 1 {
		t.Errorf("SubscriberCount() = %v; want 1", session.SubscriberCount())
	}
	status, _ := session.Do(ctx, FORWARD)
	select {
	case pose := <-poses:
		if pose != status.Pose {
			t.Errorf("streamed pose %v; want %v", pose, status.Pose)
		}
	case <-time.After(time.Second):
		t.Fatalf("no pose received")
	}

	session.Unsubscribe(id)
	session.Unsubscribe(id)
	if _, ok := <-poses; ok {
		t.Errorf("channel should be closed after unsubscribing")
	}
}

func TestSessionClosed(t *testing.T) {
	session, _, stop := _StartSession(t, false, nil)
	stop()
	if _, err := session.Do(_Context(t), FORWARD); !errors.Is(err, ErrClosed) {
		t.Errorf("Do() after stop error = %v; want ErrClosed", err)
	}
}
