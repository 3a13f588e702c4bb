package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttpr0/go-streetwalker/geo"
	"github.com/ttpr0/go-streetwalker/graph"
)

func _TestGraph() *graph.Graph {
	c := geo.Coord{0, 0}
	lines := []geo.CoordArray{
		{{0, -0.003}, c},
		{c, {0.001, 0}},
		{c, {-0.001, 0}},
		{c, {0, 0.001}},
	}
	fc := geojson.NewFeatureCollection()
	for _, line := range lines {
		fc.Append(geojson.NewFeature(line.LineString()))
	}
	return graph.BuildGraph(fc, 6)
}

// Starts the handlers, with a running session if g is given.
func _TestServer(t *testing.T, g *graph.Graph, config Config) (*httptest.Server, *WalkManager) {
	t.Helper()
	metrics := NewMetrics()
	manager := NewWalkManager(config, metrics)
	app := http.NewServeMux()
	MapWalkRoutes(app, manager, metrics)
	server := httptest.NewServer(app)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	if g != nil {
		go func() {
			manager.RunWith(ctx, g)
			close(done)
		}()
		select {
		case <-manager.Ready():
		case <-time.After(2 * time.Second):
			t.Fatalf("manager did not become ready")
		}
	} else {
		close(done)
	}
	t.Cleanup(func() {
		server.Close()
		cancel()
		<-done
	})
	return server, manager
}

func _Get(t *testing.T, server *httptest.Server, path string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func _Post(t *testing.T, server *httptest.Server, path string, req any) (int, []byte) {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	resp, err := http.Post(server.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

type _Status struct {
	Ready   bool   `json:"ready"`
	Ticking bool   `json:"ticking"`
	Hud     string `json:"hud"`
	Status  struct {
		Mode        string  `json:"mode"`
		State       string  `json:"state"`
		Choices     int     `json:"choices"`
		ChoiceIndex int     `json:"choice_index"`
		Speed       float64 `json:"speed"`
		Progress    float64 `json:"progress"`
	} `json:"status"`
}

func _DecodeStatus(t *testing.T, body []byte) _Status {
	t.Helper()
	var status _Status
	require.NoError(t, json.Unmarshal(body, &status))
	return status
}

func TestHandlersNotReady(t *testing.T) {
	server, _ := _TestServer(t, nil, DefaultConfig())

	code, body := _Get(t, server, "/v0/walk/status")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "/v0/walk/status", resp.Request)
	assert.Contains(t, resp.Error, "not loaded")

	code, _ = _Post(t, server, "/v0/walk/command", CommandRequest{Command: "forward"})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	code, _ = _Get(t, server, "/v0/graph/info")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestStatusAndCommands(t *testing.T) {
	server, _ := _TestServer(t, _TestGraph(), DefaultConfig())

	code, body := _Get(t, server, "/v0/walk/status")
	require.Equal(t, http.StatusOK, code)
	status := _DecodeStatus(t, body)
	assert.True(t, status.Ready)
	assert.True(t, status.Ticking)
	assert.Equal(t, "manual", status.Status.Mode)
	assert.Equal(t, "on-edge", status.Status.State)
	assert.InDelta(t, 10, status.Status.Progress, 1e-9)
	assert.Contains(t, status.Hud, "Auto: OFF")

	code, body = _Post(t, server, "/v0/walk/command", CommandRequest{Command: "forward"})
	require.Equal(t, http.StatusOK, code)
	assert.Greater(t, _DecodeStatus(t, body).Status.Progress, 10.0)

	code, _ = _Post(t, server, "/v0/walk/command", CommandRequest{Command: "jump"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = _Post(t, server, "/v0/walk/speed", SpeedRequest{Delta: 100})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 20.0, _DecodeStatus(t, body).Status.Speed)

	code, body = _Post(t, server, "/v0/walk/ticker", TickerRequest{Running: false})
	require.Equal(t, http.StatusOK, code)
	assert.False(t, _DecodeStatus(t, body).Ticking)

	code, body = _Post(t, server, "/v0/walk/command", CommandRequest{Command: "auto"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "auto", _DecodeStatus(t, body).Status.Mode)

	code, _ = _Get(t, server, "/v0/walk/command")
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestChoicesAndGraphInfo(t *testing.T) {
	config := DefaultConfig()
	lon, lat := 0.0, -0.00005
	config.Start = StartOptions{Lon: &lon, Lat: &lat}
	server, _ := _TestServer(t, _TestGraph(), config)

	code, body := _Get(t, server, "/v0/walk/choices")
	require.Equal(t, http.StatusOK, code)
	fc, err := geojson.UnmarshalFeatureCollection(body)
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)
	assert.Equal(t, true, fc.Features[0].Properties["selected"])
	assert.InDelta(t, 0, fc.Features[0].Properties["turn"], 1e-9)

	code, body = _Get(t, server, "/v0/graph/info")
	require.Equal(t, http.StatusOK, code)
	var info GraphInfoResponse
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, 6, info.Precision)
	assert.Equal(t, 1, info.Components)
	assert.Equal(t, 5, info.Stats.Nodes)
	assert.Equal(t, 4, info.Stats.Segments)
	assert.Equal(t, 4, info.Stats.DeadEnds)
	assert.Equal(t, 1, info.Stats.Junctions)
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := _TestServer(t, _TestGraph(), DefaultConfig())

	code, _ := _Post(t, server, "/v0/walk/command", CommandRequest{Command: "forward"})
	require.Equal(t, http.StatusOK, code)

	code, body := _Get(t, server, "/metrics")
	require.Equal(t, http.StatusOK, code)
	text := string(body)
	assert.True(t, strings.Contains(text, `streetwalker_commands_total{command="forward",result="ok"} 1`), text)
	assert.Contains(t, text, "streetwalker_ready 1")
	assert.Contains(t, text, "streetwalker_graph_segments 4")
}

func TestManagerLoadFailure(t *testing.T) {
	config := DefaultConfig()
	config.Source.GeoJSON = t.TempDir() + "/missing.geojson"
	manager := NewWalkManager(config, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- manager.Run(ctx)
	}()
	require.Eventually(t, func() bool {
		return manager.LoadError() != nil
	}, 2*time.Second, 5*time.Millisecond)
	assert.False(t, manager.GetSession().HasValue())

	cancel()
	assert.NoError(t, <-done)
}
