package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-streetwalker/algorithm"
	"github.com/ttpr0/go-streetwalker/graph"
	"github.com/ttpr0/go-streetwalker/parser"
)

var ErrNoSource = errors.New("no geojson or osm source configured")

// Reads the configured source and builds the street graph.
//
// A geojson source takes precedence over an osm extract.
func LoadGraph(ctx context.Context, config Config) (*graph.Graph, error) {
	start := time.Now()
	var fc *geojson.FeatureCollection
	var err error
	switch {
	case config.Source.GeoJSON != "":
		slog.Info("reading geojson", "file", config.Source.GeoJSON)
		fc, err = parser.ParseGeoJSON(config.Source.GeoJSON)
	case config.Source.OSM != "":
		slog.Info("reading osm extract", "file", config.Source.OSM, "profile", config.Source.Profile.String())
		fc, err = parser.ParseOSM(ctx, config.Source.OSM, GetDecoder(config.Source.Profile))
	default:
		return nil, ErrNoSource
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load street network: %w", err)
	}

	g := graph.BuildGraph(fc, config.Graph.Precision)
	if g.SkippedFeatures() > 0 {
		slog.Warn("skipped unsupported features", "count", g.SkippedFeatures())
	}
	if config.Graph.LargestComponent {
		g = algorithm.KeepLargestComponent(g)
	}
	slog.Info("graph loaded", "nodes", g.NodeCount(), "segments", g.EdgeCount(), "took", time.Since(start).String())
	return g, nil
}
