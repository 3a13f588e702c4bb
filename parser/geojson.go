package parser

import (
	"fmt"

	"github.com/paulmach/orb/geojson"
	. "github.com/ttpr0/go-streetwalker/util"
	"golang.org/x/exp/slog"
)

// Reads a GeoJSON FeatureCollection of street lines.
func ParseGeoJSON(file string) (*geojson.FeatureCollection, error) {
	slog.Info("reading street network", "file", file)
	data, err := ReadBytesFromFile(file)
	if err != nil {
		return nil, err
	}
	fc, err := ParseGeoJSONBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return fc, nil
}

func ParseGeoJSONBytes(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("invalid feature collection: %w", err)
	}
	return fc, nil
}
