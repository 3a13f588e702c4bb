package parser

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/ttpr0/go-streetwalker/geo"
	. "github.com/ttpr0/go-streetwalker/util"
	"golang.org/x/exp/slog"
)

// Converts the highways of an OSM PBF extract into LineString features.
func ParseOSM(ctx context.Context, pbf_file string, decoder IOSMDecoder) (*geojson.FeatureCollection, error) {
	ways := NewList[OSMWay](10000)
	node_coords := NewDict[int64, TempNode](10000)

	file, err := os.Open(pbf_file)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", pbf_file, err)
	}
	defer file.Close()

	scanner := osmpbf.New(ctx, file, runtime.GOMAXPROCS(-1))
	_WayHandler(scanner, decoder, &ways, &node_coords)
	err = scanner.Err()
	scanner.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to scan ways of %s: %w", pbf_file, err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		return nil, err
	}
	scanner = osmpbf.New(ctx, file, runtime.GOMAXPROCS(-1))
	_NodeHandler(scanner, &node_coords)
	err = scanner.Err()
	scanner.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to scan nodes of %s: %w", pbf_file, err)
	}

	slog.Info("parsed osm extract", "ways", ways.Length(), "nodes", node_coords.Length())
	return _CreateFeatures(ways, node_coords), nil
}

//*******************************************
// osm handler methods
//*******************************************

func _WayHandler(scanner *osmpbf.Scanner, decoder IOSMDecoder, ways *List[OSMWay], node_coords *Dict[int64, TempNode]) {
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *osm.Way:
			tags := Dict[string, string](object.Tags.Map())
			if !decoder.IsValidHighway(tags) {
				continue
			}
			node_ids := object.Nodes.NodeIDs()
			if len(node_ids) < 2 {
				continue
			}
			way := OSMWay{
				ID:    int64(object.ID),
				Nodes: NewList[int64](len(node_ids)),
				Props: decoder.DecodeWay(tags),
			}
			for _, id := range node_ids {
				ref := int64(id)
				way.Nodes.Add(ref)
				if !node_coords.ContainsKey(ref) {
					node_coords.Set(ref, TempNode{})
				}
			}
			ways.Add(way)
			if ways.Length()%1000 == 0 {
				slog.Debug(fmt.Sprintf("%v ways", ways.Length()))
			}
		default:
			continue
		}
	}
}

func _NodeHandler(scanner *osmpbf.Scanner, node_coords *Dict[int64, TempNode]) {
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *osm.Node:
			id := int64(object.ID)
			if !node_coords.ContainsKey(id) {
				continue
			}
			node_coords.Set(id, TempNode{
				Point: geo.Coord{object.Lon, object.Lat},
				Found: true,
			})
		default:
			continue
		}
	}
}

// Builds one feature per way, ways with nodes missing from the extract are split there.
func _CreateFeatures(ways List[OSMWay], node_coords Dict[int64, TempNode]) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, way := range ways {
		lines := orb.MultiLineString{}
		curr := orb.LineString{}
		for _, ref := range way.Nodes {
			node := node_coords.Get(ref)
			if !node.Found {
				if len(curr) >= 2 {
					lines = append(lines, curr)
				}
				curr = orb.LineString{}
				continue
			}
			curr = append(curr, node.Point.Point())
		}
		if len(curr) >= 2 {
			lines = append(lines, curr)
		}

		var feature *geojson.Feature
		switch len(lines) {
		case 0:
			continue
		case 1:
			feature = geojson.NewFeature(lines[0])
		default:
			feature = geojson.NewFeature(lines)
		}
		feature.ID = way.ID
		for key, value := range way.Props {
			feature.Properties[key] = value
		}
		feature.Properties["osm_id"] = way.ID
		fc.Append(feature)
	}
	return fc
}
