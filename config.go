package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"

	"github.com/ttpr0/go-streetwalker/geo"
	"github.com/ttpr0/go-streetwalker/graph"
	"github.com/ttpr0/go-streetwalker/navigator"
	"github.com/ttpr0/go-streetwalker/session"
	. "github.com/ttpr0/go-streetwalker/util"
)

//**********************************************************
// config
//**********************************************************

// Reads the yaml config and applies WALKER_* environment overrides.
//
// A missing file yields the defaults, a .env file next to the binary is loaded if present.
func ReadConfig(file string) (Config, error) {
	config := DefaultConfig()
	if file != "" {
		slog.Info("Reading config file " + file)
		data, err := ReadBytesFromFile(file)
		switch {
		case errors.Is(err, ErrFileNotFound):
			slog.Warn("config file not found, using defaults", "file", file)
		case err != nil:
			return config, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return config, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "err", err)
	}
	if err := config.ApplyEnv(os.Getenv); err != nil {
		return config, err
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

type Config struct {
	Source    SourceOptions     `yaml:"source"`
	Graph     GraphOptions      `yaml:"graph"`
	Start     StartOptions      `yaml:"start"`
	Navigator navigator.Options `yaml:"navigator"`
	Session   session.Options   `yaml:"session"`
	Server    ServerOptions     `yaml:"server"`
	Log       LogOptions        `yaml:"log"`
}

func DefaultConfig() Config {
	return Config{
		Source: SourceOptions{
			Profile: WALKING,
		},
		Graph: GraphOptions{
			Precision: 6,
		},
		Navigator: navigator.DefaultOptions(),
		Session:   session.DefaultOptions(),
		Server: ServerOptions{
			Addr: ":5002",
		},
		Log: LogOptions{
			Level: "info",
		},
	}
}

func (self Config) Validate() error {
	if self.Graph.Precision < 0 || self.Graph.Precision > graph.MAX_PRECISION {
		return fmt.Errorf("graph precision %v outside [0, %v]", self.Graph.Precision, graph.MAX_PRECISION)
	}
	if err := self.Navigator.Validate(); err != nil {
		return err
	}
	if self.Session.TickInterval < 0 {
		return fmt.Errorf("session tick-interval %v is negative", self.Session.TickInterval)
	}
	if self.Server.Addr == "" {
		return errors.New("server addr is empty")
	}
	return nil
}

type SourceOptions struct {
	GeoJSON string         `yaml:"geojson"`
	OSM     string         `yaml:"osm"`
	Profile HighwayProfile `yaml:"profile"`
}

type GraphOptions struct {
	// Decimal digits used to merge endpoints.
	Precision int `yaml:"precision"`
	// Drop everything not connected to the largest component.
	LargestComponent bool `yaml:"largest-component"`
}

type StartOptions struct {
	Lon *float64 `yaml:"lon"`
	Lat *float64 `yaml:"lat"`
}

func (self StartOptions) Coord() Optional[geo.Coord] {
	if self.Lon == nil || self.Lat == nil {
		return None[geo.Coord]()
	}
	return Some(geo.Coord{*self.Lon, *self.Lat})
}

type ServerOptions struct {
	Addr string `yaml:"addr"`
}

type LogOptions struct {
	Level string `yaml:"level"`
}

//**********************************************************
// environment
//**********************************************************

// Overrides config values from the environment, lookup is os.Getenv in production.
func (self *Config) ApplyEnv(lookup func(string) string) error {
	if value := lookup("WALKER_GEOJSON"); value != "" {
		self.Source.GeoJSON = value
	}
	if value := lookup("WALKER_OSM"); value != "" {
		self.Source.OSM = value
	}
	if value := lookup("WALKER_PROFILE"); value != "" {
		profile, err := HighwayProfileFromString(value)
		if err != nil {
			return fmt.Errorf("WALKER_PROFILE: %w", err)
		}
		self.Source.Profile = profile
	}
	if value := lookup("WALKER_PRECISION"); value != "" {
		precision, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("WALKER_PRECISION: %w", err)
		}
		self.Graph.Precision = precision
	}
	if value := lookup("WALKER_START"); value != "" {
		tokens := strings.Split(value, ",")
		if len(tokens) != 2 {
			return errors.New("WALKER_START: expected lon,lat")
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(tokens[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(tokens[1]), 64)
		if err := errors.Join(err1, err2); err != nil {
			return fmt.Errorf("WALKER_START: %w", err)
		}
		self.Start = StartOptions{Lon: &lon, Lat: &lat}
	}
	if value := lookup("WALKER_ADDR"); value != "" {
		self.Server.Addr = value
	}
	if value := lookup("WALKER_LOG_LEVEL"); value != "" {
		self.Log.Level = value
	}
	return nil
}

//**********************************************************
// enums
//**********************************************************

// Which highways of an OSM extract become streets.
type HighwayProfile byte

const (
	WALKING HighwayProfile = 0
	DRIVING HighwayProfile = 1
)

func (self HighwayProfile) String() string {
	switch self {
	case WALKING:
		return "walking"
	case DRIVING:
		return "driving"
	default:
		panic("unknown highway profile")
	}
}
func (self HighwayProfile) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *HighwayProfile) UnmarshalJSON(data []byte) error {
	var typ string
	if err := json.Unmarshal(data, &typ); err != nil {
		return err
	}
	profile, err := HighwayProfileFromString(typ)
	*self = profile
	return err
}
func (self HighwayProfile) MarshalYAML() (any, error) {
	return self.String(), nil
}
func (self *HighwayProfile) UnmarshalYAML(value *yaml.Node) error {
	profile, err := HighwayProfileFromString(value.Value)
	if err != nil {
		return err
	}
	*self = profile
	return nil
}

func HighwayProfileFromString(s string) (HighwayProfile, error) {
	switch s {
	case "walking":
		return WALKING, nil
	case "driving":
		return DRIVING, nil
	default:
		return WALKING, errors.New("unknown highway profile")
	}
}
