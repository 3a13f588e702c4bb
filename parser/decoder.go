package parser

import (
	. "github.com/ttpr0/go-streetwalker/util"
)

//*******************************************
// osm decoder
//*******************************************

type IOSMDecoder interface {
	IsValidHighway(tags Dict[string, string]) bool
	DecodeWay(tags Dict[string, string]) Dict[string, any]
}

type DrivingDecoder struct {
}

var driving_types = Dict[string, bool]{"motorway": true, "motorway_link": true, "trunk": true, "trunk_link": true,
	"primary": true, "primary_link": true, "secondary": true, "secondary_link": true, "tertiary": true, "tertiary_link": true,
	"residential": true, "living_street": true, "service": true, "track": true, "unclassified": true, "road": true}

func (self *DrivingDecoder) IsValidHighway(tags Dict[string, string]) bool {
	if !tags.ContainsKey("highway") {
		return false
	}
	if !driving_types.ContainsKey(tags.Get("highway")) {
		return false
	}
	return true
}
func (self *DrivingDecoder) DecodeWay(tags Dict[string, string]) Dict[string, any] {
	return _DecodeCommon(tags)
}

type WalkingDecoder struct {
}

var walking_types = Dict[string, bool]{"primary": true, "primary_link": true, "secondary": true, "secondary_link": true,
	"tertiary": true, "tertiary_link": true, "residential": true, "living_street": true, "service": true, "track": true,
	"unclassified": true, "road": true, "pedestrian": true, "footway": true, "path": true, "steps": true, "cycleway": true}

func (self *WalkingDecoder) IsValidHighway(tags Dict[string, string]) bool {
	if !tags.ContainsKey("highway") {
		return false
	}
	if !walking_types.ContainsKey(tags.Get("highway")) {
		return false
	}
	if tags.Get("foot") == "no" || tags.Get("access") == "private" {
		return false
	}
	return true
}
func (self *WalkingDecoder) DecodeWay(tags Dict[string, string]) Dict[string, any] {
	return _DecodeCommon(tags)
}

func _DecodeCommon(tags Dict[string, string]) Dict[string, any] {
	props := NewDict[string, any](2)
	props["highway"] = tags.Get("highway")
	if tags.ContainsKey("name") {
		props["name"] = tags.Get("name")
	}
	return props
}
