package main

import (
	"github.com/ttpr0/go-streetwalker/parser"
)

func GetDecoder(typ HighwayProfile) parser.IOSMDecoder {
	var decoder parser.IOSMDecoder
	switch typ {
	case DRIVING:
		decoder = &parser.DrivingDecoder{}
	case WALKING:
		decoder = &parser.WalkingDecoder{}
	}
	return decoder
}
