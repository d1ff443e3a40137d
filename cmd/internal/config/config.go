// Package config turns seqplay's flag values into configured domain
// objects, adapted from the teacher's
// cmd/internal/config.ReverbFromFlag: a small validating constructor
// per concern instead of a single monolithic options struct.
package config

import (
	"fmt"

	"github.com/halfnote/seq/gate"
	"github.com/halfnote/seq/pattern"
	"github.com/halfnote/seq/timebase"
)

// Playback holds the flags common to seqplay's rhythm sources.
type Playback struct {
	BPM          float64
	BeatsPerBar  int
	SamplesPerSec int
	PreloadMs    int
}

// TimeBaseFromFlags validates and builds the BeatTimeBase the flags
// describe.
func (p Playback) TimeBaseFromFlags() (timebase.BeatTimeBase, error) {
	tb := timebase.BeatTimeBase{
		BeatsPerMin:   p.BPM,
		BeatsPerBar:   uint32(p.BeatsPerBar),
		SamplesPerSec: uint32(p.SamplesPerSec),
	}
	if err := tb.Validate(); err != nil {
		return timebase.BeatTimeBase{}, err
	}
	return tb, nil
}

// PreloadHorizon converts the --preload-ms flag into a sample count.
func (p Playback) PreloadHorizon() timebase.SampleTime {
	return timebase.SampleTime(float64(p.SamplesPerSec) * float64(p.PreloadMs) / 1000.0)
}

// GateFromFlag builds a gate.Gate according to a --gate flag value:
// "always" (the default) or "p=<probability>[,seed=<n>]".
func GateFromFlag(spec string, defaultSeed uint64) (gate.Gate, error) {
	if spec == "" || spec == "always" {
		return gate.NewDefault(), nil
	}

	var prob float64
	seed := defaultSeed
	n, err := fmt.Sscanf(spec, "p=%g,seed=%d", &prob, &seed)
	if err != nil && n < 1 {
		n, err = fmt.Sscanf(spec, "p=%g", &prob)
		if err != nil || n != 1 {
			return nil, fmt.Errorf("unrecognized gate setting %q", spec)
		}
	}
	if prob < 0 || prob > 1 {
		return nil, fmt.Errorf("gate probability %v out of range [0,1]", prob)
	}
	return gate.NewProbability(prob, seed), nil
}

// PatternFromFlag parses a --pattern flag of the form "1011" (hits and
// rests) into a pattern.Pattern. An empty spec means every pulse
// triggers.
func PatternFromFlag(spec string) (pattern.Pattern, error) {
	if spec == "" {
		return pattern.FromBools(true), nil
	}
	bits := make([]bool, 0, len(spec))
	for _, r := range spec {
		switch r {
		case '1':
			bits = append(bits, true)
		case '0':
			bits = append(bits, false)
		default:
			return nil, fmt.Errorf("unrecognized pattern character %q in %q", r, spec)
		}
	}
	return pattern.FromBools(bits...), nil
}
