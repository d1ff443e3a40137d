// Command seqplay drives a rhythm built from a cycle mini-notation
// string and prints its event stream, adapted from cmd/modplay/main.go:
// the same flag-parse/build/run shape, with PortAudio playback replaced
// by a textual readout (§4.9's external driver has no required audio
// sink).
package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/halfnote/seq/cmd/internal/config"
)

var (
	flagBPM         float64
	flagBeatsPerBar int
	flagHz          int
	flagPreloadMs   int
	flagStep        string
	flagPattern     string
	flagGate        string
	flagSeed        uint64
	flagDurationSec float64
	flagNoColor     bool
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("seqplay: ")

	root := &cobra.Command{
		Use:   "seqplay <mini-notation>",
		Short: "Drive a rhythm built from a cycle mini-notation string and print its event stream",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlay,
	}
	f := root.Flags()
	f.Float64Var(&flagBPM, "bpm", 120, "beats per minute")
	f.IntVar(&flagBeatsPerBar, "beats-per-bar", 4, "beats per bar")
	f.IntVar(&flagHz, "hz", 44100, "samples per second")
	f.IntVar(&flagPreloadMs, "preload-ms", 250, "milliseconds of timeline preloaded per batch")
	f.StringVar(&flagStep, "step", "beat:1", "pulse step, one of sixteenth:N, eighth:N, beat:N, bar:N")
	f.StringVar(&flagPattern, "pattern", "", "trigger pattern as 1/0 digits, e.g. 1011 (default: every pulse)")
	f.StringVar(&flagGate, "gate", "always", `gate spec: "always" or "p=<probability>[,seed=<n>]"`)
	f.Uint64Var(&flagSeed, "seed", 1, "RNG seed for the cycle evaluator and probability gate")
	f.Float64Var(&flagDurationSec, "duration", 4, "seconds of timeline to play before exiting; 0 runs until Ctrl-C/Esc")
	f.BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func playbackConfig() config.Playback {
	return config.Playback{
		BPM:           flagBPM,
		BeatsPerBar:   flagBeatsPerBar,
		SamplesPerSec: flagHz,
		PreloadMs:     flagPreloadMs,
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	return play(args[0])
}
