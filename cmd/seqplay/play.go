package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"

	"github.com/halfnote/seq/cmd/internal/config"
	"github.com/halfnote/seq/cycle"
	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/eventiter"
	"github.com/halfnote/seq/player"
	"github.com/halfnote/seq/rhythm"
	"github.com/halfnote/seq/timebase"
)

var (
	cyan   = color.New(color.FgCyan).SprintfFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
)

// play builds a rhythm over a cycle mini-notation source and drives it
// through player.Driver, printing one line per emitted event,
// mirroring cmd/modplay/play.go's streamCallback/renderUI split: one
// side pulls the timeline, the other renders it.
func play(src string) error {
	pb := playbackConfig()
	tb, err := pb.TimeBaseFromFlags()
	if err != nil {
		return err
	}

	step, err := parseStep(flagStep)
	if err != nil {
		return err
	}

	pat, err := config.PatternFromFlag(flagPattern)
	if err != nil {
		return err
	}

	g, err := config.GateFromFlag(flagGate, flagSeed)
	if err != nil {
		return err
	}

	cyc, err := cycle.NewCycle(src, flagSeed)
	if err != nil {
		return fmt.Errorf("parse cycle: %w", err)
	}
	it := eventiter.NewCycle(cyc, 0)

	r := rhythm.NewBeatTimeRhythm(tb, step, pat, g, it)

	var stopped bool
	var mu sync.Mutex
	stopFn := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return stopped
	}
	stop := func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
	}

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)
	go func() {
		<-sigch
		stop()
	}()

	kbDone := make(chan struct{})
	go func() {
		defer close(kbDone)
		keyboard.Listen(func(key keys.Key) (bool, error) {
			if key.Code == keys.CtrlC || key.Code == keys.Escape {
				stop()
				return true, nil
			}
			return false, nil
		})
	}()

	consume := func(idx int, st timebase.SampleTime, ev *event.Event) {
		if ev == nil {
			return
		}
		secs := tb.SamplesToSeconds(st)
		fmt.Printf("%s %s %s\n", cyan("%8.3fs", secs), yellow(fmt.Sprintf("rhythm[%d]", idx)), green(ev.String()))
	}

	d := player.New(player.RhythmSource(r), pb.PreloadHorizon(), consume, stopFn)

	if flagDurationSec > 0 {
		limit := timebase.SampleTime(tb.SecondsToSamples(flagDurationSec))
		d.RunUntil(limit)
		stop()
	} else {
		d.Run()
	}

	// the keyboard listener only returns on a keypress; don't hang
	// waiting for one once playback has already stopped on its own.
	select {
	case <-kbDone:
	case <-time.After(500 * time.Millisecond):
	}
	return nil
}

// parseStep parses a "<kind>:<count>" step spec, e.g. "beat:1" or
// "sixteenth:4".
func parseStep(spec string) (timebase.BeatTimeStep, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return timebase.BeatTimeStep{}, fmt.Errorf("step spec %q must be <kind>:<count>", spec)
	}
	count, err := strconv.ParseFloat(parts[1], 32)
	if err != nil {
		return timebase.BeatTimeStep{}, fmt.Errorf("step count in %q: %w", spec, err)
	}

	var kind timebase.BeatTimeStepKind
	switch parts[0] {
	case "sixteenth":
		kind = timebase.Sixteenth
	case "eighth":
		kind = timebase.Eighth
	case "beat":
		kind = timebase.Beats
	case "bar":
		kind = timebase.Bar
	default:
		return timebase.BeatTimeStep{}, fmt.Errorf("unrecognized step kind %q", parts[0])
	}
	return timebase.BeatTimeStep{Kind: kind, Steps: float32(count)}, nil
}
