package eventiter

import (
	clone "github.com/huandu/go-clone/generic"

	"github.com/halfnote/seq/cycle"
	"github.com/halfnote/seq/event"
	"github.com/halfnote/seq/pulse"
	"github.com/halfnote/seq/timebase"
)

// Cycle unpacks one channel of an underlying cycle.Cycle into the
// EventIter contract: each Run call consumes the next resolved Event of
// the channel's current iteration, regenerating a fresh iteration via
// Generate() once the channel is exhausted. The Cycle evaluator owns
// its own timing (rational spans); a surrounding Rhythm's Pattern is
// expected to drive one pulse per entry of the same channel so the two
// stay in step (§2, "Cycle ... typically used via a surrounding
// Rhythm that unpacks per-channel streams").
type Cycle struct {
	cyc     *cycle.Cycle
	channel int
	events  cycle.Channel
	index   int
}

var _ EventIter = (*Cycle)(nil)

// NewCycle builds a Cycle event iter over the given channel index of
// cyc.
func NewCycle(cyc *cycle.Cycle, channelIndex int) *Cycle {
	return &Cycle{cyc: cyc, channel: channelIndex}
}

func (c *Cycle) SetTimeBase(timebase.TimeBase)         {}
func (c *Cycle) SetExternalContext(map[string]float64) {}

func (c *Cycle) ensureEvents() error {
	if c.events != nil && c.index < len(c.events) {
		return nil
	}
	chans, err := c.cyc.Generate()
	if err != nil {
		return err
	}
	if c.channel >= len(chans) {
		c.events = nil
		c.index = 0
		return nil
	}
	c.events = chans[c.channel]
	c.index = 0
	return nil
}

func (c *Cycle) Run(_ pulse.Item, _ uint32, emitEvent bool) *event.Event {
	if !emitEvent {
		return nil
	}
	if err := c.ensureEvents(); err != nil {
		return nil
	}
	if c.index >= len(c.events) {
		return nil
	}
	ev := c.events[c.index].Ev
	c.index++
	if ev == nil {
		return nil
	}
	cloned := ev.Clone()
	return &cloned
}

func (c *Cycle) Duplicate() (EventIter, error) {
	return &Cycle{
		cyc:     c.cyc.Duplicate(),
		channel: c.channel,
		events:  clone.Clone(c.events),
		index:   c.index,
	}, nil
}

func (c *Cycle) Reset() {
	c.cyc.Reset()
	c.events = nil
	c.index = 0
}
