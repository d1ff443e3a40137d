package gate

import "github.com/halfnote/seq/pulse"

// Default emits exactly when the pulse is triggered (Value > 0). This
// is the gate every Rhythm uses unless a probability gate is configured.
type Default struct{}

var _ Gate = Default{}

// NewDefault builds a Default gate.
func NewDefault() Default { return Default{} }

func (Default) Run(p pulse.Item) bool { return p.Triggered() }
func (g Default) Duplicate() Gate     { return g }
func (Default) Reset()                {}
