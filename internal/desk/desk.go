// Package desk composes the picker, the manipulation machine, the decision
// buttons and the round sequencer into one tick-driven system.
package desk

import (
	"errors"

	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/core/systems"
	"github.com/zeusync/deskcheck/internal/desk/button"
	"github.com/zeusync/deskcheck/internal/desk/input"
	"github.com/zeusync/deskcheck/internal/desk/look"
	"github.com/zeusync/deskcheck/internal/desk/manipulate"
	"github.com/zeusync/deskcheck/internal/desk/picker"
	"github.com/zeusync/deskcheck/internal/desk/round"
)

var _ systems.System = (*Desk)(nil)

// Desk routes one input frame per variable tick: a primary press over a
// button decides, over an object grabs it, and everything else goes to the
// manipulation machine while it holds something.
type Desk struct {
	src     input.Source
	picker  *picker.Picker
	machine *manipulate.Machine
	seq     *round.Sequencer
	buttons []*button.Button
	look    *look.Controller
	audio   round.Audio
	log     log.Log

	frame input.Frame
}

type Option func(*Desk)

func WithButtons(b ...*button.Button) Option {
	return func(d *Desk) { d.buttons = append(d.buttons, b...) }
}

func WithLook(c *look.Controller) Option { return func(d *Desk) { d.look = c } }

// WithAudio sets the cue played when a press is accepted.
func WithAudio(a round.Audio) Option { return func(d *Desk) { d.audio = a } }

func WithLogger(l log.Log) Option { return func(d *Desk) { d.log = l } }

func New(src input.Source, pk *picker.Picker, m *manipulate.Machine, seq *round.Sequencer, opts ...Option) *Desk {
	d := &Desk{src: src, picker: pk, machine: m, seq: seq}
	for _, opt := range opts {
		opt(d)
	}
	d.log = log.OrNop(d.log).Named("desk")
	return d
}

func (d *Desk) Name() string               { return "desk" }
func (d *Desk) Priority() systems.Priority { return systems.PriorityHigh }

func (d *Desk) Machine() *manipulate.Machine { return d.machine }
func (d *Desk) Sequencer() *round.Sequencer  { return d.seq }
func (d *Desk) Picker() *picker.Picker       { return d.picker }
func (d *Desk) Buttons() []*button.Button    { return d.buttons }

// Frame is the input frame consumed by the last Update.
func (d *Desk) Frame() input.Frame { return d.frame }

// Start begins the first round.
func (d *Desk) Start() { d.seq.Start() }

func (d *Desk) Update(dt float64) error {
	f := d.src.Frame()
	d.frame = f
	for _, b := range d.buttons {
		b.Update(dt)
	}
	if d.look != nil {
		d.look.Update(f, d.machine.State() != manipulate.StateIdle)
	}

	if d.machine.State() != manipulate.StateIdle {
		d.machine.Update(dt, f)
		return nil
	}

	res := d.picker.Pick(f.Pointer)
	if !f.Primary.Pressed {
		return nil
	}
	switch {
	case res.Button != nil:
		d.press(res.Button)
	case res.Object != nil:
		// The picker would otherwise keep a stale hover on the held object.
		d.picker.ClearHover()
		if err := d.machine.Grab(res.Object); err != nil {
			d.log.Debug("grab refused", log.String("object", res.Object.Name()), log.Error(err))
		}
	}
	return nil
}

// press plays the button animation and forwards its polarity. The
// sequencer refuses decisions outside AwaitingDecision.
func (d *Desk) press(b *button.Button) {
	if err := b.Press(); err != nil {
		d.log.Debug("press refused", log.Stringer("polarity", b.Polarity()), log.Error(err))
		return
	}
	if d.audio != nil {
		d.audio.ButtonClick()
	}
	err := d.seq.Decide(b.Polarity())
	switch {
	case err == nil:
	case errors.Is(err, round.ErrNotAwaiting), errors.Is(err, round.ErrNotStarted):
		d.log.Debug("decision ignored", log.Stringer("polarity", b.Polarity()), log.Error(err))
	default:
		d.log.Warn("decision failed", log.Stringer("polarity", b.Polarity()), log.Error(err))
	}
}

func (d *Desk) FixedUpdate(dt float64) error {
	d.machine.FixedUpdate(dt)
	return nil
}
