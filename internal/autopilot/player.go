// Package autopilot plays the desk without a person: a Player produces input
// frames and RunBatch drives many headless desks at once.
package autopilot

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/input"
	"github.com/zeusync/deskcheck/internal/desk/manipulate"
	"github.com/zeusync/deskcheck/internal/desk/picker"
	"github.com/zeusync/deskcheck/internal/desk/round"
)

type Config struct {
	Seed uint64 `yaml:"seed"`
	// MistakeRate is the chance of pressing the wrong button in a round.
	MistakeRate float64 `yaml:"mistake_rate"`
	// Handle picks the card up, inspects it and puts it back before deciding.
	Handle        bool `yaml:"handle"`
	InspectFrames int  `yaml:"inspect_frames"`

	Sessions    int     `yaml:"sessions"`
	Rounds      int     `yaml:"rounds"`
	Concurrency int     `yaml:"concurrency"`
	FrameDelta  float64 `yaml:"frame_delta"`
	// MaxRoundFrames bounds how long one round may take before the session
	// counts as stalled.
	MaxRoundFrames int `yaml:"max_round_frames"`
}

func DefaultConfig() Config {
	return Config{
		Handle:         true,
		InspectFrames:  20,
		Sessions:       4,
		Rounds:         10,
		FrameDelta:     1.0 / 60,
		MaxRoundFrames: 2000,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.MistakeRate < 0 || c.MistakeRate > 1 {
		errs = append(errs, fmt.Errorf("autopilot: mistake rate must be in [0, 1], got %v", c.MistakeRate))
	}
	if c.InspectFrames < 0 {
		errs = append(errs, errors.New("autopilot: inspect frames must be non-negative"))
	}
	if c.Sessions < 1 || c.Rounds < 1 {
		errs = append(errs, errors.New("autopilot: sessions and rounds must be at least 1"))
	}
	if c.FrameDelta <= 0 {
		errs = append(errs, errors.New("autopilot: frame delta must be positive"))
	}
	if c.MaxRoundFrames < 1 {
		errs = append(errs, errors.New("autopilot: max round frames must be at least 1"))
	}
	return errors.Join(errs...)
}

type sleeper interface {
	Awake() bool
}

// Player implements input.Source. Each round it waits for the card to come to
// rest, optionally handles it, then presses the button its policy picks. It
// reads the card's hidden validity, so a zero mistake rate plays perfectly.
type Player struct {
	cfg     Config
	seq     *round.Sequencer
	machine *manipulate.Machine
	picker  *picker.Picker
	accept  spatial.Vec3
	reject  spatial.Vec3
	rng     *rand.Rand
	script  *input.Script

	planned int
	choice  round.Decision
	wrong   int
}

// NewPlayer aims at the given button centers through the picker's camera.
func NewPlayer(cfg Config, seq *round.Sequencer, m *manipulate.Machine, pk *picker.Picker, accept, reject spatial.Vec3) *Player {
	return &Player{
		cfg:     cfg,
		seq:     seq,
		machine: m,
		picker:  pk,
		accept:  accept,
		reject:  reject,
		rng:     rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x2545f4914f6cdd1d)),
		script:  input.NewScript(),
	}
}

// Wrong is how many decisions the policy deliberately got wrong.
func (p *Player) Wrong() int { return p.wrong }

func (p *Player) Frame() input.Frame {
	if p.script.Pending() == 0 {
		p.plan()
	}
	return p.script.Frame()
}

func (p *Player) plan() {
	if !p.seq.Awaiting() {
		return
	}
	card := p.seq.Current()
	if card != nil && p.machine.State() == manipulate.StateIdle {
		if b, ok := card.Body().(sleeper); ok && b.Awake() {
			return
		}
	}

	if p.planned == p.seq.Round() {
		// The last script ran out without a decision landing.
		p.letGo()
		p.pressChoice()
		return
	}
	p.planned = p.seq.Round()
	p.choice = p.pick(card == nil || card.Valid())

	if p.cfg.Handle && card != nil {
		if at, ok := p.picker.Screen(card.Position()); ok {
			p.handle(at)
		}
	}
	p.pressChoice()
}

func (p *Player) pick(valid bool) round.Decision {
	d := round.Reject
	if valid {
		d = round.Accept
	}
	if p.cfg.MistakeRate > 0 && p.rng.Float64() < p.cfg.MistakeRate {
		p.wrong++
		if d == round.Accept {
			return round.Reject
		}
		return round.Accept
	}
	return d
}

// handle grabs the card, turns it over in inspect, and puts it back where it
// was.
func (p *Player) handle(at spatial.Vec2) {
	p.script.Push(input.Point(at), input.Click(at), input.Toggle(at))
	for i := 0; i < p.cfg.InspectFrames; i++ {
		f := input.Point(at)
		if i%2 == 0 {
			f.YawRight = true
		} else {
			f.PitchUp = true
		}
		p.script.Push(f)
	}
	p.script.Push(
		input.Frame{Pointer: at, Scroll: 1},
		input.Toggle(at),
		input.Point(at), input.Point(at), input.Point(at),
		input.RightClick(at),
	)
}

// letGo leaves inspect and drops whatever is still held.
func (p *Player) letGo() {
	last := p.script.Last()
	switch p.machine.State() {
	case manipulate.StateInspect:
		p.script.Push(input.Toggle(last), input.RightClick(last))
	case manipulate.StateHeld:
		p.script.Push(input.RightClick(last))
	}
}

func (p *Player) pressChoice() {
	target := p.accept
	if p.choice == round.Reject {
		target = p.reject
	}
	at, ok := p.picker.Screen(target)
	if !ok {
		return
	}
	p.script.Push(input.Point(at), input.Click(at))
}
