// Package round drives the decision game loop: an entry presentation, a
// spawned trial object, one decision, and a resolution presentation.
package round

import (
	"errors"
	"time"

	"github.com/zeusync/deskcheck/internal/core/events/bus"
	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/object"
)

var (
	ErrNotStarted  = errors.New("round sequencer not started")
	ErrNotAwaiting = errors.New("round is not awaiting a decision")
)

// Sequencer is the round state machine. It is single-threaded: every call,
// including bus deliveries of presentation events, must come from the tick
// goroutine.
type Sequencer struct {
	cfg    Config
	events bus.EventBus
	log    log.Log
	source string

	entry, success, fail Presentation
	visibility           Visibility
	audio                Audio
	score                ScoreDisplay
	spawner              Spawner
	recorder             Recorder
	release              func(*object.Object)

	started bool
	phase   Phase
	gen     uint64
	waiting bus.Subscription

	round   int
	tally   Tally
	current *object.Object
	valid   bool
}

type Option func(*Sequencer)

// WithPresentations sets the entry, success and fail timelines. Any may be nil,
// in which case its phase completes immediately.
func WithPresentations(entry, success, fail Presentation) Option {
	return func(s *Sequencer) { s.entry, s.success, s.fail = entry, success, fail }
}

func WithVisibility(v Visibility) Option { return func(s *Sequencer) { s.visibility = v } }
func WithAudio(a Audio) Option           { return func(s *Sequencer) { s.audio = a } }
func WithScore(d ScoreDisplay) Option    { return func(s *Sequencer) { s.score = d } }
func WithSpawner(sp Spawner) Option      { return func(s *Sequencer) { s.spawner = sp } }
func WithRecorder(r Recorder) Option     { return func(s *Sequencer) { s.recorder = r } }
func WithLogger(l log.Log) Option        { return func(s *Sequencer) { s.log = l } }

// WithReleaser is called with the previous trial object before it is
// recycled, so a holder can let go of it first.
func WithReleaser(fn func(*object.Object)) Option {
	return func(s *Sequencer) { s.release = fn }
}

// WithSource names the sequencer in published events.
func WithSource(id string) Option { return func(s *Sequencer) { s.source = id } }

func NewSequencer(cfg Config, events bus.EventBus, opts ...Option) *Sequencer {
	if events == nil {
		events = bus.New()
	}
	s := &Sequencer{cfg: cfg, events: events, source: "round", valid: true}
	for _, opt := range opts {
		opt(s)
	}
	s.log = log.OrNop(s.log).Named("round")
	return s
}

func (s *Sequencer) Phase() Phase            { return s.phase }
func (s *Sequencer) Tally() Tally            { return s.tally }
func (s *Sequencer) Round() int              { return s.round }
func (s *Sequencer) Current() *object.Object { return s.current }
func (s *Sequencer) Awaiting() bool          { return s.phase == PhaseAwaitingDecision }
func (s *Sequencer) Events() bus.EventBus    { return s.events }
func (s *Sequencer) Config() Config          { return s.cfg }
func (s *Sequencer) Started() bool           { return s.started }

// Start shows the initial score and begins the first round. Starting twice
// is a no-op.
func (s *Sequencer) Start() {
	if s.started {
		return
	}
	s.started = true
	s.showScore()
	s.beginRound()
}

// Stop abandons the current phase and halts all presentations. The current
// object stays on the desk.
func (s *Sequencer) Stop() {
	if !s.started {
		return
	}
	s.leavePhase()
	s.setPhase(PhaseIdle)
	s.stopAll()
	s.started = false
}

// Decide consumes the single decision of the current round.
func (s *Sequencer) Decide(d Decision) error {
	if !s.started {
		return ErrNotStarted
	}
	if s.phase != PhaseAwaitingDecision {
		return ErrNotAwaiting
	}

	correct := Judge(d, s.valid)
	next, pres, group := s.resolution(d, correct)
	// consume before any collaborator runs, so a re-entrant call is refused
	s.setPhase(next)

	s.tally = s.tally.Score(correct)
	s.showScore()

	out := Outcome{
		Round:    s.round,
		Decision: d,
		Valid:    s.valid,
		Correct:  correct,
		Tally:    s.tally,
		At:       time.Now(),
	}
	if s.current != nil {
		out.ObjectID = s.current.ID()
	}
	s.log.Info("decision",
		log.Int("round", s.round),
		log.Stringer("decision", d),
		log.Bool("valid", s.valid),
		log.Bool("correct", correct),
		log.Int("correct_total", s.tally.Correct),
		log.Int("mistakes_total", s.tally.Mistakes),
	)
	if s.recorder != nil {
		if err := s.recorder.Record(out); err != nil {
			s.log.Warn("record decision failed", log.Error(err))
		}
	}
	s.publish(EventDecided, out)

	if next == PhaseResolvingFail && s.audio != nil {
		s.audio.FailSting()
	}
	s.leavePhase()
	s.showGroup(group)
	s.stopAll()
	s.enter(next, pres, s.beginRound)
	return nil
}

func (s *Sequencer) resolution(d Decision, correct bool) (Phase, Presentation, Group) {
	success := correct
	if s.cfg.Route == RoutePolarity {
		success = d == Accept
	}
	if success {
		return PhaseResolvingSuccess, s.success, GroupSuccess
	}
	return PhaseResolvingFail, s.fail, GroupFail
}

func (s *Sequencer) beginRound() {
	s.leavePhase()
	s.clearDesk()
	s.round++
	s.log.Debug("round start", log.Int("round", s.round))
	if s.audio != nil {
		s.audio.MachineStart()
	}
	s.showGroup(GroupEntry)
	s.stopAll()
	s.enter(PhaseEntry, s.entry, s.entryDone)
}

func (s *Sequencer) entryDone() {
	s.leavePhase()
	s.spawn()
	s.setPhase(PhaseAwaitingDecision)
}

// enter switches to phase and waits for pres to report it stopped. Only a
// stopped event from pres that arrives while this exact phase instance is
// current completes it.
func (s *Sequencer) enter(phase Phase, pres Presentation, done func()) {
	s.setPhase(phase)
	if pres == nil {
		done()
		return
	}
	gen := s.gen
	id := pres.ID()
	sub, err := s.events.SubscribeTopic(TopicPresentation, EventStopped, func(e bus.Event) error {
		if e.Source() != id || s.phase != phase || s.gen != gen {
			return nil
		}
		done()
		return nil
	})
	if err != nil {
		s.log.Warn("subscribe presentation failed", log.String("presentation", id), log.Error(err))
		done()
		return
	}
	s.waiting = sub
	pres.SetTime(0)
	pres.Play()
}

func (s *Sequencer) leavePhase() {
	if s.waiting != nil {
		_ = s.waiting.Cancel()
		s.waiting = nil
	}
}

func (s *Sequencer) setPhase(p Phase) {
	from := s.phase
	s.phase = p
	s.gen++
	if from == p {
		return
	}
	s.log.Debug("phase", log.Stringer("from", from), log.Stringer("to", p))
	s.publish(EventPhaseChanged, PhaseChange{Round: s.round, From: from, To: p})
}

func (s *Sequencer) stopAll() {
	for _, p := range []Presentation{s.entry, s.success, s.fail} {
		if p != nil {
			p.Stop()
		}
	}
}

func (s *Sequencer) showGroup(active Group) {
	if s.visibility == nil {
		return
	}
	for _, g := range []Group{GroupEntry, GroupSuccess, GroupFail} {
		s.visibility.SetGroupActive(g, g == active)
	}
}

func (s *Sequencer) showScore() {
	if s.score != nil {
		s.score.ShowScore(s.tally.Correct, s.tally.Mistakes)
	}
}

func (s *Sequencer) clearDesk() {
	prev := s.current
	s.current = nil
	s.valid = true
	if prev == nil {
		return
	}
	if s.release != nil {
		s.release(prev)
	}
	if s.spawner != nil {
		s.spawner.Recycle(prev)
	}
}

func (s *Sequencer) spawn() {
	if s.spawner == nil {
		return
	}
	obj, err := s.spawner.Spawn(s.cfg.Mount())
	if err != nil {
		s.log.Warn("spawn failed", log.Int("round", s.round), log.Error(err))
		return
	}
	if obj == nil {
		return
	}
	s.current = obj
	s.valid = obj.Valid()
	s.log.Debug("spawned", log.String("object", obj.ID()), log.Int("round", s.round))
	s.eject(obj)
	s.publish(EventSpawned, obj.ID())
}

func (s *Sequencer) eject(obj *object.Object) {
	body := obj.Body()
	if body == nil {
		return
	}
	mount := s.cfg.Mount()
	body.WakeUp()
	if s.audio != nil {
		s.audio.Eject()
	}
	body.AddImpulse(mount.Forward().Mul(s.cfg.EjectForward).Add(spatial.Up.Mul(s.cfg.EjectUp)))
	if s.cfg.EjectSpin != 0 {
		body.AddTorqueImpulse(spatial.Up.Mul(s.cfg.EjectSpin))
	}
}

func (s *Sequencer) publish(typ string, data any) {
	if err := s.events.PublishToTopic(TopicDesk, bus.NewEvent(typ, s.source, data)); err != nil {
		s.log.Warn("publish failed", log.String("type", typ), log.Error(err))
	}
}
