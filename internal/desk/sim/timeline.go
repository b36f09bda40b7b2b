package sim

import (
	"github.com/zeusync/deskcheck/internal/core/events/bus"
	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/core/systems"
	"github.com/zeusync/deskcheck/internal/desk/round"
)

var (
	_ round.Presentation = (*Timeline)(nil)
	_ systems.System     = (*Timeline)(nil)
)

// Timeline is a fixed-length presentation advanced on the variable tick. It
// announces that it stopped when it reaches its end and when it is stopped
// while playing.
type Timeline struct {
	id       string
	duration float64
	events   bus.EventBus
	log      log.Log

	time    float64
	playing bool
}

func NewTimeline(id string, duration float64, events bus.EventBus, logger log.Log) *Timeline {
	return &Timeline{
		id:       id,
		duration: duration,
		events:   events,
		log:      log.OrNop(logger).Named("timeline").With(log.String("timeline", id)),
	}
}

func (t *Timeline) ID() string                 { return t.id }
func (t *Timeline) Name() string               { return "timeline:" + t.id }
func (t *Timeline) Priority() systems.Priority { return systems.PriorityNormal }
func (t *Timeline) FixedUpdate(float64) error  { return nil }
func (t *Timeline) Playing() bool              { return t.playing }
func (t *Timeline) Time() float64              { return t.time }
func (t *Timeline) Duration() float64          { return t.duration }

func (t *Timeline) SetTime(seconds float64) { t.time = seconds }

func (t *Timeline) Play() {
	t.playing = true
	t.log.Debug("play")
	if t.time >= t.duration {
		t.finish()
	}
}

func (t *Timeline) Stop() {
	if !t.playing {
		return
	}
	t.finish()
}

func (t *Timeline) Update(dt float64) error {
	if !t.playing {
		return nil
	}
	t.time += dt
	if t.time >= t.duration {
		t.time = t.duration
		return t.finish()
	}
	return nil
}

func (t *Timeline) finish() error {
	t.playing = false
	t.log.Debug("stopped")
	return t.events.PublishToTopic(round.TopicPresentation, bus.NewEvent(round.EventStopped, t.id, nil))
}
