package injector

import (
	"fmt"

	"github.com/google/wire"

	"github.com/zeusync/deskcheck/internal/autopilot"
	"github.com/zeusync/deskcheck/internal/config"
	"github.com/zeusync/deskcheck/internal/core/events/bus"
	"github.com/zeusync/deskcheck/internal/core/observability/log"
	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/core/systems"
	"github.com/zeusync/deskcheck/internal/desk"
	"github.com/zeusync/deskcheck/internal/desk/button"
	"github.com/zeusync/deskcheck/internal/desk/cursor"
	"github.com/zeusync/deskcheck/internal/desk/input"
	"github.com/zeusync/deskcheck/internal/desk/look"
	"github.com/zeusync/deskcheck/internal/desk/manipulate"
	"github.com/zeusync/deskcheck/internal/desk/picker"
	"github.com/zeusync/deskcheck/internal/desk/round"
	"github.com/zeusync/deskcheck/internal/desk/sim"
	"github.com/zeusync/deskcheck/internal/desk/trial"
)

// Presentations are the three round timelines.
type Presentations struct {
	Entry, Success, Fail *sim.Timeline
}

// Buttons are the two decision surfaces.
type Buttons struct {
	Accept, Reject *button.Button
}

// Extras are the optional outer collaborators of the sequencer. Either may
// be nil.
type Extras struct {
	Score    round.ScoreDisplay
	Recorder round.Recorder
}

// Game is a fully wired desk with the parts a front end draws.
type Game struct {
	Loop    *desk.Loop
	Events  bus.EventBus
	Camera  *spatial.Camera
	Scene   *sim.Scene
	Spawner *sim.Spawner
	Buttons Buttons
	Audio   *sim.Audio
	Groups  *sim.Groups
}

// Headless is a desk played by the autopilot.
type Headless struct {
	Game   *Game
	Player *autopilot.Player
}

func ProvideCamera(layout desk.Layout) *spatial.Camera {
	return layout.Camera.Camera()
}

func ProvideDealer(cfg trial.Config) *trial.Dealer {
	return trial.NewDealer(cfg)
}

func ProvideWorld(cfg sim.WorldConfig) *sim.World {
	return sim.NewWorld(cfg)
}

func ProvideSpawner(cfg sim.CardConfig, dealer *trial.Dealer, scene *sim.Scene, world *sim.World, logger log.Log) *sim.Spawner {
	return sim.NewSpawner(cfg, dealer, scene, world, logger)
}

// ProvideButtons places both buttons and registers them with the scene.
func ProvideButtons(cfg button.Config, layout desk.Layout, scene *sim.Scene) Buttons {
	b := Buttons{
		Accept: button.New(cfg, round.Accept, layout.Accept.Transform(), layout.Accept.Box()),
		Reject: button.New(cfg, round.Reject, layout.Reject.Transform(), layout.Reject.Box()),
	}
	scene.AddButton(b.Accept)
	scene.AddButton(b.Reject)
	return b
}

func ProvideCursor(icons cursor.Icons, backend cursor.Backend, logger log.Log) cursor.Cursor {
	return cursor.NewManager(icons, backend, logger)
}

func ProvideNopCursor() cursor.Cursor { return cursor.Nop{} }

func ProvidePicker(cfg picker.Config, camera *spatial.Camera, scene *sim.Scene, cur cursor.Cursor, logger log.Log) *picker.Picker {
	return picker.New(cfg, camera, scene, cur, logger)
}

func ProvideMachine(cfg manipulate.Config, camera *spatial.Camera, pk *picker.Picker, cur cursor.Cursor, events bus.EventBus, logger log.Log) *manipulate.Machine {
	return manipulate.New(cfg, camera, pk,
		manipulate.WithCursor(cur),
		manipulate.WithEvents(events),
		manipulate.WithLogger(logger))
}

func ProvidePresentations(layout desk.Layout, events bus.EventBus, logger log.Log) Presentations {
	pr := layout.Presentations
	return Presentations{
		Entry:   sim.NewTimeline("entry", pr.Entry, events, logger),
		Success: sim.NewTimeline("success", pr.Success, events, logger),
		Fail:    sim.NewTimeline("fail", pr.Fail, events, logger),
	}
}

func ProvideAudio(logger log.Log) *sim.Audio { return sim.NewAudio(logger) }

// ProvideSequencer wires the round to the headless collaborators. Held cards
// are released through the machine before they are recycled.
func ProvideSequencer(
	cfg round.Config,
	events bus.EventBus,
	pres Presentations,
	groups *sim.Groups,
	audio *sim.Audio,
	spawner *sim.Spawner,
	m *manipulate.Machine,
	extras Extras,
	logger log.Log,
) *round.Sequencer {
	opts := []round.Option{
		round.WithPresentations(pres.Entry, pres.Success, pres.Fail),
		round.WithVisibility(groups),
		round.WithAudio(audio),
		round.WithSpawner(spawner),
		round.WithReleaser(m.Release),
		round.WithLogger(logger),
	}
	if extras.Score != nil {
		opts = append(opts, round.WithScore(extras.Score))
	}
	if extras.Recorder != nil {
		opts = append(opts, round.WithRecorder(extras.Recorder))
	}
	return round.NewSequencer(cfg, events, opts...)
}

func ProvideLook(cfg look.Config, camera *spatial.Camera) *look.Controller {
	return look.New(cfg, camera)
}

func ProvidePlayer(cfg autopilot.Config, seq *round.Sequencer, m *manipulate.Machine, pk *picker.Picker, layout desk.Layout) *autopilot.Player {
	return autopilot.NewPlayer(cfg, seq, m, pk, layout.Accept.Position, layout.Reject.Position)
}

func ProvideDesk(src input.Source, pk *picker.Picker, m *manipulate.Machine, seq *round.Sequencer, b Buttons, lk *look.Controller, audio *sim.Audio, logger log.Log) *desk.Desk {
	return desk.New(src, pk, m, seq,
		desk.WithButtons(b.Accept, b.Reject),
		desk.WithLook(lk),
		desk.WithAudio(audio),
		desk.WithLogger(logger))
}

// ProvideManager registers the desk, the timelines and the physics world.
func ProvideManager(d *desk.Desk, world *sim.World, pres Presentations, logger log.Log) (*systems.Manager, error) {
	mgr := systems.NewManager(logger)
	for _, s := range []systems.System{d, pres.Entry, pres.Success, pres.Fail, world} {
		if err := mgr.RegisterSystem(s); err != nil {
			return nil, fmt.Errorf("register %s: %w", s.Name(), err)
		}
	}
	return mgr, nil
}

func ProvideClock(cfg systems.ClockConfig) *systems.Clock {
	return systems.NewClock(cfg)
}

func ProvideBus() bus.EventBus { return bus.New() }

// configSet exposes each section of the configuration to the graph.
var configSet = wire.NewSet(
	wire.FieldsOf(new(config.Config),
		"Clock", "Layout", "Picker", "Manipulate", "Button", "Round", "Look",
		"Cursor", "Trial", "World", "Card", "Autopilot"),
)

// deskSet builds everything except the input source and the cursor.
var deskSet = wire.NewSet(
	configSet,
	ProvideBus,
	ProvideCamera,
	sim.NewScene,
	ProvideWorld,
	ProvideDealer,
	ProvideSpawner,
	ProvideButtons,
	ProvidePicker,
	ProvideMachine,
	ProvidePresentations,
	ProvideAudio,
	sim.NewGroups,
	ProvideSequencer,
	ProvideLook,
	ProvideDesk,
	ProvideManager,
	ProvideClock,
	desk.NewLoop,
	wire.Struct(new(Game), "*"),
)

// GameSet wires an interactive desk around a window input source and a
// cursor backend.
var GameSet = wire.NewSet(deskSet, ProvideCursor)

// HeadlessSet wires a desk driven by the autopilot player.
var HeadlessSet = wire.NewSet(
	deskSet,
	ProvideNopCursor,
	ProvidePlayer,
	wire.Bind(new(input.Source), new(*autopilot.Player)),
	wire.Struct(new(Headless), "*"),
)
