// Package config loads the desk configuration from YAML on top of defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/deskcheck/internal/autopilot"
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
	"github.com/zeusync/deskcheck/internal/ledger"
	"github.com/zeusync/deskcheck/internal/server"
)

var ErrInvalid = errors.New("invalid configuration")

// Window sizes the interactive front end.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Config struct {
	Log        log.Config          `yaml:"log"`
	Window     Window              `yaml:"window"`
	Clock      systems.ClockConfig `yaml:"clock"`
	Bindings   input.Bindings      `yaml:"bindings"`
	Layout     desk.Layout         `yaml:"layout"`
	Picker     picker.Config       `yaml:"picker"`
	Manipulate manipulate.Config   `yaml:"manipulate"`
	Button     button.Config       `yaml:"button"`
	Round      round.Config        `yaml:"round"`
	Look       look.Config         `yaml:"look"`
	Cursor     cursor.Icons        `yaml:"cursor"`
	Trial      trial.Config        `yaml:"trial"`
	World      sim.WorldConfig     `yaml:"world"`
	Card       sim.CardConfig      `yaml:"card"`
	Ledger     ledger.Config       `yaml:"ledger"`
	Server     server.Config       `yaml:"server"`
	Autopilot  autopilot.Config    `yaml:"autopilot"`
}

// Default is the configuration of the shipped game: a 320x240 desk view
// scaled up into a 960x720 window.
func Default() Config {
	layout := desk.DefaultLayout()
	win := Window{Width: 960, Height: 720, Title: "deskcheck"}
	pk := picker.DefaultConfig()
	pk.UseInset = true
	pk.Inset = spatial.Inset{
		Display: spatial.Rect{W: float64(win.Width), H: float64(win.Height)},
		Width:   layout.Camera.Width,
		Height:  layout.Camera.Height,
	}
	return Config{
		Log:        log.DefaultConfig(),
		Window:     win,
		Clock:      systems.DefaultClockConfig(),
		Bindings:   input.DefaultBindings(),
		Layout:     layout,
		Picker:     pk,
		Manipulate: manipulate.DefaultConfig(),
		Button:     button.DefaultConfig(),
		Round:      round.DefaultConfig(),
		Look:       look.DefaultConfig(),
		Cursor:     cursor.DefaultIcons(),
		Trial:      trial.DefaultConfig(),
		World:      sim.DefaultWorldConfig(),
		Card:       sim.DefaultCardConfig(),
		Ledger:     ledger.DefaultConfig(),
		Server:     server.DefaultConfig(),
		Autopilot:  autopilot.DefaultConfig(),
	}
}

// LoadYAML decodes r over the defaults and validates the result. Unknown
// keys are rejected.
func LoadYAML(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a YAML file. An empty path yields the defaults.
func LoadFile(path string) (Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadYAML(bytes.NewReader(data))
}

// Validate checks every section and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		add(fmt.Errorf("log: %w", err))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		add(errors.New("window: size must be positive"))
	}
	if c.Clock.FixedStep <= 0 || c.Clock.MaxSubSteps < 1 {
		add(errors.New("clock: fixed step must be positive and max sub steps at least 1"))
	}
	add(c.Bindings.Validate())
	add(c.Layout.Validate())
	add(c.Picker.Validate())
	if c.Picker.UseInset && (c.Picker.Inset.Width != c.Layout.Camera.Width || c.Picker.Inset.Height != c.Layout.Camera.Height) {
		add(errors.New("picker: inset surface must match the camera surface"))
	}
	add(c.Manipulate.Validate())
	add(c.Button.Validate())
	add(c.Round.Validate())
	add(c.Look.Validate())
	add(c.Trial.Validate())
	add(c.World.Validate())
	add(c.Card.Validate())
	add(c.Ledger.Validate())
	add(c.Server.Validate())
	add(c.Autopilot.Validate())
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}
