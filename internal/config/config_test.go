package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/deskcheck/internal/config"
	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/input"
	"github.com/zeusync/deskcheck/internal/desk/manipulate"
	"github.com/zeusync/deskcheck/internal/desk/object"
	"github.com/zeusync/deskcheck/internal/desk/round"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Picker.UseInset)
	assert.Equal(t, cfg.Layout.Camera.Width, cfg.Picker.Inset.Width)
	assert.Equal(t, 0.08, cfg.Manipulate.FloatHeight)
	assert.Equal(t, round.RouteOutcome, cfg.Round.Route)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	doc := `
log:
  level: debug
manipulate:
  hold_mode: kinematic
  drop_button: primary
  inspect:
    default_k: 3
bindings:
  toggle_inspect: F
round:
  route: polarity
  mount_position: [0.1, 0.9, 0.5]
trial:
  seed: 42
server:
  enabled: true
  write_timeout: 5s
`
	cfg, err := config.LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, object.HoldKinematic, cfg.Manipulate.Hold)
	assert.Equal(t, manipulate.DropPrimary, cfg.Manipulate.DropButton)
	assert.Equal(t, 3.0, cfg.Manipulate.Inspect.DefaultK)
	assert.Equal(t, 5.0, cfg.Manipulate.Inspect.MaxK, "untouched keys keep defaults")
	assert.Equal(t, "F", cfg.Bindings[input.ActionToggleInspect])
	assert.Equal(t, "Q", cfg.Bindings[input.ActionYawLeft])
	assert.Equal(t, round.RoutePolarity, cfg.Round.Route)
	assert.Equal(t, spatial.Vec3{0.1, 0.9, 0.5}, cfg.Round.MountPosition)
	assert.Equal(t, uint64(42), cfg.Trial.Seed)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Server.WriteTimeout)
}

func TestLoadYAMLEmptyDocument(t *testing.T) {
	cfg, err := config.LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	_, err := config.LoadYAML(strings.NewReader("manipulate:\n  float_hieght: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float_hieght")
}

func TestValidateJoinsProblems(t *testing.T) {
	cfg := config.Default()
	cfg.Manipulate.Inspect.MinK = 10
	cfg.Trial.ExpiredChance = 2
	cfg.Clock.FixedStep = 0
	cfg.Picker.Inset.Width = 640

	err := cfg.Validate()
	require.ErrorIs(t, err, config.ErrInvalid)
	msg := err.Error()
	assert.Contains(t, msg, "zoom multipliers")
	assert.Contains(t, msg, "expired_chance")
	assert.Contains(t, msg, "clock")
	assert.Contains(t, msg, "inset surface")
}

func TestLoadYAMLValidates(t *testing.T) {
	_, err := config.LoadYAML(strings.NewReader("round:\n  route: sideways\n"))
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoadFile(t *testing.T) {
	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	path := filepath.Join(t.TempDir(), "desk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("look:\n  yaw_limit: 30\n"), 0o600))
	cfg, err = config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 30.0, cfg.Look.YawLimit)

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
