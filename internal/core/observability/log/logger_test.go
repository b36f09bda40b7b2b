package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        LevelInfo,
		"debug":   LevelDebug,
		" INFO ":  LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"fatal":   LevelFatal,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
	_, err = New(Config{Level: "info", Encoding: "xml"})
	require.Error(t, err)
}

func TestJSONOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	l, err := New(Config{Level: "info", Encoding: "json", Output: path})
	require.NoError(t, err)

	child := l.Named("round").With(String("session", "s1"))
	child.Debug("hidden")
	child.Info("decided",
		Int("round", 3),
		Bool("correct", true),
		Float64("rate", 0.5),
		Duration("took", 2*time.Millisecond),
		Stringer("severity", LevelWarn),
		Error(errors.New("boom")))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"logger":"round"`)
	assert.Contains(t, out, `"session":"s1"`)
	assert.Contains(t, out, `"round":3`)
	assert.Contains(t, out, `"correct":true`)
	assert.Contains(t, out, `"severity":"warn"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestSetLevelIsShared(t *testing.T) {
	l, err := New(Config{Level: "warn"})
	require.NoError(t, err)
	child := l.Named("child")
	assert.Equal(t, LevelWarn, child.GetLevel())
	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, child.GetLevel())
}

func TestNopAndOrNop(t *testing.T) {
	n := NewNop()
	n.Info("dropped", Any("k", 1))
	assert.NotPanics(t, func() { OrNop(nil).Warn("dropped") })
	assert.Same(t, n, OrNop(n))
}
