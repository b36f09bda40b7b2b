package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingBackend struct{ applied []string }

func (b *recordingBackend) Apply(icon string) { b.applied = append(b.applied, icon) }

func TestManagerFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		icons Icons
		set   func(*Manager)
		want  string
	}{
		{"hover falls back to default", Icons{Default: "d"}, (*Manager).SetHover, "d"},
		{"hold falls back to hover", Icons{Default: "d", Hover: "h"}, (*Manager).SetHold, "h"},
		{"inspect falls back to hold", Icons{Default: "d", Hold: "g"}, (*Manager).SetInspect, "g"},
		{"inspect skips hover", Icons{Default: "d", Hover: "h"}, (*Manager).SetInspect, "d"},
		{"own icon wins", DefaultIcons(), (*Manager).SetInspect, "crosshair"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.icons, &recordingBackend{}, nil)
			tt.set(m)
			assert.Equal(t, tt.want, m.Current())
		})
	}
}

func TestManagerSkipsRepeatsAndMissingIcons(t *testing.T) {
	b := &recordingBackend{}
	m := NewManager(Icons{Hover: "h"}, b, nil)
	assert.Empty(t, b.applied, "no default icon means nothing to apply")

	m.SetHover()
	m.SetHover()
	m.SetHold()
	assert.Equal(t, []string{"h"}, b.applied)
}

func TestOrNop(t *testing.T) {
	c := OrNop(nil)
	c.SetHover()
	assert.IsType(t, Nop{}, c)
}
