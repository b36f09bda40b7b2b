// Package cursor swaps the pointer icon to reflect what the desk is doing.
package cursor

import "github.com/zeusync/deskcheck/internal/core/observability/log"

// Cursor is the capability the picker and the manipulation machine drive.
type Cursor interface {
	SetDefault()
	SetHover()
	SetHold()
	SetInspect()
}

// Nop ignores every call.
type Nop struct{}

func (Nop) SetDefault() {}
func (Nop) SetHover()   {}
func (Nop) SetHold()    {}
func (Nop) SetInspect() {}

// OrNop returns c, or Nop when c is nil.
func OrNop(c Cursor) Cursor {
	if c == nil {
		return Nop{}
	}
	return c
}

// Backend shows a named icon. The ebiten front end maps names to cursor shapes.
type Backend interface {
	Apply(icon string)
}

// Icons names the icon per cursor state. Empty names fall back.
type Icons struct {
	Default string `yaml:"default"`
	Hover   string `yaml:"hover"`
	Hold    string `yaml:"hold"`
	Inspect string `yaml:"inspect"`
}

func DefaultIcons() Icons {
	return Icons{Default: "default", Hover: "pointer", Hold: "move", Inspect: "crosshair"}
}

// Manager implements Cursor over a Backend with icon fallbacks: hover falls
// back to default, hold to hover then default, inspect to hold then default.
type Manager struct {
	icons   Icons
	backend Backend
	current string
	log     log.Log
}

func NewManager(icons Icons, backend Backend, logger log.Log) *Manager {
	m := &Manager{icons: icons, backend: backend, log: log.OrNop(logger)}
	m.SetDefault()
	return m
}

func (m *Manager) SetDefault() { m.apply(m.icons.Default) }

func (m *Manager) SetHover() { m.apply(first(m.icons.Hover, m.icons.Default)) }

func (m *Manager) SetHold() { m.apply(first(m.icons.Hold, m.icons.Hover, m.icons.Default)) }

func (m *Manager) SetInspect() { m.apply(first(m.icons.Inspect, m.icons.Hold, m.icons.Default)) }

// Current is the icon last applied.
func (m *Manager) Current() string { return m.current }

func (m *Manager) apply(icon string) {
	if icon == "" || icon == m.current {
		return
	}
	m.current = icon
	m.log.Debug("cursor icon", log.String("icon", icon))
	if m.backend != nil {
		m.backend.Apply(icon)
	}
}

func first(names ...string) string {
	for _, n := range names {
		if n != "" {
			return n
		}
	}
	return ""
}
