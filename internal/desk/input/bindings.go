package input

import (
	"errors"
	"fmt"
)

// Action names a logical input the desk reacts to.
type Action string

const (
	ActionYawLeft       Action = "yaw_left"
	ActionYawRight      Action = "yaw_right"
	ActionPitchUp       Action = "pitch_up"
	ActionPitchDown     Action = "pitch_down"
	ActionToggleInspect Action = "toggle_inspect"
)

// Bindings maps actions to key names. Key names are those of the front end
// (for the ebiten front end, ebiten.Key names such as "Q" or "ArrowUp").
type Bindings map[Action]string

func DefaultBindings() Bindings {
	return Bindings{
		ActionYawLeft:       "Q",
		ActionYawRight:      "E",
		ActionPitchUp:       "W",
		ActionPitchDown:     "S",
		ActionToggleInspect: "R",
	}
}

// Validate requires every action to be bound and no key to be bound twice.
func (b Bindings) Validate() error {
	var errs []error
	seen := make(map[string]Action, len(b))
	for _, a := range []Action{ActionYawLeft, ActionYawRight, ActionPitchUp, ActionPitchDown, ActionToggleInspect} {
		key, ok := b[a]
		if !ok || key == "" {
			errs = append(errs, fmt.Errorf("action %s is not bound", a))
			continue
		}
		if other, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("key %s bound to both %s and %s", key, other, a))
		}
		seen[key] = a
	}
	return errors.Join(errs...)
}
