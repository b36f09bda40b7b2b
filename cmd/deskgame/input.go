package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/input"
)

type keys struct {
	yawLeft, yawRight, pitchUp, pitchDown, toggle ebiten.Key
}

func parseKey(name string) (ebiten.Key, error) {
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("key %q: %w", name, err)
	}
	return k, nil
}

func resolveKeys(b input.Bindings) (keys, error) {
	var (
		k   keys
		err error
	)
	for action, dst := range map[input.Action]*ebiten.Key{
		input.ActionYawLeft:       &k.yawLeft,
		input.ActionYawRight:      &k.yawRight,
		input.ActionPitchUp:       &k.pitchUp,
		input.ActionPitchDown:     &k.pitchDown,
		input.ActionToggleInspect: &k.toggle,
	} {
		if *dst, err = parseKey(b[action]); err != nil {
			return keys{}, fmt.Errorf("binding %s: %w", action, err)
		}
	}
	return k, nil
}

// sampler reads ebiten's input state once per tick. It must only be used
// from the ebiten update goroutine.
type sampler struct {
	keys keys
	last spatial.Vec2
	seen bool
}

func newSampler(b input.Bindings) (*sampler, error) {
	k, err := resolveKeys(b)
	if err != nil {
		return nil, err
	}
	return &sampler{keys: k}, nil
}

func (s *sampler) Frame() input.Frame {
	x, y := ebiten.CursorPosition()
	p := spatial.Vec2{float64(x), float64(y)}
	var delta spatial.Vec2
	if s.seen {
		delta = p.Sub(s.last)
	}
	s.last, s.seen = p, true

	_, wheel := ebiten.Wheel()
	return input.Frame{
		Pointer:       p,
		LookDelta:     delta,
		Primary:       buttonState(ebiten.MouseButtonLeft),
		Secondary:     buttonState(ebiten.MouseButtonRight),
		YawLeft:       ebiten.IsKeyPressed(s.keys.yawLeft),
		YawRight:      ebiten.IsKeyPressed(s.keys.yawRight),
		PitchUp:       ebiten.IsKeyPressed(s.keys.pitchUp),
		PitchDown:     ebiten.IsKeyPressed(s.keys.pitchDown),
		ToggleInspect: inpututil.IsKeyJustPressed(s.keys.toggle),
		Scroll:        wheel,
	}
}

func buttonState(b ebiten.MouseButton) input.ButtonState {
	return input.ButtonState{
		Down:     ebiten.IsMouseButtonPressed(b),
		Pressed:  inpututil.IsMouseButtonJustPressed(b),
		Released: inpututil.IsMouseButtonJustReleased(b),
	}
}

// cursorBackend maps cursor icon names to ebiten cursor shapes.
type cursorBackend struct{}

func (cursorBackend) Apply(icon string) {
	shape := ebiten.CursorShapeDefault
	switch icon {
	case "pointer":
		shape = ebiten.CursorShapePointer
	case "move":
		shape = ebiten.CursorShapeMove
	case "crosshair":
		shape = ebiten.CursorShapeCrosshair
	case "text":
		shape = ebiten.CursorShapeText
	case "not-allowed":
		shape = ebiten.CursorShapeNotAllowed
	}
	ebiten.SetCursorShape(shape)
}
