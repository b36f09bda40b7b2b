package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/zeusync/deskcheck/internal/config"
	"github.com/zeusync/deskcheck/internal/core/spatial"
	"github.com/zeusync/deskcheck/internal/desk/round"
	"github.com/zeusync/deskcheck/internal/injector"
)

var (
	colBackdrop = color.RGBA{R: 18, G: 16, B: 22, A: 255}
	colDesk     = color.RGBA{R: 84, G: 64, B: 48, A: 255}
	colCard     = color.RGBA{R: 220, G: 214, B: 190, A: 255}
	colHover    = color.RGBA{R: 255, G: 240, B: 120, A: 255}
	colHeld     = color.RGBA{R: 140, G: 200, B: 255, A: 255}
	colAccept   = color.RGBA{R: 80, G: 200, B: 90, A: 255}
	colReject   = color.RGBA{R: 210, G: 70, B: 60, A: 255}
)

// renderer draws wireframes into the low-resolution camera surface and
// scales it into the window.
type renderer struct {
	game        *injector.Game
	cardExtents spatial.Vec3
	deskHeight  float64
	surface     *ebiten.Image
	scale       ebiten.GeoM
}

func newRenderer(g *injector.Game, cfg config.Config) *renderer {
	cam := g.Camera
	r := &renderer{
		game:        g,
		cardExtents: cfg.Card.Extents,
		deskHeight:  cfg.Manipulate.DeskHeight,
		surface:     ebiten.NewImage(int(cam.Width), int(cam.Height)),
	}
	in := cfg.Picker.Inset
	if cfg.Picker.UseInset {
		r.scale.Scale(in.Display.W/cam.Width, in.Display.H/cam.Height)
		r.scale.Translate(in.Display.X, in.Display.Y)
	}
	return r
}

func (r *renderer) draw(screen *ebiten.Image) {
	r.surface.Fill(colBackdrop)
	r.drawDesk()

	b := r.game.Buttons
	r.drawBox(b.Accept.Transform(), b.Accept.Collider().Extents, colAccept)
	r.drawBox(b.Reject.Transform(), b.Reject.Collider().Extents, colReject)
	for _, o := range r.game.Scene.Objects() {
		col := colCard
		switch {
		case o.Held():
			col = colHeld
		case o.Hovered():
			col = colHover
		}
		r.drawBox(o.Transform(), r.cardExtents, col)
	}

	op := &ebiten.DrawImageOptions{GeoM: r.scale}
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(r.surface, op)
	r.drawHUD(screen)
}

func (r *renderer) drawDesk() {
	y := r.deskHeight
	for x := -0.6; x <= 0.601; x += 0.2 {
		r.line(spatial.Vec3{x, y, -0.2}, spatial.Vec3{x, y, 1}, colDesk)
	}
	for z := -0.2; z <= 1.001; z += 0.2 {
		r.line(spatial.Vec3{-0.6, y, z}, spatial.Vec3{0.6, y, z}, colDesk)
	}
}

// drawBox outlines an oriented box: corners that differ in one axis share
// an edge.
func (r *renderer) drawBox(t spatial.Transform, ext spatial.Vec3, col color.Color) {
	var corners [8]spatial.Vec3
	for i := range corners {
		local := ext
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				local[axis] = -local[axis]
			}
		}
		corners[i] = t.TransformPoint(local)
	}
	for i := range corners {
		for axis := 0; axis < 3; axis++ {
			if j := i | 1<<axis; j != i {
				r.line(corners[i], corners[j], col)
			}
		}
	}
}

func (r *renderer) line(a, b spatial.Vec3, col color.Color) {
	pa, okA := r.game.Camera.WorldToScreen(a)
	pb, okB := r.game.Camera.WorldToScreen(b)
	if !okA || !okB {
		return
	}
	vector.StrokeLine(r.surface, float32(pa.X()), float32(pa.Y()), float32(pb.X()), float32(pb.Y()), 1, col, false)
}

func (r *renderer) drawHUD(screen *ebiten.Image) {
	d := r.game.Loop.Desk()
	seq := d.Sequencer()
	t := seq.Tally()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("round %d   correct %d   mistakes %d", seq.Round(), t.Correct, t.Mistakes), 12, 10)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("phase %s   hands %s", seq.Phase(), d.Machine().State()), 12, 28)
	if gr, ok := r.game.Groups.Visible(); ok {
		ebitenutil.DebugPrintAt(screen, banner(gr), 12, 46)
	}
	ebitenutil.DebugPrintAt(screen, "LMB grab/press  RMB drop/look  Q/E turn  R inspect  W/S tilt  wheel zoom", 12, screen.Bounds().Dy()-20)
}

func banner(g round.Group) string {
	switch g {
	case round.GroupEntry:
		return "NEXT PLEASE"
	case round.GroupSuccess:
		return "CORRECT"
	case round.GroupFail:
		return "WRONG CALL"
	default:
		return ""
	}
}
