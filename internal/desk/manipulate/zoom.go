package manipulate

import "github.com/zeusync/deskcheck/internal/core/spatial"

// Zoom is the inspect distance and its bounds.
type Zoom struct {
	Min      float64
	Max      float64
	Distance float64
}

// NewZoom sizes the zoom range to an object of the given approximate size.
// With zoom disabled the range collapses to the fixed inspect distance.
func NewZoom(cfg InspectConfig, size float64) Zoom {
	if !cfg.Zoom {
		return Zoom{Min: cfg.Distance, Max: cfg.Distance, Distance: cfg.Distance}
	}
	z := Zoom{Min: cfg.MinK * size, Max: cfg.MaxK * size}
	z.Distance = spatial.Clamp(cfg.DefaultK*size, z.Min, z.Max)
	return z
}

// Scroll moves closer for positive deltas and stays within bounds.
func (z Zoom) Scroll(delta, step float64) Zoom {
	z.Distance = spatial.Clamp(z.Distance-delta*step, z.Min, z.Max)
	return z
}
