package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a simple UI widget bound to one numeric live parameter.
type Slider struct {
	Label    string
	Key      string // parameter key sent to the simulation
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64

	changed bool
}

// NewSlider creates a new slider instance. The range is widened to include
// value, so the slider never shows anything but the value in force.
func NewSlider(x, y, width float64, label, key string, lo, hi, value float64) *Slider {
	s := &Slider{
		Label: label,
		Key:   key,
		Min:   min(lo, value),
		Max:   max(hi, value),
		X:     x,
		Y:     y,
		W:     width,
		H:     10,
	}
	s.Set(value)
	s.changed = false
	return s
}

// Set moves the slider to v, clamped to [Min, Max].
func (s *Slider) Set(v float64) {
	v = max(s.Min, min(s.Max, v))
	if v != s.Value {
		s.Value = v
		s.changed = true
	}
}

// Ratio returns the position of the value in the range, in [0, 1].
func (s *Slider) Ratio() float64 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

// TakeChanged reports whether the value moved since the last call.
func (s *Slider) TakeChanged() bool {
	c := s.changed
	s.changed = false
	return c
}

// Update checks for mouse interaction
func (s *Slider) Update() {
	mx, my := ebiten.CursorPosition()
	// Check if mouse is clicking inside the slider area
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && hit(mx, my, s.X, s.Y, s.W, s.H) {
		// Calculate value based on horizontal position
		s.Set(s.Min + (float64(mx)-s.X)/s.W*(s.Max-s.Min))
	}
}

// Draw renders the slider
func (s *Slider) Draw(screen *ebiten.Image) {
	// Draw Background (Dark Gray)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	// Draw Value Bar (Light Gray/White)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*s.Ratio()), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	ebitenutil.DebugPrintAt(screen, formatValue(s.Value), int(s.X+s.W-60), int(s.Y-15))
}

func formatValue(v float64) string {
	switch {
	case v == 0:
		return "0"
	case v < 0.01:
		return fmt.Sprintf("%.5f", v)
	case v < 10:
		return fmt.Sprintf("%.3f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}

// hit reports whether the cursor (mx, my) is inside the rectangle.
func hit(mx, my int, x, y, w, h float64) bool {
	return float64(mx) >= x && float64(mx) <= x+w &&
		float64(my) >= y && float64(my) <= y+h
}
