package render

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorMap. piecewise colour ramp over [0,1], stops are blended in Lab space.
type ColorMap struct {
	stops []colorful.Color
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Inferno. coarse version of matplotlib's inferno ramp.
func Inferno() *ColorMap {
	return &ColorMap{stops: []colorful.Color{
		mustHex("#000004"),
		mustHex("#320a5e"),
		mustHex("#781c6d"),
		mustHex("#bc3754"),
		mustHex("#ed6925"),
		mustHex("#fbb61a"),
		mustHex("#fcffa4"),
	}}
}

// Viridis. coarse version of matplotlib's viridis ramp.
func Viridis() *ColorMap {
	return &ColorMap{stops: []colorful.Color{
		mustHex("#440154"),
		mustHex("#3b528b"),
		mustHex("#21918c"),
		mustHex("#5ec962"),
		mustHex("#fde725"),
	}}
}

func ColorMapByName(name string) (*ColorMap, bool) {
	switch name {
	case "inferno":
		return Inferno(), true
	case "viridis":
		return Viridis(), true
	default:
		return nil, false
	}
}

// At. colour for t, clamped to [0,1].
func (cm *ColorMap) At(t float64) color.RGBA {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	segments := len(cm.stops) - 1
	pos := t * float64(segments)
	i := int(pos)
	if i >= segments {
		i = segments - 1
	}
	c := cm.stops[i].BlendLab(cm.stops[i+1], pos-float64(i)).Clamped()
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// LUT. n evenly spaced samples of the ramp.
func (cm *ColorMap) LUT(n int) []color.RGBA {
	if n < 2 {
		n = 2
	}
	lut := make([]color.RGBA, n)
	for i := range lut {
		lut[i] = cm.At(float64(i) / float64(n-1))
	}
	return lut
}
