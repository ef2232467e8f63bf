package imaging

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor is a color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor is a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult reports one color in several notations.
type ColorResult struct {
	Hex string   `json:"hex"` // "#RRGGBB"
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// DescribeColor converts c, clamped to the sRGB gamut, into a ColorResult.
func DescribeColor(c colorful.Color) ColorResult {
	c = c.Clamped()
	r, g, b := c.RGB255()
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return ColorResult{
		Hex: strings.ToUpper(c.Hex()),
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// MeanColor averages colors in linear RGB, which is how light mixes.
type MeanColor struct {
	r, g, b float64
	n       int
}

// Add includes c in the mean.
func (m *MeanColor) Add(c colorful.Color) {
	r, g, b := c.LinearRgb()
	m.r += r
	m.g += g
	m.b += b
	m.n++
}

// Merge includes every color added to other.
func (m *MeanColor) Merge(other *MeanColor) {
	m.r += other.r
	m.g += other.g
	m.b += other.b
	m.n += other.n
}

// Len reports how many colors were added.
func (m *MeanColor) Len() int { return m.n }

// Color returns the mean, or black if nothing was added.
func (m *MeanColor) Color() colorful.Color {
	if m.n == 0 {
		return colorful.Color{}
	}
	n := float64(m.n)
	return colorful.LinearRgb(m.r/n, m.g/n, m.b/n)
}
