package model

import "fmt"

// Color represents a text color as it maps to CSS: either fully
// transparent, or an RGB triple with channels in [0, 1].
type Color struct {
	Transparent bool
	R, G, B     float64
}

// RGB creates an opaque color from three channels in [0, 1].
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// TransparentColor returns the transparent color value.
func TransparentColor() Color {
	return Color{Transparent: true}
}

// FromGray creates an opaque color from a single gray channel.
func FromGray(gray float64) Color {
	return Color{R: gray, G: gray, B: gray}
}

// FromCMYK creates an opaque color from CMYK components (approximate conversion).
func FromCMYK(c, m, y, k float64) Color {
	return Color{
		R: (1 - c) * (1 - k),
		G: (1 - m) * (1 - k),
		B: (1 - y) * (1 - k),
	}
}

// Equal reports whether two colors are equal within eps on each channel.
// Two transparent colors are equal regardless of their channels.
func (c Color) Equal(other Color, eps float64) bool {
	if c.Transparent || other.Transparent {
		return c.Transparent == other.Transparent
	}
	return Near(c.R, other.R, eps) && Near(c.G, other.G, eps) && Near(c.B, other.B, eps)
}

// CSS renders the color as a CSS color value.
func (c Color) CSS() string {
	if c.Transparent {
		return "transparent"
	}
	return fmt.Sprintf("rgb(%d,%d,%d)", channelToUint8(c.R), channelToUint8(c.G), channelToUint8(c.B))
}

// channelToUint8 converts a float64 color value (0.0-1.0) to uint8 (0-255)
func channelToUint8(f float64) uint8 {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return uint8(f*255 + 0.5)
}
