package gshaderaux

import (
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/gshader"
)

// ColorProperty returns a color material property with c as default value.
// The default is converted from sRGB to linear space and alpha is un-premultiplied.
func ColorProperty(name, display string, c color.Color) gshader.Property {
	r, g, b, a := colorToRGBA(c)
	return gshader.Property{
		Name:    name,
		Display: display,
		Kind:    gshader.PropertyColor,
		Default: [4]float32{srgbToLinear(r), srgbToLinear(g), srgbToLinear(b), a},
	}
}

// InterpColor interpolates between c0 and c1 in HSV space. t is clamped to [0, 1].
// The hue takes the shortest path around the color wheel.
func InterpColor(c0, c1 color.Color, t float32) color.Color {
	t = ms1.Clamp(t, 0, 1)
	r0, g0, b0, a0 := colorToRGBA(c0)
	r1, g1, b1, a1 := colorToRGBA(c1)
	h0, s0, v0 := rgbToHSV(r0, g0, b0)
	h1, s1, v1 := rgbToHSV(r1, g1, b1)
	r, g, b := hsvToRGB(interpHSV(h0, s0, v0, h1, s1, v1, t))
	return color.NRGBA{R: toUint8(r), G: toUint8(g), B: toUint8(b), A: toUint8(ms1.Interp(a0, a1, t))}
}

// colorToRGBA returns the un-premultiplied channels of c in [0, 1].
func colorToRGBA(c color.Color) (r, g, b, a float32) {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return float32(nc.R) / math.MaxUint8, float32(nc.G) / math.MaxUint8, float32(nc.B) / math.MaxUint8, float32(nc.A) / math.MaxUint8
}

func toUint8(v float32) uint8 {
	return uint8(math.Floor(ms1.Clamp(v, 0, 1)*math.MaxUint8 + 0.5))
}

func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func interpHSV(h0, s0, v0, h1, s1, v1, t float32) (h, s, v float32) {
	switch {
	case h1-h0 > 0.5:
		h0 += 1.0
	case h1-h0 < -0.5:
		h1 += 1.0
	}
	h = ms1.Interp(h0, h1, t)
	if h > 1 {
		h -= 1
	}
	s = ms1.Interp(s0, s1, t)
	v = ms1.Interp(v0, v1, t)
	return h, s, v
}

// hsvToRGB converts hue, saturation and brightness values on the range of 0.0
// to 1.0 to RGB floating point values on the range of 0.0 to 1.0
func hsvToRGB(h, s, v float32) (r, g, b float32) {
	var (
		c = s * v
		x = c * (1 - math.Abs(math.Mod(h*6, 2)-1))
		m = v - c
	)

	switch {
	case h >= 0 && h <= 1.0/6:
		r, g, b = c, x, 0
	case h > 1.0/6 && h <= 2.0/6:
		r, g, b = x, c, 0
	case h > 2.0/6 && h <= 3.0/6:
		r, g, b = 0, c, x
	case h > 3.0/6 && h <= 4.0/6:
		r, g, b = 0, x, c
	case h > 4.0/6 && h <= 5.0/6:
		r, g, b = x, 0, c
	case h > 5.0/6 && h <= 1.0:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// rgbToHSV converts red, green, and blue floating point values on the range
// 0.0 to 1.0 to hue, saturation and brightness values on the range 0.0 to 1.0
func rgbToHSV(r, g, b float32) (h, s, v float32) {
	var (
		xmax = max(r, g, b)
		xmin = min(r, g, b)
		c    = xmax - xmin
	)
	v = xmax
	switch {
	case c == 0:
		h = 0
	case v == r:
		h = (g - b) / (c * 6)
	case v == g:
		h = 1.0/3 + (b-r)/(c*6)
	case v == b:
		h = 2.0/3 + (r-g)/(c*6)
	}
	if h < 0 {
		h += 1
	}
	if xmax > 0 {
		s = c / xmax
	}
	return h, s, v
}
