package io

import (
	"math"
)

// Packed colors: RGB is 0x00RRGGBB. HSB and HSL are 0xHHHHSSVV with the hue
// in degrees (0..359) and saturation, brightness or lightness in 0..255.

func unpackHSV(hsv uint32) (h, s, v float64) {
	h = math.Mod(float64(hsv>>16), 360)
	s = float64((hsv>>8)&0xff) / 255
	v = float64(hsv&0xff) / 255
	return
}

func packRGB(r, g, b float64) uint32 {
	channel := func(c float64) uint32 {
		return uint32(math.Round(math.Max(0, math.Min(1, c)) * 255))
	}
	return channel(r)<<16 | channel(g)<<8 | channel(b)
}

// chroma maps a hue and chroma onto the RGB cube, before lightness.
func chroma(h, c float64) (r, g, b float64) {
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	switch {
	case hp < 1:
		r, g = c, x
	case hp < 2:
		r, g = x, c
	case hp < 3:
		g, b = c, x
	case hp < 4:
		g, b = x, c
	case hp < 5:
		r, b = x, c
	default:
		r, b = c, x
	}
	return
}

// HSB2RGB converts a packed hue, saturation, brightness color to RGB.
func HSB2RGB(hsb uint32) uint32 {
	h, s, v := unpackHSV(hsb)
	c := v * s
	r, g, b := chroma(h, c)
	m := v - c
	return packRGB(r+m, g+m, b+m)
}

// HSL2RGB converts a packed hue, saturation, lightness color to RGB.
func HSL2RGB(hsl uint32) uint32 {
	h, s, l := unpackHSV(hsl)
	c := (1 - math.Abs(2*l-1)) * s
	r, g, b := chroma(h, c)
	m := l - c/2
	return packRGB(r+m, g+m, b+m)
}

// RGB2HSL converts a packed RGB color to hue, saturation, lightness.
func RGB2HSL(rgb uint32) uint32 {
	r := float64((rgb>>16)&0xff) / 255
	g := float64((rgb>>8)&0xff) / 255
	b := float64(rgb&0xff) / 255

	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	c := hi - lo
	l := (hi + lo) / 2

	var h, s float64
	if c != 0 {
		switch hi {
		case r:
			h = math.Mod((g-b)/c, 6)
		case g:
			h = (b-r)/c + 2
		default:
			h = (r-g)/c + 4
		}
		h *= 60
		if h < 0 {
			h += 360
		}
		s = c / (1 - math.Abs(2*l-1))
	}

	hue := uint32(math.Round(h)) % 360
	return hue<<16 | uint32(math.Round(s*255))<<8 | uint32(math.Round(l*255))
}
