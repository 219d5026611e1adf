package main

import (
	"image"
	"strings"
)

// shades maps coverage to characters, lightest first.
const shades = " .:-=+*#%@"

// asciiArt draws img one character per pixel. Lines are cut at maxWidth
// columns when maxWidth > 0.
func asciiArt(img *image.Alpha, maxWidth int) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	w := b.Dx()
	if maxWidth > 0 && w > maxWidth {
		w = maxWidth
	}
	var sb strings.Builder
	sb.Grow((w + 1) * b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Min.X+w; x++ {
			a := int(img.AlphaAt(x, y).A)
			sb.WriteByte(shades[a*(len(shades)-1)/255])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
