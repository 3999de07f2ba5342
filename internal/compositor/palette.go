package compositor

import (
	"image"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
)

// SuggestTints extracts up to n dominant colors from the base garment photo
// as hex strings, ordered darkest to brightest, for use as tint presets.
func SuggestTints(img image.Image, n int) []string {
	if img == nil || n <= 0 {
		return nil
	}

	candidates := dominantcolor.FindWeight(img, max(12, n*4))
	if len(candidates) == 0 {
		return nil
	}

	palette := make([]colorful.Color, 0, len(candidates))
	for _, c := range candidates {
		col, ok := colorful.MakeColor(c.RGBA)
		if !ok {
			continue
		}
		palette = append(palette, col.Clamped())
	}

	// Darkest first: dark fabric tints are the common case for mockups.
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ri, gi, bi := a.LinearRgb()
		rj, gj, bj := b.LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		if yi < yj {
			return -1
		}
		if yi > yj {
			return 1
		}
		return 0
	})

	out := make([]string, 0, n)
	seen := make(map[string]struct{}, n)
	for _, col := range palette {
		hex := col.Hex()
		if _, ok := seen[hex]; ok {
			continue
		}
		seen[hex] = struct{}{}
		out = append(out, hex)
		if len(out) == n {
			break
		}
	}
	return out
}
