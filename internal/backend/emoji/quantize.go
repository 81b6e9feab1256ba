package emoji

import (
	"image"
	"image/color"
	"sort"

	"github.com/jo-hoe/emodi/internal/backend/raster"
)

// alphaThreshold splits GIF pixels into fully transparent and opaque.
const alphaThreshold = 128

// Palettize converts img into a paletted frame with at most maxColors
// entries. When any pixel is transparent, palette index 0 is reserved for
// transparency and only maxColors-1 entries remain for colors. Frames whose
// distinct colors fit the limit keep their exact colors; larger ones are
// reduced with a median cut.
func Palettize(img *image.RGBA, maxColors int) *image.Paletted {
	b := img.Bounds()
	hist, transparent := histogram(img)

	limit := maxColors
	if transparent {
		limit--
	}

	var colors []color.NRGBA
	if len(hist) <= limit {
		colors = make([]color.NRGBA, 0, len(hist))
		for c := range hist {
			colors = append(colors, c)
		}
		sort.Slice(colors, func(i, j int) bool { return packed(colors[i]) < packed(colors[j]) })
	} else {
		colors = medianCut(hist, limit)
	}

	palette := make(color.Palette, 0, len(colors)+1)
	if transparent {
		palette = append(palette, color.NRGBA{})
	}
	offset := len(palette)
	for _, c := range colors {
		palette = append(palette, c)
	}
	if len(palette) == 0 {
		palette = append(palette, color.NRGBA{})
	}

	// Resolve each distinct color once; the mapping is read-only afterwards.
	lookup := make(map[color.NRGBA]uint8, len(hist))
	for c := range hist {
		lookup[c] = uint8(offset + nearest(colors, c))
	}

	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette)
	raster.ParallelFor(b.Dy(), func(y int) {
		for x := 0; x < b.Dx(); x++ {
			c, opaque := opaqueAt(img, b.Min.X+x, b.Min.Y+y)
			if !opaque {
				out.SetColorIndex(x, y, 0)
				continue
			}
			out.SetColorIndex(x, y, lookup[c])
		}
	})
	return out
}

// CountColors reports the number of palette entries img needs without
// reduction, including the transparent entry.
func CountColors(img *image.RGBA) int {
	hist, transparent := histogram(img)
	if transparent {
		return len(hist) + 1
	}
	return len(hist)
}

func histogram(img *image.RGBA) (map[color.NRGBA]int, bool) {
	b := img.Bounds()
	hist := make(map[color.NRGBA]int)
	transparent := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, opaque := opaqueAt(img, x, y)
			if !opaque {
				transparent = true
				continue
			}
			hist[c]++
		}
	}
	return hist, transparent
}

func opaqueAt(img *image.RGBA, x, y int) (color.NRGBA, bool) {
	c := img.RGBAAt(x, y)
	if c.A < alphaThreshold {
		return color.NRGBA{}, false
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n, true
}

func packed(c color.NRGBA) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func nearest(colors []color.NRGBA, c color.NRGBA) int {
	best, bestDist := 0, -1
	for i, p := range colors {
		dr := int(c.R) - int(p.R)
		dg := int(c.G) - int(p.G)
		db := int(c.B) - int(p.B)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return best
}

type colorCount struct {
	c     color.NRGBA
	count int
}

type colorBox []colorCount

func (b colorBox) channel(c color.NRGBA, ch int) uint8 {
	switch ch {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

// widest returns the channel with the largest spread and that spread.
func (b colorBox) widest() (int, int) {
	bestCh, bestRange := 0, -1
	for ch := 0; ch < 3; ch++ {
		lo, hi := 255, 0
		for _, cc := range b {
			v := int(b.channel(cc.c, ch))
			lo = min(lo, v)
			hi = max(hi, v)
		}
		if hi-lo > bestRange {
			bestCh, bestRange = ch, hi-lo
		}
	}
	return bestCh, bestRange
}

func (b colorBox) average() color.NRGBA {
	var r, g, bl, n int
	for _, cc := range b {
		r += int(cc.c.R) * cc.count
		g += int(cc.c.G) * cc.count
		bl += int(cc.c.B) * cc.count
		n += cc.count
	}
	if n == 0 {
		return color.NRGBA{A: 0xff}
	}
	return color.NRGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: 0xff}
}

// medianCut reduces hist to at most k representative colors.
func medianCut(hist map[color.NRGBA]int, k int) []color.NRGBA {
	initial := make(colorBox, 0, len(hist))
	for c, n := range hist {
		initial = append(initial, colorCount{c: c, count: n})
	}
	sort.Slice(initial, func(i, j int) bool { return packed(initial[i].c) < packed(initial[j].c) })
	boxes := []colorBox{initial}

	for len(boxes) < k {
		idx, ch, spread := -1, 0, 0
		for i, box := range boxes {
			if len(box) < 2 {
				continue
			}
			c, r := box.widest()
			if r > spread {
				idx, ch, spread = i, c, r
			}
		}
		if idx < 0 {
			break
		}

		box := boxes[idx]
		sort.SliceStable(box, func(i, j int) bool {
			return box.channel(box[i].c, ch) < box.channel(box[j].c, ch)
		})
		total := 0
		for _, cc := range box {
			total += cc.count
		}
		split, acc := 1, 0
		for i, cc := range box[:len(box)-1] {
			acc += cc.count
			split = i + 1
			if acc*2 >= total {
				break
			}
		}
		boxes[idx] = box[:split]
		boxes = append(boxes, box[split:])
	}

	colors := make([]color.NRGBA, len(boxes))
	for i, box := range boxes {
		colors[i] = box.average()
	}
	return colors
}
