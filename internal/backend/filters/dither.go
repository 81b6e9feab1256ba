package filters

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
)

// DitherPalettes are the palettes dither accepts by name.
var DitherPalettes = map[string][]color.RGBA{
	"mono": {
		{R: 0, G: 0, B: 0, A: 255},
		{R: 255, G: 255, B: 255, A: 255},
	},
	"gameboy": {
		{R: 15, G: 56, B: 15, A: 255},
		{R: 48, G: 98, B: 48, A: 255},
		{R: 139, G: 172, B: 15, A: 255},
		{R: 155, G: 188, B: 15, A: 255},
	},
	"spectra6": {
		{R: 25, G: 30, B: 33, A: 255},
		{R: 232, G: 232, B: 232, A: 255},
		{R: 239, G: 222, B: 68, A: 255},
		{R: 178, G: 19, B: 24, A: 255},
		{R: 33, G: 87, B: 186, A: 255},
		{R: 18, G: 95, B: 32, A: 255},
	},
}

// Dither reduces every frame to a named palette with Floyd-Steinberg error
// diffusion.
var Dither = &filterstructure.Filter{
	Name:      "dither",
	Arguments: []filterstructure.ArgKind{filterstructure.ArgString},
	Apply: func(ctx context.Context, _ *filterstructure.Env, e emoji.Emoji, args filterstructure.Args) (emoji.Emoji, error) {
		palette, ok := DitherPalettes[args.StringAt(0)]
		if !ok {
			return nil, filterstructure.RuntimeError("dither: expected palette (%s)", strings.Join(paletteNames(), " | "))
		}
		return emoji.Framewise(ctx, e, emoji.Lift(func(img *image.RGBA) *image.RGBA {
			return FloydSteinberg(img, palette)
		}))
	},
}

func paletteNames() []string {
	names := make([]string, 0, len(DitherPalettes))
	for name := range DitherPalettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FloydSteinberg maps src onto palette, diffusing the quantization error with
// integer weights 7/3/5/1 (scaled by 16). Alpha is kept; fully transparent
// pixels neither receive nor spread error.
func FloydSteinberg(src *image.RGBA, palette []color.RGBA) *image.RGBA {
	const (
		fsScale    = 16
		wRight     = 7
		wDownLeft  = 3
		wDown      = 5
		wDownRight = 1
	)

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	// error rows hold r, g, b per column
	errCurr := make([]int, w*3)
	errNext := make([]int, w*3)

	roundDiv := func(e int) int {
		if e >= 0 {
			return (e + fsScale/2) / fsScale
		}
		return (e - fsScale/2) / fsScale
	}

	for y := 0; y < h; y++ {
		srcRow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		dstRow := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			p := srcRow[x*4 : x*4+4]
			if p[3] == 0 {
				continue
			}

			// unpremultiply so translucent pixels keep their hue
			var adj [3]int
			for c := 0; c < 3; c++ {
				v := int(p[c]) * 255 / int(p[3])
				adj[c] = clamp8(v + roundDiv(errCurr[x*3+c]))
			}

			chosen := nearestColor(palette, adj)
			alpha := int(p[3])
			d := dstRow[x*4 : x*4+4]
			d[0] = uint8(int(chosen.R) * alpha / 255)
			d[1] = uint8(int(chosen.G) * alpha / 255)
			d[2] = uint8(int(chosen.B) * alpha / 255)
			d[3] = p[3]

			diff := [3]int{adj[0] - int(chosen.R), adj[1] - int(chosen.G), adj[2] - int(chosen.B)}
			for c := 0; c < 3; c++ {
				if x+1 < w {
					errCurr[(x+1)*3+c] += diff[c] * wRight
				}
				if y+1 < h {
					if x > 0 {
						errNext[(x-1)*3+c] += diff[c] * wDownLeft
					}
					errNext[x*3+c] += diff[c] * wDown
					if x+1 < w {
						errNext[(x+1)*3+c] += diff[c] * wDownRight
					}
				}
			}
		}

		errCurr, errNext = errNext, errCurr
		clear(errNext)
	}
	return dst
}

func nearestColor(palette []color.RGBA, c [3]int) color.RGBA {
	best := palette[0]
	bestDist := int(^uint(0) >> 1)
	for _, p := range palette {
		dr, dg, db := c[0]-int(p.R), c[1]-int(p.G), c[2]-int(p.B)
		if dist := dr*dr + dg*dg + db*db; dist < bestDist {
			best, bestDist = p, dist
		}
	}
	return best
}

func clamp8(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func init() {
	if err := filterstructure.DefaultRegistry.Register(Dither); err != nil {
		panic(fmt.Sprintf("failed to register dither: %v", err))
	}
}
