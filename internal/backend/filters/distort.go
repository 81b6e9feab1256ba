package filters

import (
	"fmt"
	"image"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
	"github.com/jo-hoe/emodi/internal/backend/raster"
)

// Distort shears every frame diagonally.
var Distort = filterstructure.Framewise("distort", emoji.Lift(Shear))

// Shear square-pads src and shifts row i right by i pixels, wrapping the
// pixels pushed past the right edge around to the left edge of the row.
func Shear(src *image.RGBA) *image.RGBA {
	square := raster.ToSquare(src)
	side := square.Bounds().Dx()
	dst := image.NewRGBA(image.Rect(0, 0, side, side))

	raster.ParallelFor(side, func(y int) {
		row := square.Pix[y*square.Stride : y*square.Stride+side*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+side*4]
		shift := (y % side) * 4
		copy(out[shift:], row[:len(row)-shift])
		copy(out[:shift], row[len(row)-shift:])
	})
	return dst
}

func init() {
	if err := filterstructure.DefaultRegistry.Register(Distort); err != nil {
		panic(fmt.Sprintf("failed to register distort: %v", err))
	}
}
