package emoji

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"log/slog"
	"strings"

	"github.com/jo-hoe/emodi/internal/backend/raster"

	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// svgFallbackSize is used for SVG emoji without explicit width/height.
	svgFallbackSize = 128

	ContentTypePNG = "image/png"
	ContentTypeGIF = "image/gif"

	// DefaultMaxPixels bounds the decoded canvas area summed over all frames.
	DefaultMaxPixels int64 = 16 << 20
)

// ErrTooLarge is returned for images whose decoded size exceeds the pixel budget.
var ErrTooLarge = errors.New("image too large")

var errMalformedGIF = errors.New("malformed GIF block structure")

// Decode turns downloaded bytes into an Emoji using DefaultMaxPixels.
func Decode(data []byte, contentType string) (Emoji, error) {
	return DecodeLimited(data, contentType, DefaultMaxPixels)
}

// DecodeLimited turns downloaded bytes into an Emoji. Content served as
// image/gif becomes an Animated value with its frames composited onto the full
// logical screen; a GIF of another declared type is Animated only when it has
// several frames. Every other supported format, SVG included, becomes a Static
// value. Sizes are checked against maxPixels before any pixel buffer is
// allocated; maxPixels <= 0 selects DefaultMaxPixels.
func DecodeLimited(data []byte, contentType string, maxPixels int64) (Emoji, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	contentType, _, _ = strings.Cut(contentType, ";")
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	if contentType == ContentTypeGIF || bytes.HasPrefix(data, []byte("GIF8")) {
		frames, bounds, err := scanGIF(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode GIF: %w", err)
		}
		if err := checkPixels(bounds.Dx(), bounds.Dy(), frames, maxPixels); err != nil {
			return nil, err
		}
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode GIF: %w", err)
		}
		if len(g.Image) == 0 {
			return nil, fmt.Errorf("failed to decode GIF: no frames")
		}
		if len(g.Image) > 1 || contentType == ContentTypeGIF {
			return decodeAnimated(g), nil
		}
		slog.Debug("single frame GIF decoded as static emoji")
		return NewStatic(raster.Clone(g.Image[0])), nil
	}

	if strings.HasPrefix(contentType, "image/svg") || raster.IsSVG(data) {
		w, h, ok := raster.SVGSize(data)
		if !ok {
			w, h = svgFallbackSize, svgFallbackSize
		}
		if err := checkPixels(w, h, 1, maxPixels); err != nil {
			return nil, err
		}
		img, err := raster.RenderSVG(data, w, h, color.Transparent)
		if err != nil {
			return nil, err
		}
		return NewStatic(img), nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if err := checkPixels(cfg.Width, cfg.Height, 1, maxPixels); err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	slog.Debug("decoded static emoji",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return NewStatic(raster.Clone(img)), nil
}

func checkPixels(w, h, frames int, maxPixels int64) error {
	if frames < 1 {
		frames = 1
	}
	area := int64(w) * int64(h)
	if area > maxPixels || area*int64(frames) > maxPixels {
		return fmt.Errorf("%w: %dx%d with %d frame(s) exceeds %d pixels", ErrTooLarge, w, h, frames, maxPixels)
	}
	return nil
}

// scanGIF walks the GIF block structure without decoding pixel data. It
// returns the number of frames and the union of the logical screen with every
// frame rectangle. A stream that ends early is left for the decoder to report.
func scanGIF(data []byte) (int, image.Rectangle, error) {
	const (
		headerLen     = 13
		descriptorLen = 10
	)
	if len(data) < headerLen {
		return 0, image.Rectangle{}, errMalformedGIF
	}
	u16 := func(b []byte) int { return int(binary.LittleEndian.Uint16(b)) }

	bounds := image.Rect(0, 0, u16(data[6:8]), u16(data[8:10]))
	pos := headerLen
	if data[10]&0x80 != 0 {
		pos += 3 << (int(data[10]&0x07) + 1)
	}

	frames := 0
	for pos < len(data) {
		switch data[pos] {
		case 0x21: // extension: label, then sub-blocks
			pos = skipSubBlocks(data, pos+2)
		case 0x2C: // image descriptor
			if pos+descriptorLen > len(data) {
				return frames, bounds, nil
			}
			d := data[pos+1 : pos+descriptorLen]
			left, top := u16(d[0:2]), u16(d[2:4])
			bounds = bounds.Union(image.Rect(left, top, left+u16(d[4:6]), top+u16(d[6:8])))
			frames++
			pos += descriptorLen
			if d[8]&0x80 != 0 {
				pos += 3 << (int(d[8]&0x07) + 1)
			}
			// LZW minimum code size precedes the data sub-blocks
			pos = skipSubBlocks(data, pos+1)
		case 0x3B: // trailer
			return frames, bounds, nil
		default:
			return frames, bounds, errMalformedGIF
		}
	}
	return frames, bounds, nil
}

// skipSubBlocks returns the position after the sub-block terminator, or a
// position past the end when the data ends first.
func skipSubBlocks(data []byte, pos int) int {
	for pos < len(data) {
		n := int(data[pos])
		pos++
		if n == 0 {
			return pos
		}
		pos += n
	}
	return pos
}

// decodeAnimated coalesces GIF sub-images into full canvas frames, honoring
// each frame's disposal method.
func decodeAnimated(g *gif.GIF) *Animated {
	screen := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if screen.Empty() {
		for _, p := range g.Image {
			screen = screen.Union(p.Bounds())
		}
	}

	canvas := image.NewRGBA(screen)
	frames := make([]Frame, 0, len(g.Image))
	for i, p := range g.Image {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		var previous *image.RGBA
		if disposal == gif.DisposalPrevious {
			previous = raster.Clone(canvas)
		}

		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)

		delay := 0
		if i < len(g.Delay) {
			delay = g.Delay[i]
		}
		frames = append(frames, Frame{Image: raster.Clone(canvas), Delay: delay})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			draw.Draw(canvas, canvas.Bounds(), previous, image.Point{}, draw.Src)
		}
	}

	a := NewAnimated(frames)
	a.LoopCount = g.LoopCount
	return a
}

// Encode renders e for publication: Static values as PNG, Animated values as
// a GIF whose frames are palette reduced to the container's color limit.
func Encode(e Emoji) ([]byte, string, error) {
	var buf bytes.Buffer
	switch v := e.(type) {
	case *Static:
		if err := png.Encode(&buf, v.Image); err != nil {
			return nil, "", fmt.Errorf("failed to encode PNG image: %w", err)
		}
		return buf.Bytes(), ContentTypePNG, nil
	case *Animated:
		if len(v.Frames) == 0 {
			return nil, "", fmt.Errorf("animated emoji has no frames")
		}
		maxColors := v.MaxColors
		if maxColors <= 0 || maxColors > DefaultMaxColors {
			maxColors = DefaultMaxColors
		}

		size := v.Size()
		g := &gif.GIF{
			Image:     make([]*image.Paletted, len(v.Frames)),
			Delay:     make([]int, len(v.Frames)),
			Disposal:  make([]byte, len(v.Frames)),
			LoopCount: v.LoopCount,
			Config:    image.Config{Width: size.X, Height: size.Y},
		}
		for i, f := range v.Frames {
			g.Image[i] = Palettize(f.Image, maxColors)
			g.Delay[i] = f.Delay
			g.Disposal[i] = gif.DisposalBackground
		}
		if err := gif.EncodeAll(&buf, g); err != nil {
			return nil, "", fmt.Errorf("failed to encode GIF image: %w", err)
		}
		return buf.Bytes(), ContentTypeGIF, nil
	default:
		return nil, "", fmt.Errorf("unsupported emoji variant %T", e)
	}
}
