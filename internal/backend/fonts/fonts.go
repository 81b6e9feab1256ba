// Package fonts turns text into SVG path data using TrueType/OpenType
// outlines. Fonts are looked up by name; unknown names fall back to Go Regular.
package fonts

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FallbackName is the name under which the built-in Go Regular font is known.
const FallbackName = "Go Regular"

// Source names a font file on disk.
type Source struct {
	Name string
	Path string
}

// SFNTRenderer loads fonts on first use and keeps them for the process lifetime.
type SFNTRenderer struct {
	mu      sync.Mutex
	sources map[string]string
	loaded  map[string]*sfnt.Font
}

// NewSFNTRenderer creates a renderer knowing the given font files.
func NewSFNTRenderer(sources []Source) *SFNTRenderer {
	r := &SFNTRenderer{
		sources: make(map[string]string, len(sources)),
		loaded:  make(map[string]*sfnt.Font),
	}
	for _, s := range sources {
		r.sources[s.Name] = s.Path
	}
	return r
}

// Font returns the parsed font called name, loading it if necessary.
func (r *SFNTRenderer) Font(name string) (*sfnt.Font, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.loaded[name]; ok {
		return f, nil
	}

	var data []byte
	path, known := r.sources[name]
	if known {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font %s: %w", name, err)
		}
	} else {
		if name != FallbackName {
			slog.Warn("unknown font, using fallback", "font", name, "fallback", FallbackName)
		}
		data = goregular.TTF
	}

	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	r.loaded[name] = f
	return f, nil
}

// PathData lays out text on a single line with its baseline origin at (x, y)
// and returns the glyph outlines as SVG path data. Runes the font has no
// glyph for advance the pen but draw nothing.
func (r *SFNTRenderer) PathData(ctx context.Context, fontName, text string, x, y, size float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := r.Font(fontName)
	if err != nil {
		return "", err
	}

	var buf sfnt.Buffer
	ppem := fixed.Int26_6(math.Round(size * 64))
	var sb strings.Builder

	pen := x
	prev, hasPrev := sfnt.GlyphIndex(0), false
	for _, ch := range text {
		idx, err := f.GlyphIndex(&buf, ch)
		if err != nil {
			return "", fmt.Errorf("failed to look up glyph for %q: %w", ch, err)
		}

		if hasPrev {
			kern, err := f.Kern(&buf, prev, idx, ppem, font.HintingNone)
			if err == nil {
				pen += fromFixed(kern)
			}
		}

		if idx != 0 {
			segments, err := f.LoadGlyph(&buf, idx, ppem, nil)
			if err != nil {
				return "", fmt.Errorf("failed to load glyph for %q: %w", ch, err)
			}
			writeSegments(&sb, segments, pen, y)
		}

		advance, err := f.GlyphAdvance(&buf, idx, ppem, font.HintingNone)
		if err != nil {
			return "", fmt.Errorf("failed to measure glyph for %q: %w", ch, err)
		}
		pen += fromFixed(advance)
		prev, hasPrev = idx, true
	}

	return strings.TrimSpace(sb.String()), nil
}

// writeSegments appends one closed subpath per contour. Segment coordinates
// grow downwards like SVG user space.
func writeSegments(sb *strings.Builder, segments sfnt.Segments, dx, dy float64) {
	open := false
	for _, s := range segments {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				sb.WriteString("Z ")
			}
			sb.WriteString("M")
			writePoints(sb, s.Args[:1], dx, dy)
			open = true
		case sfnt.SegmentOpLineTo:
			sb.WriteString("L")
			writePoints(sb, s.Args[:1], dx, dy)
		case sfnt.SegmentOpQuadTo:
			sb.WriteString("Q")
			writePoints(sb, s.Args[:2], dx, dy)
		case sfnt.SegmentOpCubeTo:
			sb.WriteString("C")
			writePoints(sb, s.Args[:3], dx, dy)
		}
	}
	if open {
		sb.WriteString("Z ")
	}
}

func writePoints(sb *strings.Builder, points []fixed.Point26_6, dx, dy float64) {
	for i, p := range points {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatCoord(dx + fromFixed(p.X)))
		sb.WriteByte(' ')
		sb.WriteString(formatCoord(dy + fromFixed(p.Y)))
	}
	sb.WriteByte(' ')
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// formatCoord keeps two decimals, enough for a 128 pixel canvas.
func formatCoord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
