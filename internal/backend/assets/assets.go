// Package assets provides the overlay images used by the think filter.
package assets

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/raster"
)

//go:embed thinking-hand.svg
var thinkingHandSVG []byte

// ThinkingHand renders the thinking hand at any size. The embedded vector
// drawing is used unless a raster replacement was configured.
type ThinkingHand struct {
	replacement image.Image

	mu    sync.Mutex
	cache map[int]*image.RGBA
}

// NewThinkingHand loads the optional raster replacement at path. An empty
// path selects the embedded drawing.
func NewThinkingHand(path string) (*ThinkingHand, error) {
	h := &ThinkingHand{cache: make(map[int]*image.RGBA)}
	if path == "" {
		return h, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read think asset: %w", err)
	}
	decoded, err := emoji.Decode(data, "")
	if err != nil {
		return nil, fmt.Errorf("failed to decode think asset: %w", err)
	}
	static, ok := decoded.(*emoji.Static)
	if !ok {
		return nil, fmt.Errorf("think asset must be a still image")
	}
	h.replacement = static.Image
	return h, nil
}

// Render returns the hand as a side x side image on a transparent canvas.
// Callers must not modify the result.
func (h *ThinkingHand) Render(side int) (*image.RGBA, error) {
	if side <= 0 {
		return nil, fmt.Errorf("invalid overlay size %d", side)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if img, ok := h.cache[side]; ok {
		return img, nil
	}

	var img *image.RGBA
	if h.replacement != nil {
		img = raster.Scale(h.replacement, side, side)
	} else {
		var err error
		img, err = raster.RenderSVG(thinkingHandSVG, side, side, color.Transparent)
		if err != nil {
			return nil, err
		}
	}
	h.cache[side] = img
	return img, nil
}
