package filters

import (
	"image"
	"testing"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
)

func withBlock(img *image.RGBA, r image.Rectangle) *image.RGBA {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, red)
		}
	}
	return img
}

func TestTrim_Static(t *testing.T) {
	input := withBlock(solidImage(10, 10, white), image.Rect(3, 2, 6, 7))
	result, err := run(t, nil, emoji.NewStatic(input), "trim", "10")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	img := mustStatic(t, result)
	if size := img.Bounds().Size(); size != image.Pt(3, 5) {
		t.Fatalf("Expected 3x5 result, got %v", size)
	}
	if img.RGBAAt(0, 0) != red {
		t.Errorf("Expected red content, got %v", img.RGBAAt(0, 0))
	}
}

func TestTrim_ThresholdKeepsSimilarBorder(t *testing.T) {
	input := withBlock(solidImage(10, 10, white), image.Rect(3, 2, 6, 7))
	result, err := run(t, nil, emoji.NewStatic(input), "trim", "255")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if size := result.Size(); size != image.Pt(10, 10) {
		t.Errorf("Expected untouched 10x10 image, got %v", size)
	}
}

func TestTrim_AnimatedUsesUnionBox(t *testing.T) {
	input := emoji.NewAnimated([]emoji.Frame{
		{Image: withBlock(solidImage(10, 10, white), image.Rect(1, 1, 3, 3)), Delay: 5},
		{Image: withBlock(solidImage(10, 10, white), image.Rect(5, 5, 7, 7)), Delay: 5},
	})
	result, err := run(t, nil, input, "trim", "0")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	anim := mustAnimated(t, result)
	for i, f := range anim.Frames {
		if size := f.Image.Bounds().Size(); size != image.Pt(6, 6) {
			t.Errorf("frame %d is %v, want 6x6", i, size)
		}
	}
	if anim.Frames[1].Image.RGBAAt(5, 5) != red {
		t.Error("Expected second frame content at its bottom-right corner")
	}
}

func TestContentBounds(t *testing.T) {
	img := withBlock(solidImage(6, 6, white), image.Rect(2, 1, 4, 5))
	if got := ContentBounds(img, 0); got != image.Rect(2, 1, 4, 5) {
		t.Errorf("ContentBounds = %v, want (2,1)-(4,5)", got)
	}
	if got := ContentBounds(solidImage(3, 3, white), 0); !got.Empty() {
		t.Errorf("Expected empty bounds for a uniform image, got %v", got)
	}
}
