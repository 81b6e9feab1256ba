package filters

import (
	"image"
	"image/color"
	"testing"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
)

func TestDistort_KeepsSquareDimensions(t *testing.T) {
	for _, n := range []int{1, 5, 32} {
		result, err := run(t, nil, emoji.NewStatic(patternImage(n, n)), "distort")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if size := result.Size(); size != image.Pt(n, n) {
			t.Errorf("Expected %dx%d, got %v", n, n, size)
		}
	}
}

func TestShear_ShiftsRowsRightWithWrap(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetRGBA(x, y, color.RGBA{uint8(x * 10), uint8(y * 10), 0, 255})
		}
	}

	out := Shear(src)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := src.RGBAAt(x, y)
			got := out.RGBAAt((x+y)%4, y)
			if got != want {
				t.Errorf("pixel (%d,%d) moved to (%d,%d) as %v, want %v", x, y, (x+y)%4, y, got, want)
			}
		}
	}
}

func TestShear_PadsNonSquare(t *testing.T) {
	out := Shear(solidImage(4, 2, red))
	if size := out.Bounds().Size(); size != image.Pt(4, 4) {
		t.Fatalf("Expected 4x4, got %v", size)
	}
	if out.RGBAAt(0, 0).A != 0 {
		t.Error("Expected transparent padding row")
	}
	if out.RGBAAt(2, 1) != red {
		t.Error("Expected content in the first padded-in row")
	}
}
