package filters

import (
	"testing"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
)

func TestMirror_FlipsHorizontally(t *testing.T) {
	result, err := run(t, nil, emoji.NewStatic(patternImage(5, 3)), "mirror")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	img := mustStatic(t, result)
	if img.RGBAAt(4, 0) != red {
		t.Errorf("Expected red at top-right, got %v", img.RGBAAt(4, 0))
	}
	if img.RGBAAt(0, 0) != green {
		t.Errorf("Expected green at top-left, got %v", img.RGBAAt(0, 0))
	}
	if img.RGBAAt(4, 2) != blue {
		t.Errorf("Expected blue at bottom-right, got %v", img.RGBAAt(4, 2))
	}
}

func TestMirrorV_FlipsVertically(t *testing.T) {
	result, err := run(t, nil, emoji.NewStatic(patternImage(5, 3)), "mirrorV")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	img := mustStatic(t, result)
	if img.RGBAAt(0, 2) != red {
		t.Errorf("Expected red at bottom-left, got %v", img.RGBAAt(0, 2))
	}
	if img.RGBAAt(0, 0) != blue {
		t.Errorf("Expected blue at top-left, got %v", img.RGBAAt(0, 0))
	}
}

func TestMirror_Involution(t *testing.T) {
	for _, name := range []string{"mirror", "mirrorV"} {
		t.Run(name, func(t *testing.T) {
			original := patternImage(7, 4)
			once, err := run(t, nil, emoji.NewStatic(original), name)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			twice, err := run(t, nil, once, name)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !samePixels(original, mustStatic(t, twice)) {
				t.Error("Expected applying twice to restore the original pixels")
			}
		})
	}
}

func TestMirror_AnimatedKeepsOrderAndDelays(t *testing.T) {
	input := animatedOf(3, 7, 11)
	input.LoopCount = 2
	result, err := run(t, nil, input, "mirror")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	anim := mustAnimated(t, result)
	if anim.FrameCount() != 3 {
		t.Fatalf("Expected 3 frames, got %d", anim.FrameCount())
	}
	delays := anim.Delays()
	for i, want := range []int{3, 7, 11} {
		if delays[i] != want {
			t.Errorf("delay[%d] = %d, want %d", i, delays[i], want)
		}
	}
	if anim.LoopCount != 2 {
		t.Errorf("Expected loop count 2, got %d", anim.LoopCount)
	}
	if input.Frames[0].Image.RGBAAt(0, 0) != red {
		t.Error("Expected input frames to be left untouched")
	}
}
