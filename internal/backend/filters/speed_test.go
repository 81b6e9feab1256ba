package filters

import (
	"testing"

	"github.com/jo-hoe/emodi/internal/backend/emoji"
	"github.com/jo-hoe/emodi/internal/backend/filterstructure"
)

func TestSpeedTimes(t *testing.T) {
	tests := []struct {
		name   string
		delays []int
		ratio  string
		want   []int
	}{
		{"double speed", []int{10, 10, 10}, "2", []int{5, 5, 5}},
		{"clamped to minimum", []int{10, 4, 3}, "4", []int{3, 2, 2}},
		{"slow down", []int{4, 6}, "0.5", []int{8, 12}},
		{"huge ratio", []int{100}, "1000000", []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := animatedOf(tt.delays...)
			result, err := run(t, nil, input, "speedTimes", tt.ratio)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			got := mustAnimated(t, result).Delays()
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("delay[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
			for i, d := range input.Delays() {
				if d != tt.delays[i] {
					t.Errorf("input delay[%d] mutated to %d", i, d)
				}
			}
		})
	}
}

func TestSpeedTimes_StaticPassesThrough(t *testing.T) {
	input := emoji.NewStatic(patternImage(4, 4))
	result, err := run(t, nil, input, "speedTimes", "3")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result != input {
		t.Error("Expected static emoji to pass through unchanged")
	}
}

func TestSpeedTimes_RejectsNonPositiveRatio(t *testing.T) {
	for _, ratio := range []string{"0", "-1", "Inf"} {
		t.Run(ratio, func(t *testing.T) {
			_, err := run(t, nil, animatedOf(10), "speedTimes", ratio)
			if filterstructure.KindOf(err) != filterstructure.KindType {
				t.Errorf("Expected TypeError, got %v", err)
			}
		})
	}
}
