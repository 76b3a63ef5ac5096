package domain

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"pending", "accepted", "rejected"} {
		s, err := ParseStatus(raw)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", raw, err)
		}
		if string(s) != raw {
			t.Errorf("ParseStatus(%q) = %q", raw, s)
		}
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	for _, raw := range []string{"", "approved", "PENDING", "cancelled"} {
		if _, err := ParseStatus(raw); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("ParseStatus(%q): expected ErrInvalidStatus, got %v", raw, err)
		}
	}
}

func TestMatchPercentage(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{0.87654, 87.65},
		{1, 100},
		{0, 0},
		{0.5, 50},
		{0.12345, 12.35},
	}
	for _, tt := range tests {
		if got := MatchPercentage(tt.score); got != tt.want {
			t.Errorf("MatchPercentage(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}
