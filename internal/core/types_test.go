package core

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"close", ModeClose},
		{"tplus1", ModeTPlus1},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil {
			t.Errorf("ParseMode(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseMode_Unknown(t *testing.T) {
	for _, in := range []string{"", "t+1", "CLOSE", "daily"} {
		if _, err := ParseMode(in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseMode(%q): err = %v, want ErrInvalidInput", in, err)
		}
	}
}
