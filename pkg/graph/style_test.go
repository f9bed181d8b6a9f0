package graph

import (
	"testing"

	"github.com/styx-api/styxgraph/pkg/errors"
)

func TestStyleString(t *testing.T) {
	tests := []struct {
		style   Style
		keyword string
		name    string
		rankdir string
	}{
		{TopDown, "TD", "top-down", "TB"},
		{LeftRight, "LR", "left-right", "LR"},
		{BottomTop, "BT", "bottom-top", "BT"},
		{RightLeft, "RL", "right-left", "RL"},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			if got := tt.style.String(); got != tt.keyword {
				t.Errorf("String() = %q, want %q", got, tt.keyword)
			}
			if got := tt.style.Name(); got != tt.name {
				t.Errorf("Name() = %q, want %q", got, tt.name)
			}
			if got := tt.style.RankDir(); got != tt.rankdir {
				t.Errorf("RankDir() = %q, want %q", got, tt.rankdir)
			}
		})
	}
}

func TestStyleZeroValueIsTopDown(t *testing.T) {
	var s Style
	if s != TopDown {
		t.Errorf("zero Style = %v, want TopDown", s)
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"TD", TopDown, false},
		{"td", TopDown, false},
		{"TB", TopDown, false},
		{"LR", LeftRight, false},
		{"left-right", LeftRight, false},
		{"BT", BottomTop, false},
		{"Bottom-Top", BottomTop, false},
		{" RL ", RightLeft, false},
		{"diagonal", TopDown, true},
		{"", TopDown, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStyle(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStyle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidStyle) {
				t.Errorf("ParseStyle(%q) code = %v, want %v", tt.in, errors.GetCode(err), errors.ErrCodeInvalidStyle)
			}
			if got != tt.want {
				t.Errorf("ParseStyle(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
