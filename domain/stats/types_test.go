package stats

import (
	"testing"
)

func TestParseAlternativeAliases(t *testing.T) {
	tests := []struct {
		input    string
		expected Alternative
		ok       bool
	}{
		{"A_LESS_THAN_B", ALessThanB, true},
		{"B_GREATER_THAN_A", ALessThanB, true},
		{"1 less than 2", ALessThanB, true},
		{"2 greater than 1", ALessThanB, true},
		{"A_GREATER_THAN_B", AGreaterThanB, true},
		{"B_LESS_THAN_A", AGreaterThanB, true},
		{"1 greater than 2", AGreaterThanB, true},
		{"2 less than 1", AGreaterThanB, true},
		{"  a_less_than_b  ", ALessThanB, true},
		{"two-sided", "", false},
		{"1 less than 3", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseAlternative(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseAlternative(%q): ok=%v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseAlternative(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestAlternativeValid(t *testing.T) {
	if !ALessThanB.Valid() || !AGreaterThanB.Valid() {
		t.Error("Expected both closed variants to be valid")
	}
	if Alternative("sideways").Valid() {
		t.Error("Expected unknown token to be invalid")
	}
	if Alternative("").Valid() {
		t.Error("Expected empty token to be invalid")
	}
}

func TestAlternativeFlip(t *testing.T) {
	if ALessThanB.Flip() != AGreaterThanB {
		t.Error("Expected A_LESS_THAN_B to flip to A_GREATER_THAN_B")
	}
	if AGreaterThanB.Flip() != ALessThanB {
		t.Error("Expected A_GREATER_THAN_B to flip to A_LESS_THAN_B")
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy(1000)
	if !p.RespectRatio {
		t.Error("Expected default policy to preserve the sample ratio")
	}
	if p.Replacement {
		t.Error("Expected default policy to draw without replacement")
	}
	if p.FixedSize != 0 {
		t.Errorf("Expected no fixed size, got %d", p.FixedSize)
	}
	if p.Iterations != 1000 {
		t.Errorf("Expected 1000 iterations, got %d", p.Iterations)
	}
}
