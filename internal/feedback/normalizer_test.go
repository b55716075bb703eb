package feedback_test

import (
	"errors"
	"testing"

	"github.com/ONSdigital/survey-assist-themes/internal/feedback"
)

func TestNormalize(t *testing.T) {
	n := feedback.NewNormalizer("STP")

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "plain identifier", raw: "STP42", want: 42},
		{name: "identifier with sub-response suffix", raw: "STP00861-01", want: 861},
		{name: "leading zeros", raw: "STP007", want: 7},
		{name: "surrounding whitespace", raw: "  STP12  ", want: 12},
		{name: "multi-digit suffix discarded", raw: "STP3-02", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.raw)
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeInvalid(t *testing.T) {
	n := feedback.NewNormalizer("STP")

	tests := []struct {
		name string
		raw  string
	}{
		{name: "wrong prefix", raw: "ABC123"},
		{name: "empty string", raw: ""},
		{name: "prefix without digits", raw: "STP"},
		{name: "suffix without digits", raw: "STP12-"},
		{name: "non-numeric suffix", raw: "STP12-ab"},
		{name: "trailing garbage", raw: "STP12x"},
		{name: "digits before prefix", raw: "1STP2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.raw)
			if !errors.Is(err, feedback.ErrInvalidResponseID) {
				t.Errorf("Normalize(%q) error = %v, want ErrInvalidResponseID", tt.raw, err)
			}
		})
	}
}

func TestNormalizeCustomPrefix(t *testing.T) {
	n := feedback.NewNormalizer("RESP")

	got, err := n.Normalize("RESP100-3")
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if got != 100 {
		t.Errorf("Normalize = %d, want 100", got)
	}

	if _, err := n.Normalize("STP100"); !errors.Is(err, feedback.ErrInvalidResponseID) {
		t.Errorf("wrong prefix should fail, got %v", err)
	}
}
