package feedback_test

import (
	"testing"

	"github.com/ONSdigital/survey-assist-themes/internal/feedback"
)

const textColumn = "feedback_comments"

func TestHasFeedback(t *testing.T) {
	tests := []struct {
		name string
		row  feedback.RawRow
		want bool
	}{
		{name: "usable text", row: feedback.RawRow{textColumn: "Good service"}, want: true},
		{name: "short but real answer", row: feedback.RawRow{textColumn: "No."}, want: true},
		{name: "absent column", row: feedback.RawRow{"other": "x"}, want: false},
		{name: "empty string", row: feedback.RawRow{textColumn: ""}, want: false},
		{name: "whitespace only", row: feedback.RawRow{textColumn: "   "}, want: false},
		{name: "lowercase nan", row: feedback.RawRow{textColumn: "nan"}, want: false},
		{name: "mixed case nan", row: feedback.RawRow{textColumn: "NaN"}, want: false},
		{name: "uppercase nan with padding", row: feedback.RawRow{textColumn: " NAN "}, want: false},
		{name: "nan as part of a word", row: feedback.RawRow{textColumn: "nanny state"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := feedback.HasFeedback(tt.row, textColumn); got != tt.want {
				t.Errorf("HasFeedback = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterRowsPreservesOrder(t *testing.T) {
	rows := []feedback.RawRow{
		{"id": "1", textColumn: "first"},
		{"id": "2", textColumn: " "},
		{"id": "3", textColumn: "third"},
		{"id": "4", textColumn: "NaN"},
		{"id": "5", textColumn: "fifth"},
	}

	got := feedback.FilterRows(rows, textColumn)

	if len(got) != 3 {
		t.Fatalf("survivors = %d, want 3", len(got))
	}
	for i, wantID := range []string{"1", "3", "5"} {
		if got[i]["id"] != wantID {
			t.Errorf("survivor %d id = %s, want %s", i, got[i]["id"], wantID)
		}
	}
}

func TestFilterRowsDoesNotMutateInput(t *testing.T) {
	rows := []feedback.RawRow{
		{textColumn: "keep"},
		{textColumn: ""},
	}

	_ = feedback.FilterRows(rows, textColumn)

	if len(rows) != 2 {
		t.Errorf("input length changed: %d", len(rows))
	}
	if rows[1][textColumn] != "" {
		t.Errorf("input row mutated: %v", rows[1])
	}
}

func TestFilterRowsAllDropped(t *testing.T) {
	rows := []feedback.RawRow{
		{textColumn: ""},
		{textColumn: "nan"},
	}

	got := feedback.FilterRows(rows, textColumn)
	if len(got) != 0 {
		t.Errorf("survivors = %d, want 0", len(got))
	}
}
