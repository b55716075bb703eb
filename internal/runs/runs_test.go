package runs

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubScanner struct {
	values []any
}

func (s *stubScanner) Scan(dest ...any) error {
	if len(dest) != len(s.values) {
		return fmt.Errorf("scan arity %d, want %d", len(dest), len(s.values))
	}
	for i, d := range dest {
		switch target := d.(type) {
		case *uuid.UUID:
			*target = s.values[i].(uuid.UUID)
		case *string:
			*target = s.values[i].(string)
		case *Status:
			*target = s.values[i].(Status)
		case *int:
			*target = s.values[i].(int)
		case *time.Time:
			*target = s.values[i].(time.Time)
		case **time.Time:
			if s.values[i] == nil {
				*target = nil
			} else {
				v := s.values[i].(time.Time)
				*target = &v
			}
		default:
			return fmt.Errorf("unsupported scan target %T", d)
		}
	}
	return nil
}

func TestScanRun(t *testing.T) {
	id := uuid.New()
	started := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	completed := started.Add(2 * time.Minute)

	scanner := &stubScanner{values: []any{
		id,
		"input/example_feedback_v2.csv",
		StatusCompleted,
		42,
		"output/themefinder_output_20260825_090200.json",
		"",
		started,
		completed,
	}}

	run, err := scanRun(scanner)
	if err != nil {
		t.Fatalf("scanRun error: %v", err)
	}

	if run.ID != id {
		t.Errorf("ID = %s", run.ID)
	}
	if run.SourceKey != "input/example_feedback_v2.csv" {
		t.Errorf("SourceKey = %s", run.SourceKey)
	}
	if run.Status != StatusCompleted {
		t.Errorf("Status = %s", run.Status)
	}
	if run.RecordCount != 42 {
		t.Errorf("RecordCount = %d", run.RecordCount)
	}
	if run.CompletedAt == nil || !run.CompletedAt.Equal(completed) {
		t.Errorf("CompletedAt = %v", run.CompletedAt)
	}
}

func TestScanRunNullCompletedAt(t *testing.T) {
	scanner := &stubScanner{values: []any{
		uuid.New(),
		"input/example_feedback_v2.csv",
		StatusRunning,
		0,
		"",
		"",
		time.Now(),
		nil,
	}}

	run, err := scanRun(scanner)
	if err != nil {
		t.Fatalf("scanRun error: %v", err)
	}
	if run.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil", run.CompletedAt)
	}
}

func TestTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{status: StatusRunning, want: false},
		{status: StatusCompleted, want: true},
		{status: StatusFailed, want: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			run := &Run{Status: tt.status}
			if got := run.Terminal(); got != tt.want {
				t.Errorf("Terminal = %v, want %v", got, tt.want)
			}
		})
	}
}
