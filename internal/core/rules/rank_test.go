package rules

import (
	"slices"
	"strings"
	"testing"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

func TestRankUrgentFirstThenText(t *testing.T) {
	tasks := []domain.StaffTask{
		{Text: "Update the runbook"},
		{Text: "Restore service", Urgent: true},
		{Text: "Archive old tickets"},
		{Text: "Escalate the outage", Urgent: true},
	}

	Rank(tasks)

	want := []string{"Escalate the outage", "Restore service", "Archive old tickets", "Update the runbook"}
	got := make([]string, 0, len(tasks))
	for _, task := range tasks {
		got = append(got, task.Text)
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected order: %q", got)
	}
}

func TestFormatEmptyUsesDefaults(t *testing.T) {
	lines, highPriority := Format(nil)
	if highPriority != 0 {
		t.Fatalf("expected 0 high priority, got %d", highPriority)
	}
	want := []string{DefaultTaskLine, ReviewTaskLine}
	if !slices.Equal(lines, want) {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestFormatRendersPriorityPrefix(t *testing.T) {
	lines, highPriority := Format([]domain.StaffTask{
		{Text: "Restore service", Urgent: true},
		{Text: "Archive old tickets"},
	})

	want := []string{
		"- [HIGH PRIORITY] Restore service.",
		"- Archive old tickets.",
		ReviewTaskLine,
	}
	if !slices.Equal(lines, want) {
		t.Fatalf("unexpected lines: %q", lines)
	}
	if highPriority != 1 {
		t.Fatalf("expected 1 high priority, got %d", highPriority)
	}
	prefixed := 0
	for _, line := range lines {
		if strings.Contains(line, HighPriorityPrefix) {
			prefixed++
		}
	}
	if prefixed != highPriority {
		t.Fatalf("prefixed lines %d != high priority count %d", prefixed, highPriority)
	}
}
