package rules

import (
	"slices"
	"strings"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

const (
	HighPriorityPrefix = "[HIGH PRIORITY] "
	DefaultTaskLine    = "- Follow standard project responsibilities as defined."
	ReviewTaskLine     = "- Review any additional requirements or constraints if applicable."
)

// Rank orders tasks in place: urgent first, then by text.
func Rank(tasks []domain.StaffTask) {
	slices.SortStableFunc(tasks, func(a, b domain.StaffTask) int {
		if a.Urgent != b.Urgent {
			if a.Urgent {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Text, b.Text)
	})
}

// Format renders ranked tasks as bullet lines and counts the urgent ones.
// The result always holds at least two lines.
func Format(tasks []domain.StaffTask) ([]string, int) {
	lines := make([]string, 0, len(tasks)+2)
	highPriority := 0
	for _, task := range tasks {
		if task.Urgent {
			highPriority++
			lines = append(lines, "- "+HighPriorityPrefix+task.Text+".")
			continue
		}
		lines = append(lines, "- "+task.Text+".")
	}
	if len(lines) == 0 {
		lines = append(lines, DefaultTaskLine)
	}
	lines = append(lines, ReviewTaskLine)
	return lines, highPriority
}
