package prompts

import (
	"fmt"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

// WeekPlan renders a week and its generated blocks as the outline handed to
// the weekly milestone prompt.
func WeekPlan(w course.Week) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Week Topic: %s\n\n", w.Topic)
	for _, m := range w.Modules {
		fmt.Fprintf(&b, "## Module %s: %s\n", m.Number, m.Title)
		for i, blk := range m.Blocks {
			fmt.Fprintf(&b, "- **Block %s.%d:** %s\n", m.Number, i+1, blk.Title)
		}
	}
	return b.String()
}

// OverallPlan concatenates week plans under 1-based week markers.
func OverallPlan(plans []string) string {
	var b strings.Builder
	for i, p := range plans {
		fmt.Fprintf(&b, "# Week : %d\n%s\n", i+1, p)
	}
	return b.String()
}

// BlockList renders a module's blocks for the metadata prompt. IDs are the
// 0-based block positions the metadata reply is expected to echo.
func BlockList(m course.Module) string {
	var b strings.Builder
	for j, blk := range m.Blocks {
		fmt.Fprintf(&b, "ID : %d | **%s** | %d Minutes (%s)\n", j, blk.Title, blk.Length, blk.Type)
	}
	return b.String()
}
