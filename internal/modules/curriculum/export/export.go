// Package export renders a course document for download.
package export

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

func list(b *strings.Builder, items []string) {
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func refs(b *strings.Builder, rs []course.Reference) {
	for _, r := range rs {
		if r.Source == "" {
			fmt.Fprintf(b, "- %s\n", r.Title)
			continue
		}
		fmt.Fprintf(b, "- %s (%s)\n", r.Title, r.Source)
	}
	b.WriteString("\n")
}

func hours(h float64) string { return strconv.FormatFloat(h, 'f', -1, 64) }

func milestone(b *strings.Builder, heading string, m course.MilestoneDoc) {
	fmt.Fprintf(b, "%s: %s\n\n", heading, m.MilestoneTitle)
	fmt.Fprintf(b, "*%s, %s*\n\n", m.Type, m.Length)
	fmt.Fprintf(b, "**Description**: %s\n\n", m.Description)
	b.WriteString("**Objectives**:\n\n")
	list(b, m.Objectives)
	if len(m.Prerequisites) > 0 {
		b.WriteString("**Prerequisites**:\n\n")
		list(b, m.Prerequisites)
	}
	b.WriteString("**Deliverables**:\n\n")
	list(b, m.Deliverables)
	if m.UploadRequired {
		fmt.Fprintf(b, "**Upload**: %s\n\n", strings.Join(m.SupportedFiletypes, ", "))
	}
	b.WriteString("**References**:\n\n")
	refs(b, m.References)
}

// Markdown renders the whole course: outline, weeks with modules and blocks,
// weekly milestones, then the course milestone.
func Markdown(doc course.CourseDocument) string {
	c := doc.Course
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", c.Title)
	fmt.Fprintf(&b, "**Overview**: %s\n\n", c.Overview)
	b.WriteString("## Prerequisites\n\n")
	list(&b, c.Prerequisites)
	b.WriteString("## Learning Outcomes\n\n")
	list(&b, c.LearningOutcomes)
	b.WriteString("## Skills\n\n")
	list(&b, c.Skills)

	for _, w := range c.Weeks {
		fmt.Fprintf(&b, "## Week %d: %s\n\n", w.WeekNumber, w.WeekTopic)
		for _, m := range w.WeekModules {
			fmt.Fprintf(&b, "### %s (%s hours)\n\n", m.ModuleTitle, hours(m.DurationHours))
			for _, blk := range m.ContentBlocks {
				fmt.Fprintf(&b, "#### %s (%d minutes, %s)\n\n", blk.BlockTitle, blk.Length, blk.Type)
				b.WriteString("**Objectives**:\n\n")
				list(&b, blk.Objectives)
				b.WriteString("**References**:\n\n")
				refs(&b, blk.References)
			}
		}
		milestone(&b, "### Week Milestone", w.WeekMilestone)
	}
	milestone(&b, "## Course Milestone", c.CourseMilestone)
	return strings.TrimRight(b.String(), "\n") + "\n"
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders the markdown export as a standalone page.
func HTML(doc course.CourseDocument) (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(doc)), &body); err != nil {
		return "", fmt.Errorf("render course html: %w", err)
	}
	var out strings.Builder
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n", html.EscapeString(doc.Course.Title))
	out.WriteString("</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.String(), nil
}
