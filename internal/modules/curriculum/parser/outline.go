package parser

import (
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

// Outline parses the course_outline reply:
//
//	## Title: X
//	### Overview: Y
//	### Prerequisites:
//	* A
//	### Learning Outcomes:
//	* B
//	### Skills:
//	* C
type Outline struct{}

type outlineSection int

const (
	outlineNone outlineSection = iota
	outlinePrereqs
	outlineOutcomes
	outlineSkills
)

func (Outline) Parse(text string) (Result[course.Outline], error) {
	res := Result[course.Outline]{Record: course.Outline{
		Prerequisites:    []string{},
		LearningOutcomes: []string{},
		Skills:           []string{},
	}}
	out := &res.Record
	lines := splitLines(text)
	section := outlineNone

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "## Title:"):
			out.Title = stripEmphasis(strings.TrimPrefix(line, "## Title:"))
			section = outlineNone
		case strings.HasPrefix(line, "### Overview:"):
			out.Overview = stripEmphasis(strings.TrimPrefix(line, "### Overview:"))
			if out.Overview == "" {
				for j := i + 1; j < len(lines); j++ {
					next := strings.TrimSpace(lines[j])
					if next == "" {
						continue
					}
					if !strings.HasPrefix(next, "#") {
						out.Overview = next
					}
					break
				}
			}
			section = outlineNone
		case strings.HasPrefix(line, "### Prerequisites:"):
			section = outlinePrereqs
		case strings.HasPrefix(line, "### Learning Outcomes:"), strings.HasPrefix(line, "### LearningOutcomes:"):
			section = outlineOutcomes
		case strings.HasPrefix(line, "### Skills:"):
			section = outlineSkills
		case strings.HasPrefix(line, "#"):
			section = outlineNone
		default:
			item, ok := bulletText(line)
			if !ok || item == "" {
				continue
			}
			switch section {
			case outlinePrereqs:
				out.Prerequisites = append(out.Prerequisites, item)
			case outlineOutcomes:
				out.LearningOutcomes = append(out.LearningOutcomes, item)
			case outlineSkills:
				out.Skills = append(out.Skills, item)
			}
		}
	}

	if out.Title == "" && out.Overview == "" && len(out.Prerequisites) == 0 &&
		len(out.LearningOutcomes) == 0 && len(out.Skills) == 0 {
		return res, ErrNoContent
	}
	if out.Title == "" {
		res.warn("outline", "title missing")
	}
	if out.Overview == "" {
		res.warn("outline", "overview missing")
	}
	if len(out.LearningOutcomes) == 0 {
		res.warn("outline", "learning outcomes missing")
	}
	if len(out.Skills) == 0 {
		res.warn("outline", "skills missing")
	}
	return res, nil
}
