package parser

import (
	"regexp"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

var (
	milestoneTitleRe = regexp.MustCompile(`^#{1,4}\s*MilestoneTitle\s*:`)
	prerequisiteRe   = regexp.MustCompile(`^-\s*(Block|Module)\s*:\s*\S+`)
)

// Milestone parses a weekly or course milestone reply. Multi-line sections run
// until the next bold marker; References run until the first non-bullet line.
type Milestone struct{}

func (Milestone) Parse(text string) (Result[course.Milestone], error) {
	res := Result[course.Milestone]{}
	ms := &res.Record
	lines := splitLines(text)

	// block collects the lines following a section header up to the next
	// section boundary and returns the index of the boundary line.
	block := func(start int, stop func(string) bool) ([]string, int) {
		var out []string
		i := start
		for ; i < len(lines); i++ {
			line := strings.TrimSpace(lines[i])
			if stop(line) {
				break
			}
			out = append(out, line)
		}
		return out, i
	}
	untilBold := func(line string) bool {
		return strings.HasPrefix(line, "**") || strings.HasPrefix(line, "- **") || strings.HasPrefix(line, "#")
	}

	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])
		marker := line
		if strings.HasPrefix(marker, "- **") {
			marker = strings.TrimSpace(strings.TrimPrefix(marker, "-"))
		}

		switch {
		case milestoneTitleRe.MatchString(line):
			ms.Title = stripEmphasis(milestoneTitleRe.ReplaceAllString(line, ""))
			i++

		case strings.HasPrefix(marker, "**Length:**"):
			ms.Length = stripEmphasis(strings.TrimPrefix(marker, "**Length:**"))
			i++

		case strings.HasPrefix(marker, "**Type:**"):
			ms.Type = stripEmphasis(strings.TrimPrefix(marker, "**Type:**"))
			i++

		case strings.HasPrefix(marker, "**Description"):
			parts := []string{}
			if inline := inlineValue(marker); inline != "" {
				parts = append(parts, inline)
			}
			body, next := block(i+1, untilBold)
			for _, l := range body {
				if l != "" {
					parts = append(parts, l)
				}
			}
			ms.Description = strings.Join(parts, " ")
			i = next

		case strings.HasPrefix(marker, "**Objectives"):
			body, next := block(i+1, untilBold)
			ms.Objectives = bulletItems(body)
			i = next

		case strings.HasPrefix(marker, "**Prerequisites"):
			body, next := block(i+1, untilBold)
			ms.Prerequisites = []string{}
			for _, l := range body {
				if prerequisiteRe.MatchString(l) {
					item, _ := bulletText(l)
					ms.Prerequisites = append(ms.Prerequisites, strings.Join(strings.Fields(item), ""))
				}
			}
			i = next

		case strings.HasPrefix(marker, "**Deliverables"):
			body, next := block(i+1, untilBold)
			ms.Deliverables = bulletItems(body)
			i = next

		case strings.HasPrefix(marker, "**UploadRequired"):
			value := uploadValue(marker)
			i++
			if value == "" {
				for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
					i++
				}
				if i < len(lines) {
					if item, ok := bulletText(lines[i]); ok {
						value = uploadValue(item)
						i++
					}
				}
			}
			up := strings.EqualFold(value, "true")
			if value == "" {
				res.warn("milestone", "upload requirement has no value")
			} else {
				ms.UploadRequired = &up
			}

		case strings.HasPrefix(marker, "**SupportedFiletypes"):
			body, next := block(i+1, untilBold)
			ms.SupportedFiletypes = []string{}
			for _, item := range bulletItems(body) {
				for _, ft := range strings.Split(item, ",") {
					if ft = stripEmphasis(ft); ft != "" {
						ms.SupportedFiletypes = append(ms.SupportedFiletypes, ft)
					}
				}
			}
			i = next

		case strings.HasPrefix(marker, "**References"):
			body, next := block(i+1, func(l string) bool { return !strings.HasPrefix(l, "-") })
			ms.References = []course.Reference{}
			for _, l := range body {
				item, _ := bulletText(l)
				parts := strings.Split(item, " : ")
				if len(parts) != 2 {
					res.warn("milestone", "dropped reference %q", item)
					continue
				}
				ms.References = append(ms.References, course.Reference{
					Title:  stripEmphasis(parts[0]),
					Source: stripEmphasis(parts[1]),
				})
			}
			i = next

		default:
			i++
		}
	}

	if ms.Title == "" && ms.Description == "" && ms.Length == "" && ms.Type == "" &&
		len(ms.Objectives) == 0 && len(ms.Deliverables) == 0 && len(ms.References) == 0 &&
		ms.UploadRequired == nil {
		return res, ErrNoContent
	}
	if ms.Title == "" {
		res.warn("milestone", "title missing")
	}
	return res, nil
}

func bulletItems(lines []string) []string {
	out := []string{}
	for _, l := range lines {
		if item, ok := bulletText(l); ok && item != "" {
			out = append(out, item)
		}
	}
	return out
}

// inlineValue returns the text after the closing "**" of a bold marker such
// as "**Description:** text".
func inlineValue(marker string) string {
	rest := strings.TrimPrefix(marker, "**")
	if idx := strings.Index(rest, "**"); idx >= 0 {
		rest = rest[idx+2:]
	} else if idx := strings.Index(rest, ":"); idx >= 0 {
		rest = rest[idx+1:]
	} else {
		return ""
	}
	return stripEmphasis(strings.TrimPrefix(strings.TrimSpace(rest), ":"))
}

func uploadValue(s string) string {
	if idx := strings.LastIndex(s, ":"); idx >= 0 {
		s = s[idx+1:]
	}
	return strings.ToLower(stripEmphasis(s))
}
