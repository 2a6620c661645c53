// Package validation checks generated curriculum records against the
// structural rules the prompts ask for. Issues are reported, never fixed.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

const (
	MinBlockMinutes   = 15
	MaxBlockMinutes   = 45
	MaxMilestoneTitle = 60
	durationTolerance = 1e-6
	minMilestoneObjs  = 2
	minMilestoneRefs  = 2
	maxMilestoneRefs  = 4
)

type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string { return i.Path + ": " + i.Message }

var (
	placeholderRe = regexp.MustCompile(`(?i)^(introduction|intro|basics|tbd|wrap[- ]?up|review|quiz|recap|conclusion|more on\b.*)$`)
	urlRe         = regexp.MustCompile(`(?i)(https?://|www\.)`)
)

// IsPlaceholderTitle reports whether a title is empty or a generic label.
func IsPlaceholderTitle(title string) bool {
	t := strings.TrimSpace(title)
	return t == "" || placeholderRe.MatchString(t)
}

// Week checks that module durations add up to the week's hours.
func Week(w course.Week) []Issue {
	var out []Issue
	path := fmt.Sprintf("week %d", w.Number)
	if len(w.Modules) == 0 {
		return append(out, Issue{Path: path, Message: "no modules"})
	}
	sum := 0.0
	for _, m := range w.Modules {
		sum += m.DurationHours
		if m.DurationHours <= 0 {
			out = append(out, Issue{Path: path + " module " + m.Number, Message: "duration must be positive"})
		}
		if IsPlaceholderTitle(m.Title) {
			out = append(out, Issue{Path: path + " module " + m.Number, Message: fmt.Sprintf("placeholder title %q", m.Title)})
		}
	}
	if math.Abs(sum-w.HoursPerWeek) > durationTolerance {
		out = append(out, Issue{Path: path, Message: fmt.Sprintf("module hours sum to %.2f, want %.2f", sum, w.HoursPerWeek)})
	}
	return out
}

// Module checks block lengths and titles against the module duration.
func Module(m course.Module) []Issue {
	var out []Issue
	path := "module " + m.Number
	if len(m.Blocks) == 0 {
		return append(out, Issue{Path: path, Message: "no blocks"})
	}
	total := 0
	for i, b := range m.Blocks {
		bp := fmt.Sprintf("%s block %d", path, i+1)
		total += b.Length
		if b.Length < MinBlockMinutes || b.Length > MaxBlockMinutes {
			out = append(out, Issue{Path: bp, Message: fmt.Sprintf("length %d outside [%d, %d]", b.Length, MinBlockMinutes, MaxBlockMinutes)})
		}
		if IsPlaceholderTitle(b.Title) {
			out = append(out, Issue{Path: bp, Message: fmt.Sprintf("placeholder title %q", b.Title)})
		}
	}
	want := math.Round(m.DurationHours * 60)
	if math.Abs(float64(total)-want) > durationTolerance {
		out = append(out, Issue{Path: path, Message: fmt.Sprintf("block minutes sum to %d, want %.0f", total, want)})
	}
	return out
}

// Milestone checks a parsed milestone before defaults are applied.
func Milestone(scope string, m course.Milestone) []Issue {
	var out []Issue
	add := func(format string, args ...any) {
		out = append(out, Issue{Path: scope, Message: fmt.Sprintf(format, args...)})
	}
	if strings.TrimSpace(m.Title) == "" {
		add("title missing")
	} else if n := len([]rune(m.Title)); n > MaxMilestoneTitle {
		add("title is %d characters, max %d", n, MaxMilestoneTitle)
	}
	if len(m.Objectives) < minMilestoneObjs {
		add("%d objectives, want at least %d", len(m.Objectives), minMilestoneObjs)
	}
	if len(m.Prerequisites) == 0 {
		add("no prerequisites")
	}
	if len(m.Deliverables) == 0 {
		add("no deliverables")
	}
	if m.UploadRequired != nil && *m.UploadRequired && len(m.SupportedFiletypes) == 0 {
		add("upload required but no supported filetypes")
	}
	if n := len(m.References); n < minMilestoneRefs || n > maxMilestoneRefs {
		add("%d references, want %d-%d", n, minMilestoneRefs, maxMilestoneRefs)
	}
	out = append(out, References(scope, m.References)...)
	return out
}

func References(scope string, refs []course.Reference) []Issue {
	var out []Issue
	for i, r := range refs {
		rp := fmt.Sprintf("%s reference %d", scope, i+1)
		if strings.TrimSpace(r.Title) == "" {
			out = append(out, Issue{Path: rp, Message: "title missing"})
		}
		if strings.TrimSpace(r.Source) == "" {
			out = append(out, Issue{Path: rp, Message: "source missing"})
		} else if urlRe.MatchString(r.Source) {
			out = append(out, Issue{Path: rp, Message: "source contains a URL"})
		}
	}
	return out
}
