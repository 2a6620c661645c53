package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

var (
	weekHeaderRe = regexp.MustCompile(`^##\s*Week\s+(\d+)\s*:\s*(.*?)\s*\(\s*total:\s*([\d.]+)\s*h\s*\)`)
	// The title is greedy and the duration must close the line, so titles
	// containing "-5 h" style fragments keep them.
	moduleLineRe = regexp.MustCompile(`^-\s*Module\s+(\d+\.\d+)\s*:\s*(.*)\s+-\s+([\d.]+)\s*h(?:ours?)?\s*$`)
)

// Weeks parses the weekly_modules reply into week records with their module
// lists. Blocks are filled in by later stages.
//
//	## Week 1 : Intro (total: 5 h)
//	- Module 1.1: Foo - 2.5 h
type Weeks struct{}

func (Weeks) Parse(text string) (Result[[]course.Week], error) {
	res := Result[[]course.Week]{Record: []course.Week{}}
	var current *course.Week

	flush := func() {
		if current != nil {
			res.Record = append(res.Record, *current)
			current = nil
		}
	}

	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if m := weekHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			num, _ := strconv.Atoi(m[1])
			hours, err := strconv.ParseFloat(m[3], 64)
			if err != nil {
				res.warn(fmt.Sprintf("week %d", num), "unreadable total hours %q", m[3])
			}
			current = &course.Week{
				Number:       num,
				Topic:        stripEmphasis(m[2]),
				HoursPerWeek: hours,
				Modules:      []course.Module{},
			}
			continue
		}
		if !strings.HasPrefix(line, "- Module") && !strings.HasPrefix(line, "-Module") {
			continue
		}
		m := moduleLineRe.FindStringSubmatch(line)
		if m == nil {
			res.warn("module", "unrecognized module line %q", line)
			continue
		}
		if current == nil {
			res.warn("module "+m[1], "module listed before any week header")
			continue
		}
		dur, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			res.warn("module "+m[1], "unreadable duration %q", m[3])
			continue
		}
		current.Modules = append(current.Modules, course.Module{
			Number:        m[1],
			Title:         stripEmphasis(m[2]),
			DurationHours: dur,
		})
	}
	flush()

	if len(res.Record) == 0 {
		return res, ErrNoContent
	}
	for _, w := range res.Record {
		if len(w.Modules) == 0 {
			res.warn(fmt.Sprintf("week %d", w.Number), "no modules listed")
		}
	}
	return res, nil
}
