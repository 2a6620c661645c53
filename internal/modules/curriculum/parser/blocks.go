package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

var (
	moduleDelimRe = regexp.MustCompile(`##\s*Module\s*:\s*`)
	blockHeaderRe = regexp.MustCompile(`^###\s*Block\s*\d+\s*:\s*`)
	firstIntRe    = regexp.MustCompile(`\d+`)
)

// Blocks parses the module_blocks reply. Text before the first "## Module :"
// delimiter is discarded and the first line of each module segment is its
// title.
type Blocks struct{}

func (Blocks) Parse(text string) (Result[[]course.Block], error) {
	res := Result[[]course.Block]{Record: []course.Block{}}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	segments := moduleDelimRe.Split(strings.TrimSpace(text), -1)
	if len(segments) < 2 {
		if !strings.Contains(text, "### Block") {
			return res, ErrNoContent
		}
		res.warn("module", "module delimiter missing; reading blocks from the whole reply")
		segments = []string{"", "\n" + text}
	}

	for _, seg := range segments[1:] {
		lines := splitLines(seg)
		if len(lines) == 0 {
			continue
		}
		var current *course.Block
		flush := func() {
			if current != nil {
				res.Record = append(res.Record, *current)
				current = nil
			}
		}
		for _, raw := range lines[1:] {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "### Block") {
				flush()
				current = &course.Block{Title: stripEmphasis(blockHeaderRe.ReplaceAllString(line, ""))}
				continue
			}
			if current == nil {
				continue
			}
			marker := strings.TrimSpace(strings.TrimPrefix(line, "- "))
			switch {
			case strings.HasPrefix(marker, "**Length:**"):
				if n := firstIntRe.FindString(marker); n != "" {
					current.Length, _ = strconv.Atoi(n)
				}
			case strings.HasPrefix(marker, "**Type:**"):
				current.Type = stripEmphasis(strings.TrimPrefix(marker, "**Type:**"))
			}
		}
		flush()
	}

	if len(res.Record) == 0 {
		return res, ErrNoContent
	}
	for i, b := range res.Record {
		entry := fmt.Sprintf("block %d", i+1)
		if b.Title == "" {
			res.warn(entry, "title missing")
		}
		if b.Length == 0 {
			res.warn(entry, "length missing")
		}
		if b.Type == "" {
			res.warn(entry, "type missing")
		}
	}
	return res, nil
}
