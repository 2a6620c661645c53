// Package parser recovers typed curriculum records from the markdown replies
// produced by the generation model. Every parser is a pure function of its
// input text: malformed entries degrade to empty values plus a Warning, and
// only a reply with nothing recognizable at all is an error.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

// ErrNoContent is returned when a reply contains none of the sections a parser
// looks for. Callers treat it as a transient generation error.
var ErrNoContent = errors.New("parser: no recognizable content")

// Warning describes one entry that was recovered with defaults.
type Warning struct {
	Entry   string `json:"entry"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Entry == "" {
		return w.Message
	}
	return w.Entry + ": " + w.Message
}

type Result[T any] struct {
	Record   T
	Warnings []Warning
}

func (r *Result[T]) warn(entry, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Entry: entry, Message: fmt.Sprintf(format, args...)})
}

// Parser is implemented once per stage reply shape.
type Parser[T any] interface {
	Parse(text string) (Result[T], error)
}

var (
	_ Parser[course.Outline]         = Outline{}
	_ Parser[[]course.Week]          = Weeks{}
	_ Parser[[]course.Block]         = Blocks{}
	_ Parser[[]course.BlockMetadata] = BlockMetadata{}
	_ Parser[course.Milestone]       = Milestone{}
)

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// bulletText strips one leading list marker ("-", "*" or "+") and the spaces
// after it. ok is false when the line is not a bullet.
func bulletText(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	switch line[0] {
	case '-', '*', '+':
		if strings.HasPrefix(line, "**") {
			return "", false
		}
		return strings.TrimSpace(line[1:]), true
	}
	return "", false
}

func stripEmphasis(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_`"))
}
