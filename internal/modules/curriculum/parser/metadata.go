package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

var idMarkerRe = regexp.MustCompile("(?m)^[ \t]*##[ \t]*ID[ \t]*:[ \t]*`?(\\d+)`?[ \t]*$")

// BlockMetadata parses the block_metadata reply. Entries are introduced by
// "## ID : n" and carry **Objectives:** and **References:** bullet runs.
// References are "title: source"; a reference without a colon keeps the whole
// line as its title with an empty source.
type BlockMetadata struct{}

type metadataSection int

const (
	metaNone metadataSection = iota
	metaObjectives
	metaReferences
)

func (BlockMetadata) Parse(text string) (Result[[]course.BlockMetadata], error) {
	res := Result[[]course.BlockMetadata]{Record: []course.BlockMetadata{}}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	marks := idMarkerRe.FindAllStringSubmatchIndex(text, -1)
	if len(marks) == 0 {
		return res, ErrNoContent
	}
	for i, m := range marks {
		id, _ := strconv.Atoi(text[m[2]:m[3]])
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		res.Record = append(res.Record, parseMetadataEntry(&res, id, text[m[1]:end]))
	}
	return res, nil
}

func parseMetadataEntry(res *Result[[]course.BlockMetadata], id int, body string) course.BlockMetadata {
	entry := fmt.Sprintf("id %d", id)
	md := course.BlockMetadata{ID: id, Objectives: []string{}, References: []course.Reference{}}
	sawObjectives, sawReferences := false, false
	section := metaNone
	collected := 0

	for _, raw := range splitLines(body) {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "**Objectives"):
			section, collected, sawObjectives = metaObjectives, 0, true
			continue
		case strings.HasPrefix(line, "**References"):
			section, collected, sawReferences = metaReferences, 0, true
			continue
		case strings.HasPrefix(line, "**"):
			section = metaNone
			continue
		}
		if section == metaNone {
			continue
		}
		if line == "" {
			if collected > 0 {
				section = metaNone
			}
			continue
		}
		item, ok := bulletText(line)
		if !ok {
			section = metaNone
			continue
		}
		if item == "" {
			continue
		}
		collected++
		switch section {
		case metaObjectives:
			md.Objectives = append(md.Objectives, item)
		case metaReferences:
			title, source, found := strings.Cut(item, ":")
			if !found {
				res.warn(entry, "reference %q has no source", item)
			}
			md.References = append(md.References, course.Reference{
				Title:  stripEmphasis(title),
				Source: stripEmphasis(source),
			})
		}
	}

	if !sawObjectives || len(md.Objectives) == 0 {
		res.warn(entry, "objectives not found")
	}
	if !sawReferences || len(md.References) == 0 {
		res.warn(entry, "references not found")
	}
	return md
}
