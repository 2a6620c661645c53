// Package tracking implements study-progress lookups over a persisted course
// document. Lookups are exact and case-sensitive.
package tracking

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

var (
	ErrWeekNotFound      = errors.New("week not found")
	ErrModuleNotFound    = errors.New("module not found")
	ErrBlockNotFound     = errors.New("block not found")
	ErrMalformedDocument = errors.New("malformed course document")
)

// BlockKey addresses a block by (week topic, module title, block title).
type BlockKey struct {
	WeekTopic   string `json:"week_topic"`
	ModuleTitle string `json:"module_title"`
	BlockTitle  string `json:"block_title"`
}

func Decode(raw []byte) (*course.CourseDocument, error) {
	var doc course.CourseDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return &doc, nil
}

// FindBlock returns a pointer into doc so callers can mutate the block in place.
func FindBlock(doc *course.CourseDocument, key BlockKey) (*course.BlockDoc, error) {
	if doc == nil {
		return nil, ErrMalformedDocument
	}
	for wi := range doc.Course.Weeks {
		w := &doc.Course.Weeks[wi]
		if w.WeekTopic != key.WeekTopic {
			continue
		}
		for mi := range w.WeekModules {
			m := &w.WeekModules[mi]
			if m.ModuleTitle != key.ModuleTitle {
				continue
			}
			for bi := range m.ContentBlocks {
				if m.ContentBlocks[bi].BlockTitle == key.BlockTitle {
					return &m.ContentBlocks[bi], nil
				}
			}
			return nil, fmt.Errorf("%w: %q", ErrBlockNotFound, key.BlockTitle)
		}
		return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, key.ModuleTitle)
	}
	return nil, fmt.Errorf("%w: %q", ErrWeekNotFound, key.WeekTopic)
}

func SetCompleted(doc *course.CourseDocument, key BlockKey, completed bool) error {
	b, err := FindBlock(doc, key)
	if err != nil {
		return err
	}
	b.Completed = completed
	return nil
}

// Completion is the percentage of completed blocks, rounded to two places.
func Completion(doc *course.CourseDocument) float64 {
	if doc == nil {
		return 0
	}
	total, done := 0, 0
	for _, w := range doc.Course.Weeks {
		for _, m := range w.WeekModules {
			for _, b := range m.ContentBlocks {
				total++
				if b.Completed {
					done++
				}
			}
		}
	}
	if total == 0 {
		return 0
	}
	return math.Round(float64(done)/float64(total)*100*100) / 100
}

func Summarize(courseID string, doc *course.CourseDocument) course.Summary {
	return course.Summary{
		CourseID:       courseID,
		Title:          doc.Course.Title,
		Overview:       doc.Course.Overview,
		TotalWeeks:     doc.Course.TotalWeeks,
		Skills:         doc.Course.Skills,
		CourseProgress: Completion(doc),
	}
}
