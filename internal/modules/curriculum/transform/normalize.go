package transform

import (
	"fmt"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

var DefaultFiletypes = []string{".pdf", ".docx", ".py"}

const (
	defaultMilestoneLength = "Varies"
	weeklyMilestoneType    = "Weekly Assessment"
	courseMilestoneType    = "Capstone"
	courseMilestoneTitle   = "Course Completion Milestone"
	courseMilestoneDesc    = "Complete the course and demonstrate mastery of its core concepts."
)

func orString(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// orList treats an empty list the same as an absent one.
func orList(v, def []string) []string {
	out := make([]string, 0, len(v))
	for _, s := range v {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return append([]string{}, def...)
	}
	return out
}

func orBool(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// NormalizeReferences trims entries and drops ones with neither title nor source.
func NormalizeReferences(refs []course.Reference) []course.Reference {
	out := make([]course.Reference, 0, len(refs))
	for _, r := range refs {
		r.Title = strings.TrimSpace(r.Title)
		r.Source = strings.TrimSpace(r.Source)
		if r.Title == "" && r.Source == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// NormalizeBlockType maps recognizable spellings onto theory or exploration.
func NormalizeBlockType(t string) string {
	lt := strings.ToLower(strings.TrimSpace(t))
	switch {
	case strings.Contains(lt, "explor"):
		return course.BlockTypeExploration
	case strings.Contains(lt, "theor"):
		return course.BlockTypeTheory
	default:
		return lt
	}
}

// NormalizeBlock merges a block with its metadata. md may be nil when the
// metadata reply had fewer entries than the block list.
func NormalizeBlock(b course.Block, md *course.BlockMetadata) course.BlockDoc {
	doc := course.BlockDoc{
		BlockTitle: strings.TrimSpace(b.Title),
		Length:     b.Length,
		Type:       NormalizeBlockType(b.Type),
		Objectives: []string{},
		References: []course.Reference{},
	}
	if md != nil {
		doc.Objectives = orList(md.Objectives, nil)
		doc.References = NormalizeReferences(md.References)
	}
	return doc
}

func NormalizeWeeklyMilestone(m course.Milestone, weekNumber int) course.MilestoneDoc {
	return course.MilestoneDoc{
		MilestoneTitle:     orString(m.Title, fmt.Sprintf("Week %d Milestone", weekNumber)),
		Description:        orString(m.Description, fmt.Sprintf("Complete key tasks for Week %d.", weekNumber)),
		Objectives:         orList(m.Objectives, nil),
		Prerequisites:      orList(m.Prerequisites, nil),
		Deliverables:       orList(m.Deliverables, []string{"Weekly assignment"}),
		UploadRequired:     orBool(m.UploadRequired, true),
		SupportedFiletypes: orList(m.SupportedFiletypes, DefaultFiletypes),
		References:         NormalizeReferences(m.References),
		Length:             orString(m.Length, defaultMilestoneLength),
		Type:               orString(m.Type, weeklyMilestoneType),
	}
}

// NormalizeCourseMilestone falls back to the outline's outcomes and
// prerequisites when the capstone reply omitted them.
func NormalizeCourseMilestone(m course.Milestone, o course.Outline) course.MilestoneDoc {
	return course.MilestoneDoc{
		MilestoneTitle:     orString(m.Title, courseMilestoneTitle),
		Description:        orString(m.Description, courseMilestoneDesc),
		Objectives:         orList(m.Objectives, o.LearningOutcomes),
		Prerequisites:      orList(m.Prerequisites, o.Prerequisites),
		Deliverables:       orList(m.Deliverables, []string{"Final project", "Course assessment"}),
		UploadRequired:     orBool(m.UploadRequired, true),
		SupportedFiletypes: orList(m.SupportedFiletypes, DefaultFiletypes),
		References:         NormalizeReferences(m.References),
		Length:             orString(m.Length, defaultMilestoneLength),
		Type:               orString(m.Type, courseMilestoneType),
	}
}
