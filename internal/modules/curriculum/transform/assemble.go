// Package transform assembles parsed stage outputs into the denormalized
// course document.
package transform

import (
	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

// Inputs is the full set of stage outputs. WeeklyMilestones is indexed by
// week position, not week number.
type Inputs struct {
	Outline          course.Outline
	Weeks            []course.Week
	WeeklyMilestones []course.Milestone
	CourseMilestone  course.Milestone
	Requirement      course.UserRequirement
}

// Assemble never fails: missing metadata and milestones fall back to defaults.
func Assemble(in Inputs) course.CourseDocument {
	o := in.Outline
	totalWeeks := o.Duration.TotalWeeks
	if totalWeeks == 0 {
		totalWeeks = len(in.Weeks)
	}

	doc := course.CourseDocument{
		Course: course.CourseOutlineDoc{
			Title:            o.Title,
			Overview:         o.Overview,
			Prerequisites:    orList(o.Prerequisites, nil),
			TotalWeeks:       totalWeeks,
			LearningOutcomes: orList(o.LearningOutcomes, nil),
			Skills:           orList(o.Skills, nil),
			WeekTopics:       make([]string, 0, len(in.Weeks)),
			Weeks:            make([]course.WeekDoc, 0, len(in.Weeks)),
			CourseMilestone:  NormalizeCourseMilestone(in.CourseMilestone, o),
		},
		UserRequirement: in.Requirement,
	}

	for i, w := range in.Weeks {
		var ms course.Milestone
		if i < len(in.WeeklyMilestones) {
			ms = in.WeeklyMilestones[i]
		}
		doc.Course.WeekTopics = append(doc.Course.WeekTopics, w.Topic)
		doc.Course.Weeks = append(doc.Course.Weeks, assembleWeek(w, ms))
	}
	return doc
}

func assembleWeek(w course.Week, ms course.Milestone) course.WeekDoc {
	wd := course.WeekDoc{
		WeekNumber:    w.Number,
		WeekTopic:     w.Topic,
		HoursPerWeek:  w.HoursPerWeek,
		WeekModules:   make([]course.ModuleDoc, 0, len(w.Modules)),
		WeekMilestone: NormalizeWeeklyMilestone(ms, w.Number),
	}
	for _, m := range w.Modules {
		md := course.ModuleDoc{
			ModuleTitle:   m.Title,
			DurationHours: m.DurationHours,
			ContentBlocks: make([]course.BlockDoc, 0, len(m.Blocks)),
		}
		for j, b := range m.Blocks {
			var meta *course.BlockMetadata
			if j < len(m.Metadata) {
				meta = &m.Metadata[j]
			}
			md.ContentBlocks = append(md.ContentBlocks, NormalizeBlock(b, meta))
		}
		wd.WeekModules = append(wd.WeekModules, md)
	}
	return wd
}
