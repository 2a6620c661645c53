package prompts

import (
	"fmt"
	"math"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

// Input is a superset of all fields any prompt might need.
// Missing fields render as zero values (templates use missingkey=zero).
type Input struct {
	// Learner
	Topic            string
	Experience       string
	TotalWeeks       string
	WeekCount        int
	HoursPerWeek     int
	LearningStyle    string
	Motivation       string
	CustomMotivation string

	// Guidance snippets
	TopicGuidance      string
	ExperienceGuidance string
	HoursGuidance      string
	StyleGuidance      string
	MotivationGuidance string

	// Outline
	CourseTitle      string
	Overview         string
	LearningOutcomes []string
	Skills           []string
	MinModules       int
	MaxModules       int

	// Week / module
	WeekNumber            int
	WeekTopic             string
	WeekHours             float64
	ModuleTopic           string
	ModuleDurationHours   float64
	ModuleDurationMinutes int
	MinBlocks             int
	MaxBlocks             int
	BlockList             string

	// Milestones
	WeeklyOutline string
	CourseOutline string

	// Tutor
	BlockTitle      string
	BlockObjectives []string
	ChatHistory     string
	Question        string
}

func learner(m course.MappedInput) Input {
	return Input{
		Topic:              m.Topic,
		Experience:         m.Experience,
		TotalWeeks:         m.TotalWeeks,
		WeekCount:          m.WeekCount,
		HoursPerWeek:       m.HoursPerWeek,
		LearningStyle:      m.LearningStyle,
		Motivation:         m.Motivation,
		CustomMotivation:   m.CustomMotivation,
		ExperienceGuidance: ExperienceGuidance(m.Experience),
		HoursGuidance:      HoursGuidance(m.HoursPerWeek),
		StyleGuidance:      StyleGuidance(m.LearningStyle),
		MotivationGuidance: MotivationGuidance(m.Motivation, m.CustomMotivation),
	}
}

func OutlineInput(m course.MappedInput) Input {
	in := learner(m)
	in.TopicGuidance = TopicGuidance(m.Topic)
	return in
}

// WeeklyModulesInput bounds the module count so every module fits between
// 3 and 8 hours.
func WeeklyModulesInput(o course.Outline, m course.MappedInput) Input {
	in := learner(m)
	in.CourseTitle = o.Title
	in.Overview = o.Overview
	in.LearningOutcomes = o.LearningOutcomes
	in.Skills = o.Skills
	h := o.Duration.HoursPerWeek
	in.MinModules = int(math.Ceil(h / 8.0))
	in.MaxModules = int(math.Floor(h / 3.0))
	if in.MaxModules < in.MinModules {
		in.MaxModules = in.MinModules
	}
	return in
}

func moduleAt(w course.Week, idx int) (course.Module, error) {
	if idx < 0 || idx >= len(w.Modules) {
		return course.Module{}, fmt.Errorf("week %d has no module at index %d", w.Number, idx)
	}
	return w.Modules[idx], nil
}

func ModuleBlocksInput(o course.Outline, w course.Week, idx int, m course.MappedInput) (Input, error) {
	mod, err := moduleAt(w, idx)
	if err != nil {
		return Input{}, err
	}
	in := learner(m)
	in.CourseTitle = o.Title
	in.Overview = o.Overview
	in.WeekNumber = w.Number
	in.WeekTopic = w.Topic
	in.WeekHours = w.HoursPerWeek
	in.ModuleTopic = mod.Number + " " + mod.Title
	in.ModuleDurationHours = mod.DurationHours
	in.ModuleDurationMinutes = moduleMinutes(mod.DurationHours)
	in.MinBlocks = in.ModuleDurationMinutes / 60
	in.MaxBlocks = in.ModuleDurationMinutes / 30
	if in.MinBlocks < 1 {
		in.MinBlocks = 1
	}
	if in.MaxBlocks < in.MinBlocks {
		in.MaxBlocks = in.MinBlocks
	}
	return in, nil
}

// moduleMinutes rounds so that e.g. 4.1 h reads as 246 minutes, not 245.
func moduleMinutes(hours float64) int { return int(math.Round(hours * 60)) }

func BlockMetadataInput(w course.Week, idx int, m course.MappedInput) (Input, error) {
	mod, err := moduleAt(w, idx)
	if err != nil {
		return Input{}, err
	}
	in := learner(m)
	in.WeekNumber = w.Number
	in.WeekTopic = w.Topic
	in.WeekHours = w.HoursPerWeek
	in.ModuleTopic = mod.Title
	in.ModuleDurationHours = mod.DurationHours
	in.ModuleDurationMinutes = moduleMinutes(mod.DurationHours)
	in.BlockList = BlockList(mod)
	return in, nil
}

func WeeklyMilestoneInput(w course.Week, m course.MappedInput) Input {
	in := learner(m)
	in.WeekNumber = w.Number
	in.WeekTopic = w.Topic
	in.WeeklyOutline = WeekPlan(w)
	return in
}

func CourseMilestoneInput(o course.Outline, overallPlan string, m course.MappedInput) Input {
	in := learner(m)
	in.CourseTitle = o.Title
	in.Overview = o.Overview
	in.CourseOutline = overallPlan
	return in
}

// TutorHistory is how many earlier exchanges on a block the tutor sees.
const TutorHistory = 3

func TutorInput(doc course.CourseDocument, weekTopic, moduleTitle string, b course.BlockDoc, question string) Input {
	in := Input{
		Topic:           doc.UserRequirement.Topic,
		Experience:      doc.UserRequirement.Experience,
		CourseTitle:     doc.Course.Title,
		WeekTopic:       weekTopic,
		ModuleTopic:     moduleTitle,
		BlockTitle:      b.BlockTitle,
		BlockObjectives: b.Objectives,
		Question:        strings.TrimSpace(question),
	}
	turns := b.Chat
	if len(turns) > TutorHistory {
		turns = turns[len(turns)-TutorHistory:]
	}
	var sb strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&sb, "Learner: %s\nTutor: %s\n", t.Question, t.Answer)
	}
	in.ChatHistory = strings.TrimSpace(sb.String())
	return in
}
