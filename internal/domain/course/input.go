package course

import (
	"errors"
	"fmt"
	"strings"
)

// CourseInput is what a learner submits to start a generation request.
type CourseInput struct {
	Topic            string `json:"topic" yaml:"topic"`
	Experience       int    `json:"experience" yaml:"experience"`
	TotalWeeks       int    `json:"total_weeks" yaml:"total_weeks"`
	HoursPerWeek     int    `json:"hours_per_week" yaml:"hours_per_week"`
	LearningStyle    int    `json:"learning_style" yaml:"learning_style"`
	Motivation       int    `json:"motivation" yaml:"motivation"`
	CustomMotivation string `json:"custom_motivation" yaml:"custom_motivation"`
}

const (
	MotivationJob = iota
	MotivationCollege
	MotivationFun
	MotivationOther
)

var (
	experienceLabels    = []string{"I'm new", "I've tried it before", "I'm confident / advanced"}
	learningStyleLabels = []string{"Quick Course", "Skill Path", "Build-a-Project"}
	motivationLabels    = []string{"Get a better job", "College help", "Just for fun", "Other"}
)

var ErrInvalidInput = errors.New("invalid course input")

func (in CourseInput) Validate() error {
	var problems []string
	if strings.TrimSpace(in.Topic) == "" {
		problems = append(problems, "topic is required")
	}
	if in.Experience < 0 || in.Experience >= len(experienceLabels) {
		problems = append(problems, fmt.Sprintf("experience must be 0..%d", len(experienceLabels)-1))
	}
	if in.TotalWeeks < 1 || in.TotalWeeks > 52 {
		problems = append(problems, "total_weeks must be 1..52")
	}
	if in.HoursPerWeek < 1 || in.HoursPerWeek > 40 {
		problems = append(problems, "hours_per_week must be 1..40")
	}
	if in.LearningStyle < 0 || in.LearningStyle >= len(learningStyleLabels) {
		problems = append(problems, fmt.Sprintf("learning_style must be 0..%d", len(learningStyleLabels)-1))
	}
	if in.Motivation < 0 || in.Motivation >= len(motivationLabels) {
		problems = append(problems, fmt.Sprintf("motivation must be 0..%d", len(motivationLabels)-1))
	}
	if in.Motivation == MotivationOther && strings.TrimSpace(in.CustomMotivation) == "" {
		problems = append(problems, "custom_motivation is required when motivation is Other")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}

// MappedInput carries the human-readable labels the prompts are written against.
type MappedInput struct {
	Topic            string
	Experience       string
	TotalWeeks       string
	WeekCount        int
	HoursPerWeek     int
	LearningStyle    string
	Motivation       string
	CustomMotivation string
}

// Map converts a validated input into labels. Out-of-range values map to "".
func (in CourseInput) Map() MappedInput {
	return MappedInput{
		Topic:            strings.TrimSpace(in.Topic),
		Experience:       label(experienceLabels, in.Experience),
		TotalWeeks:       fmt.Sprintf("%d weeks", in.TotalWeeks),
		WeekCount:        in.TotalWeeks,
		HoursPerWeek:     in.HoursPerWeek,
		LearningStyle:    label(learningStyleLabels, in.LearningStyle),
		Motivation:       label(motivationLabels, in.Motivation),
		CustomMotivation: strings.TrimSpace(in.CustomMotivation),
	}
}

func label(labels []string, i int) string {
	if i < 0 || i >= len(labels) {
		return ""
	}
	return labels[i]
}

type Difficulty string

const (
	DifficultyLow    Difficulty = "Low"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHigh   Difficulty = "High"
)

// DifficultyLevel buckets a weekly time commitment.
func DifficultyLevel(hours int) Difficulty {
	switch {
	case hours <= 10:
		return DifficultyLow
	case hours <= 18:
		return DifficultyMedium
	default:
		return DifficultyHigh
	}
}
