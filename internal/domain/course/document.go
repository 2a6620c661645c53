package course

import "time"

// CourseDocument is the denormalized result.json read by the studio APIs.
type CourseDocument struct {
	Course          CourseOutlineDoc `json:"course_outline"`
	UserRequirement UserRequirement  `json:"user_requirement"`
}

type CourseOutlineDoc struct {
	Title            string       `json:"title"`
	Overview         string       `json:"overview"`
	Prerequisites    []string     `json:"prerequisites"`
	TotalWeeks       int          `json:"total_weeks"`
	LearningOutcomes []string     `json:"learning_outcomes"`
	Skills           []string     `json:"skills"`
	WeekTopics       []string     `json:"week_topics"`
	Weeks            []WeekDoc    `json:"weeks"`
	CourseMilestone  MilestoneDoc `json:"course_milestone"`
}

type WeekDoc struct {
	WeekNumber    int          `json:"week_number"`
	WeekTopic     string       `json:"week_topic"`
	HoursPerWeek  float64      `json:"hours_per_week"`
	WeekModules   []ModuleDoc  `json:"week_modules"`
	WeekMilestone MilestoneDoc `json:"week_milestone"`
}

type ModuleDoc struct {
	ModuleTitle   string     `json:"module_title"`
	DurationHours float64    `json:"duration_hours"`
	ContentBlocks []BlockDoc `json:"content_blocks"`
}

type BlockDoc struct {
	BlockTitle string      `json:"block_title"`
	Length     int         `json:"length"`
	Type       string      `json:"type"`
	Objectives []string    `json:"objectives"`
	References []Reference `json:"references"`
	Completed  bool        `json:"completed"`
	Chat       []ChatTurn  `json:"chat,omitempty"`
}

// ChatTurn is one tutor question and its answer, kept on the block it was
// asked about.
type ChatTurn struct {
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Model        string    `json:"model"`
	ResponseTime float64   `json:"response_time"`
	StartedAt    time.Time `json:"start_time"`
}

// MilestoneDoc is a milestone with every field populated.
type MilestoneDoc struct {
	MilestoneTitle     string      `json:"milestone_title"`
	Description        string      `json:"description"`
	Objectives         []string    `json:"objectives"`
	Prerequisites      []string    `json:"prerequisites"`
	Deliverables       []string    `json:"deliverables"`
	UploadRequired     bool        `json:"upload_required"`
	SupportedFiletypes []string    `json:"supported_filetypes"`
	References         []Reference `json:"references"`
	Length             string      `json:"length"`
	Type               string      `json:"type"`
}

type UserRequirement struct {
	Topic         string `json:"topic"`
	Experience    string `json:"experience"`
	LearningStyle string `json:"learning_style"`
	Motivation    string `json:"motivation"`
	Model         string `json:"model"`
}

// Summary is the studio listing row for one generated course.
type Summary struct {
	CourseID       string   `json:"course_id"`
	Title          string   `json:"title"`
	Overview       string   `json:"overview"`
	TotalWeeks     int      `json:"total_weeks"`
	Skills         []string `json:"skills"`
	CourseProgress float64  `json:"course_progress"`
}
