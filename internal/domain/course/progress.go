package course

import "time"

type StageStatus int

const (
	StatusPending StageStatus = iota
	StatusStarted
	StatusSucceeded
	StatusFailed
)

func (s StageStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusStarted:
		return "started"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s StageStatus) Valid() bool { return s >= StatusPending && s <= StatusFailed }

// Stage names, in pipeline order.
const (
	StageCourseOutline    = "course_outline"
	StageCourseWeeks      = "course_weeks"
	StageModuleBlocks     = "module_blocks"
	StageBlockMetadata    = "block_metadata"
	StageWeekPlans        = "week_plans"
	StageWeeklyMilestones = "weekly_milestones"
	StageCourseMilestone  = "course_milestone"
)

var StageOrder = []string{
	StageCourseOutline,
	StageCourseWeeks,
	StageModuleBlocks,
	StageBlockMetadata,
	StageWeekPlans,
	StageWeeklyMilestones,
	StageCourseMilestone,
}

// ProgressRecord is the persisted state of one stage of one request.
type ProgressRecord struct {
	Status    StageStatus `json:"status"`
	Timestamp *time.Time  `json:"timestamp"`
	Path      *string     `json:"path"`
	Error     *string     `json:"error"`
}

// ProgressUpdate is pushed to listeners once per stage status transition.
type ProgressUpdate struct {
	Step      string      `json:"step"`
	Status    StageStatus `json:"status"`
	Timestamp *time.Time  `json:"timestamp"`
	Path      *string     `json:"path"`
	Error     *string     `json:"error"`
	Progress  int         `json:"progress"`
}

func (u ProgressUpdate) Record() ProgressRecord {
	return ProgressRecord{Status: u.Status, Timestamp: u.Timestamp, Path: u.Path, Error: u.Error}
}

const (
	CompletionCompleted = "completed"
	CompletionError     = "error"
)

// Completion is the terminal message of a generation request.
type Completion struct {
	Status       string `json:"status"`
	RequestID    string `json:"request_id"`
	ProgressPath string `json:"progress_path,omitempty"`
	ResultPath   string `json:"result_path,omitempty"`
	Step         string `json:"step,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ProgressSnapshot is the side document persisted next to the stage artifacts.
type ProgressSnapshot struct {
	RequestID string                    `json:"request_id"`
	Stages    map[string]ProgressRecord `json:"stages"`
	Order     []string                  `json:"order"`
	Progress  int                       `json:"progress"`
}
