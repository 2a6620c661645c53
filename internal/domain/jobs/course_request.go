package jobs

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RequestStatusPending   = "pending"
	RequestStatusRunning   = "running"
	RequestStatusCompleted = "completed"
	RequestStatusFailed    = "failed"
)

// CourseRequest is the keyed registry row for one generation request.
type CourseRequest struct {
	RequestID  string         `gorm:"column:request_id;primaryKey;size:64" json:"request_id"`
	Topic      string         `gorm:"column:topic;not null" json:"topic"`
	Status     string         `gorm:"column:status;not null;index" json:"status"`
	Model      string         `gorm:"column:model" json:"model,omitempty"`
	Input      datatypes.JSON `gorm:"column:input" json:"input"`
	ResultPath string         `gorm:"column:result_path" json:"result_path,omitempty"`
	FailedStep string         `gorm:"column:failed_step" json:"failed_step,omitempty"`
	Error      string         `gorm:"column:error" json:"error,omitempty"`
	Progress   int            `gorm:"column:progress;not null" json:"progress"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CourseRequest) TableName() string { return "course_requests" }
