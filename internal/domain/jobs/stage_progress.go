package jobs

import "time"

// StageProgress is one (request, stage) progress record. The composite key is
// what makes per-stage upserts atomic.
type StageProgress struct {
	RequestID string     `gorm:"column:request_id;primaryKey;size:64" json:"request_id"`
	Stage     string     `gorm:"column:stage;primaryKey;size:64" json:"stage"`
	Position  int        `gorm:"column:position;not null" json:"position"`
	Status    int        `gorm:"column:status;not null" json:"status"`
	ChangedAt *time.Time `gorm:"column:changed_at" json:"timestamp"`
	Path      *string    `gorm:"column:path" json:"path"`
	Error     *string    `gorm:"column:error" json:"error"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (StageProgress) TableName() string { return "course_stage_progress" }
