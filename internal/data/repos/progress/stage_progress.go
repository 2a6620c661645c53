package progress

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
	"github.com/yungbote/coursegen-backend/internal/domain/jobs"
	"github.com/yungbote/coursegen-backend/internal/platform/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type StageProgressRepo interface {
	// Upsert writes the record unless it would move the stage backwards.
	// Failed always overwrites. Reports whether the row changed.
	Upsert(dbc dbctx.Context, rec *jobs.StageProgress) (bool, error)
	GetByRequestID(dbc dbctx.Context, requestID string) ([]*jobs.StageProgress, error)
	DeleteByRequestID(dbc dbctx.Context, requestID string) error
}

type stageProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStageProgressRepo(db *gorm.DB, baseLog *logger.Logger) StageProgressRepo {
	return &stageProgressRepo{
		db:  db,
		log: baseLog.With("repo", "StageProgressRepo"),
	}
}

func (r *stageProgressRepo) Upsert(dbc dbctx.Context, rec *jobs.StageProgress) (bool, error) {
	if rec == nil || rec.RequestID == "" || rec.Stage == "" {
		return false, errors.New("stage progress requires request id and stage")
	}
	if !course.StageStatus(rec.Status).Valid() {
		return false, errors.New("stage progress has an invalid status")
	}
	rec.UpdatedAt = time.Now()
	res := dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "request_id"}, {Name: "stage"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "changed_at", "path", "error", "position", "updated_at",
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{
				SQL:  "course_stage_progress.status < excluded.status OR excluded.status = ?",
				Vars: []interface{}{int(course.StatusFailed)},
			},
		}},
	}).Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *stageProgressRepo) GetByRequestID(dbc dbctx.Context, requestID string) ([]*jobs.StageProgress, error) {
	var out []*jobs.StageProgress
	if requestID == "" {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("request_id = ?", requestID).
		Order("position ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *stageProgressRepo) DeleteByRequestID(dbc dbctx.Context, requestID string) error {
	if requestID == "" {
		return nil
	}
	return dbc.DB(r.db).
		Where("request_id = ?", requestID).
		Delete(&jobs.StageProgress{}).Error
}
