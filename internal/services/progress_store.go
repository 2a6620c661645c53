package services

import (
	"context"

	"github.com/yungbote/coursegen-backend/internal/data/repos/progress"
	"github.com/yungbote/coursegen-backend/internal/domain/course"
	"github.com/yungbote/coursegen-backend/internal/domain/jobs"
	"github.com/yungbote/coursegen-backend/internal/jobs/orchestrator"
	"github.com/yungbote/coursegen-backend/internal/platform/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type progressStore struct {
	log  *logger.Logger
	repo progress.StageProgressRepo
}

// NewProgressStore backs the stage engine with the keyed stage progress table.
func NewProgressStore(baseLog *logger.Logger, repo progress.StageProgressRepo) orchestrator.ProgressStore {
	return &progressStore{log: baseLog.With("service", "ProgressStore"), repo: repo}
}

func (s *progressStore) SaveStage(ctx context.Context, requestID, stage string, position int, rec course.ProgressRecord) error {
	applied, err := s.repo.Upsert(dbctx.New(ctx), &jobs.StageProgress{
		RequestID: requestID,
		Stage:     stage,
		Position:  position,
		Status:    int(rec.Status),
		ChangedAt: rec.Timestamp,
		Path:      rec.Path,
		Error:     rec.Error,
	})
	if err != nil {
		return err
	}
	if !applied {
		s.log.Debug("stale stage transition ignored", "request_id", requestID, "stage", stage, "status", rec.Status.String())
	}
	return nil
}

func recordsOf(rows []*jobs.StageProgress) map[string]course.ProgressRecord {
	out := make(map[string]course.ProgressRecord, len(rows))
	for _, r := range rows {
		out[r.Stage] = course.ProgressRecord{
			Status:    course.StageStatus(r.Status),
			Timestamp: r.ChangedAt,
			Path:      r.Path,
			Error:     r.Error,
		}
	}
	return out
}
