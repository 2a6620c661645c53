package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/domain/jobs"
)

func SeedCourseRequest(tb testing.TB, ctx context.Context, tx *gorm.DB, topic string) *jobs.CourseRequest {
	tb.Helper()
	req := &jobs.CourseRequest{
		RequestID: uuid.NewString(),
		Topic:     topic,
		Status:    jobs.RequestStatusPending,
		Input:     datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(req).Error; err != nil {
		tb.Fatalf("seed course request: %v", err)
	}
	return req
}
