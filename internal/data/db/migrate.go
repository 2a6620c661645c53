package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/domain/jobs"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&jobs.CourseRequest{},
		&jobs.StageProgress{},
	)
}
