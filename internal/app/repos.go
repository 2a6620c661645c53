package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/data/repos/progress"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type Repos struct {
	CourseRequest progress.CourseRequestRepo
	StageProgress progress.StageProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		CourseRequest: progress.NewCourseRequestRepo(db, log),
		StageProgress: progress.NewStageProgressRepo(db, log),
	}
}
