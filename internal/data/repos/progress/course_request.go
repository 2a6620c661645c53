package progress

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/domain/jobs"
	"github.com/yungbote/coursegen-backend/internal/platform/dbctx"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type CourseRequestRepo interface {
	Create(dbc dbctx.Context, req *jobs.CourseRequest) error
	GetByID(dbc dbctx.Context, requestID string) (*jobs.CourseRequest, error)
	List(dbc dbctx.Context, status string, limit int) ([]*jobs.CourseRequest, error)
	UpdateStatus(dbc dbctx.Context, requestID, status string, updates map[string]interface{}) error
	UpdateFields(dbc dbctx.Context, requestID string, updates map[string]interface{}) error
}

type courseRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRequestRepo(db *gorm.DB, baseLog *logger.Logger) CourseRequestRepo {
	return &courseRequestRepo{
		db:  db,
		log: baseLog.With("repo", "CourseRequestRepo"),
	}
}

func (r *courseRequestRepo) Create(dbc dbctx.Context, req *jobs.CourseRequest) error {
	if req == nil || req.RequestID == "" {
		return errors.New("course request requires a request id")
	}
	if req.Status == "" {
		req.Status = jobs.RequestStatusPending
	}
	return dbc.DB(r.db).Create(req).Error
}

// GetByID returns (nil, nil) when the request does not exist.
func (r *courseRequestRepo) GetByID(dbc dbctx.Context, requestID string) (*jobs.CourseRequest, error) {
	if requestID == "" {
		return nil, nil
	}
	var out jobs.CourseRequest
	err := dbc.DB(r.db).
		Where("request_id = ?", requestID).
		Limit(1).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	if out.RequestID == "" {
		return nil, nil
	}
	return &out, nil
}

func (r *courseRequestRepo) List(dbc dbctx.Context, status string, limit int) ([]*jobs.CourseRequest, error) {
	var out []*jobs.CourseRequest
	q := dbc.DB(r.db).Model(&jobs.CourseRequest{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Order("created_at DESC").Order("request_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRequestRepo) UpdateStatus(dbc dbctx.Context, requestID, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.UpdateFields(dbc, requestID, updates)
}

func (r *courseRequestRepo) UpdateFields(dbc dbctx.Context, requestID string, updates map[string]interface{}) error {
	if requestID == "" {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return dbc.DB(r.db).
		Model(&jobs.CourseRequest{}).
		Where("request_id = ?", requestID).
		Updates(updates).Error
}
