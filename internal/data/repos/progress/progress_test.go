package progress

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/coursegen-backend/internal/data/repos/testutil"
	"github.com/yungbote/coursegen-backend/internal/domain/course"
	"github.com/yungbote/coursegen-backend/internal/domain/jobs"
	"github.com/yungbote/coursegen-backend/internal/platform/dbctx"
)

func TestCourseRequestRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewCourseRequestRepo(db, testutil.Logger(t))

	seeded := testutil.SeedCourseRequest(t, ctx, tx, "Go")

	got, err := repo.GetByID(dbc, seeded.RequestID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Topic != "Go" || got.Status != jobs.RequestStatusPending {
		t.Fatalf("GetByID: unexpected %+v", got)
	}

	missing, err := repo.GetByID(dbc, "does-not-exist")
	if err != nil {
		t.Fatalf("GetByID(missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByID(missing): expected nil, got %+v", missing)
	}

	second := &jobs.CourseRequest{RequestID: "req-second", Topic: "Rust"}
	if err := repo.Create(dbc, second); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if second.Status != jobs.RequestStatusPending {
		t.Fatalf("Create: expected default status, got %q", second.Status)
	}
	if err := repo.Create(dbc, &jobs.CourseRequest{Topic: "x"}); err == nil {
		t.Fatalf("Create: expected error for empty request id")
	}

	if err := repo.UpdateStatus(dbc, second.RequestID, jobs.RequestStatusCompleted, map[string]interface{}{
		"result_path": "req-second/result.json",
		"progress":    100,
	}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	completed, err := repo.List(dbc, jobs.RequestStatusCompleted, 0)
	if err != nil {
		t.Fatalf("List(completed): %v", err)
	}
	if len(completed) != 1 || completed[0].RequestID != "req-second" {
		t.Fatalf("List(completed): unexpected %+v", completed)
	}
	if completed[0].ResultPath != "req-second/result.json" || completed[0].Progress != 100 {
		t.Fatalf("UpdateStatus: fields not applied: %+v", completed[0])
	}

	all, err := repo.List(dbc, "", 10)
	if err != nil {
		t.Fatalf("List(all): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List(all): expected 2, got %d", len(all))
	}
}

func TestStageProgressUpsertIsMonotonic(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewStageProgressRepo(db, testutil.Logger(t))
	now := time.Now().UTC()

	upsert := func(status course.StageStatus, errMsg *string) bool {
		t.Helper()
		ts := now
		applied, err := repo.Upsert(dbc, &jobs.StageProgress{
			RequestID: "req-1",
			Stage:     course.StageCourseOutline,
			Position:  0,
			Status:    int(status),
			ChangedAt: &ts,
			Error:     errMsg,
		})
		if err != nil {
			t.Fatalf("Upsert(%s): %v", status, err)
		}
		return applied
	}
	status := func() course.StageStatus {
		t.Helper()
		rows, err := repo.GetByRequestID(dbc, "req-1")
		if err != nil {
			t.Fatalf("GetByRequestID: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
		return course.StageStatus(rows[0].Status)
	}

	if !upsert(course.StatusPending, nil) {
		t.Fatalf("initial pending insert should apply")
	}
	if !upsert(course.StatusStarted, nil) {
		t.Fatalf("pending -> started should apply")
	}
	if upsert(course.StatusPending, nil) {
		t.Fatalf("started -> pending should be ignored")
	}
	if got := status(); got != course.StatusStarted {
		t.Fatalf("expected started, got %s", got)
	}
	if upsert(course.StatusStarted, nil) {
		t.Fatalf("started -> started should be ignored")
	}

	msg := "boom"
	if !upsert(course.StatusFailed, &msg) {
		t.Fatalf("started -> failed should apply")
	}
	if !upsert(course.StatusFailed, &msg) {
		t.Fatalf("failed always overwrites")
	}
	if upsert(course.StatusSucceeded, nil) {
		t.Fatalf("failed -> succeeded should be ignored")
	}

	rows, err := repo.GetByRequestID(dbc, "req-1")
	if err != nil {
		t.Fatalf("GetByRequestID: %v", err)
	}
	if course.StageStatus(rows[0].Status) != course.StatusFailed || rows[0].Error == nil || *rows[0].Error != "boom" {
		t.Fatalf("unexpected final row: %+v", rows[0])
	}

	if _, err := repo.Upsert(dbc, &jobs.StageProgress{RequestID: "req-1", Stage: "x", Status: 9}); err == nil {
		t.Fatalf("expected invalid status error")
	}
}

func TestStageProgressOrderAndDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewStageProgressRepo(db, testutil.Logger(t))
	for i := len(course.StageOrder) - 1; i >= 0; i-- {
		if _, err := repo.Upsert(dbc, &jobs.StageProgress{
			RequestID: "req-2",
			Stage:     course.StageOrder[i],
			Position:  i,
			Status:    int(course.StatusPending),
		}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	rows, err := repo.GetByRequestID(dbc, "req-2")
	if err != nil {
		t.Fatalf("GetByRequestID: %v", err)
	}
	if len(rows) != len(course.StageOrder) {
		t.Fatalf("expected %d rows, got %d", len(course.StageOrder), len(rows))
	}
	for i, row := range rows {
		if row.Stage != course.StageOrder[i] {
			t.Fatalf("row %d: expected %s, got %s", i, course.StageOrder[i], row.Stage)
		}
	}

	if err := repo.DeleteByRequestID(dbc, "req-2"); err != nil {
		t.Fatalf("DeleteByRequestID: %v", err)
	}
	rows, err = repo.GetByRequestID(dbc, "req-2")
	if err != nil {
		t.Fatalf("GetByRequestID: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows after delete, got %d", len(rows))
	}
}
