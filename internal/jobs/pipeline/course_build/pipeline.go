package course_build

import (
	"context"
	"fmt"

	"github.com/yungbote/coursegen-backend/internal/data/artifacts"
	"github.com/yungbote/coursegen-backend/internal/domain/course"
	"github.com/yungbote/coursegen-backend/internal/jobs/orchestrator"
	"github.com/yungbote/coursegen-backend/internal/modules/curriculum/transform"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// buildContext carries the intermediate records from one stage to the next.
// Stages run sequentially, so only fan-out units need care: they write to
// their own result slot and the owning stage merges after the group finishes.
type buildContext struct {
	requestID string
	input     course.MappedInput
	log       *logger.Logger

	outline          course.Outline
	weeks            []course.Week
	weekPlans        []string
	overallPlan      string
	weeklyMilestones []course.Milestone
	courseMilestone  course.Milestone
}

// Result is what a completed run leaves behind.
type Result struct {
	Document   course.CourseDocument
	ResultPath string
	Progress   *orchestrator.Progress
}

// Run generates one course. On failure the returned error is an
// *orchestrator.StageError naming the stage that aborted the run, and the
// progress map is still returned for reporting.
func (p *CourseBuildPipeline) Run(ctx context.Context, requestID string, in course.CourseInput) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	bc := &buildContext{
		requestID: requestID,
		input:     in.Map(),
		log:       p.log.With("request_id", requestID),
	}

	stages := []orchestrator.Stage{
		{Name: course.StageCourseOutline, Run: func(ctx context.Context) (any, error) { return p.stageOutline(ctx, bc, in) }},
		{Name: course.StageCourseWeeks, Run: func(ctx context.Context) (any, error) { return p.stageWeeks(ctx, bc) }},
		{Name: course.StageModuleBlocks, Run: func(ctx context.Context) (any, error) { return p.stageModuleBlocks(ctx, bc) }},
		{Name: course.StageBlockMetadata, Run: func(ctx context.Context) (any, error) { return p.stageBlockMetadata(ctx, bc) }},
		{Name: course.StageWeekPlans, Run: func(ctx context.Context) (any, error) { return p.stageWeekPlans(ctx, bc) }},
		{Name: course.StageWeeklyMilestones, Run: func(ctx context.Context) (any, error) { return p.stageWeeklyMilestones(ctx, bc) }},
		{Name: course.StageCourseMilestone, Run: func(ctx context.Context) (any, error) { return p.stageCourseMilestone(ctx, bc) }},
	}

	bc.log.Info("course build started", "topic", bc.input.Topic, "weeks", in.TotalWeeks, "hours_per_week", in.HoursPerWeek)
	prog, err := p.engine.Run(ctx, requestID, stages)
	if err != nil {
		bc.log.Warn("course build aborted", "error", err)
		return &Result{Progress: prog}, err
	}

	doc := transform.Assemble(transform.Inputs{
		Outline:          bc.outline,
		Weeks:            bc.weeks,
		WeeklyMilestones: bc.weeklyMilestones,
		CourseMilestone:  bc.courseMilestone,
		Requirement: course.UserRequirement{
			Topic:         bc.input.Topic,
			Experience:    bc.input.Experience,
			LearningStyle: bc.input.LearningStyle,
			Motivation:    motivationLabel(bc.input),
			Model:         p.ai.Model(),
		},
	})
	resultPath := artifacts.ResultPath(requestID)
	if err := p.store.Save(ctx, resultPath, doc); err != nil {
		return &Result{Progress: prog}, fmt.Errorf("save result: %w", err)
	}
	bc.log.Info("course build completed", "result_path", resultPath, "weeks", len(doc.Course.Weeks))
	return &Result{Document: doc, ResultPath: resultPath, Progress: prog}, nil
}

func motivationLabel(m course.MappedInput) string {
	if m.CustomMotivation != "" && m.Motivation == "Other" {
		return m.CustomMotivation
	}
	return m.Motivation
}
