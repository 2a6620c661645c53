package course_build

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
	"github.com/yungbote/coursegen-backend/internal/jobs/orchestrator"
	"github.com/yungbote/coursegen-backend/internal/modules/curriculum/parser"
	"github.com/yungbote/coursegen-backend/internal/modules/curriculum/prompts"
	"github.com/yungbote/coursegen-backend/internal/modules/curriculum/validation"
	"github.com/yungbote/coursegen-backend/internal/platform/retry"
)

func (p *CourseBuildPipeline) stageOutline(ctx context.Context, bc *buildContext, in course.CourseInput) (any, error) {
	pr, err := prompts.Build(prompts.PromptCourseOutline, prompts.OutlineInput(bc.input))
	if err != nil {
		return nil, err
	}
	c := call{stage: course.StageCourseOutline, rawName: course.StageCourseOutline, prompt: pr}

	var o course.Outline
	if p.cfg.StructuredOutline && pr.Schema != nil {
		o, err = p.generateOutlineJSON(ctx, bc, c)
	} else {
		o, err = generateParsed(ctx, p, bc, c, parser.Outline{}, nil)
	}
	if err != nil {
		return nil, err
	}
	o.Duration = course.Duration{TotalWeeks: in.TotalWeeks, HoursPerWeek: float64(in.HoursPerWeek)}
	bc.outline = o
	return o, nil
}

// generateOutlineJSON is the schema-constrained variant of the outline stage.
// The reply is already structured, so only emptiness is checked.
func (p *CourseBuildPipeline) generateOutlineJSON(ctx context.Context, bc *buildContext, c call) (course.Outline, error) {
	return retry.Do(ctx, p.policy(bc, c), func(attempt int) (course.Outline, error) {
		p.rec.IncLLMAttempt(c.stage)
		obj, err := p.ai.GenerateJSON(ctx, c.prompt.System, c.prompt.User, c.prompt.SchemaName, c.prompt.Schema)
		if err != nil {
			return course.Outline{}, err
		}
		raw, err := json.MarshalIndent(obj, "", "    ")
		if err != nil {
			return course.Outline{}, err
		}
		p.archive(ctx, bc, c.rawName+"_structured", string(raw))

		var o course.Outline
		if err := json.Unmarshal(raw, &o); err != nil {
			return course.Outline{}, fmt.Errorf("decode outline: %w", err)
		}
		if o.Title == "" && o.Overview == "" {
			return course.Outline{}, fmt.Errorf("structured outline: %w", parser.ErrNoContent)
		}
		return o, nil
	})
}

func (p *CourseBuildPipeline) stageWeeks(ctx context.Context, bc *buildContext) (any, error) {
	pr, err := prompts.Build(prompts.PromptWeeklyModules, prompts.WeeklyModulesInput(bc.outline, bc.input))
	if err != nil {
		return nil, err
	}
	c := call{stage: course.StageCourseWeeks, rawName: course.StageCourseWeeks, prompt: pr}
	want := bc.input.WeekCount
	weeks, err := generateParsed(ctx, p, bc, c, parser.Weeks{}, func(ws []course.Week) []validation.Issue {
		var out []validation.Issue
		if want > 0 && len(ws) != want {
			out = append(out, validation.Issue{Path: "weeks", Message: fmt.Sprintf("%d weeks, want %d", len(ws), want)})
		}
		for _, w := range ws {
			out = append(out, validation.Week(w)...)
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	bc.weeks = weeks
	return weeks, nil
}

func moduleKeys(weeks []course.Week) []course.ModuleKey {
	var keys []course.ModuleKey
	for wi, w := range weeks {
		for mi := range w.Modules {
			keys = append(keys, course.ModuleKey{Week: wi, Module: mi})
		}
	}
	return keys
}

func unitName(stage string, k course.ModuleKey) string {
	return fmt.Sprintf("%s_%d_%d", stage, k.Week+1, k.Module+1)
}

type blocksUnit struct {
	key    course.ModuleKey
	blocks []course.Block
}

func (p *CourseBuildPipeline) stageModuleBlocks(ctx context.Context, bc *buildContext) (any, error) {
	stage := course.StageModuleBlocks
	keys := moduleKeys(bc.weeks)
	p.rec.ObserveFanOut(stage, len(keys))

	results, err := orchestrator.FanOut(ctx, p.cfg.FanOutLimit, len(keys), func(ctx context.Context, i int) (blocksUnit, error) {
		k := keys[i]
		w := bc.weeks[k.Week]
		mod := w.Modules[k.Module]
		in, err := prompts.ModuleBlocksInput(bc.outline, w, k.Module, bc.input)
		if err != nil {
			return blocksUnit{}, err
		}
		pr, err := prompts.Build(prompts.PromptModuleBlocks, in)
		if err != nil {
			return blocksUnit{}, err
		}
		c := call{stage: stage, rawName: unitName(stage, k), prompt: pr}
		blocks, err := generateParsed(ctx, p, bc, c, parser.Blocks{}, func(bs []course.Block) []validation.Issue {
			m := mod
			m.Blocks = bs
			return validation.Module(m)
		})
		if err != nil {
			return blocksUnit{}, fmt.Errorf("week %d module %s: %w", w.Number, mod.Number, err)
		}
		return blocksUnit{key: k, blocks: blocks}, nil
	})
	if err != nil {
		return nil, err
	}
	for _, u := range results {
		bc.weeks[u.key.Week].Modules[u.key.Module].Blocks = u.blocks
	}
	return bc.weeks, nil
}

type metadataUnit struct {
	key      course.ModuleKey
	metadata []course.BlockMetadata
}

func (p *CourseBuildPipeline) stageBlockMetadata(ctx context.Context, bc *buildContext) (any, error) {
	stage := course.StageBlockMetadata
	keys := moduleKeys(bc.weeks)
	p.rec.ObserveFanOut(stage, len(keys))

	results, err := orchestrator.FanOut(ctx, p.cfg.FanOutLimit, len(keys), func(ctx context.Context, i int) (metadataUnit, error) {
		k := keys[i]
		w := bc.weeks[k.Week]
		mod := w.Modules[k.Module]
		in, err := prompts.BlockMetadataInput(w, k.Module, bc.input)
		if err != nil {
			return metadataUnit{}, err
		}
		pr, err := prompts.Build(prompts.PromptBlockMetadata, in)
		if err != nil {
			return metadataUnit{}, err
		}
		c := call{stage: stage, rawName: unitName(stage, k), prompt: pr}
		md, err := generateParsed(ctx, p, bc, c, parser.BlockMetadata{}, func(md []course.BlockMetadata) []validation.Issue {
			return metadataIssues(mod, md)
		})
		if err != nil {
			return metadataUnit{}, fmt.Errorf("week %d module %s: %w", w.Number, mod.Number, err)
		}
		return metadataUnit{key: k, metadata: md}, nil
	})
	if err != nil {
		return nil, err
	}
	for _, u := range results {
		bc.weeks[u.key.Week].Modules[u.key.Module].Metadata = u.metadata
	}
	return bc.weeks, nil
}

func metadataIssues(mod course.Module, md []course.BlockMetadata) []validation.Issue {
	var out []validation.Issue
	path := "module " + mod.Number
	if len(md) != len(mod.Blocks) {
		out = append(out, validation.Issue{Path: path, Message: fmt.Sprintf("metadata for %d of %d blocks", len(md), len(mod.Blocks))})
	}
	for _, m := range md {
		out = append(out, validation.References(fmt.Sprintf("%s id %d", path, m.ID), m.References)...)
	}
	return out
}

type weekPlansArtifact struct {
	WeekPlans   []string `json:"week_plans"`
	OverallPlan string   `json:"overall_plan"`
}

func (p *CourseBuildPipeline) stageWeekPlans(_ context.Context, bc *buildContext) (any, error) {
	plans := make([]string, len(bc.weeks))
	for i, w := range bc.weeks {
		plans[i] = prompts.WeekPlan(w)
	}
	bc.weekPlans = plans
	bc.overallPlan = prompts.OverallPlan(plans)
	return weekPlansArtifact{WeekPlans: plans, OverallPlan: bc.overallPlan}, nil
}

func (p *CourseBuildPipeline) stageWeeklyMilestones(ctx context.Context, bc *buildContext) (any, error) {
	stage := course.StageWeeklyMilestones
	p.rec.ObserveFanOut(stage, len(bc.weeks))

	milestones, err := orchestrator.FanOut(ctx, p.cfg.FanOutLimit, len(bc.weeks), func(ctx context.Context, i int) (course.Milestone, error) {
		w := bc.weeks[i]
		pr, err := prompts.Build(prompts.PromptWeeklyMilestone, prompts.WeeklyMilestoneInput(w, bc.input))
		if err != nil {
			return course.Milestone{}, err
		}
		c := call{stage: stage, rawName: fmt.Sprintf("%s_%d", stage, i+1), prompt: pr}
		scope := fmt.Sprintf("week %d milestone", w.Number)
		m, err := generateParsed(ctx, p, bc, c, parser.Milestone{}, func(m course.Milestone) []validation.Issue {
			return validation.Milestone(scope, m)
		})
		if err != nil {
			return course.Milestone{}, fmt.Errorf("week %d: %w", w.Number, err)
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	bc.weeklyMilestones = milestones
	return milestones, nil
}

func (p *CourseBuildPipeline) stageCourseMilestone(ctx context.Context, bc *buildContext) (any, error) {
	pr, err := prompts.Build(prompts.PromptCourseMilestone, prompts.CourseMilestoneInput(bc.outline, bc.overallPlan, bc.input))
	if err != nil {
		return nil, err
	}
	c := call{stage: course.StageCourseMilestone, rawName: course.StageCourseMilestone, prompt: pr}
	m, err := generateParsed(ctx, p, bc, c, parser.Milestone{}, func(m course.Milestone) []validation.Issue {
		return validation.Milestone("course milestone", m)
	})
	if err != nil {
		return nil, err
	}
	bc.courseMilestone = m
	return m, nil
}
