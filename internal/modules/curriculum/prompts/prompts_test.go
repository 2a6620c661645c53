package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

func mapped() course.MappedInput {
	return course.CourseInput{
		Topic: "Go", Experience: 0, TotalWeeks: 2, HoursPerWeek: 10,
		LearningStyle: 2, Motivation: course.MotivationOther, CustomMotivation: "ship a CLI",
	}.Map()
}

func TestRenderFuncs(t *testing.T) {
	out, err := Render("t", `{{bullets .Items}}|{{fixed 2 .F}}|{{int .F}}|{{.Missing}}`, map[string]any{
		"Items": []string{"a", " ", "b"},
		"F":     2.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "- a\n- b|2.50|2|<no value>", out)

	_, err = Render("bad", "{{", nil)
	assert.Error(t, err)
}

func TestRenderIsDeterministic(t *testing.T) {
	vars := Input{CourseTitle: "X", LearningOutcomes: []string{"one", "two"}}
	a, err := Render("t", "{{.CourseTitle}}\n{{bullets .LearningOutcomes}}", vars)
	require.NoError(t, err)
	b, err := Render("t", "{{.CourseTitle}}\n{{bullets .LearningOutcomes}}", vars)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWeeklyModulesInputBounds(t *testing.T) {
	o := course.Outline{Title: "T", Duration: course.Duration{TotalWeeks: 2, HoursPerWeek: 10}}
	in := WeeklyModulesInput(o, mapped())
	assert.Equal(t, 2, in.MinModules)
	assert.Equal(t, 3, in.MaxModules)

	o.Duration.HoursPerWeek = 2
	in = WeeklyModulesInput(o, mapped())
	assert.Equal(t, 1, in.MinModules)
	assert.Equal(t, 1, in.MaxModules)
}

func TestModuleInputs(t *testing.T) {
	w := course.Week{Number: 1, Topic: "Intro", HoursPerWeek: 5, Modules: []course.Module{
		{Number: "1.1", Title: "Foo", DurationHours: 2.5, Blocks: []course.Block{
			{Title: "A", Length: 30, Type: "theory"},
			{Title: "B", Length: 45, Type: "exploration"},
		}},
	}}
	in, err := ModuleBlocksInput(course.Outline{Title: "T"}, w, 0, mapped())
	require.NoError(t, err)
	assert.Equal(t, "1.1 Foo", in.ModuleTopic)
	assert.Equal(t, 150, in.ModuleDurationMinutes)
	assert.Equal(t, 2, in.MinBlocks)
	assert.Equal(t, 5, in.MaxBlocks)

	md, err := BlockMetadataInput(w, 0, mapped())
	require.NoError(t, err)
	assert.Equal(t, "Foo", md.ModuleTopic)
	assert.Equal(t, "ID : 0 | **A** | 30 Minutes (theory)\nID : 1 | **B** | 45 Minutes (exploration)\n", md.BlockList)

	_, err = ModuleBlocksInput(course.Outline{}, w, 3, mapped())
	assert.Error(t, err)
}

func TestModuleMinutesRound(t *testing.T) {
	w := course.Week{Number: 1, Topic: "Intro", HoursPerWeek: 4.1, Modules: []course.Module{
		{Number: "1.1", Title: "Foo", DurationHours: 4.1},
	}}
	in, err := ModuleBlocksInput(course.Outline{Title: "T"}, w, 0, mapped())
	require.NoError(t, err)
	assert.Equal(t, 246, in.ModuleDurationMinutes)
	assert.Equal(t, 4, in.MinBlocks)
	assert.Equal(t, 8, in.MaxBlocks)

	md, err := BlockMetadataInput(w, 0, mapped())
	require.NoError(t, err)
	assert.Equal(t, 246, md.ModuleDurationMinutes)
}

func TestPlans(t *testing.T) {
	w := course.Week{Number: 1, Topic: "Intro", Modules: []course.Module{
		{Number: "1.1", Title: "Foo", Blocks: []course.Block{{Title: "A"}, {Title: "B"}}},
	}}
	plan := WeekPlan(w)
	assert.Equal(t, "# Week Topic: Intro\n\n## Module 1.1: Foo\n- **Block 1.1.1:** A\n- **Block 1.1.2:** B\n", plan)

	overall := OverallPlan([]string{"p1", "p2"})
	assert.Equal(t, "# Week : 1\np1\n# Week : 2\np2\n", overall)
}

func TestGuidance(t *testing.T) {
	assert.Contains(t, MotivationGuidance("Other", "ship a CLI"), `"ship a CLI"`)
	assert.NotContains(t, MotivationGuidance("Just for fun", "ignored"), "ignored")
	assert.Contains(t, HoursGuidance(4), "(Low)")
	assert.Contains(t, HoursGuidance(12), "(Medium)")
	assert.Contains(t, HoursGuidance(30), "(High)")
	assert.NotEmpty(t, ExperienceGuidance("I'm new"))
	assert.NotEmpty(t, StyleGuidance("Skill Path"))
}

func TestBuildAllPrompts(t *testing.T) {
	m := mapped()
	outline := course.Outline{
		Title: "Mastering Go", Overview: "O",
		LearningOutcomes: []string{"Build services"}, Skills: []string{"Concurrency"},
		Duration: course.Duration{TotalWeeks: 2, HoursPerWeek: 10},
	}
	w := course.Week{Number: 1, Topic: "Intro", HoursPerWeek: 10, Modules: []course.Module{
		{Number: "1.1", Title: "Foo", DurationHours: 5, Blocks: []course.Block{{Title: "A", Length: 30, Type: "theory"}}},
		{Number: "1.2", Title: "Bar", DurationHours: 5},
	}}

	p, err := Build(PromptCourseOutline, OutlineInput(m))
	require.NoError(t, err)
	assert.Contains(t, p.User, `Course Topic "Go"`)
	assert.Equal(t, "course_outline", p.SchemaName)
	assert.NotNil(t, p.Schema)

	p, err = Build(PromptWeeklyModules, WeeklyModulesInput(outline, m))
	require.NoError(t, err)
	assert.Contains(t, p.System, "between 2 and 3 modules")
	assert.Contains(t, p.User, "- Build services")
	assert.Nil(t, p.Schema)

	blocksIn, err := ModuleBlocksInput(outline, w, 0, m)
	require.NoError(t, err)
	p, err = Build(PromptModuleBlocks, blocksIn)
	require.NoError(t, err)
	assert.Contains(t, p.System, "## Module : 1.1 Foo (total: 5.0 Hours)")

	metaIn, err := BlockMetadataInput(w, 0, m)
	require.NoError(t, err)
	p, err = Build(PromptBlockMetadata, metaIn)
	require.NoError(t, err)
	assert.Contains(t, p.User, "ID : 0 | **A**")

	p, err = Build(PromptWeeklyMilestone, WeeklyMilestoneInput(w, m))
	require.NoError(t, err)
	assert.Contains(t, p.User, "# Week Topic: Intro")
	assert.True(t, strings.HasPrefix(p.System, "You are a senior curriculum architect."))

	p, err = Build(PromptCourseMilestone, CourseMilestoneInput(outline, OverallPlan([]string{WeekPlan(w)}), m))
	require.NoError(t, err)
	assert.Contains(t, p.User, "# Week : 1")

	_, err = Build(PromptCourseMilestone, Input{})
	assert.Error(t, err)
	_, err = Build("nope", Input{})
	assert.Error(t, err)
}

func TestTutorPromptKeepsRecentHistory(t *testing.T) {
	doc := course.CourseDocument{
		Course:          course.CourseOutlineDoc{Title: "Mastering Go"},
		UserRequirement: course.UserRequirement{Topic: "Go", Experience: "I'm new"},
	}
	b := course.BlockDoc{BlockTitle: "Channels", Objectives: []string{"Explain buffering"}}
	for i := 1; i <= 5; i++ {
		b.Chat = append(b.Chat, course.ChatTurn{Question: fmt.Sprintf("q%d", i), Answer: fmt.Sprintf("a%d", i)})
	}

	p, err := Build(PromptBlockTutor, TutorInput(doc, "Concurrency", "Goroutines", b, "  why block?  "))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.System, "You are TutorAI"))
	assert.Contains(t, p.User, "Course Title: Mastering Go")
	assert.Contains(t, p.User, "Current Module: Goroutines")
	assert.Contains(t, p.User, "- Explain buffering")
	assert.Contains(t, p.User, "Learner: q3\nTutor: a3")
	assert.Contains(t, p.User, "Learner: q5\nTutor: a5")
	assert.NotContains(t, p.User, "q2")
	assert.True(t, strings.HasSuffix(p.User, "Question:\nwhy block?"))

	b.Chat = nil
	p, err = Build(PromptBlockTutor, TutorInput(doc, "Concurrency", "Goroutines", b, "why?"))
	require.NoError(t, err)
	assert.NotContains(t, p.User, "Earlier conversation")

	_, err = Build(PromptBlockTutor, TutorInput(doc, "Concurrency", "Goroutines", b, "   "))
	assert.Error(t, err)
}
