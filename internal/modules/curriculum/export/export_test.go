package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

func sample() course.CourseDocument {
	ms := course.MilestoneDoc{
		MilestoneTitle: "Ship a CLI", Description: "Build it.", Type: "practical", Length: "3 hours",
		Objectives: []string{"Apply flags"}, Deliverables: []string{"Repo"},
		UploadRequired: true, SupportedFiletypes: []string{".zip"},
		References: []course.Reference{{Title: "Go Blog", Source: "go.dev"}},
	}
	return course.CourseDocument{Course: course.CourseOutlineDoc{
		Title: "Go & You", Overview: "Learn Go.",
		Prerequisites: []string{"Typing"}, LearningOutcomes: []string{"Write Go"}, Skills: []string{"Testing"},
		Weeks: []course.WeekDoc{{
			WeekNumber: 1, WeekTopic: "Intro",
			WeekModules: []course.ModuleDoc{{
				ModuleTitle: "Foo", DurationHours: 2.5,
				ContentBlocks: []course.BlockDoc{{
					BlockTitle: "Variables", Length: 30, Type: "theory",
					Objectives: []string{"Define variables"},
					References: []course.Reference{{Title: "Tour", Source: "go.dev"}, {Title: "Untitled source"}},
				}},
			}},
			WeekMilestone: ms,
		}},
		CourseMilestone: ms,
	}}
}

func TestMarkdown(t *testing.T) {
	out := Markdown(sample())
	for _, want := range []string{
		"# Go & You\n",
		"**Overview**: Learn Go.",
		"## Week 1: Intro",
		"### Foo (2.5 hours)",
		"#### Variables (30 minutes, theory)",
		"- Define variables",
		"- Tour (go.dev)",
		"- Untitled source\n",
		"### Week Milestone: Ship a CLI",
		"## Course Milestone: Ship a CLI",
		"**Upload**: .zip",
	} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.False(t, strings.HasSuffix(out, "\n\n"))
}

func TestHTML(t *testing.T) {
	out, err := HTML(sample())
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Go &amp; You</title>")
	assert.Contains(t, out, "<h1>Go &amp; You</h1>")
	assert.Contains(t, out, "<h4>Variables (30 minutes, theory)</h4>")
	assert.Contains(t, out, "<li>Define variables</li>")
}
