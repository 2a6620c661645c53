package prompts

import (
	"fmt"
	"strings"

	"github.com/yungbote/coursegen-backend/internal/domain/course"
)

var experienceGuidance = map[string]string{
	"I'm new": `Experience=New:
- Foundation first; build confidence with early, concrete wins.
- Add 2-3 beginner-friendly prerequisites.
- Keep most early objectives at the Remember/Understand levels.`,
	"I've tried it before": `Experience=Tried Before:
- Bridge gaps between what the learner already knows and new concepts.
- Balance roughly 40% review with 60% new material.
- Let familiar areas move faster.`,
	"I'm confident / advanced": `Experience=Confident:
- Skip the basics and go straight to complex integrations.
- Keep most objectives at the Apply/Analyze/Create levels.
- Favor real problem solving over recall.`,
}

var styleGuidance = map[string]string{
	"Quick Course": `Style=Quick Course:
- High-density blocks focused on essentials and fast, tangible results.
- End with a practical outcome in the final milestone.`,
	"Skill Path": `Style=Skill Path:
- Structure the course as a pathway of connected sub-specializations.
- Make prerequisites between parts explicit.`,
	"Build-a-Project": `Style=Build-a-Project:
- Align every module with a phase of one project.
- Culminate in a portfolio-ready deliverable.`,
}

var motivationGuidance = map[string]string{
	"Get a better job": `Motivation=Better Job:
- Align outcomes with industry-relevant skills and hiring demand.
- Favor portfolio-building and certification-style milestones.`,
	"College help": `Motivation=College Help:
- Match university course structure and academic rigor.
- Include citation requirements and exam-preparation elements.`,
	"Just for fun": `Motivation=Fun:
- Engagement first; prefer open-ended exploration blocks.
- Keep milestone requirements flexible and light-hearted.`,
	"Other": `Motivation=Custom:
- The learner describes their motivation as: "%s".
- Shape outcomes, examples and milestones around that goal.`,
}

// TopicGuidance frames the course topic for the outline prompt.
func TopicGuidance(topic string) string {
	return fmt.Sprintf(`For Course Topic "%s":
- Map the primary concepts, prerequisites and progression paths.
- Break the topic into 3-5 fundamental sub-skills that build toward expertise.
- Title the course "Mastering [Topic]: [Specific Focus]".
- Write the overview as a two-sentence learning journey with practical outcomes.`, topic)
}

func ExperienceGuidance(label string) string { return experienceGuidance[label] }

func StyleGuidance(label string) string { return styleGuidance[label] }

// MotivationGuidance substitutes the learner's own words for the Other label.
func MotivationGuidance(label, custom string) string {
	g := motivationGuidance[label]
	if strings.Contains(g, "%s") {
		return fmt.Sprintf(g, custom)
	}
	return g
}

// HoursGuidance describes the pacing for a weekly time commitment.
func HoursGuidance(hours int) string {
	switch course.DifficultyLevel(hours) {
	case course.DifficultyLow:
		return fmt.Sprintf(`%d hours/week (Low):
- Bite-sized blocks and a sustainable pace.
- Only essential, high-impact content.`, hours)
	case course.DifficultyMedium:
		return fmt.Sprintf(`%d hours/week (Medium):
- Balanced intensity mixing theory and practice.
- Standard timeline with steady progression.`, hours)
	default:
		return fmt.Sprintf(`%d hours/week (High):
- Intensive, focused modules with optional deep dives.
- Accelerated progression toward mastery.`, hours)
	}
}
