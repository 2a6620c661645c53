package llmtest

// Canned replies for a one-week, two-module course. Every prompt the course
// build issues matches exactly one rule, so Fixture drives a full run offline.
const (
	fixtureOutline = `## Title: Offline Sample Course
### Overview: A canned course used for local runs and tests.
### Prerequisites:
* Curiosity
### LearningOutcomes:
* Explain the core ideas
* Apply them in a small project
### Skills:
* Fundamentals
* Practice`

	fixtureWeeks = `## Week 1 : Getting Started (total: 2 h)
- Module 1.1: Core Ideas - 1 h
- Module 1.2: First Project - 1 h`

	fixtureBlocks = `## Module : Sample Module
### Block 1 : Concepts
**Length:** 30
**Type:** theory
### Block 2 : Exercises
**Length:** 30
**Type:** practice`

	fixtureMetadata = `## ID : 0
**Objectives:**
- Describe the key concepts

**References:**
- Sample Handbook : Course Team

## ID : 1
**Objectives:**
- Complete the guided exercises

**References:**
- Exercise Sheet : Course Team`

	fixtureMilestone = `## MilestoneTitle: Sample Milestone
- **Length:** 2 hours
- **Type:** practical

**Description:**
Put the week's ideas into a small deliverable.

**Objectives:**
- Apply the core ideas
- Evaluate the result

**Prerequisites:**
- Module:1.1

**Deliverables:**
- Project archive

**UploadRequired:**
- true

**SupportedFiletypes:**
- .zip, .pdf

**References:**
- Sample Handbook : Course Team
- Exercise Sheet : Course Team`
)

const fixtureTutor = `## Answer
Start from the block objectives and work one example at a time.`

// FixtureRules answers every course build prompt and the block tutor.
func FixtureRules() []Rule {
	return []Rule{
		{Contains: "mastery course engineer", Reply: fixtureOutline},
		{Contains: "expert curriculum developer", Reply: fixtureWeeks},
		{Contains: "lesson blocks strictly for the module", Reply: fixtureBlocks},
		{Contains: "instructional content generator", Reply: fixtureMetadata},
		{Contains: "senior curriculum architect", Reply: fixtureMilestone},
		{Contains: "instructional-design assistant", Reply: fixtureMilestone},
		{Contains: "You are TutorAI", Reply: fixtureTutor},
	}
}

// Fixture is a Scripted client loaded with FixtureRules.
func Fixture() *Scripted { return NewScripted(FixtureRules()...) }
