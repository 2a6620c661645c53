package prompts

type PromptName string

const (
	PromptCourseOutline   PromptName = "course_outline"
	PromptWeeklyModules   PromptName = "weekly_modules"
	PromptModuleBlocks    PromptName = "module_blocks"
	PromptBlockMetadata   PromptName = "block_metadata"
	PromptWeeklyMilestone PromptName = "weekly_milestone"
	PromptCourseMilestone PromptName = "course_milestone"
	PromptBlockTutor      PromptName = "block_tutor"
)
