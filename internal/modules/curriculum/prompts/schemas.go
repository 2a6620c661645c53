package prompts

func stringList() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

// CourseOutlineSchema is used when the outline stage runs in structured mode.
func CourseOutlineSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"title", "overview", "prerequisites", "learning_outcomes", "skills"},
		"properties": map[string]any{
			"title":             map[string]any{"type": "string"},
			"overview":          map[string]any{"type": "string"},
			"prerequisites":     stringList(),
			"learning_outcomes": stringList(),
			"skills":            stringList(),
		},
	}
}
