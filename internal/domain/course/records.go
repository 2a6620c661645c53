package course

// Outline is the parsed course_outline stage output.
type Outline struct {
	Title            string   `json:"title"`
	Overview         string   `json:"overview"`
	Prerequisites    []string `json:"prerequisites"`
	LearningOutcomes []string `json:"learning_outcomes"`
	Skills           []string `json:"skills"`
	Duration         Duration `json:"duration"`
}

type Duration struct {
	TotalWeeks   int     `json:"total_weeks"`
	HoursPerWeek float64 `json:"hours_per_week"`
}

// Week is one parsed week header with its module list. Blocks and metadata
// are attached to its modules by later stages.
type Week struct {
	Number       int      `json:"week_number"`
	Topic        string   `json:"week_topic"`
	HoursPerWeek float64  `json:"hours_per_week"`
	Modules      []Module `json:"modules"`
}

type Module struct {
	Number        string          `json:"module_number"`
	Title         string          `json:"module"`
	DurationHours float64         `json:"duration_hrs"`
	Blocks        []Block         `json:"blocks,omitempty"`
	Metadata      []BlockMetadata `json:"block_metadata,omitempty"`
}

type Block struct {
	Title  string `json:"block_title"`
	Length int    `json:"length"`
	Type   string `json:"type"`
}

const (
	BlockTypeTheory      = "theory"
	BlockTypeExploration = "exploration"
)

type BlockMetadata struct {
	ID         int         `json:"id"`
	Objectives []string    `json:"objectives"`
	References []Reference `json:"references"`
}

type Reference struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}

// Milestone is the parsed form of a weekly or course capstone. Zero values mean
// the section was absent from the reply; UploadRequired is a pointer so an
// explicit false survives normalization.
type Milestone struct {
	Title              string      `json:"milestone_title,omitempty"`
	Length             string      `json:"length,omitempty"`
	Type               string      `json:"type,omitempty"`
	Description        string      `json:"description,omitempty"`
	Objectives         []string    `json:"objectives,omitempty"`
	Prerequisites      []string    `json:"prerequisites,omitempty"`
	Deliverables       []string    `json:"deliverables,omitempty"`
	UploadRequired     *bool       `json:"upload_required,omitempty"`
	SupportedFiletypes []string    `json:"supported_filetypes,omitempty"`
	References         []Reference `json:"references,omitempty"`
}

// ModuleKey addresses one module by its position in the week list.
type ModuleKey struct {
	Week   int `json:"week"`
	Module int `json:"module"`
}
