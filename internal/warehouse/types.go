package warehouse

// University is a row of dim_universities. Key: Name.
type University struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	Province      string `json:"province,omitempty"`
	City          string `json:"city,omitempty"`
	IsFrancophone bool   `json:"is_francophone"`
}

// Specialty is a row of dim_specialties. Key: Name.
type Specialty struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	Category      string `json:"category"`
	ParentID      *int64 `json:"parent_specialty_id,omitempty"`
	IsPrimaryCare bool   `json:"is_primary_care"`
}

// Program is a row of fact_programs. Key: ProgramCode.
type Program struct {
	ID                      int64  `json:"id"`
	ProgramCode             string `json:"program_code"`
	ProgramName             string `json:"program_name"`
	Stream                  string `json:"program_stream,omitempty"`
	Site                    string `json:"program_site,omitempty"`
	UniversityID            int64  `json:"university_id"`
	SpecialtyID             int64  `json:"specialty_id"`
	Quota                   *int   `json:"quota,omitempty"`
	IsAcceptingApplications bool   `json:"is_accepting_applications"`
	Description             string `json:"description,omitempty"`
	ProgramOverview         string `json:"program_overview,omitempty"`
	CurriculumHighlights    string `json:"curriculum_highlights,omitempty"`
	SourceFile              string `json:"source_file,omitempty"`
	CarmsYear               int    `json:"carms_year"`
}

// Requirement is a row of dim_requirements. Key: (ProgramID, Type, Text).
type Requirement struct {
	ID          int64  `json:"id"`
	ProgramID   int64  `json:"program_id"`
	Type        string `json:"requirement_type"`
	Text        string `json:"requirement_text"`
	IsMandatory bool   `json:"is_mandatory"`
}

// SelectionCriterion is a row of dim_selection_criteria.
// Key: (ProgramID, Type).
type SelectionCriterion struct {
	ID          int64  `json:"id"`
	ProgramID   int64  `json:"program_id"`
	Type        string `json:"criterion_type"`
	Mentions    int    `json:"mentions"`
	Description string `json:"description"`
}

// TrainingSite is a row of dim_training_sites. Key: (ProgramID, Name).
type TrainingSite struct {
	ID        int64  `json:"id"`
	ProgramID int64  `json:"program_id"`
	Name      string `json:"site_name"`
	Type      string `json:"site_type"`
}
