// Package staging holds the typed records that flow between the raw,
// staging and serving layers of the pipeline. Each record carries the natural
// key later stages join on.
package staging

// Program is one cleaned row of the program master extract.
// Key: Code.
type Program struct {
	Code            string `json:"program_code"`
	Name            string `json:"program_name"`
	Stream          string `json:"program_stream"`
	Site            string `json:"program_site"`
	SpecialtyName   string `json:"specialty_name"`
	SpecialtyRawID  string `json:"specialty_id_raw"`
	UniversityName  string `json:"university_name"`
	UniversityRawID string `json:"university_id_raw"`
	CarmsYear       int    `json:"carms_year"`
	SourceFile      string `json:"source_file"`
	Valid           bool   `json:"is_valid"`
}

// University is a dimension candidate derived from program rows.
// Key: Name.
type University struct {
	Name          string `json:"university_name"`
	RawID         string `json:"university_id_raw"`
	Code          string `json:"code"`
	Province      string `json:"province,omitempty"`
	IsFrancophone bool   `json:"is_francophone"`
}

// Specialty is a dimension candidate derived from the discipline extract.
// Key: Name.
type Specialty struct {
	Name           string `json:"specialty_name"`
	RawID          string `json:"specialty_id_raw"`
	Code           string `json:"code"`
	Category       string `json:"category"`
	IsSubspecialty bool   `json:"is_subspecialty"`
	ParentName     string `json:"parent_specialty_name,omitempty"`
	IsPrimaryCare  bool   `json:"is_primary_care"`
}

// Description is a parsed program description document.
// Key: CarmsID, a loosely formatted identifier linked to programs by the
// record linker.
type Description struct {
	CarmsID            string   `json:"carms_id"`
	SourceURL          string   `json:"source_url,omitempty"`
	FullContent        string   `json:"full_content"`
	ProgramOverview    string   `json:"program_overview"`
	Curriculum         string   `json:"curriculum"`
	SelectionCriteria  string   `json:"selection_criteria"`
	ApplicationProcess string   `json:"application_process"`
	ContactInfo        string   `json:"contact_info"`
	ContentSections    []string `json:"content_sections"`
	TotalLength        int      `json:"total_length"`
}

// Requirement is one requirement mention extracted from a description.
type Requirement struct {
	CarmsID     string `json:"carms_id"`
	Type        string `json:"requirement_type"`
	Text        string `json:"requirement_text"`
	IsMandatory bool   `json:"is_mandatory"`
}

// Criterion is one selection criterion category found in a description.
type Criterion struct {
	CarmsID     string `json:"carms_id"`
	Type        string `json:"criterion_type"`
	Mentions    int    `json:"mentions"`
	Description string `json:"description"`
}

// TrainingSite is a sentence naming a clinical training location.
type TrainingSite struct {
	CarmsID string `json:"carms_id"`
	Name    string `json:"site_name"`
	Type    string `json:"site_type"`
}
