package models

// LeadStatus is the outreach tier derived from the lead score.
type LeadStatus string

const (
	StatusHot  LeadStatus = "hot"
	StatusWarm LeadStatus = "warm"
	StatusCold LeadStatus = "cold"
)

// StatusForScore maps a 0-100 score to its tier. The thresholds are the
// single source of truth; status is never stored independently of score.
func StatusForScore(score int) LeadStatus {
	if score >= 80 {
		return StatusHot
	}
	if score >= 60 {
		return StatusWarm
	}
	return StatusCold
}

// Lead is the scored, persisted lead entity.
type Lead struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Company  string     `json:"company"`
	Email    string     `json:"email"`
	Score    int        `json:"score"`
	Status   LeadStatus `json:"status"`
	Industry string     `json:"industry"`
	Notes    string     `json:"notes"`
	Phone    string     `json:"phone,omitempty"`
	Website  string     `json:"website,omitempty"`
	Title    string     `json:"title,omitempty"`
	Location string     `json:"location,omitempty"`

	// Embedding is attached best-effort for semantic search; never serialized
	// to API responses.
	Embedding []float32 `json:"-"`
}

// LeadProfile is the normalized input handed to the scorers. All fields are
// trimmed strings; email is lower-cased.
type LeadProfile struct {
	Name     string
	Company  string
	Email    string
	Industry string
	Phone    string
	Website  string
	Title    string
	Location string
}

// LeadUpdate is a partial, field-by-field mutation of a stored lead.
// Nil fields are left untouched. Status is intentionally absent: it is
// recomputed from Score whenever Score changes.
type LeadUpdate struct {
	Name     *string `json:"name"`
	Company  *string `json:"company"`
	Email    *string `json:"email"`
	Score    *int    `json:"score"`
	Industry *string `json:"industry"`
	Notes    *string `json:"notes"`
	Phone    *string `json:"phone"`
	Website  *string `json:"website"`
	Title    *string `json:"title"`
	Location *string `json:"location"`
}

// LeadStats is the aggregate view over the full lead collection.
type LeadStats struct {
	Total        int `json:"total"`
	Hot          int `json:"hot"`
	Warm         int `json:"warm"`
	Cold         int `json:"cold"`
	AverageScore int `json:"averageScore"`
}
