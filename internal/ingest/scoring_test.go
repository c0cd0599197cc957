package ingest

import (
	"strings"
	"testing"

	"github.com/david/lead-intake/internal/models"
)

func TestScoreLead(t *testing.T) {
	tests := []struct {
		name    string
		profile models.LeadProfile
		want    int
	}{
		{
			name: "everything present clamps at 100",
			profile: models.LeadProfile{
				Name:     "Jane Doe",
				Company:  "Acme Corp",
				Email:    "jane@acme.com",
				Industry: "Software",
				Phone:    "555-0100",
				Website:  "https://acme.example",
				Title:    "CEO",
			},
			want: 100,
		},
		{
			name: "core fields only",
			profile: models.LeadProfile{
				Name:     "Jane Doe",
				Company:  "Acme Corp",
				Email:    "jane@acme.com",
				Industry: "Software",
			},
			want: 80,
		},
		{
			name:    "name only",
			profile: models.LeadProfile{Name: "Bob"},
			want:    15,
		},
		{
			name:    "implausible email scores presence only",
			profile: models.LeadProfile{Email: "jane@acme"},
			want:    20,
		},
		{
			name:    "short company name skips the length bonus",
			profile: models.LeadProfile{Company: "IBM"},
			want:    15,
		},
		{
			name:    "non decision-maker title",
			profile: models.LeadProfile{Title: "Engineer"},
			want:    10,
		},
		{
			name:    "decision-maker title",
			profile: models.LeadProfile{Title: "VP of Sales"},
			want:    15,
		},
		{
			name:    "empty profile",
			profile: models.LeadProfile{},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ScoreLead(tt.profile)
			if got != tt.want {
				t.Errorf("ScoreLead() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreLeadFactors(t *testing.T) {
	_, factors := ScoreLead(models.LeadProfile{
		Name:    "Jane Doe",
		Company: "Acme Corp",
		Email:   "jane@acme.com",
		Title:   "Director of Engineering",
	})

	want := []string{
		"Has email address",
		"Valid email format",
		"Has company name",
		"Has contact name",
		"Has job title",
		"Decision-maker title",
	}
	for _, f := range want {
		found := false
		for _, got := range factors {
			if got == f {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing factor %q in %v", f, factors)
		}
	}
}

func TestScoreLeadDeterministic(t *testing.T) {
	p := models.LeadProfile{Name: "Jane", Company: "Acme Corp", Email: "jane@acme.com"}

	first, _ := ScoreLead(p)
	second, _ := ScoreLead(p)
	if first != second {
		t.Errorf("scores differ between runs: %d vs %d", first, second)
	}
}

func TestIsPlausibleEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"jane@acme.com", true},
		{"jane.doe@sub.acme.co", true},
		{"jane@acme", false},
		{"jane@.com", false},
		{"jane@acme.", false},
		{"@acme.com", false},
		{"jane@@acme.com", false},
		{"ja ne@acme.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := isPlausibleEmail(tt.email); got != tt.want {
				t.Errorf("isPlausibleEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestGenerateNotes(t *testing.T) {
	p := models.LeadProfile{
		Name:     "Jane Doe",
		Company:  "Acme Corp",
		Email:    "jane@acme.com",
		Industry: "Software",
		Title:    "CEO",
	}

	notes := GenerateNotes(p, 85)
	for _, want := range []string{
		"Company: Acme Corp",
		"Industry: Software",
		"Role: CEO",
		"Ready for immediate outreach.",
	} {
		if !strings.Contains(notes, want) {
			t.Errorf("notes missing %q: %s", want, notes)
		}
	}
	if strings.Contains(notes, "Missing email address") {
		t.Errorf("unexpected missing-email note: %s", notes)
	}
	if !strings.HasSuffix(notes, ".") {
		t.Errorf("notes should end with a period: %s", notes)
	}
	if strings.Contains(notes, "..") {
		t.Errorf("notes contain a doubled period: %s", notes)
	}
}

func TestGenerateNotesTierClosings(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "Ready for immediate outreach"},
		{80, "Ready for immediate outreach"},
		{79, "Consider enrichment before outreach"},
		{60, "Consider enrichment before outreach"},
		{59, "Consider data enrichment or research before outreach"},
		{0, "Consider data enrichment or research before outreach"},
	}

	p := models.LeadProfile{Name: "Jane", Company: "Acme"}
	for _, tt := range tests {
		notes := GenerateNotes(p, tt.score)
		if !strings.Contains(notes, tt.want) {
			t.Errorf("score %d: notes missing %q: %s", tt.score, tt.want, notes)
		}
	}
}

func TestGenerateNotesMissingFields(t *testing.T) {
	notes := GenerateNotes(models.LeadProfile{Name: "Jane"}, 15)

	if !strings.Contains(notes, "Missing email address - may need to find contact information") {
		t.Errorf("notes missing email warning: %s", notes)
	}
	if !strings.Contains(notes, "No company information available") {
		t.Errorf("notes missing company warning: %s", notes)
	}
	if strings.Contains(notes, "Industry:") || strings.Contains(notes, "Role:") {
		t.Errorf("unexpected optional field notes: %s", notes)
	}
}
