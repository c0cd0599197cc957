package ingest

import (
	"strings"

	"github.com/david/lead-intake/internal/models"
)

// decisionMakerKeywords bump the score for titles with buying authority.
var decisionMakerKeywords = []string{
	"ceo", "cto", "cfo", "president", "director", "vp", "vice president", "head", "manager",
}

// ScoreLead computes the deterministic 0-100 quality score for a normalized
// lead, along with the list of factors that contributed. Additive point
// model; the theoretical maximum of 110 is clamped to 100.
func ScoreLead(p models.LeadProfile) (int, []string) {
	score := 0
	var factors []string

	// Email presence and quality (30 points)
	if p.Email != "" {
		score += 20
		factors = append(factors, "Has email address")

		if isPlausibleEmail(p.Email) {
			score += 10
			factors = append(factors, "Valid email format")
		}
	}

	// Company information (25 points)
	if p.Company != "" {
		score += 15
		factors = append(factors, "Has company name")

		// Longer names tend to be real registered entities, not initials.
		if len(p.Company) > 3 {
			score += 10
		}
	}

	// Name presence (15 points)
	if p.Name != "" {
		score += 15
		factors = append(factors, "Has contact name")
	}

	// Industry information (10 points)
	if p.Industry != "" {
		score += 10
		factors = append(factors, "Has industry information")
	}

	// Additional contact info (10 points)
	if p.Phone != "" {
		score += 5
		factors = append(factors, "Has phone number")
	}
	if p.Website != "" {
		score += 5
		factors = append(factors, "Has website")
	}

	// Title/role information (10 points)
	if p.Title != "" {
		score += 10
		factors = append(factors, "Has job title")

		titleLower := strings.ToLower(p.Title)
		for _, keyword := range decisionMakerKeywords {
			if strings.Contains(titleLower, keyword) {
				score += 5
				factors = append(factors, "Decision-maker title")
				break
			}
		}
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return score, factors
}

// isPlausibleEmail checks the basic local@domain.tld shape: no whitespace,
// exactly one @, and a dot somewhere after it.
func isPlausibleEmail(email string) bool {
	if strings.ContainsAny(email, " \t\n") {
		return false
	}
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// GenerateNotes builds the human-readable explanation for a deterministically
// scored lead: field observations first, then a closing sentence keyed by tier.
func GenerateNotes(p models.LeadProfile, score int) string {
	var notes []string

	if p.Email == "" {
		notes = append(notes, "Missing email address - may need to find contact information")
	}

	if p.Company == "" {
		notes = append(notes, "No company information available")
	} else {
		notes = append(notes, "Company: "+p.Company)
	}

	if p.Industry != "" {
		notes = append(notes, "Industry: "+p.Industry)
	}

	if p.Title != "" {
		notes = append(notes, "Role: "+p.Title)
	}

	switch {
	case score >= 80:
		notes = append(notes, "High-quality lead with complete information. Ready for immediate outreach")
	case score >= 60:
		notes = append(notes, "Good lead with most information available. Consider enrichment before outreach")
	default:
		notes = append(notes, "Lead needs more information. Consider data enrichment or research before outreach")
	}

	return strings.Join(notes, ". ") + "."
}
