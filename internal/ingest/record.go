package ingest

import (
	"strconv"
	"strings"

	"github.com/david/lead-intake/internal/models"
)

// Record is one raw input row: canonical lowercase keys set by the field
// mapper plus every original (header, value) pair preserved verbatim, so
// downstream consumers can still reach non-canonical columns by header name.
type Record map[string]any

// AddEntry classifies one (header, value) pair onto the record. The original
// key always survives untouched alongside any canonical assignment.
func (r Record) AddEntry(header string, value any) {
	text := strings.TrimSpace(coerceString(value))
	assignCanonical(r, header, text)
	r[header] = value
}

// assignCanonical applies the header-matching rules in priority order.
// Rule order matters: "Company Name" must land on company, not name, which
// is why the name rule carries the negative company condition. First match
// wins; a header populates at most one canonical field.
func assignCanonical(r Record, header, value string) {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.Contains(h, "name") && !strings.Contains(h, "company"):
		r["name"] = value
	case strings.Contains(h, "company"):
		r["company"] = value
	case strings.Contains(h, "email"):
		r["email"] = strings.ToLower(value)
	case strings.Contains(h, "industry"):
		r["industry"] = value
	case strings.Contains(h, "phone"):
		r["phone"] = value
	case strings.Contains(h, "website"), strings.Contains(h, "url"):
		r["website"] = value
	case strings.Contains(h, "title"), strings.Contains(h, "role"), strings.Contains(h, "position"):
		r["title"] = value
	case strings.Contains(h, "location"), strings.Contains(h, "city"):
		r["location"] = value
	}
}

// Field resolves a canonical attribute, tolerating records built by hand
// with other casings of the key. First non-empty of the exact, capitalized
// and lower-cased key wins.
func (r Record) Field(key string) string {
	for _, k := range []string{key, capitalize(key), strings.ToLower(key)} {
		if v, ok := r[k]; ok {
			if s := strings.TrimSpace(coerceString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// HasIdentity reports whether the record carries at least an email or a name.
// Records without either are dropped during parsing.
func (r Record) HasIdentity() bool {
	return r.Field("email") != "" || r.Field("name") != ""
}

// Profile assembles the normalized scoring input, applying the defaulting
// policy for the required fields. index is 1-based and names anonymous leads.
func (r Record) Profile(index int) models.LeadProfile {
	name := r.Field("name")
	if name == "" {
		name = "Lead " + strconv.Itoa(index)
	}
	company := r.Field("company")
	if company == "" {
		company = "Unknown Company"
	}
	industry := r.Field("industry")
	if industry == "" {
		industry = "Unknown"
	}
	return models.LeadProfile{
		Name:     name,
		Company:  company,
		Email:    strings.ToLower(r.Field("email")),
		Industry: industry,
		Phone:    r.Field("phone"),
		Website:  r.Field("website"),
		Title:    r.Field("title"),
		Location: r.Field("location"),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// coerceString renders an arbitrary JSON scalar the way the source system
// did: numbers without exponent notation, nil as empty.
func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// normalizeSpace collapses runs of whitespace into single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
