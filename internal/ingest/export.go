package ingest

import (
	"strconv"
	"strings"

	"github.com/david/lead-intake/internal/models"
)

// exportHeaders fixes the CSV column order for exports.
var exportHeaders = []string{
	"Name", "Company", "Email", "Industry", "Title",
	"Phone", "Website", "Location", "Score", "Status", "Notes",
}

// LeadsToCSV renders leads as CSV text in the fixed export column order.
// Values containing commas, quotes or newlines are quoted with doubled-quote
// escaping; Status is upper-cased.
func LeadsToCSV(leads []models.Lead) string {
	if len(leads) == 0 {
		return ""
	}

	lines := make([]string, 0, len(leads)+1)
	lines = append(lines, strings.Join(exportHeaders, ","))

	for _, l := range leads {
		row := []string{
			escapeCSV(l.Name),
			escapeCSV(l.Company),
			escapeCSV(l.Email),
			escapeCSV(l.Industry),
			escapeCSV(l.Title),
			escapeCSV(l.Phone),
			escapeCSV(l.Website),
			escapeCSV(l.Location),
			strconv.Itoa(l.Score),
			strings.ToUpper(string(l.Status)),
			escapeCSV(l.Notes),
		}
		lines = append(lines, strings.Join(row, ","))
	}

	return strings.Join(lines, "\n")
}

// LeadsToExcelCSV prepends a UTF-8 BOM so Excel opens the file with the
// right encoding.
func LeadsToExcelCSV(leads []models.Lead) string {
	return "\uFEFF" + LeadsToCSV(leads)
}

func escapeCSV(value string) string {
	if value == "" {
		return ""
	}
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}
