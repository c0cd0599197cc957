package ingest

import "strings"

// DefaultMaxUploadBytes caps CSV input size before parsing.
const DefaultMaxUploadBytes = 10 << 20 // 10MB

// ParseCSV converts a CSV text blob into records. The first non-blank line is
// the header row; each following line is zipped positionally against it.
// Rows whose every cell is empty, and rows with neither an email nor a name,
// are dropped. Empty or header-only input yields an empty slice, not an error.
func ParseCSV(text string, maxBytes int64) ([]Record, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if int64(len(text)) > maxBytes {
		return nil, ErrFileTooLarge
	}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(normalized, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	headers := splitCSVLine(lines[0])
	for i, h := range headers {
		headers[i] = strings.TrimSpace(stripQuotes(h))
	}

	var records []Record
	for _, line := range lines[1:] {
		values := splitCSVLine(line)
		for i, v := range values {
			values[i] = strings.TrimSpace(stripQuotes(v))
		}

		empty := true
		for _, v := range values {
			if v != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		rec := Record{}
		for i, header := range headers {
			value := ""
			if i < len(values) {
				value = values[i]
			}
			rec.AddEntry(header, value)
		}

		if rec.HasIdentity() {
			records = append(records, rec)
		}
	}

	return records, nil
}

// splitCSVLine splits one line on commas while honoring double-quoted fields.
// A quote toggles the in-quotes state, a doubled quote inside a quoted field
// is a literal quote, and every field is trimmed.
func splitCSVLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	result = append(result, strings.TrimSpace(current.String()))

	return result
}

// stripQuotes removes one layer of surrounding double quotes left over from
// fields that were quoted but never closed properly.
func stripQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}
