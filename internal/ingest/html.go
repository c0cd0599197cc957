package ingest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowTables()
	return p
}()

// ParseHTMLTable extracts records from the first table of an HTML document.
// The markup is sanitized before parsing so script and style payloads never
// leak into cell values. The header row (th cells, or the first row's td
// cells) provides the keys; body rows flow through the same field mapper and
// drop rules as CSV rows.
func ParseHTMLTable(html string) []Record {
	clean := htmlPolicy.Sanitize(html)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		return nil
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	rows := table.Find("tr")
	if rows.Length() < 2 {
		return nil
	}

	var headers []string
	rows.First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		headers = append(headers, normalizeSpace(cell.Text()))
	})
	if len(headers) == 0 {
		return nil
	}

	var records []Record
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		var values []string
		row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			values = append(values, normalizeSpace(cell.Text()))
		})

		empty := true
		for _, v := range values {
			if v != "" {
				empty = false
				break
			}
		}
		if empty {
			return
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
	})

	return records
}
