package ingest

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

// mockFetcher avoids real network traffic; the production dialer refuses
// loopback addresses, so httptest servers are not an option here.
type mockFetcher struct {
	doc *FetchedDocument
	err error
}

func (m *mockFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (*FetchedDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

func fetcherFor(body, contentType string) *mockFetcher {
	return &mockFetcher{doc: &FetchedDocument{
		URL:         "https://example.com/leads",
		StatusCode:  200,
		ContentType: contentType,
		Body:        io.NopCloser(strings.NewReader(body)),
		FetchedAt:   time.Now(),
	}}
}

func TestImportURLValidation(t *testing.T) {
	im := NewImporter(&mockFetcher{}, 0, nil)

	tests := []struct {
		name string
		url  string
		want error
	}{
		{"empty", "", ErrInvalidURL},
		{"no host", "not a url", ErrInvalidURL},
		{"scheme only", "https://", ErrInvalidURL},
		{"ftp scheme", "ftp://example.com/leads.csv", ErrBadScheme},
		{"file scheme", "file://example.com/etc/passwd", ErrBadScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := im.ImportURL(context.Background(), tt.url, nil); !errors.Is(err, tt.want) {
				t.Errorf("ImportURL(%q) error = %v, want %v", tt.url, err, tt.want)
			}
		})
	}
}

func TestImportURLJSON(t *testing.T) {
	body := `{"leads": [{"name": "Jane Doe", "email": "jane@acme.com"}]}`
	im := NewImporter(fetcherFor(body, "application/json; charset=utf-8"), 0, nil)

	records, err := im.ImportURL(context.Background(), "https://example.com/api/leads", nil)
	if err != nil {
		t.Fatalf("ImportURL returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if got := records[0].Field("email"); got != "jane@acme.com" {
		t.Errorf("email = %q, want %q", got, "jane@acme.com")
	}
}

func TestImportURLMalformedJSONIsHardError(t *testing.T) {
	im := NewImporter(fetcherFor(`{"leads": [`, "application/json"), 0, nil)

	if _, err := im.ImportURL(context.Background(), "https://example.com/api/leads", nil); !errors.Is(err, ErrMalformedJSON) {
		t.Errorf("expected ErrMalformedJSON, got %v", err)
	}
}

func TestImportURLJSONByPathSuffix(t *testing.T) {
	// A .json path forces JSON parsing even under a generic content type.
	im := NewImporter(fetcherFor("Name,Email\nJane,jane@x.example\n", "application/octet-stream"), 0, nil)

	if _, err := im.ImportURL(context.Background(), "https://example.com/export.json", nil); !errors.Is(err, ErrMalformedJSON) {
		t.Errorf("expected ErrMalformedJSON, got %v", err)
	}
}

func TestImportURLCSV(t *testing.T) {
	body := "Name,Company,Email\nJane Doe,Acme Corp,jane@acme.com\n"

	for _, contentType := range []string{"text/csv", "text/plain; charset=utf-8"} {
		t.Run(contentType, func(t *testing.T) {
			im := NewImporter(fetcherFor(body, contentType), 0, nil)
			records, err := im.ImportURL(context.Background(), "https://example.com/leads", nil)
			if err != nil {
				t.Fatalf("ImportURL returned error: %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("expected 1 record, got %d", len(records))
			}
			if got := records[0].Field("name"); got != "Jane Doe" {
				t.Errorf("name = %q, want %q", got, "Jane Doe")
			}
		})
	}
}

func TestImportURLHTMLTable(t *testing.T) {
	body := `<table>
		<tr><th>Name</th><th>Email</th></tr>
		<tr><td>Jane Doe</td><td>jane@acme.com</td></tr>
	</table>`
	im := NewImporter(fetcherFor(body, "text/html; charset=utf-8"), 0, nil)

	records, err := im.ImportURL(context.Background(), "https://example.com/directory", nil)
	if err != nil {
		t.Fatalf("ImportURL returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
}

func TestImportURLAmbiguousContentType(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		im := NewImporter(fetcherFor(`[{"name": "Jane"}]`, "application/octet-stream"), 0, nil)
		records, err := im.ImportURL(context.Background(), "https://example.com/leads", nil)
		if err != nil {
			t.Fatalf("ImportURL returned error: %v", err)
		}
		if len(records) != 1 || records[0].Field("name") != "Jane" {
			t.Errorf("unexpected records: %v", records)
		}
	})

	t.Run("csv body falls through", func(t *testing.T) {
		im := NewImporter(fetcherFor("Name,Email\nJane,jane@x.example\n", ""), 0, nil)
		records, err := im.ImportURL(context.Background(), "https://example.com/leads", nil)
		if err != nil {
			t.Fatalf("ImportURL returned error: %v", err)
		}
		if len(records) != 1 || records[0].Field("name") != "Jane" {
			t.Errorf("unexpected records: %v", records)
		}
	})
}

func TestImportURLNoRecords(t *testing.T) {
	im := NewImporter(fetcherFor("Name,Email\n", "text/csv"), 0, nil)

	if _, err := im.ImportURL(context.Background(), "https://example.com/leads.csv", nil); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}
}

func TestImportURLBodyTooLarge(t *testing.T) {
	body := "Name,Email\n" + strings.Repeat("Jane,jane@x.example\n", 100)
	im := NewImporter(fetcherFor(body, "text/csv"), 32, nil)

	if _, err := im.ImportURL(context.Background(), "https://example.com/leads", nil); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestImportURLFetchErrorPassthrough(t *testing.T) {
	im := NewImporter(&mockFetcher{err: &StatusError{Code: 404}}, 0, nil)

	_, err := im.ImportURL(context.Background(), "https://example.com/missing", nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != 404 {
		t.Errorf("expected StatusError 404, got %v", err)
	}
}
