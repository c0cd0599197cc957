package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Importer drives the import-from-URL path: fetch a document with a bounded
// timeout, then dispatch it to the JSON, CSV or HTML parser based on the
// declared content type.
type Importer struct {
	Fetcher  Fetcher
	MaxBytes int64
	Log      *zap.SugaredLogger
}

func NewImporter(fetcher Fetcher, maxBytes int64, log *zap.SugaredLogger) *Importer {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Importer{Fetcher: fetcher, MaxBytes: maxBytes, Log: log}
}

// ImportURL fetches rawURL and parses the body into records. headers are
// optional per-request overrides forwarded to the upstream server.
func (im *Importer) ImportURL(ctx context.Context, rawURL string, headers map[string]string) ([]Record, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil, ErrInvalidURL
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, ErrBadScheme
	}

	doc, err := im.Fetcher.Fetch(ctx, rawURL, headers)
	if err != nil {
		return nil, err
	}
	defer doc.Body.Close()

	body, err := io.ReadAll(io.LimitReader(doc.Body, im.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > im.MaxBytes {
		return nil, ErrFileTooLarge
	}

	records, err := im.dispatch(string(body), doc.ContentType, parsed.Path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	if im.Log != nil {
		im.Log.Infow("imported records from url", "url", rawURL, "count", len(records))
	}
	return records, nil
}

// dispatch picks a parser for the body. A declared JSON content type that
// fails to parse is a hard error; only ambiguous content falls through from
// JSON to CSV.
func (im *Importer) dispatch(body, contentType, urlPath string) ([]Record, error) {
	ct := strings.ToLower(contentType)

	switch {
	case strings.Contains(ct, "application/json") || strings.HasSuffix(urlPath, ".json"):
		var data any
		if err := json.Unmarshal([]byte(body), &data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		return ParseJSON(data), nil

	case strings.Contains(ct, "text/csv") || strings.Contains(ct, "text/plain") || strings.HasSuffix(urlPath, ".csv"):
		return ParseCSV(body, im.MaxBytes)

	case strings.Contains(ct, "text/html"):
		return ParseHTMLTable(body), nil

	default:
		var data any
		if err := json.Unmarshal([]byte(body), &data); err == nil {
			return ParseJSON(data), nil
		}
		return ParseCSV(body, im.MaxBytes)
	}
}
