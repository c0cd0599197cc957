package api

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/david/lead-intake/internal/ingest"
	"github.com/labstack/echo/v4"
)

// handleUpload accepts a multipart CSV file and returns the parsed raw
// records. Nothing is scored or persisted here; the client sends the records
// on to /process.
func (s *Server) handleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file uploaded"})
	}

	if fileHeader.Size > s.Config.MaxUploadBytes {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "File size exceeds 10MB limit"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read uploaded file"})
	}
	defer file.Close()

	text, err := io.ReadAll(io.LimitReader(file, s.Config.MaxUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read uploaded file"})
	}

	records, err := ingest.ParseCSV(string(text), s.Config.MaxUploadBytes)
	if err != nil {
		if errors.Is(err, ingest.ErrFileTooLarge) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "File size exceeds 10MB limit"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to process CSV file"})
	}
	if len(records) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No valid leads found in CSV file"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"leads":   records,
		"count":   len(records),
	})
}

type importURLRequest struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

func (s *Server) handleImportURL(c echo.Context) error {
	var req importURLRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "URL is required"})
	}

	records, err := s.Importer.ImportURL(c.Request().Context(), req.URL, req.Headers)
	if err != nil {
		return s.importError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"leads":   records,
		"count":   len(records),
	})
}

func (s *Server) importError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ingest.ErrInvalidURL):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid URL format"})
	case errors.Is(err, ingest.ErrBadScheme):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Only HTTP and HTTPS URLs are allowed"})
	case errors.Is(err, ingest.ErrMalformedJSON):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to parse JSON data"})
	case errors.Is(err, ingest.ErrFileTooLarge):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Imported data exceeds size limit"})
	case errors.Is(err, ingest.ErrNoRecords):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No valid leads found in the imported data"})
	case isTimeout(err):
		return c.JSON(http.StatusRequestTimeout, map[string]string{"error": "Request timeout. The URL took too long to respond."})
	}

	var statusErr *ingest.StatusError
	if errors.As(err, &statusErr) {
		return c.JSON(statusErr.Code, map[string]string{"error": "Failed to fetch data: " + statusErr.Error()})
	}

	s.Log.Errorw("url import failed", "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to import data from URL"})
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
