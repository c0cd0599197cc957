package api

import (
	"net/http"
	"time"

	"github.com/david/lead-intake/internal/db"
	"github.com/david/lead-intake/internal/ingest"
	"github.com/david/lead-intake/internal/models"
	"github.com/labstack/echo/v4"
)

type exportRequest struct {
	Leads []models.Lead `json:"leads"`
}

// handleExport streams the lead collection as CSV. POST may carry an explicit
// lead list in the body; otherwise (and always for GET) the store is the
// source. format=excel prepends a BOM for Excel.
func (s *Server) handleExport(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}

	var leads []models.Lead

	if c.Request().Method == http.MethodPost {
		var req exportRequest
		if err := c.Bind(&req); err == nil && len(req.Leads) > 0 {
			leads = req.Leads
		}
	}

	if len(leads) == 0 {
		stored, err := s.Store.ListLeads(c.Request().Context(), db.ListParams{
			Status: c.QueryParam("status"),
		})
		if err != nil {
			s.Log.Errorw("failed to load leads for export", "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to export leads"})
		}
		leads = stored
	}

	if len(leads) == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No leads found to export"})
	}

	var content string
	if format == "excel" {
		content = ingest.LeadsToExcelCSV(leads)
	} else {
		content = ingest.LeadsToCSV(leads)
	}

	filename := "leads-export-" + time.Now().Format("2006-01-02") + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(content))
}
