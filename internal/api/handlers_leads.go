package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/david/lead-intake/internal/db"
	"github.com/david/lead-intake/internal/ingest"
	"github.com/david/lead-intake/internal/models"
	"github.com/labstack/echo/v4"
)

type processRequest struct {
	Leads []ingest.Record `json:"leads"`
	UseAI bool            `json:"useAI"`
}

type processResponse struct {
	Success      bool          `json:"success"`
	Leads        []models.Lead `json:"leads"`
	Total        int           `json:"total"`
	Hot          int           `json:"hot"`
	Warm         int           `json:"warm"`
	Cold         int           `json:"cold"`
	AverageScore int           `json:"averageScore"`
	Error        string        `json:"error,omitempty"`
}

// handleProcess scores a batch of raw records. AI failures degrade to
// deterministic scoring per record; the batch reports success as long as
// every record could be scored at all.
func (s *Server) handleProcess(c echo.Context) error {
	var req processRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, processResponse{Success: false, Error: "Invalid request", Leads: []models.Lead{}})
	}

	result, err := s.Processor.Process(c.Request().Context(), req.Leads, req.UseAI)
	if err != nil {
		if errors.Is(err, ingest.ErrEmptyBatch) {
			return c.JSON(http.StatusBadRequest, processResponse{Success: false, Error: "No leads provided", Leads: []models.Lead{}})
		}
		s.Log.Errorw("batch processing failed", "error", err)
		return c.JSON(http.StatusInternalServerError, processResponse{Success: false, Error: err.Error(), Leads: []models.Lead{}})
	}

	return c.JSON(http.StatusOK, processResponse{
		Success:      true,
		Leads:        result.Leads,
		Total:        result.Total,
		Hot:          result.Hot,
		Warm:         result.Warm,
		Cold:         result.Cold,
		AverageScore: result.AverageScore,
	})
}

// handleGetLeads serves lookups (?id=), aggregate stats (?stats=true) and
// filtered listings (?status=, ?q=, ?limit=, ?offset=).
func (s *Server) handleGetLeads(c echo.Context) error {
	ctx := c.Request().Context()

	if c.QueryParam("stats") == "true" {
		stats, err := s.Store.GetStats(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch leads"})
		}
		return c.JSON(http.StatusOK, stats)
	}

	if id := c.QueryParam("id"); id != "" {
		lead, err := s.Store.GetLead(ctx, id)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Lead not found"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch leads"})
		}
		return c.JSON(http.StatusOK, lead)
	}

	params := db.ListParams{
		Status: c.QueryParam("status"),
		Query:  c.QueryParam("q"),
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		params.Limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		params.Offset = v
	}

	// Semantic ordering when the AI client can embed the query; plain
	// substring matching otherwise.
	if params.Query != "" && s.AI.Configured() {
		if embedding, err := s.AI.GenerateEmbedding(ctx, params.Query); err == nil {
			params.QueryEmbedding = embedding
		}
	}

	leads, err := s.Store.ListLeads(ctx, params)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch leads"})
	}
	if leads == nil {
		leads = []models.Lead{}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"leads":   leads,
		"count":   len(leads),
	})
}

type addLeadsRequest struct {
	Leads []models.Lead `json:"leads"`
}

func (s *Server) handleAddLeads(c echo.Context) error {
	var req addLeadsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if len(req.Leads) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No leads provided"})
	}

	// Keep the score/status invariant even for client-supplied rows.
	for i := range req.Leads {
		req.Leads[i].Status = models.StatusForScore(req.Leads[i].Score)
	}

	if err := s.Store.AddLeads(c.Request().Context(), req.Leads); err != nil {
		s.Log.Errorw("failed to save leads", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save leads"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Successfully saved " + strconv.Itoa(len(req.Leads)) + " lead(s)",
		"count":   len(req.Leads),
	})
}

type updateLeadRequest struct {
	ID string `json:"id"`
	models.LeadUpdate
}

func (s *Server) handleUpdateLead(c echo.Context) error {
	var req updateLeadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.ID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Lead ID is required"})
	}

	ok, err := s.Store.UpdateLead(c.Request().Context(), req.ID, req.LeadUpdate)
	if err != nil {
		s.Log.Errorw("failed to update lead", "id", req.ID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update lead"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Lead not found"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Lead updated successfully",
	})
}

func (s *Server) handleDeleteLead(c echo.Context) error {
	ctx := c.Request().Context()

	if c.QueryParam("clearAll") == "true" {
		if err := s.Store.ClearLeads(ctx); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete lead"})
		}
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": "All leads cleared",
		})
	}

	id := c.QueryParam("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Lead ID is required"})
	}

	ok, err := s.Store.DeleteLead(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete lead"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Lead not found"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Lead deleted successfully",
	})
}
