package ingest

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/david/lead-intake/internal/ai"
	"github.com/david/lead-intake/internal/db"
	"github.com/david/lead-intake/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LeadScorer is the AI-backed alternative scorer. Its failures are
// per-record: the processor falls back to deterministic scoring and the
// batch still succeeds.
type LeadScorer interface {
	ScoreLead(ctx context.Context, p models.LeadProfile) (*ai.ScoringResult, error)
	Configured() bool
}

// BatchResult aggregates one processed batch. The counters are always
// recomputed from Leads, never tracked incrementally.
type BatchResult struct {
	Leads        []models.Lead `json:"leads"`
	Total        int           `json:"total"`
	Hot          int           `json:"hot"`
	Warm         int           `json:"warm"`
	Cold         int           `json:"cold"`
	AverageScore int           `json:"averageScore"`
}

// Processor drives a batch of raw records through normalization, scoring and
// best-effort persistence. Scorer, Embedder and Store are all optional.
type Processor struct {
	Scorer    LeadScorer
	Embedder  ai.Embedder
	Store     db.LeadStore
	Log       *zap.SugaredLogger
	AITimeout time.Duration
}

func NewProcessor(scorer LeadScorer, embedder ai.Embedder, store db.LeadStore, log *zap.SugaredLogger) *Processor {
	return &Processor{
		Scorer:    scorer,
		Embedder:  embedder,
		Store:     store,
		Log:       log,
		AITimeout: 30 * time.Second,
	}
}

// Process scores every record in order, one output lead per input record.
// An empty input is an error, distinguishing "nothing to do" from "zero
// leads scored". Persistence failures are logged and swallowed: the scoring
// response stands on its own.
func (p *Processor) Process(ctx context.Context, records []Record, useAI bool) (*BatchResult, error) {
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}

	shouldUseAI := useAI && p.Scorer != nil && p.Scorer.Configured()
	batchStamp := time.Now().UnixMilli()

	leads := make([]models.Lead, 0, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		profile := rec.Profile(i + 1)

		var score int
		var notes string

		if shouldUseAI {
			result, err := p.scoreWithAI(ctx, profile)
			if err != nil {
				if p.Log != nil {
					p.Log.Warnw("ai scoring failed, using basic scoring", "lead", i+1, "error", err)
				}
				score, _ = ScoreLead(profile)
				notes = GenerateNotes(profile, score)
			} else {
				score = result.Score
				notes = ai.GenerateAINotes(result)
			}
		} else {
			score, _ = ScoreLead(profile)
			notes = GenerateNotes(profile, score)
		}

		leads = append(leads, models.Lead{
			ID:       newLeadID(i+1, batchStamp),
			Name:     profile.Name,
			Company:  profile.Company,
			Email:    profile.Email,
			Score:    score,
			Status:   models.StatusForScore(score),
			Industry: profile.Industry,
			Notes:    notes,
			Phone:    profile.Phone,
			Website:  profile.Website,
			Title:    profile.Title,
			Location: profile.Location,
		})
	}

	result := aggregate(leads)

	p.attachEmbeddings(ctx, leads)
	if p.Store != nil {
		if err := p.Store.AddLeads(ctx, leads); err != nil && p.Log != nil {
			p.Log.Warnw("failed to save leads to store (non-critical)", "error", err)
		}
	}

	return result, nil
}

func (p *Processor) scoreWithAI(ctx context.Context, profile models.LeadProfile) (*ai.ScoringResult, error) {
	timeout := p.AITimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	scoreCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Scorer.ScoreLead(scoreCtx, profile)
}

// attachEmbeddings adds search embeddings best-effort before persistence.
// A failing embedder never affects the scoring result.
func (p *Processor) attachEmbeddings(ctx context.Context, leads []models.Lead) {
	if p.Embedder == nil {
		return
	}
	for i := range leads {
		text := profileText(leads[i])
		embedding, err := p.Embedder.GenerateEmbedding(ctx, text)
		if err != nil {
			if p.Log != nil {
				p.Log.Debugw("embedding generation failed", "lead", leads[i].ID, "error", err)
			}
			return
		}
		leads[i].Embedding = embedding
	}
}

func profileText(l models.Lead) string {
	parts := []string{l.Name, l.Company, l.Industry, l.Title, l.Location}
	var out []string
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, " ")
}

func aggregate(leads []models.Lead) *BatchResult {
	result := &BatchResult{
		Leads: leads,
		Total: len(leads),
	}

	sum := 0
	for _, l := range leads {
		sum += l.Score
		switch l.Status {
		case models.StatusHot:
			result.Hot++
		case models.StatusWarm:
			result.Warm++
		case models.StatusCold:
			result.Cold++
		}
	}
	if result.Total > 0 {
		result.AverageScore = int(math.Round(float64(sum) / float64(result.Total)))
	}
	return result
}

// newLeadID builds an id unique within the batch: 1-based index, batch
// timestamp, and a random suffix so two batches in the same millisecond
// cannot collide.
func newLeadID(index int, stamp int64) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("lead-%d-%d-%s", index, stamp, suffix)
}
