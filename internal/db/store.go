package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/david/lead-intake/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ErrNotFound is returned by lookups that miss.
var ErrNotFound = errors.New("lead not found")

// ListParams filters and orders a lead listing.
type ListParams struct {
	Status string // "hot", "warm", "cold" or "" for all
	Query  string // substring match over name/company/email
	// QueryEmbedding, when present, orders results by cosine distance to it
	// (postgres only; the file store ignores it).
	QueryEmbedding []float32
	Limit          int
	Offset         int
}

// LeadStore is the persistence contract for scored leads. Both the postgres
// and the flat-file backends implement it; callers never know which one they
// hold.
type LeadStore interface {
	ListLeads(ctx context.Context, params ListParams) ([]models.Lead, error)
	GetLead(ctx context.Context, id string) (*models.Lead, error)
	AddLeads(ctx context.Context, leads []models.Lead) error
	UpdateLead(ctx context.Context, id string, update models.LeadUpdate) (bool, error)
	DeleteLead(ctx context.Context, id string) (bool, error)
	ClearLeads(ctx context.Context) error
	GetStats(ctx context.Context) (*models.LeadStats, error)
}

// Store is the postgres-backed LeadStore.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const selectCols = `id, name, company, email, score, status, industry, notes,
	phone, website, title, location`

func scanLead(scan func(dest ...interface{}) error) (models.Lead, error) {
	var l models.Lead
	var phone, website, title, location *string

	err := scan(
		&l.ID, &l.Name, &l.Company, &l.Email, &l.Score, &l.Status, &l.Industry, &l.Notes,
		&phone, &website, &title, &location,
	)
	if err != nil {
		return l, err
	}

	if phone != nil {
		l.Phone = *phone
	}
	if website != nil {
		l.Website = *website
	}
	if title != nil {
		l.Title = *title
	}
	if location != nil {
		l.Location = *location
	}

	return l, nil
}

func (s *Store) ListLeads(ctx context.Context, params ListParams) ([]models.Lead, error) {
	where := "WHERE 1=1"
	var args []interface{}
	argIdx := 1

	if params.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, params.Status)
		argIdx++
	}
	if params.Query != "" {
		where += fmt.Sprintf(" AND (name ILIKE '%%' || $%d || '%%' OR company ILIKE '%%' || $%d || '%%' OR email ILIKE '%%' || $%d || '%%')", argIdx, argIdx, argIdx)
		args = append(args, params.Query)
		argIdx++
	}

	order := "ORDER BY score DESC, created_at DESC"
	if len(params.QueryEmbedding) > 0 {
		order = fmt.Sprintf("ORDER BY embedding <=> $%d NULLS LAST", argIdx)
		args = append(args, pgvector.NewVector(params.QueryEmbedding))
		argIdx++
	}

	query := fmt.Sprintf("SELECT %s FROM leads %s %s", selectCols, where, order)
	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, params.Limit)
		argIdx++
	}
	if params.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, params.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		l, err := scanLead(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (s *Store) GetLead(ctx context.Context, id string) (*models.Lead, error) {
	row := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM leads WHERE id = $1", selectCols), id)
	l, err := scanLead(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return &l, nil
}

func (s *Store) AddLeads(ctx context.Context, leads []models.Lead) error {
	for _, l := range leads {
		var embedding interface{}
		if len(l.Embedding) > 0 {
			embedding = pgvector.NewVector(l.Embedding)
		}
		_, err := s.pool.Exec(ctx, `
			INSERT INTO leads (id, name, company, email, score, status, industry, notes,
				phone, website, title, location, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				company = EXCLUDED.company,
				email = EXCLUDED.email,
				score = EXCLUDED.score,
				status = EXCLUDED.status,
				industry = EXCLUDED.industry,
				notes = EXCLUDED.notes,
				phone = EXCLUDED.phone,
				website = EXCLUDED.website,
				title = EXCLUDED.title,
				location = EXCLUDED.location,
				embedding = EXCLUDED.embedding,
				updated_at = NOW()
		`, l.ID, l.Name, l.Company, l.Email, l.Score, string(l.Status), l.Industry, l.Notes,
			nullable(l.Phone), nullable(l.Website), nullable(l.Title), nullable(l.Location), embedding)
		if err != nil {
			return fmt.Errorf("failed to insert lead %s: %w", l.ID, err)
		}
	}
	return nil
}

func (s *Store) UpdateLead(ctx context.Context, id string, update models.LeadUpdate) (bool, error) {
	var sets []string
	var args []interface{}
	argIdx := 1

	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, val)
		argIdx++
	}

	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Company != nil {
		add("company", *update.Company)
	}
	if update.Email != nil {
		add("email", strings.ToLower(strings.TrimSpace(*update.Email)))
	}
	if update.Score != nil {
		score := clampScore(*update.Score)
		add("score", score)
		// Status always tracks score; it is never written independently.
		add("status", string(models.StatusForScore(score)))
	}
	if update.Industry != nil {
		add("industry", *update.Industry)
	}
	if update.Notes != nil {
		add("notes", *update.Notes)
	}
	if update.Phone != nil {
		add("phone", nullable(*update.Phone))
	}
	if update.Website != nil {
		add("website", nullable(*update.Website))
	}
	if update.Title != nil {
		add("title", nullable(*update.Title))
	}
	if update.Location != nil {
		add("location", nullable(*update.Location))
	}

	if len(sets) == 0 {
		_, err := s.GetLead(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return err == nil, err
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE leads SET %s WHERE id = $%d", strings.Join(sets, ", "), argIdx)
	args = append(args, id)

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update lead: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteLead(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM leads WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete lead: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ClearLeads(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM leads"); err != nil {
		return fmt.Errorf("failed to clear leads: %w", err)
	}
	return nil
}

func (s *Store) GetStats(ctx context.Context) (*models.LeadStats, error) {
	var stats models.LeadStats
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'hot'),
			COUNT(*) FILTER (WHERE status = 'warm'),
			COUNT(*) FILTER (WHERE status = 'cold'),
			COALESCE(ROUND(AVG(score)), 0)
		FROM leads
	`).Scan(&stats.Total, &stats.Hot, &stats.Warm, &stats.Cold, &stats.AverageScore)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return &stats, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func clampScore(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}
