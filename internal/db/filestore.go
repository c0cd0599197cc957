package db

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/david/lead-intake/internal/models"
)

// FileStore is a flat-file LeadStore for running without a database. The
// whole collection lives in one JSON file; every write rewrites it atomically
// via a temp file rename.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = filepath.Join("data", "leads.json")
	}
	return &FileStore{path: path}
}

func (s *FileStore) load() ([]models.Lead, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lead file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var leads []models.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, fmt.Errorf("failed to decode lead file: %w", err)
	}
	return leads, nil
}

func (s *FileStore) save(leads []models.Lead) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	data, err := json.MarshalIndent(leads, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode leads: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write lead file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace lead file: %w", err)
	}
	return nil
}

func (s *FileStore) ListLeads(ctx context.Context, params ListParams) ([]models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.load()
	if err != nil {
		return nil, err
	}

	var out []models.Lead
	query := strings.ToLower(params.Query)
	for _, l := range leads {
		if params.Status != "" && string(l.Status) != params.Status {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(l.Name + " " + l.Company + " " + l.Email)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		out = append(out, l)
	}

	if params.Offset > 0 {
		if params.Offset >= len(out) {
			return nil, nil
		}
		out = out[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(out) {
		out = out[:params.Limit]
	}
	return out, nil
}

func (s *FileStore) GetLead(ctx context.Context, id string) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range leads {
		if leads[i].ID == id {
			return &leads[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) AddLeads(ctx context.Context, newLeads []models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.load()
	if err != nil {
		return err
	}

	// Replace on id collision, append otherwise.
	index := make(map[string]int, len(leads))
	for i, l := range leads {
		index[l.ID] = i
	}
	for _, l := range newLeads {
		if i, ok := index[l.ID]; ok {
			leads[i] = l
		} else {
			index[l.ID] = len(leads)
			leads = append(leads, l)
		}
	}

	return s.save(leads)
}

func (s *FileStore) UpdateLead(ctx context.Context, id string, update models.LeadUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.load()
	if err != nil {
		return false, err
	}

	for i := range leads {
		if leads[i].ID != id {
			continue
		}
		applyUpdate(&leads[i], update)
		if err := s.save(leads); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func applyUpdate(l *models.Lead, update models.LeadUpdate) {
	if update.Name != nil {
		l.Name = *update.Name
	}
	if update.Company != nil {
		l.Company = *update.Company
	}
	if update.Email != nil {
		l.Email = strings.ToLower(strings.TrimSpace(*update.Email))
	}
	if update.Score != nil {
		l.Score = clampScore(*update.Score)
		l.Status = models.StatusForScore(l.Score)
	}
	if update.Industry != nil {
		l.Industry = *update.Industry
	}
	if update.Notes != nil {
		l.Notes = *update.Notes
	}
	if update.Phone != nil {
		l.Phone = *update.Phone
	}
	if update.Website != nil {
		l.Website = *update.Website
	}
	if update.Title != nil {
		l.Title = *update.Title
	}
	if update.Location != nil {
		l.Location = *update.Location
	}
}

func (s *FileStore) DeleteLead(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.load()
	if err != nil {
		return false, err
	}

	for i := range leads {
		if leads[i].ID == id {
			leads = append(leads[:i], leads[i+1:]...)
			if err := s.save(leads); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func (s *FileStore) ClearLeads(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save([]models.Lead{})
}

func (s *FileStore) GetStats(ctx context.Context) (*models.LeadStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.load()
	if err != nil {
		return nil, err
	}

	stats := &models.LeadStats{Total: len(leads)}
	sum := 0
	for _, l := range leads {
		sum += l.Score
		switch l.Status {
		case models.StatusHot:
			stats.Hot++
		case models.StatusWarm:
			stats.Warm++
		case models.StatusCold:
			stats.Cold++
		}
	}
	if stats.Total > 0 {
		stats.AverageScore = int(math.Round(float64(sum) / float64(stats.Total)))
	}
	return stats, nil
}
