package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"admissions-chatbot-be/pkg/cutoff"
)

// CutoffRepository is an in-memory cutoff store for development and tests.
// Rows are matched with the same equality semantics as the Firestore
// implementation, including the legacy caste field.
type CutoffRepository struct {
	records []cutoffRow
}

// cutoffRow keeps the raw document shape so legacy-field queries behave the
// same as against the real store.
type cutoffRow struct {
	Branch     string `json:"branch"`
	Category   string `json:"category,omitempty"`
	Caste      string `json:"caste,omitempty"`
	Gender     string `json:"gender"`
	Quota      string `json:"quota"`
	Year       int    `json:"year"`
	Round      int    `json:"round"`
	FirstRank  *int   `json:"first_rank,omitempty"`
	LastRank   *int   `json:"last_rank,omitempty"`
	CutoffRank *int   `json:"cutoff_rank,omitempty"`
}

func NewCutoffRepository() *CutoffRepository {
	return &CutoffRepository{}
}

// NewCutoffRepositoryFromFile seeds the store from a JSON array of rows, the
// same shape the ingestion scripts emit.
func NewCutoffRepositoryFromFile(path string) (*CutoffRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cutoff seed %s: %w", path, err)
	}
	var rows []cutoffRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode cutoff seed %s: %w", path, err)
	}
	return &CutoffRepository{records: rows}, nil
}

func (r *CutoffRepository) Query(_ context.Context, f cutoff.Filter) ([]cutoff.Record, error) {
	var out []cutoff.Record
	for _, row := range r.records {
		if !rowMatches(row, f) {
			continue
		}
		out = append(out, cutoff.RecordFromDoc(row.asDoc()))
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

func (r *CutoffRepository) Branches(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for _, row := range r.records {
		if row.Branch != "" {
			seen[row.Branch] = struct{}{}
		}
	}
	branches := make([]string, 0, len(seen))
	for b := range seen {
		branches = append(branches, b)
	}
	sort.Strings(branches)
	return branches, nil
}

func rowMatches(row cutoffRow, f cutoff.Filter) bool {
	if f.Branch != "" && !strings.EqualFold(row.Branch, f.Branch) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(row.Category, f.Category) {
		return false
	}
	if f.LegacyCategory != "" && !strings.EqualFold(row.Caste, f.LegacyCategory) {
		return false
	}
	if f.Gender != "" && !strings.EqualFold(row.Gender, f.Gender) {
		return false
	}
	if f.Quota != "" && !strings.EqualFold(row.Quota, f.Quota) {
		return false
	}
	if f.Year != 0 && row.Year != f.Year {
		return false
	}
	if f.Round != 0 && row.Round != f.Round {
		return false
	}
	return true
}

func (row cutoffRow) asDoc() map[string]interface{} {
	doc := map[string]interface{}{
		"branch": row.Branch,
		"gender": row.Gender,
		"quota":  row.Quota,
		"year":   row.Year,
		"round":  row.Round,
	}
	if row.Category != "" {
		doc["category"] = row.Category
	}
	if row.Caste != "" {
		doc["caste"] = row.Caste
	}
	if row.FirstRank != nil {
		doc["first_rank"] = *row.FirstRank
	}
	if row.LastRank != nil {
		doc["last_rank"] = *row.LastRank
	}
	if row.CutoffRank != nil {
		doc["cutoff_rank"] = *row.CutoffRank
	}
	return doc
}
