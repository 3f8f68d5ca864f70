package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"admissions-chatbot-be/pkg/cutoff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func seededRepo() *CutoffRepository {
	return &CutoffRepository{records: []cutoffRow{
		{Branch: "CSE", Category: "OC", Gender: "M", Quota: "CC", Year: 2024, Round: 1, LastRank: intPtr(4800)},
		{Branch: "CSE", Category: "BC_B", Gender: "F", Quota: "CC", Year: 2024, Round: 1, LastRank: intPtr(9200)},
		{Branch: "ECE", Caste: "OC", Gender: "M", Quota: "CC", Year: 2023, Round: 2, CutoffRank: intPtr(11000)},
	}}
}

func TestQueryEqualityFilters(t *testing.T) {
	repo := seededRepo()

	rows, err := repo.Query(context.Background(), cutoff.Filter{Branch: "CSE", Year: 2024})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = repo.Query(context.Background(), cutoff.Filter{Branch: "cse", Category: "oc"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].LastRank)
	assert.Equal(t, 4800, *rows[0].LastRank)
}

func TestQueryLegacyCategoryField(t *testing.T) {
	repo := seededRepo()

	// Old rows store the category under "caste"; the legacy filter and the
	// record migration both have to see it.
	rows, err := repo.Query(context.Background(), cutoff.Filter{LegacyCategory: "OC"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ECE", rows[0].Branch)
	assert.Equal(t, "OC", rows[0].Category)
}

func TestQueryLimit(t *testing.T) {
	repo := seededRepo()

	rows, err := repo.Query(context.Background(), cutoff.Filter{Quota: "CC", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestBranchesDeduplicatedAndSorted(t *testing.T) {
	repo := seededRepo()

	branches, err := repo.Branches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"CSE", "ECE"}, branches)
}

func TestNewCutoffRepositoryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cutoffs.json")
	seed := `[
		{"branch": "CSE", "category": "OC", "gender": "M", "quota": "CC", "year": 2024, "round": 1, "last_rank": 5000},
		{"branch": "EEE", "caste": "SC", "gender": "F", "quota": "CC", "year": 2024, "round": 1, "cutoff_rank": 21000}
	]`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	repo, err := NewCutoffRepositoryFromFile(path)
	require.NoError(t, err)

	branches, err := repo.Branches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"CSE", "EEE"}, branches)

	rows, err := repo.Query(context.Background(), cutoff.Filter{LegacyCategory: "SC"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SC", rows[0].Category)
}

func TestNewCutoffRepositoryFromFileErrors(t *testing.T) {
	_, err := NewCutoffRepositoryFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = NewCutoffRepositoryFromFile(path)
	assert.Error(t, err)
}
