package cutoff

import (
	"context"
	"strings"
	"testing"

	"admissions-chatbot-be/internal/pkg/logger"
)

func intPtr(v int) *int { return &v }

// fakeStore records the filters it was queried with and serves canned rows.
type fakeStore struct {
	rows     []Record
	branches []string
	err      error
	filters  []Filter
}

func (f *fakeStore) Query(_ context.Context, filter Filter) ([]Record, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	var out []Record
	for _, r := range f.rows {
		if filter.Branch != "" && r.Branch != filter.Branch {
			continue
		}
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		if filter.LegacyCategory != "" && r.Category != filter.LegacyCategory {
			continue
		}
		if filter.Gender != "" && r.Gender != filter.Gender {
			continue
		}
		if filter.Quota != "" && r.Quota != filter.Quota {
			continue
		}
		if filter.Year != 0 && r.Year != filter.Year {
			continue
		}
		if filter.Round != 0 && r.Round != filter.Round {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) Branches(_ context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.branches, nil
}

func newTestEngine(s Store) *Engine {
	return NewEngine(s, logger.Nop(), map[string]string{"cse": "https://example.edu/cse"})
}

func TestReconcilePriorityAndIdempotence(t *testing.T) {
	tests := []struct {
		name        string
		in          Record
		wantOK      bool
		wantClosing int
		wantFirst   *int
	}{
		{"last_rank wins", Record{FirstRank: intPtr(100), LastRank: intPtr(5000), CutoffRank: intPtr(4000)}, true, 5000, intPtr(100)},
		{"cutoff_rank fallback", Record{CutoffRank: intPtr(4000)}, true, 4000, nil},
		{"first_rank as last resort", Record{FirstRank: intPtr(900)}, true, 900, intPtr(900)},
		{"nothing resolvable", Record{}, false, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.in
			ok := r.Reconcile()
			if ok != tt.wantOK {
				t.Fatalf("Reconcile() = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if r.ClosingRank() != tt.wantClosing {
				t.Errorf("closing = %d, want %d", r.ClosingRank(), tt.wantClosing)
			}
			if (r.FirstRank == nil) != (tt.wantFirst == nil) {
				t.Errorf("first_rank presence changed: got %v, want %v", r.FirstRank, tt.wantFirst)
			}

			// Idempotence: a second pass must not move anything.
			again := r
			again.Reconcile()
			if again.ClosingRank() != r.ClosingRank() || (again.FirstRank == nil) != (r.FirstRank == nil) {
				t.Errorf("Reconcile is not idempotent: %+v vs %+v", again, r)
			}
		})
	}
}

func TestReconcileNeverBackfillsFirstRank(t *testing.T) {
	r := Record{LastRank: intPtr(5000)}
	r.Reconcile()
	if r.FirstRank != nil {
		t.Fatalf("first_rank was backfilled to %d; an absent opening rank must stay absent", *r.FirstRank)
	}
}

func TestGetCutoffGenderAnyOmitsFilter(t *testing.T) {
	s := &fakeStore{rows: []Record{
		{Branch: "CSE", Category: "OC", Gender: "Boys", Quota: "Convenor", Year: 2024, Round: 1, LastRank: intPtr(4500)},
	}}
	e := newTestEngine(s)

	res := e.GetCutoff(context.Background(), Query{Branch: "cse", Category: "oc", Gender: "Any"})
	if res.CutoffRank == nil || *res.CutoffRank != 4500 {
		t.Fatalf("expected row despite gender Any, got %+v", res)
	}
	if s.filters[0].Gender != "" {
		t.Errorf("gender filter should be omitted for Any, got %q", s.filters[0].Gender)
	}
}

func TestGetCutoffLegacyCasteMerge(t *testing.T) {
	s := &fakeStore{rows: []Record{
		{Branch: "CSE", Category: "EWS", Gender: "Boys", Quota: "Convenor", Year: 2023, Round: 1, CutoffRank: intPtr(7000)},
	}}
	e := newTestEngine(s)

	// Category filter in the fake matches the row only via the legacy probe
	// because the primary query also matches here; verify the probe happened.
	e.GetCutoff(context.Background(), Query{Branch: "CSE", Category: "EWS", Gender: "Boys"})
	if len(s.filters) < 2 || s.filters[1].LegacyCategory != "EWS" {
		t.Fatalf("EWS lookup must always probe the legacy caste field, filters: %+v", s.filters)
	}
}

func TestGetCutoffSortsLatestFirst(t *testing.T) {
	s := &fakeStore{rows: []Record{
		{Branch: "CSE", Category: "OC", Gender: "Boys", Quota: "Convenor", Year: 2022, Round: 1, LastRank: intPtr(4000)},
		{Branch: "CSE", Category: "OC", Gender: "Boys", Quota: "Convenor", Year: 2024, Round: 1, LastRank: intPtr(5200)},
		{Branch: "CSE", Category: "OC", Gender: "Boys", Quota: "Convenor", Year: 2024, Round: 2, LastRank: intPtr(5600)},
	}}
	e := newTestEngine(s)

	res := e.GetCutoff(context.Background(), Query{Branch: "CSE", Category: "OC", Gender: "Boys"})
	if res.Year != 2024 || res.Round != 2 {
		t.Fatalf("latest year/round must sort first, got year=%d round=%d", res.Year, res.Round)
	}
}

func TestGetCutoffNoDataNamesFilters(t *testing.T) {
	e := newTestEngine(&fakeStore{})
	res := e.GetCutoff(context.Background(), Query{Branch: "BIO", Category: "ST", Year: 2023})
	for _, want := range []string{"BIO", "ST", "2023", "No cutoff data found"} {
		if !strings.Contains(res.Message, want) {
			t.Errorf("no-data message missing %q: %s", want, res.Message)
		}
	}
	if res.CutoffRank != nil {
		t.Error("no-data result must not carry a rank")
	}
}

func TestGetCutoffStoreUnavailable(t *testing.T) {
	e := newTestEngine(&fakeStore{err: ErrStoreUnavailable})
	res := e.GetCutoff(context.Background(), Query{Branch: "CSE", Category: "OC"})
	if !strings.Contains(res.Message, "currently unavailable") {
		t.Fatalf("unavailable store must produce the advisory message, got: %s", res.Message)
	}
}

func TestCheckEligibilityMonotonic(t *testing.T) {
	s := &fakeStore{rows: []Record{
		{Branch: "CSE", Category: "OC", Gender: "Boys", Quota: "Convenor", Year: 2024, Round: 1, LastRank: intPtr(5000)},
	}}
	e := newTestEngine(s)
	ctx := context.Background()

	tests := []struct {
		rank int
		want bool
	}{
		{1, true},
		{4999, true},
		{5000, true}, // boundary: eligible iff rank <= closing rank
		{5001, false},
		{120000, false},
	}
	for _, tt := range tests {
		res := e.CheckEligibility(ctx, tt.rank, Query{Branch: "CSE", Category: "OC", Gender: "Boys"})
		if res.Eligible == nil {
			t.Fatalf("rank %d: eligibility unset", tt.rank)
		}
		if *res.Eligible != tt.want {
			t.Errorf("rank %d: eligible = %v, want %v", tt.rank, *res.Eligible, tt.want)
		}
	}
}

func TestCheckEligibilityNoDataLeavesVerdictUnset(t *testing.T) {
	e := newTestEngine(&fakeStore{})
	res := e.CheckEligibility(context.Background(), 5000, Query{Branch: "CSE", Category: "OC"})
	if res.Eligible != nil {
		t.Fatal("eligibility must stay unset without a closing rank")
	}
	if !strings.Contains(res.Message, "No cutoff data found") {
		t.Errorf("underlying failure message must pass through, got: %s", res.Message)
	}
}

func TestTrendClassification(t *testing.T) {
	tests := []struct {
		name  string
		ranks map[int]int // year -> closing rank
		want  string
	}{
		{"stable under 5 percent", map[int]int{2022: 5000, 2023: 5100, 2024: 5150}, "remained relatively stable"},
		{"rank decreased means rising competition", map[int]int{2022: 6000, 2023: 5200, 2024: 4500}, "rising competition"},
		{"rank increased means easing", map[int]int{2022: 4000, 2023: 4800, 2024: 5500}, "improving chances"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []Record
			for y, r := range tt.ranks {
				rows = append(rows, Record{
					Branch: "CSE", Category: "OC", Gender: "Boys", Quota: "Convenor",
					Year: y, Round: 1, LastRank: intPtr(r),
				})
			}
			e := newTestEngine(&fakeStore{rows: rows})
			res := e.GetCutoff(context.Background(), Query{Branch: "CSE", Category: "OC", Gender: "Boys", ShowTrend: true})
			if !strings.Contains(res.Message, tt.want) {
				t.Errorf("message missing %q:\n%s", tt.want, res.Message)
			}
			for y := range tt.ranks {
				if !strings.Contains(res.Message, formatRank(tt.ranks[y])) {
					t.Errorf("message missing year %d rank line", y)
				}
			}
		})
	}
}

func TestListBranchesWhitelist(t *testing.T) {
	s := &fakeStore{branches: []string{"cse", "CSE", "ECE", "garbage-row", "2024", "aiml"}}
	e := newTestEngine(s)

	got := e.ListBranches(context.Background())
	want := []string{"CSE", "CSE-CSM", "ECE"}
	if len(got) != len(want) {
		t.Fatalf("branches = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("branches = %v, want %v", got, want)
		}
	}
}

func TestNormaliseBranchAliases(t *testing.T) {
	tests := []struct{ in, want string }{
		{"aiml", "CSE-CSM"},
		{"ai & ml", "CSE-CSM"},
		{"machine learning", "CSE-CSM"},
		{"computer science", "CSE"},
		{"data science", "CSE-CSD"},
		{"iot", "CSE-CSO"},
		{"unknown branch", "UNKNOWN BRANCH"},
	}
	for _, tt := range tests {
		if got := NormaliseBranch(tt.in); got != tt.want {
			t.Errorf("NormaliseBranch(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormaliseCategoryAliases(t *testing.T) {
	tests := []struct{ in, want string }{
		{"general", "OC"},
		{"open", "OC"},
		{"obc", "BC-D"},
		{"sc-1", "SC-I"},
		{"ews", "EWS"},
		{"weird", "WEIRD"},
	}
	for _, tt := range tests {
		if got := NormaliseCategory(tt.in); got != tt.want {
			t.Errorf("NormaliseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRank(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{{5, "5"}, {999, "999"}, {1000, "1,000"}, {15000, "15,000"}, {1234567, "1,234,567"}}
	for _, tt := range tests {
		if got := formatRank(tt.in); got != tt.want {
			t.Errorf("formatRank(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
