package cutoff

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"admissions-chatbot-be/internal/pkg/logger"
)

const (
	unavailableCutoffMsg = "⚠️ Cutoff database is currently unavailable. Please try general admission questions instead, or contact admissionsenquiry@vnrvjiet.in for cutoff information."
	unavailableEligMsg   = "⚠️ Cutoff database is currently unavailable. Please try general admission questions instead, or contact admissionsenquiry@vnrvjiet.in for eligibility information."
	dataCaveat           = "\n\n⚠️ _This is based on previous year data and cutoffs may vary._"
	dataCaveatPlural     = "\n\n⚠️ _These are based on previous year data and cutoffs may vary._"
)

// Result is the engine's answer for one lookup. Eligible stays nil unless an
// eligibility check ran against a resolved closing rank. FirstRank is nil
// whenever the source genuinely lacks an opening rank.
type Result struct {
	Eligible   *bool
	CutoffRank *int
	FirstRank  *int
	Branch     string
	Category   string
	Gender     string
	Quota      string
	Year       int
	Round      int
	Message    string
	AllResults []Record
}

// Query holds get_cutoff parameters. Zero Year/Round mean "latest/any".
// Gender "Any"/"ALL"/"" omits the gender filter rather than failing.
type Query struct {
	Branch    string
	Category  string
	Year      int
	Round     int
	Gender    string
	Quota     string
	ShowTrend bool
}

type Engine struct {
	store    Store
	log      logger.ILogger
	deptURLs map[string]string
}

func NewEngine(store Store, log logger.ILogger, deptURLs map[string]string) *Engine {
	return &Engine{store: store, log: log, deptURLs: deptURLs}
}

func genderFiltered(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "", "any", "all", "both":
		return ""
	default:
		return g
	}
}

// GetCutoff looks up the exact cutoff for a branch/category combination.
// It never approximates: missing data is reported, not invented.
func (e *Engine) GetCutoff(ctx context.Context, q Query) Result {
	branch := NormaliseBranch(q.Branch)
	category := NormaliseCategory(q.Category)
	quota := q.Quota
	if quota == "" {
		quota = "Convenor"
	}
	gender := genderFiltered(q.Gender)

	e.log.Info("cutoff_engine", "get_cutoff", map[string]interface{}{
		"branch": branch, "category": category, "year": q.Year,
		"gender": q.Gender, "quota": quota,
	})

	rows, err := e.store.Query(ctx, Filter{
		Branch: branch, Category: category, Gender: gender,
		Quota: quota, Year: q.Year, Round: q.Round,
	})
	if err != nil {
		return e.unavailable(err, unavailableCutoffMsg)
	}

	// Older rows keep the category under the legacy "caste" field. Probe it
	// whenever the primary query is empty, and always for EWS.
	if len(rows) == 0 || category == "EWS" {
		alt, altErr := e.store.Query(ctx, Filter{
			Branch: branch, LegacyCategory: category, Gender: gender,
			Quota: quota, Year: q.Year,
		})
		if altErr == nil {
			rows = append(rows, alt...)
		}
	}

	rows = reconcileAll(rows)
	sortByRecency(rows)

	if len(rows) == 0 {
		msg := fmt.Sprintf("No cutoff data found for %s / %s", branch, category)
		if q.Year != 0 {
			msg += fmt.Sprintf(" / %d", q.Year)
		}
		if q.Round != 0 {
			msg += fmt.Sprintf(" / Round %d", q.Round)
		}
		msg += ". The data may not be available yet."
		return Result{Branch: branch, Category: category, Year: q.Year, Round: q.Round, Message: msg}
	}

	best := rows[0]
	var message string
	if q.Year == 0 && q.ShowTrend && distinctYears(rows) > 1 {
		message = e.trendMessage(rows, branch, category, q.Gender, quota)
	} else {
		message = e.latestMessage(best)
	}

	return Result{
		CutoffRank: best.CutoffRank,
		FirstRank:  best.FirstRank,
		Branch:     pick(best.Branch, branch),
		Category:   pick(best.Category, category),
		Gender:     pick(best.Gender, q.Gender),
		Quota:      pick(best.Quota, quota),
		Year:       best.Year,
		Round:      best.Round,
		Message:    message,
		AllResults: rows,
	}
}

// CheckEligibility runs the cutoff lookup and compares the rank against the
// resolved closing rank. Eligible iff rank <= closing rank. With no closing
// rank the underlying failure message is returned unchanged.
func (e *Engine) CheckEligibility(ctx context.Context, rank int, q Query) Result {
	if q.Gender == "" {
		q.Gender = "Boys"
	}
	result := e.GetCutoff(ctx, q)
	if result.CutoffRank == nil {
		if result.Message == unavailableCutoffMsg {
			result.Message = unavailableEligMsg
		}
		return result
	}

	eligible := rank <= *result.CutoffRank
	result.Eligible = &eligible

	verdict := "eligible"
	extra := ""
	if !eligible {
		verdict = "not eligible"
		extra = fmt.Sprintf(" Your rank needs to be ≤ %s for this seat.", formatRank(*result.CutoffRank))
	}
	result.Message = fmt.Sprintf(
		"With a rank of **%s**, you are **%s** for %s under %s category (%s) "+
			"based on Year %d, Round %d (%s quota) cutoffs. The closing rank was **%s**.%s%s%s",
		formatRank(rank), verdict, result.Branch, result.Category, result.Gender,
		result.Year, result.Round, result.Quota, formatRank(*result.CutoffRank),
		extra, e.deptLink(result.Branch), dataCaveat,
	)
	return result
}

// GetCutoffsFlexible runs a lookup where every filter is optional. Used for
// "ALL branches" / "ALL categories" / "ALL genders" requests.
func (e *Engine) GetCutoffsFlexible(ctx context.Context, f Filter) ([]Record, error) {
	if f.Branch != "" {
		f.Branch = NormaliseBranch(f.Branch)
	}
	if f.Category != "" {
		f.Category = NormaliseCategory(f.Category)
	}
	if f.Quota == "" {
		f.Quota = "Convenor"
	}
	f.Gender = genderFiltered(f.Gender)
	if f.Limit == 0 {
		f.Limit = 100
	}

	rows, err := e.store.Query(ctx, f)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			return nil, nil
		}
		return nil, err
	}

	// Legacy-field probe mirrors GetCutoff: old EWS rows and uncategorised
	// scans may only exist under "caste".
	if f.Category == "EWS" || f.Category == "" {
		altF := f
		altF.LegacyCategory = f.Category
		altF.Category = ""
		alt, altErr := e.store.Query(ctx, altF)
		if altErr == nil {
			rows = append(rows, dedupAppend(rows, alt)...)
		}
	}

	rows = reconcileAll(rows)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Branch != b.Branch {
			return a.Branch > b.Branch
		}
		if a.Category != b.Category {
			return a.Category > b.Category
		}
		return a.Round > b.Round
	})
	return rows, nil
}

// ListBranches returns the normalized, deduplicated branch codes present in
// the store, dropping anything that does not normalize to a known branch.
func (e *Engine) ListBranches(ctx context.Context) []string {
	raw, err := e.store.Branches(ctx)
	if err != nil {
		e.log.Warn("cutoff_engine", "branch listing unavailable, using defaults", map[string]interface{}{"error": err.Error()})
		return []string{"CSE", "ECE", "EEE", "ME", "CIV", "IT", "CSE-CSM", "AID"}
	}
	seen := map[string]bool{}
	var out []string
	for _, b := range raw {
		code := NormaliseBranch(b)
		if !IsValidBranch(code) || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func (e *Engine) unavailable(err error, msg string) Result {
	if !errors.Is(err, ErrStoreUnavailable) {
		e.log.Error("cutoff_engine", "store query failed", map[string]interface{}{"error": err.Error()})
	} else {
		e.log.Warn("cutoff_engine", "store unavailable", nil)
	}
	return Result{Message: msg}
}

func (e *Engine) deptLink(branch string) string {
	if url := DepartmentURL(branch, e.deptURLs); url != "" {
		return fmt.Sprintf("\n\n🔗 **Explore %s Department:** %s", branch, url)
	}
	return ""
}

func (e *Engine) latestMessage(best Record) string {
	yearLabel := "the latest year"
	if best.Year != 0 {
		yearLabel = fmt.Sprintf("**%d**", best.Year)
	}
	round := best.Round
	if round == 0 {
		round = 1
	}
	return fmt.Sprintf(
		"The closing cutoff rank for **%s** under **%s** category in %s, Round %d (%s quota) is **%s**.%s%s",
		best.Branch, best.Category, yearLabel, round, best.Quota,
		formatRank(best.ClosingRank()), e.deptLink(best.Branch), dataCaveat,
	)
}

// trendMessage aggregates one representative row per year and classifies the
// year-over-year movement of the closing rank. A falling rank means the
// branch got harder to enter.
func (e *Engine) trendMessage(rows []Record, branch, category, gender, quota string) string {
	byYear := map[int]Record{}
	for _, r := range rows {
		if r.Year == 0 {
			continue
		}
		if _, ok := byYear[r.Year]; !ok {
			byYear[r.Year] = r
		}
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	var lines []string
	var ranks []int
	for _, y := range years {
		rank := byYear[y].ClosingRank()
		lines = append(lines, fmt.Sprintf("• **%d**: Closing rank **%s**", y, formatRank(rank)))
		ranks = append(ranks, rank)
	}

	analysis := ""
	if len(ranks) >= 2 && ranks[0] > 0 {
		earliest, latest := ranks[0], ranks[len(ranks)-1]
		diff := latest - earliest
		pct := float64(diff) / float64(earliest) * 100
		absPct := pct
		if absPct < 0 {
			absPct = -absPct
		}
		switch {
		case absPct < 5:
			analysis = fmt.Sprintf(
				"\n\n📊 **Trend Analysis:** The cutoff has remained relatively stable over the years (~%.1f%% change). This branch maintains consistent demand.",
				absPct)
		case diff < 0:
			analysis = fmt.Sprintf(
				"\n\n📊 **Trend Analysis:** The cutoff rank has **decreased by %.1f%%** from %d to %d, indicating **rising competition**. The branch is becoming more sought-after. Plan accordingly and consider backup options.",
				absPct, years[0], years[len(years)-1])
		default:
			analysis = fmt.Sprintf(
				"\n\n📊 **Trend Analysis:** The cutoff rank has **increased by %.1f%%** from %d to %d, indicating **improving chances**. Competition has eased slightly, making admission more accessible than before.",
				pct, years[0], years[len(years)-1])
		}
	}

	genderLabel := gender
	if genderFiltered(gender) == "" {
		genderLabel = "Any"
	}
	return fmt.Sprintf(
		"Here are the cutoff ranks for **%s** under **%s** category (%s, %s quota) across all available years:\n\n%s%s%s%s",
		branch, category, genderLabel, quota,
		strings.Join(lines, "\n"), analysis, e.deptLink(branch), dataCaveatPlural,
	)
}

func reconcileAll(rows []Record) []Record {
	out := rows[:0]
	for _, r := range rows {
		if r.Reconcile() {
			out = append(out, r)
		}
	}
	return out
}

func sortByRecency(rows []Record) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year > rows[j].Year
		}
		return rows[i].Round > rows[j].Round
	})
}

func distinctYears(rows []Record) int {
	seen := map[int]bool{}
	for _, r := range rows {
		seen[r.Year] = true
	}
	return len(seen)
}

func dedupAppend(existing, extra []Record) []Record {
	var out []Record
	for _, candidate := range extra {
		dup := false
		for _, have := range existing {
			if sameRow(have, candidate) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, candidate)
		}
	}
	return out
}

func sameRow(a, b Record) bool {
	return a.Branch == b.Branch && a.Category == b.Category &&
		a.Gender == b.Gender && a.Quota == b.Quota &&
		a.Year == b.Year && a.Round == b.Round
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// formatRank renders 15000 as "15,000".
func formatRank(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
