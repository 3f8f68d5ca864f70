package cutoff

import (
	"strconv"
	"strings"
)

// Record is one flat cutoff row from the structured store after field
// coercion. Rank fields are nullable: an absent opening rank stays absent.
type Record struct {
	Branch     string `json:"branch"`
	Category   string `json:"category"`
	Gender     string `json:"gender"`
	Quota      string `json:"quota"`
	Year       int    `json:"year"`
	Round      int    `json:"round"`
	FirstRank  *int   `json:"first_rank,omitempty"`
	LastRank   *int   `json:"last_rank,omitempty"`
	CutoffRank *int   `json:"cutoff_rank,omitempty"`
}

// RecordFromDoc builds a Record from a raw store document. Old rows keep the
// category under the legacy "caste" key; those are migrated here. Values
// that do not coerce to an integer become null instead of failing.
func RecordFromDoc(doc map[string]interface{}) Record {
	r := Record{
		Branch:   coerceString(doc["branch"]),
		Category: coerceString(doc["category"]),
		Gender:   coerceString(doc["gender"]),
		Quota:    coerceString(doc["quota"]),
	}
	if r.Category == "" {
		r.Category = coerceString(doc["caste"])
	}
	if y := coerceInt(doc["year"]); y != nil {
		r.Year = *y
	}
	if rd := coerceInt(doc["round"]); rd != nil {
		r.Round = *rd
	}
	r.FirstRank = coerceInt(doc["first_rank"])
	r.LastRank = coerceInt(doc["last_rank"])
	r.CutoffRank = coerceInt(doc["cutoff_rank"])
	return r
}

// Reconcile resolves the closing rank from whichever field the source row
// carries, priority last_rank > cutoff_rank > first_rank, and mirrors it
// into both last_rank and cutoff_rank. first_rank is never backfilled from
// the closing rank: a genuinely absent opening rank stays nil. Returns false
// when no closing rank can be resolved; such rows must be discarded.
// Applying Reconcile twice yields the same triple as applying it once.
func (r *Record) Reconcile() bool {
	closing := r.LastRank
	if closing == nil {
		closing = r.CutoffRank
	}
	if closing == nil {
		closing = r.FirstRank
	}
	if closing == nil {
		return false
	}
	v := *closing
	r.LastRank = &v
	r.CutoffRank = &v
	return true
}

// ClosingRank returns the reconciled closing rank, or 0 when unresolved.
func (r Record) ClosingRank() int {
	if r.CutoffRank != nil {
		return *r.CutoffRank
	}
	return 0
}

func coerceString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func coerceInt(v interface{}) *int {
	switch t := v.(type) {
	case nil:
		return nil
	case int:
		return &t
	case int32:
		n := int(t)
		return &n
	case int64:
		n := int(t)
		return &n
	case float64:
		n := int(t)
		return &n
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}
