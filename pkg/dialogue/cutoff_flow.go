package dialogue

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"admissions-chatbot-be/pkg/cutoff"
	"admissions-chatbot-be/pkg/store"
	"admissions-chatbot-be/pkg/validators"
)

const (
	slotBranch   = "branch"
	slotCategory = "category"
	slotGender   = "gender"
	slotYear     = "year"
	slotRank     = "rank"

	waitingConfirmReuse = "_confirm_reuse"
)

const (
	questionBranch = "Which **branch(es)** are you interested in? You can pick one, multiple (e.g. CSE, ECE, IT), or say **all**.\n\n%s"
	questionCategory = "What is your **category / caste**?\n\n(e.g., OC, BC-A, BC-B, BC-C, BC-D, SC, ST, EWS)"
	questionGender   = "Are you a **Boy** or a **Girl**?"
	questionYear     = "Which **year**'s cutoff data would you like?\n\n(e.g., **2022**, **2023**, **2024**) — or reply **latest** for the most recent data."
	questionRank     = "What is your **EAPCET rank**?"
)

var cutoffSlots = []string{slotBranch, slotCategory, slotGender, slotYear}
var eligibilitySlots = []string{slotBranch, slotCategory, slotGender, slotYear, slotRank}

var latestYearRe = regexp.MustCompile(`(?i)\b(latest|recent|current|now|last)\b`)

var allBranchesExplicitPhrases = []string{
	"all branches", "all branch", "show all", "branch-wise for all",
	"every branch", "all departments", "all btech", "all b.tech",
}

// DefaultRankCeiling is the sanity bound on EAPCET ranks entered by users.
const DefaultRankCeiling = 200000

// CutoffFlow drives the slot-filling conversation for cutoff lookups and
// eligibility checks. Both share the same slots; eligibility adds rank.
type CutoffFlow struct {
	engine      *cutoff.Engine
	rankCeiling int
}

func NewCutoffFlow(engine *cutoff.Engine, rankCeiling int) *CutoffFlow {
	if rankCeiling <= 0 {
		rankCeiling = DefaultRankCeiling
	}
	return &CutoffFlow{engine: engine, rankCeiling: rankCeiling}
}

// Start enters the flow for a fresh cutoff/eligibility query, pre-filling
// every slot the message already answers. When all slots are present the
// reply is produced immediately without any follow-up question.
func (f *CutoffFlow) Start(ctx context.Context, sess *store.Session, message string, eligibility bool) Outcome {
	flow := store.PipelineCutoff
	if eligibility {
		flow = store.PipelineEligibility
	}
	state := &store.CutoffFlowState{
		Flow:      flow,
		ShowTrend: IsTrendRequest(message),
	}

	branches := validators.ExtractBranches(message)
	// "ALL" is honored only when the user explicitly asked for every branch.
	// A vague query must never fan out to the whole table.
	if containsBranch(branches, validators.AllBranches) && !isAllBranchesExplicit(message) {
		branches = nil
	}
	state.Branches = branches

	if cat := validators.ExtractCategory(message); cat != "" {
		state.Category = &cat
	}
	if g := validators.ExtractGender(message); g != "" {
		state.Gender = &g
	}
	if y := validators.ExtractYear(message); y != nil {
		state.Year = store.ExplicitYear(*y)
	} else if latestYearRe.MatchString(message) {
		state.Year = store.LatestYear()
	}
	if eligibility {
		if r := validators.ExtractRank(message); r != nil {
			state.Rank = r
		}
	}

	if f.complete(state) {
		return f.finish(ctx, sess, state)
	}

	// Gender-only follow-up to an earlier cutoff reply: re-query with the
	// new gender instead of restarting collection.
	if !eligibility && sess.LastCutoff != nil && state.Gender != nil && len(state.Branches) == 0 {
		return f.regenderedReply(ctx, sess, *state.Gender, state.Year, state.ShowTrend)
	}

	// Offer to reuse the previous cutoff details for an eligibility check.
	if eligibility && sess.LastCutoff != nil && len(state.Branches) == 0 {
		last := sess.LastCutoff
		state.WaitingFor = waitingConfirmReuse
		state.ReuseData = last
		state.ExtractedRank = state.Rank

		sess.Activate(store.PipelineEligibility)
		sess.Cutoff = state

		ask := fmt.Sprintf(
			"I see you just asked about **%s** / **%s** category / **%s**. "+
				"Would you like me to check eligibility for the same?\n\n"+
				"Reply **YES** to use these details, or provide new branch/category/gender.",
			strings.Join(last.Branches, ", "), last.Category, last.Gender,
		)
		return handled(ask, f.replyIntent(state))
	}

	intro := "Sure! Let me show you the cutoff ranks."
	if eligibility {
		intro = "Sure! Let me help you check your eligibility."
	}
	snapshot := sess.LastCutoff
	sess.Activate(flow)
	sess.LastCutoff = snapshot
	sess.Cutoff = state
	return f.askNext(ctx, sess, state, intro)
}

// Continue feeds one reply into an active collection flow. A topic change
// clears the flow and reports not handled so the caller re-routes the message.
func (f *CutoffFlow) Continue(ctx context.Context, sess *store.Session, message string) Outcome {
	state := sess.Cutoff
	if state == nil {
		return notHandled()
	}

	if IsTopicChange(message, state.Flow) {
		sess.Cutoff = nil
		if sess.Active == store.PipelineCutoff || sess.Active == store.PipelineEligibility {
			sess.Active = store.PipelineNone
		}
		return notHandled()
	}

	if state.WaitingFor == waitingConfirmReuse {
		return f.continueReuseConfirm(ctx, sess, state, message)
	}

	// Re-scan the reply for every unfilled slot, not just the one we asked
	// for. Users who volunteer extra detail skip the corresponding questions.
	f.fillVolunteered(state, message)

	switch state.WaitingFor {
	case slotBranch:
		if len(state.Branches) == 0 {
			state.Branches = []string{strings.ToUpper(strings.TrimSpace(message))}
		}
	case slotCategory:
		if state.Category == nil {
			val := validators.ExtractCategory(message)
			if val == "" {
				lower := strings.ToLower(strings.TrimSpace(message))
				if containsAnyKeyword(lower, []string{"all", "every", "each", "any"}) {
					val = "ALL"
				} else {
					val = strings.ToUpper(strings.TrimSpace(message))
				}
			}
			state.Category = &val
		}
	case slotGender:
		if state.Gender == nil {
			val := validators.ExtractGender(message)
			if val == "" {
				lower := strings.ToLower(strings.TrimSpace(message))
				switch {
				case containsAnyKeyword(lower, []string{"all", "both", "any", "either"}):
					val = "ALL"
				case lower == "boy" || lower == "boys" || lower == "male" || lower == "m":
					val = "Boys"
				case lower == "girl" || lower == "girls" || lower == "female" || lower == "f":
					val = "Girls"
				default:
					val = strings.TrimSpace(message)
				}
			}
			state.Gender = &val
		}
	case slotYear:
		if !state.Year.Filled() {
			// Unrecognisable input defaults to latest rather than re-asking.
			state.Year = store.LatestYear()
		}
	case slotRank:
		if out, done := f.continueRankSlot(ctx, sess, state, message); done {
			return out
		}
	}

	if f.complete(state) {
		return f.finish(ctx, sess, state)
	}
	return f.askNext(ctx, sess, state, "")
}

// continueRankSlot handles the rank question. done=true means the flow
// already produced a terminal or re-ask outcome.
func (f *CutoffFlow) continueRankSlot(ctx context.Context, sess *store.Session, state *store.CutoffFlowState, message string) (Outcome, bool) {
	if state.Rank != nil {
		return Outcome{}, false
	}

	if isNoRankReply(message) {
		// No rank available: show plain cutoffs with sane defaults instead.
		category := "OC"
		if state.Category != nil {
			category = *state.Category
		}
		gender := "Boys"
		if state.Gender != nil {
			gender = *state.Gender
		}
		branches := state.Branches
		showTrend := state.ShowTrend
		year := state.Year.Year()

		sess.Cutoff = nil
		sess.Active = store.PipelineNone

		reply := "No worries! Here are the cutoff ranks for reference:\n\n" +
			f.engine.BuildMultiBranchReply(ctx, branches, category, gender, nil, showTrend, year)
		return handled(reply, ReplyIntentCutoff, SourceCutoffDatabase), true
	}

	if r := validators.ExtractRank(message); r != nil {
		state.Rank = r
		return Outcome{}, false
	}

	if n, ok := firstNumber(message); ok && n > f.rankCeiling {
		ask := "That rank seems too high. EAPCET ranks typically range from **1 to 2,00,000**. Please re-enter your correct rank."
		return handled(ask, ReplyIntentCutoff), true
	}
	ask := "I couldn't understand that. Please enter your **EAPCET rank** as a number (e.g., 5000).\n\nOr reply **no** if you just want to see cutoff ranks."
	return handled(ask, ReplyIntentCutoff), true
}

func (f *CutoffFlow) continueReuseConfirm(ctx context.Context, sess *store.Session, state *store.CutoffFlowState, message string) Outcome {
	if isReuseConfirmation(message) {
		reuse := state.ReuseData
		if reuse != nil {
			state.Branches = reuse.Branches
			state.Category = &reuse.Category
			state.Gender = &reuse.Gender
			state.Year = reuse.Year
		}
		if state.ExtractedRank != nil {
			state.Rank = state.ExtractedRank
			return f.finish(ctx, sess, state)
		}
		state.WaitingFor = slotRank
		return handled("Great! What is your **EAPCET rank**?", ReplyIntentCutoff)
	}

	// User wants different details: restart collection from scratch,
	// preserving only the trend preference.
	fresh := &store.CutoffFlowState{
		Flow:       store.PipelineEligibility,
		ShowTrend:  state.ShowTrend,
		WaitingFor: slotBranch,
	}
	sess.Cutoff = fresh

	ask := fmt.Sprintf(
		"Sure! Let me help you check your eligibility.\n\n"+questionBranch,
		strings.Join(f.engine.ListBranches(ctx), ", "),
	)
	return handled(ask, ReplyIntentCutoff)
}

// TrendFollowup re-runs the last cutoff query with trend analysis when the
// user asks "show me the trend" after a normal cutoff reply.
func (f *CutoffFlow) TrendFollowup(ctx context.Context, sess *store.Session, message string) Outcome {
	if sess.LastCutoff == nil || !IsTrendRequest(message) {
		return notHandled()
	}
	last := sess.LastCutoff
	reply := f.engine.BuildMultiBranchReply(ctx, last.Branches, last.Category, last.Gender, nil, true, last.Year.Year())
	return handled(reply, ReplyIntentCutoff, SourceCutoffDatabase)
}

// GenderFollowup catches bare gender switches ("for girls") after a cutoff
// reply, regardless of what the intent classifier decided.
func (f *CutoffFlow) GenderFollowup(ctx context.Context, sess *store.Session, message string) Outcome {
	if sess.LastCutoff == nil {
		return notHandled()
	}
	gender := validators.ExtractGender(message)
	if gender == "" {
		return notHandled()
	}
	if len(validators.ExtractBranches(message)) > 0 ||
		validators.ExtractCategory(message) != "" ||
		validators.ExtractRank(message) != nil {
		return notHandled()
	}

	year := sess.LastCutoff.Year
	if y := validators.ExtractYear(message); y != nil {
		year = store.ExplicitYear(*y)
	}
	return f.regenderedReply(ctx, sess, gender, year, IsTrendRequest(message))
}

func (f *CutoffFlow) regenderedReply(ctx context.Context, sess *store.Session, gender string, year store.YearOption, showTrend bool) Outcome {
	last := sess.LastCutoff
	if !year.Filled() {
		year = last.Year
	}
	sess.LastCutoff = &store.CutoffSnapshot{
		Branches: last.Branches,
		Category: last.Category,
		Gender:   gender,
		Year:     year,
	}
	reply := f.engine.BuildMultiBranchReply(ctx, last.Branches, last.Category, gender, nil, showTrend, year.Year())
	return handled(reply, ReplyIntentCutoff, SourceCutoffDatabase)
}

// fillVolunteered re-extracts every unfilled slot from the reply.
func (f *CutoffFlow) fillVolunteered(state *store.CutoffFlowState, message string) {
	if len(state.Branches) == 0 {
		if b := validators.ExtractBranches(message); len(b) > 0 {
			state.Branches = b
		}
	}
	if state.Category == nil {
		if c := validators.ExtractCategory(message); c != "" {
			state.Category = &c
		}
	}
	if state.Gender == nil {
		if g := validators.ExtractGender(message); g != "" {
			state.Gender = &g
		}
	}
	if !state.Year.Filled() {
		if y := validators.ExtractYear(message); y != nil {
			state.Year = store.ExplicitYear(*y)
		} else if latestYearRe.MatchString(message) {
			state.Year = store.LatestYear()
		}
	}
	if state.Flow == store.PipelineEligibility && state.Rank == nil {
		if r := validators.ExtractRank(message); r != nil {
			state.Rank = r
		}
	}
}

func (f *CutoffFlow) slots(state *store.CutoffFlowState) []string {
	if state.Flow == store.PipelineEligibility {
		return eligibilitySlots
	}
	return cutoffSlots
}

func (f *CutoffFlow) slotFilled(state *store.CutoffFlowState, slot string) bool {
	switch slot {
	case slotBranch:
		return len(state.Branches) > 0
	case slotCategory:
		return state.Category != nil
	case slotGender:
		return state.Gender != nil
	case slotYear:
		return state.Year.Filled()
	case slotRank:
		return state.Rank != nil
	}
	return false
}

func (f *CutoffFlow) complete(state *store.CutoffFlowState) bool {
	for _, slot := range f.slots(state) {
		if !f.slotFilled(state, slot) {
			return false
		}
	}
	return true
}

// askNext asks the first unfilled slot's question, prefixed with intro on a
// fresh start.
func (f *CutoffFlow) askNext(ctx context.Context, sess *store.Session, state *store.CutoffFlowState, intro string) Outcome {
	for _, slot := range f.slots(state) {
		if f.slotFilled(state, slot) {
			continue
		}
		state.WaitingFor = slot

		var ask string
		switch slot {
		case slotBranch:
			ask = fmt.Sprintf(questionBranch, strings.Join(f.engine.ListBranches(ctx), ", "))
		case slotCategory:
			ask = questionCategory
		case slotGender:
			ask = questionGender
		case slotYear:
			ask = questionYear
		case slotRank:
			ask = questionRank
		}
		if intro != "" {
			ask = intro + "\n\n" + ask
		}

		if intro != "" {
			// Fresh start: label the ask with the flow's own intent.
			return handled(ask, f.replyIntent(state))
		}
		return handled(ask, ReplyIntentCutoff)
	}
	return f.finish(ctx, sess, state)
}

// finish produces the final reply from the structured store and tears the
// flow down. Rank-less cutoff queries are snapshotted for follow-ups.
func (f *CutoffFlow) finish(ctx context.Context, sess *store.Session, state *store.CutoffFlowState) Outcome {
	category := ""
	if state.Category != nil {
		category = *state.Category
	}
	gender := ""
	if state.Gender != nil {
		gender = *state.Gender
	}

	if state.Rank == nil {
		sess.LastCutoff = &store.CutoffSnapshot{
			Branches: state.Branches,
			Category: category,
			Gender:   gender,
			Year:     state.Year,
		}
	}

	reply := f.engine.BuildMultiBranchReply(ctx, state.Branches, category, gender, state.Rank, state.ShowTrend, state.Year.Year())

	intent := f.replyIntent(state)
	sess.Cutoff = nil
	if sess.Active == store.PipelineCutoff || sess.Active == store.PipelineEligibility {
		sess.Active = store.PipelineNone
	}
	return handled(reply, intent, SourceCutoffDatabase)
}

func (f *CutoffFlow) replyIntent(state *store.CutoffFlowState) string {
	if state.Flow == store.PipelineEligibility {
		return ReplyIntentEligibility
	}
	return ReplyIntentCutoff
}

func isAllBranchesExplicit(message string) bool {
	return containsAnyKeyword(strings.ToLower(message), allBranchesExplicitPhrases)
}

func containsBranch(branches []string, target string) bool {
	for _, b := range branches {
		if b == target {
			return true
		}
	}
	return false
}

var numberRe = regexp.MustCompile(`\b(\d+)\b`)

func firstNumber(s string) (int, bool) {
	m := numberRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
