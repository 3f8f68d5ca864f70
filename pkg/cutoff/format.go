package cutoff

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// FormatCutoffsTable renders rows grouped by branch, then by year descending,
// one line per (category, gender, round, quota). Truncates at maxRows with a
// note.
func FormatCutoffsTable(rows []Record, title string, maxRows int) string {
	if len(rows) == 0 {
		return "No cutoff data found for the specified criteria. The data may not be available yet."
	}
	if maxRows <= 0 {
		maxRows = 50
	}

	shown := rows
	if len(shown) > maxRows {
		shown = shown[:maxRows]
	}

	byBranch := map[string][]Record{}
	var branchOrder []string
	for _, r := range shown {
		if _, ok := byBranch[r.Branch]; !ok {
			branchOrder = append(branchOrder, r.Branch)
		}
		byBranch[r.Branch] = append(byBranch[r.Branch], r)
	}

	lines := []string{fmt.Sprintf("## %s\n", title)}
	for _, branch := range branchOrder {
		lines = append(lines, fmt.Sprintf("\n### %s", branch))

		byYear := map[int][]Record{}
		var years []int
		for _, r := range byBranch[branch] {
			if _, ok := byYear[r.Year]; !ok {
				years = append(years, r.Year)
			}
			byYear[r.Year] = append(byYear[r.Year], r)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(years)))

		for _, year := range years {
			lines = append(lines, fmt.Sprintf("\n**Year %d:**", year))
			for _, rec := range byYear[year] {
				quota := rec.Quota
				if quota == "" {
					quota = "Convenor"
				}
				lines = append(lines, fmt.Sprintf(
					"- **%s** (%s) - Round %d: **%s** (%s quota)",
					rec.Category, rec.Gender, rec.Round, formatRank(rec.ClosingRank()), quota,
				))
			}
		}
	}

	if len(rows) > maxRows {
		lines = append(lines, fmt.Sprintf("\n\n_Showing first %d of %d results._", maxRows, len(rows)))
	}
	lines = append(lines, dataCaveatPlural)
	return strings.Join(lines, "\n")
}

// BuildMultiBranchReply answers a completed cutoff/eligibility collection
// for one or more branches. Any "ALL" value among branches, category or
// gender switches to the flexible table query.
func (e *Engine) BuildMultiBranchReply(ctx context.Context, branches []string, category, gender string, rank *int, showTrend bool, year int) string {
	if containsAll(branches) || category == "ALL" || gender == "ALL" {
		queryBranches := branches
		if containsAll(branches) {
			queryBranches = []string{""}
		}

		var all []Record
		for _, b := range queryBranches {
			rows, err := e.GetCutoffsFlexible(ctx, Filter{
				Branch:   b,
				Category: unlessAll(category),
				Gender:   unlessAll(gender),
				Year:     year,
				Limit:    200,
			})
			if err != nil {
				e.log.Error("cutoff_engine", "flexible query failed", map[string]interface{}{"error": err.Error()})
				continue
			}
			all = append(all, rows...)
		}

		if len(all) == 0 {
			catStr := category
			if category == "ALL" {
				catStr = "all categories"
			}
			genStr := gender
			if gender == "ALL" {
				genStr = "both Boys and Girls"
			}
			branchStr := strings.Join(branches, ", ")
			if containsAll(branches) {
				branchStr = "all departments"
			}
			return fmt.Sprintf("No cutoff data found for %s / %s / %s. The data may not be available yet.", branchStr, catStr, genStr)
		}

		var titleParts []string
		if containsAll(branches) {
			titleParts = append(titleParts, "All Departments")
		} else {
			titleParts = append(titleParts, strings.Join(branches, ", "))
		}
		if category == "ALL" {
			titleParts = append(titleParts, "All Categories")
		} else {
			titleParts = append(titleParts, category)
		}
		if gender == "ALL" {
			titleParts = append(titleParts, "Boys & Girls")
		} else {
			titleParts = append(titleParts, gender)
		}
		return FormatCutoffsTable(all, "Cutoff Ranks: "+strings.Join(titleParts, " | "), 50)
	}

	var parts []string
	for _, b := range branches {
		var result Result
		if rank != nil {
			result = e.CheckEligibility(ctx, *rank, Query{Branch: b, Category: category, Gender: gender, Year: year})
		} else {
			result = e.GetCutoff(ctx, Query{Branch: b, Category: category, Gender: gender, Year: year, ShowTrend: showTrend})
		}
		parts = append(parts, result.Message)
	}

	if len(parts) == 1 {
		return parts[0]
	}
	var lines []string
	for i, msg := range parts {
		lines = append(lines, fmt.Sprintf("**%d.** %s", i+1, msg))
	}
	return strings.Join(lines, "\n\n")
}

func containsAll(branches []string) bool {
	for _, b := range branches {
		if b == "ALL" {
			return true
		}
	}
	return false
}

func unlessAll(v string) string {
	if v == "ALL" {
		return ""
	}
	return v
}
