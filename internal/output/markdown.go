// internal/output/markdown.go
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dsablic/mergeplan/internal/model"
)

const dateLayout = "2006-01-02"

// WriteMarkdown writes the report as GitHub-flavored markdown to w.
func WriteMarkdown(w io.Writer, report model.Report) error {
	fmt.Fprintf(w, "# Merge Planning Report\n\n")
	fmt.Fprintf(w, "**Repository:** %s\n", report.Repository)
	fmt.Fprintf(w, "**Operation:** %s\n", report.Operation)
	fmt.Fprintf(w, "**Branches:** %s\n", strings.Join(report.Branches, ", "))
	fmt.Fprintf(w, "**Generated:** %s\n\n", report.GeneratedAt)

	if report.Overview != nil {
		writeOverview(w, report.Overview)
	}
	if report.Activity != nil {
		writeActivity(w, report.Activity)
	}
	if report.Conflicts != nil {
		writeConflicts(w, report.Conflicts)
	}
	if report.Recommendation != nil {
		writeRecommendation(w, report.Recommendation)
	}
	return nil
}

func writeOverview(w io.Writer, o *model.OverviewReport) {
	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Branches | %d |\n", o.Summary.TotalBranches)
	fmt.Fprintf(w, "| Commits | %d |\n", o.Summary.TotalCommits)
	fmt.Fprintf(w, "| Average commits per branch | %d |\n", o.Summary.AverageCommitsPerBranch)
	fmt.Fprintf(w, "| Most active branch | %s |\n", cell(o.Summary.MostActiveBranch))
	for _, h := range []model.HealthCategory{model.HealthActive, model.HealthMaintained, model.HealthAbandoned} {
		if n, ok := o.Summary.BranchesByHealth[h]; ok {
			fmt.Fprintf(w, "| %s branches | %d |\n", title(string(h)), n)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "## Branches\n\n")
	fmt.Fprintf(w, "| Branch | Commits | Last commit | Date | Health |\n")
	fmt.Fprintf(w, "|--------|--------:|-------------|------|--------|\n")
	for _, b := range o.Branches {
		msg, date, health := "", "", ""
		if b.LastCommit != nil {
			msg = b.LastCommit.Message
			date = b.LastCommit.Timestamp.Format(dateLayout)
		}
		if b.Health != nil {
			health = fmt.Sprintf("%s (%dd)", b.Health.Category, b.Health.DaysSinceCommit)
		}
		fmt.Fprintf(w, "| %s | %d | %s | %s | %s |\n", cell(b.Branch), b.CommitCount, cell(msg), date, health)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "## Merge Bases\n\n")
	fmt.Fprintf(w, "| Branch | Other | Merge base |\n")
	fmt.Fprintf(w, "|--------|-------|------------|\n")
	for _, b := range o.Branches {
		for _, ref := range b.MergeBase {
			fmt.Fprintf(w, "| %s | %s | `%s` |\n", cell(b.Branch), cell(ref.Branch), short(ref.Base))
		}
	}
	fmt.Fprintln(w)
}

func writeActivity(w io.Writer, a *model.ActivityReport) {
	fmt.Fprintf(w, "## Activity %s to %s\n\n", a.TimeRange.Start.Format(time.RFC3339), a.TimeRange.End.Format(time.RFC3339))
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Commits | %d |\n", a.Summary.TotalCommits)
	fmt.Fprintf(w, "| Branches with activity | %d |\n", a.Summary.BranchesWithActivity)
	fmt.Fprintf(w, "| Most commits | %s |\n", cell(a.Summary.MostActiveBy.Commits))
	fmt.Fprintf(w, "| Most authors | %s |\n\n", cell(a.Summary.MostActiveBy.Authors))

	fmt.Fprintf(w, "| Branch | Commits | Authors |")
	for _, c := range model.Categories {
		fmt.Fprintf(w, " %s |", title(string(c)))
	}
	fmt.Fprintf(w, " First | Last |\n")
	fmt.Fprintf(w, "|--------|--------:|--------:|")
	for range model.Categories {
		fmt.Fprintf(w, "------:|")
	}
	fmt.Fprintf(w, "-------|------|\n")
	for _, b := range a.Branches {
		fmt.Fprintf(w, "| %s | %d | %d |", cell(b.Branch), b.TotalCommits, b.Authors)
		for _, c := range model.Categories {
			fmt.Fprintf(w, " %d |", b.CommitTypeCounts[c])
		}
		fmt.Fprintf(w, " %s | %s |\n", commitDate(b.FirstCommit), commitDate(b.LastCommit))
	}
	fmt.Fprintln(w)
}

func writeConflicts(w io.Writer, c *model.ConflictReport) {
	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Files | %d |\n", c.Summary.TotalFiles)
	fmt.Fprintf(w, "| Files with conflicts | %d |\n", c.Summary.FilesWithConflicts)
	fmt.Fprintf(w, "| High risk files | %d |\n\n", c.Summary.HighRiskFiles)

	fmt.Fprintf(w, "## Files\n\n")
	fmt.Fprintf(w, "| File | Risk | Reasons |\n")
	fmt.Fprintf(w, "|------|------|---------|\n")
	for _, f := range c.Files {
		fmt.Fprintf(w, "| %s | %s | %s |\n", cell(f.File), f.RiskLevel, cell(strings.Join(f.Reasons, "; ")))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "## Review Order\n\n")
	for i, f := range c.Summary.RecommendedReviewOrder {
		fmt.Fprintf(w, "%d. %s\n", i+1, f)
	}
	fmt.Fprintln(w)
}

func writeRecommendation(w io.Writer, r *model.MergeRecommendation) {
	fmt.Fprintf(w, "## Recommendation\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Recommended base | %s |\n", cell(r.RecommendedBase))
	fmt.Fprintf(w, "| Approach | %s |\n", r.Approach)
	fmt.Fprintf(w, "| Baseline | %s |\n", cell(r.Baseline))
	fmt.Fprintf(w, "| Overall risk | %s |\n\n", r.ConflictRisks.OverallRisk)

	for _, reason := range r.Reasoning {
		fmt.Fprintf(w, "- %s\n", reason)
	}
	fmt.Fprintln(w)

	if len(r.ConflictRisks.Hotspots) > 0 {
		fmt.Fprintf(w, "## Hotspots\n\n")
		fmt.Fprintf(w, "| File | Risk | Branches | Language | Complexity |\n")
		fmt.Fprintf(w, "|------|------|----------|----------|-----------:|\n")
		for _, h := range r.ConflictRisks.Hotspots {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %d |\n",
				cell(h.File), h.RiskLevel, cell(strings.Join(h.Branches, ", ")), h.Language, h.Complexity)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "## Recommendations\n\n")
	for _, rec := range r.ConflictRisks.Recommendations {
		fmt.Fprintf(w, "- %s\n", rec)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "## Steps\n\n")
	for i, s := range r.Steps {
		fmt.Fprintf(w, "%d. %s\n", i+1, s)
	}
	fmt.Fprintln(w)
}

func commitDate(c *model.Commit) string {
	if c == nil {
		return "-"
	}
	return c.Timestamp.Format(dateLayout)
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// cell escapes text for use inside a table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
