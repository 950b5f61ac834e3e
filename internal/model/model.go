// internal/model/model.go
package model

import "time"

// Commit is one historical change record as retrieved from a branch.
type Commit struct {
	Hash      string    `json:"hash" yaml:"hash"`
	Author    string    `json:"author,omitempty" yaml:"author,omitempty"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Message   string    `json:"message" yaml:"message"`
	Branch    string    `json:"branch,omitempty" yaml:"branch,omitempty"`
}

// TimeRange is a closed interval of time. Both ends are inclusive.
type TimeRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Valid reports whether both ends are set and Start is not after End.
func (r TimeRange) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && !r.Start.After(r.End)
}

// Contains reports whether t lies within the range, ends included.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Category classifies a commit by its message prefix.
type Category string

const (
	CategoryFeature  Category = "feature"
	CategoryFix      Category = "fix"
	CategoryRefactor Category = "refactor"
	CategoryDocs     Category = "docs"
	CategoryOther    Category = "other"
)

// Categories lists every category in reporting order.
var Categories = []Category{CategoryFeature, CategoryFix, CategoryRefactor, CategoryDocs, CategoryOther}

// RiskLevel is an ordinal merge-conflict likelihood.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Score orders risk levels: low 1, medium 2, high 3, anything else 0.
func (l RiskLevel) Score() int {
	switch l {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	}
	return 0
}

// HealthCategory classifies a branch by how recently it was committed to.
type HealthCategory string

const (
	HealthActive     HealthCategory = "active"
	HealthMaintained HealthCategory = "maintained"
	HealthAbandoned  HealthCategory = "abandoned"
)

// BranchHealth holds the staleness classification for a branch.
type BranchHealth struct {
	Category        HealthCategory `json:"category" yaml:"category"`
	LastCommitDate  string         `json:"last_commit_date" yaml:"last_commit_date"`
	DaysSinceCommit int            `json:"days_since_commit" yaml:"days_since_commit"`
}

// MergeBaseRef names the merge base between the owning branch and another.
type MergeBaseRef struct {
	Branch string `json:"branch" yaml:"branch"`
	Base   string `json:"base" yaml:"base"`
}

// BranchSummary is the per-branch snapshot of an overview.
type BranchSummary struct {
	Branch      string         `json:"branch" yaml:"branch"`
	LastCommit  *Commit        `json:"last_commit,omitempty" yaml:"last_commit,omitempty"`
	CommitCount int            `json:"commit_count" yaml:"commit_count"`
	MergeBase   []MergeBaseRef `json:"merge_base" yaml:"merge_base"`
	Health      *BranchHealth  `json:"health,omitempty" yaml:"health,omitempty"`
}

// OverviewSummary aggregates an overview across branches.
type OverviewSummary struct {
	TotalBranches           int                    `json:"total_branches" yaml:"total_branches"`
	TotalCommits            int                    `json:"total_commits" yaml:"total_commits"`
	AverageCommitsPerBranch int                    `json:"average_commits_per_branch" yaml:"average_commits_per_branch"`
	MostActiveBranch        string                 `json:"most_active_branch" yaml:"most_active_branch"`
	BranchesByHealth        map[HealthCategory]int `json:"branches_by_health,omitempty" yaml:"branches_by_health,omitempty"`
}

// OverviewReport is the result of a branch overview.
type OverviewReport struct {
	Branches []BranchSummary `json:"branches" yaml:"branches"`
	Summary  OverviewSummary `json:"summary" yaml:"summary"`
}

// ActivityWindow is the time-bounded commit set of one branch.
type ActivityWindow struct {
	Branch           string           `json:"branch" yaml:"branch"`
	TimeRange        TimeRange        `json:"time_range" yaml:"time_range"`
	Commits          []Commit         `json:"commits" yaml:"commits"`
	CommitTypeCounts map[Category]int `json:"commit_type_counts" yaml:"commit_type_counts"`
	TotalCommits     int              `json:"total_commits" yaml:"total_commits"`
	FirstCommit      *Commit          `json:"first_commit,omitempty" yaml:"first_commit,omitempty"`
	LastCommit       *Commit          `json:"last_commit,omitempty" yaml:"last_commit,omitempty"`
	Authors          int              `json:"authors" yaml:"authors"`
}

// MostActive names the leading branch per activity measure.
type MostActive struct {
	Commits string `json:"commits" yaml:"commits"`
	Authors string `json:"authors" yaml:"authors"`
}

// ActivitySummary aggregates activity windows across branches.
type ActivitySummary struct {
	TotalCommits         int        `json:"total_commits" yaml:"total_commits"`
	BranchesWithActivity int        `json:"branches_with_activity" yaml:"branches_with_activity"`
	MostActiveBy         MostActive `json:"most_active_by" yaml:"most_active_by"`
}

// ActivityReport is the result of a time period analysis.
type ActivityReport struct {
	TimeRange TimeRange        `json:"time_range" yaml:"time_range"`
	Branches  []ActivityWindow `json:"branches" yaml:"branches"`
	Summary   ActivitySummary  `json:"summary" yaml:"summary"`
}

// FileHistoryEntry is one file's commit history on one branch, newest first.
type FileHistoryEntry struct {
	Branch  string   `json:"branch" yaml:"branch"`
	File    string   `json:"file" yaml:"file"`
	History []Commit `json:"history" yaml:"history"`
}

// ConflictAssessment is the cross-branch analysis of a single file.
type ConflictAssessment struct {
	File      string             `json:"file" yaml:"file"`
	Changes   []FileHistoryEntry `json:"changes" yaml:"changes"`
	RiskLevel RiskLevel          `json:"risk_level" yaml:"risk_level"`
	Reasons   []string           `json:"reasons" yaml:"reasons"`
}

// ConflictSummary aggregates conflict assessments across files.
type ConflictSummary struct {
	TotalFiles             int      `json:"total_files" yaml:"total_files"`
	FilesWithConflicts     int      `json:"files_with_conflicts" yaml:"files_with_conflicts"`
	HighRiskFiles          int      `json:"high_risk_files" yaml:"high_risk_files"`
	RecommendedReviewOrder []string `json:"recommended_review_order" yaml:"recommended_review_order"`
}

// ConflictReport is the result of a file conflict analysis.
type ConflictReport struct {
	Files   []ConflictAssessment `json:"files" yaml:"files"`
	Summary ConflictSummary      `json:"summary" yaml:"summary"`
}

// Hotspot is a file modified by more than one branch since the baseline.
type Hotspot struct {
	File       string    `json:"file" yaml:"file"`
	Branches   []string  `json:"branches" yaml:"branches"`
	RiskLevel  RiskLevel `json:"risk_level" yaml:"risk_level"`
	Language   string    `json:"language,omitempty" yaml:"language,omitempty"`
	Complexity int64     `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	Vendored   bool      `json:"vendored,omitempty" yaml:"vendored,omitempty"`
}

// ConflictRisks describes the hotspot-derived risk of a merge.
type ConflictRisks struct {
	OverallRisk     RiskLevel `json:"overall_risk" yaml:"overall_risk"`
	Hotspots        []Hotspot `json:"hotspots" yaml:"hotspots"`
	Recommendations []string  `json:"recommendations" yaml:"recommendations"`
}

// MergeRecommendation is the result of merge strategy selection.
type MergeRecommendation struct {
	RecommendedBase string        `json:"recommended_base" yaml:"recommended_base"`
	Approach        string        `json:"approach" yaml:"approach"`
	Baseline        string        `json:"baseline" yaml:"baseline"`
	Reasoning       []string      `json:"reasoning" yaml:"reasoning"`
	ConflictRisks   ConflictRisks `json:"conflict_risks" yaml:"conflict_risks"`
	Steps           []string      `json:"steps" yaml:"steps"`
}

// Operation names one of the four analyses.
type Operation string

const (
	OpOverview  Operation = "overview"
	OpActivity  Operation = "activity"
	OpConflicts Operation = "conflicts"
	OpRecommend Operation = "recommend"
)

// Report is the top-level output structure. Exactly one result is set.
type Report struct {
	GeneratedAt    string               `json:"generated_at" yaml:"generated_at"`
	Repository     string               `json:"repository" yaml:"repository"`
	Operation      Operation            `json:"operation" yaml:"operation"`
	Branches       []string             `json:"branches" yaml:"branches"`
	Overview       *OverviewReport      `json:"overview,omitempty" yaml:"overview,omitempty"`
	Activity       *ActivityReport      `json:"activity,omitempty" yaml:"activity,omitempty"`
	Conflicts      *ConflictReport      `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Recommendation *MergeRecommendation `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}
