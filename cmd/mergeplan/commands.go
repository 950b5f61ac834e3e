package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dsablic/mergeplan/internal/activity"
	"github.com/dsablic/mergeplan/internal/complexity"
	"github.com/dsablic/mergeplan/internal/conflict"
	"github.com/dsablic/mergeplan/internal/errs"
	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/overview"
	"github.com/dsablic/mergeplan/internal/strategy"
	"github.com/dsablic/mergeplan/internal/timerange"
)

func newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Summarize tip commit, commit count, merge bases and health of each branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			run, finish := a.runner("Comparing branches")
			report, err := overview.Run(cmd.Context(), a.repo, run, a.branches, time.Now())
			finish()
			if err != nil {
				return err
			}
			return a.emit(cmd, model.Report{Operation: model.OpOverview, Overview: report})
		},
	}
}

func newActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Classify the commits of each branch within a time range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			since, _ := cmd.Flags().GetString("since")
			until, _ := cmd.Flags().GetString("until")
			r, err := timerange.Parse(since, until)
			if err != nil {
				return err
			}

			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			run, finish := a.runner("Reading branch activity")
			report, err := activity.Run(cmd.Context(), a.repo, run, a.branches, r)
			finish()
			if err != nil {
				return err
			}
			return a.emit(cmd, model.Report{Operation: model.OpActivity, Activity: report})
		},
	}
	cmd.Flags().String("since", "", "Start of the range (RFC3339, YYYY-MM-DD or YYYY-MM)")
	cmd.Flags().String("until", "", "End of the range, inclusive (RFC3339, YYYY-MM-DD or YYYY-MM)")
	cmd.MarkFlagRequired("since")
	cmd.MarkFlagRequired("until")
	return cmd
}

func newConflictsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Assess the risk of parallel changes to files across branches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, _ := cmd.Flags().GetStringSlice("files")
			if len(files) == 0 {
				return errs.InvalidInput("--files is required")
			}
			for _, f := range files {
				if err := conflict.ValidatePath(f); err != nil {
					return err
				}
			}

			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			run, finish := a.runner("Reading file histories")
			report, err := conflict.Run(cmd.Context(), a.repo, run, files, a.branches)
			finish()
			if err != nil {
				return err
			}
			return a.emit(cmd, model.Report{Operation: model.OpConflicts, Conflicts: report})
		},
	}
	cmd.Flags().StringSlice("files", nil, "Repository-relative file paths to assess, comma separated")
	return cmd
}

func newRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend a merge base and rank conflict hotspots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			policy, err := strategy.ParsePolicy(a.cfg.Baseline.Policy)
			if err != nil {
				return err
			}
			// --baseline alone means the named branch.
			if cmd.Flags().Changed("baseline") && !cmd.Flags().Changed("baseline-policy") {
				policy = strategy.PolicyNamed
			}
			opts := strategy.Options{
				Baseline: strategy.Baseline{Policy: policy, Branch: a.cfg.Baseline.Branch},
				Limit:    a.cfg.Hotspots.Limit,
			}
			if skip, _ := cmd.Flags().GetBool("no-complexity"); !skip {
				opts.Meter = complexity.New()
			}

			run, finish := a.runner("Finding hotspots")
			rec, err := strategy.Run(cmd.Context(), a.repo, run, a.branches, opts)
			finish()
			if err != nil {
				return err
			}
			return a.emit(cmd, model.Report{Operation: model.OpRecommend, Recommendation: rec})
		},
	}
	cmd.Flags().String("baseline", "", "Branch every other branch is compared against (implies --baseline-policy named)")
	cmd.Flags().String("baseline-policy", "first", "Comparison baseline policy (first, named)")
	cmd.Flags().Int("hotspot-limit", 0, "Report at most this many hotspots (0 for all)")
	cmd.Flags().Bool("no-complexity", false, "Skip reading hotspot files to measure complexity")
	return cmd
}
