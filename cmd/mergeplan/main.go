package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dsablic/mergeplan/internal/errs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mergeplan: %s: %v\n", errs.Kind(err), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mergeplan",
		Short:         "Plan merges across the branches of a git repository",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.String("repo", ".", "Path inside the git repository to analyze")
	f.StringSlice("branches", nil, "Branches to analyze, comma separated (prompted for on a terminal when omitted)")
	f.String("format", "json", "Output format (json, yaml, markdown)")
	f.StringP("output", "o", "", "Write the report to this file instead of stdout")
	f.String("config", "", "Config file (default .mergeplan.yaml in the working directory, repository or ~/.config/mergeplan)")
	f.Bool("narrative", false, "Render the report as a narrative through an installed AI CLI")
	f.String("narrative-prompt", "", "Additional instructions for the narrative")
	f.Int("concurrency", 8, "Maximum concurrent repository queries")
	f.Duration("timeout", 0, "Timeout per repository query (default 30s)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	root.AddCommand(newOverviewCmd())
	root.AddCommand(newActivityCmd())
	root.AddCommand(newConflictsCmd())
	root.AddCommand(newRecommendCmd())
	return root
}
