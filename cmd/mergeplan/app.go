package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dsablic/mergeplan/internal/batch"
	"github.com/dsablic/mergeplan/internal/config"
	"github.com/dsablic/mergeplan/internal/errs"
	"github.com/dsablic/mergeplan/internal/logging"
	"github.com/dsablic/mergeplan/internal/model"
	"github.com/dsablic/mergeplan/internal/narrative"
	"github.com/dsablic/mergeplan/internal/output"
	"github.com/dsablic/mergeplan/internal/provider"
	"github.com/dsablic/mergeplan/internal/ui"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	repo     *provider.Local
	branches []string
	tty      bool
	cleanup  func()
}

func setup(cmd *cobra.Command) (*app, error) {
	repoPath, _ := cmd.Flags().GetString("repo")
	cfgFile, _ := cmd.Flags().GetString("config")

	opts := config.Options{File: cfgFile, Flags: cmd.Flags()}
	if !provider.IsRemote(repoPath) {
		opts.SearchPaths = []string{repoPath}
	}
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: logger, tty: ui.IsTTY(), cleanup: func() {}}
	if provider.IsRemote(repoPath) {
		logger.WithField("url", repoPath).Info("cloning repository")
		a.repo, a.cleanup, err = provider.NewCloner(cfg.Clone.Token).Clone(cmd.Context(), repoPath, cfg.Concurrency)
	} else {
		a.repo, err = provider.OpenLocal(repoPath, cfg.Concurrency)
	}
	if err != nil {
		return nil, err
	}

	branches, _ := cmd.Flags().GetStringSlice("branches")
	if len(branches) == 0 {
		branches, err = a.pickBranches(cmd.Context())
		if err != nil {
			a.close()
			return nil, err
		}
	}
	a.branches = branches

	logger.WithFields(logrus.Fields{
		"repo":     repoPath,
		"branches": len(branches),
	}).Debug("configuration loaded")
	return a, nil
}

// close releases a cloned repository copy.
func (a *app) close() {
	a.cleanup()
}

func (a *app) pickBranches(ctx context.Context) ([]string, error) {
	if !a.tty {
		return nil, errs.InvalidInput("no branches given; pass --branches")
	}
	available, err := a.repo.Branches(ctx)
	if err != nil {
		return nil, err
	}
	return ui.SelectBranches(available, nil)
}

// runner returns a batch runner reporting progress on the terminal, or
// through the logger when stderr is not a terminal. finish must be called
// once the operation's queries are done.
func (a *app) runner(title string) (batch.Runner, func()) {
	run := batch.Runner{
		Limit:   min(a.cfg.Concurrency, a.repo.Workers()),
		Timeout: a.cfg.QueryTimeout,
		Logger:  a.log,
	}

	if !a.tty {
		var mu sync.Mutex
		ran := 0
		plain := ui.NewPlainProgress(func(msg string) { a.log.Debug(msg) })
		run.Progress = func(completed, total int, label string) {
			mu.Lock()
			ran++
			mu.Unlock()
			plain.Update(completed, total, label)
		}
		return run, func() {
			mu.Lock()
			defer mu.Unlock()
			plain.Done(ran)
		}
	}

	// Log lines would tear the progress display.
	level := a.log.GetLevel()
	if level > logrus.WarnLevel {
		a.log.SetLevel(logrus.WarnLevel)
	}

	p := ui.RunTUI(title)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := p.Run(); err != nil {
			a.log.WithError(err).Warn("progress display failed")
		}
	}()

	run.Progress = func(completed, total int, label string) {
		p.Send(ui.ProgressMsg{Completed: completed, Total: total, Label: label})
	}
	return run, func() {
		p.Send(ui.DoneMsg{})
		<-done
		a.log.SetLevel(level)
	}
}

// emit fills in the report envelope and writes it in the configured format,
// or as a narrative when --narrative is set.
func (a *app) emit(cmd *cobra.Command, report model.Report) error {
	report.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	report.Repository = a.repo.Path()
	report.Branches = a.branches

	var buf bytes.Buffer
	if useNarrative, _ := cmd.Flags().GetBool("narrative"); useNarrative {
		text, err := a.narrate(cmd.Context(), cmd, report)
		if err != nil {
			return err
		}
		buf.WriteString(text)
	} else if err := output.Write(&buf, a.cfg.Output.Format, report); err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("output")
	var w io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return errors.Wrapf(err, "create %s", outPath)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, "write report")
	}
	if outPath != "" {
		a.log.WithField("path", outPath).Info("report written")
	}
	return nil
}

func (a *app) narrate(ctx context.Context, cmd *cobra.Command, report model.Report) (string, error) {
	cli, err := narrative.DetectCLI()
	if err != nil {
		return "", err
	}
	extra, _ := cmd.Flags().GetString("narrative-prompt")

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Narrative.Timeout)
	defer cancel()

	a.log.WithField("cli", cli).Infof("generating %s narrative", report.Operation)
	return narrative.Render(ctx, cli, report, extra)
}
