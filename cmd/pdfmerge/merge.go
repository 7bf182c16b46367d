// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfmerge/internal/download"
	"github.com/pdiddy/pdfmerge/internal/engine"
	"github.com/pdiddy/pdfmerge/internal/history"
	"github.com/pdiddy/pdfmerge/internal/intake"
	"github.com/pdiddy/pdfmerge/internal/merge"
	"github.com/pdiddy/pdfmerge/pkg/types"
)

// now is the clock used for output filenames.
var now = time.Now

var mergeCmd = &cobra.Command{
	Use:   "merge [files...]",
	Short: "Merge PDF files into one document",
	Long: `Merge appends every page of every input, in the order given, to a new
PDF. Inputs may also be listed in a YAML manifest (--manifest); manifest
files come first, then command-line files.

Inputs that are not PDFs (by content and .pdf extension) are rejected before
anything is processed. Use --skip-invalid to drop them and continue.

The result is saved in --output-dir as <prefix>_<YYYYMMDD>.pdf unless
--output names a file; --output - writes the PDF to stdout.`,
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringP("output", "o", "", "output filename, or - for stdout (default <prefix>_<YYYYMMDD>.pdf)")
	mergeCmd.Flags().String("output-dir", ".", "directory the merged file is saved into")
	mergeCmd.Flags().String("prefix", "merged", "output filename prefix")
	mergeCmd.Flags().String("manifest", "", "YAML file listing inputs in merge order")
	mergeCmd.Flags().Int("concurrency", 1, "number of inputs parsed at once")
	mergeCmd.Flags().Bool("open", false, "open the merged file with the platform viewer")
	mergeCmd.Flags().Bool("strict", false, "validate inputs and the merged output strictly")
	mergeCmd.Flags().Bool("skip-invalid", false, "drop inputs that are not PDFs instead of failing")
	mergeCmd.Flags().Bool("no-history", false, "do not record this run in the history ledger")

	bindFlag(mergeCmd, "merge.output_dir", "output-dir")
	bindFlag(mergeCmd, "merge.prefix", "prefix")
	bindFlag(mergeCmd, "merge.concurrency", "concurrency")
	bindFlag(mergeCmd, "merge.open", "open")
	bindFlag(mergeCmd, "engine.strict", "strict")

	rootCmd.AddCommand(mergeCmd)
}

// mergeOptions holds per-invocation settings that are not configuration.
type mergeOptions struct {
	Output      string
	SkipInvalid bool
	NoHistory   bool
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	paths := args
	if manifestPath, _ := cmd.Flags().GetString("manifest"); manifestPath != "" {
		m, err := intake.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		paths = append(m.Files, args...)
		if m.Prefix != "" && !cmd.Flags().Changed("prefix") {
			cfg.Merge.Prefix = m.Prefix
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("provide one or more PDF files or a --manifest")
	}

	var opts mergeOptions
	opts.Output, _ = cmd.Flags().GetString("output")
	opts.SkipInvalid, _ = cmd.Flags().GetBool("skip-invalid")
	opts.NoHistory, _ = cmd.Flags().GetBool("no-history")

	w := cmd.OutOrStdout()
	if opts.Output == download.Stdout {
		w = cmd.ErrOrStderr()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	_, err := mergeFiles(ctx, cfg, paths, opts, w, logger)
	return err
}

// mergeFiles validates, merges, and saves paths, recording the run in the
// history ledger when enabled. It returns the saved path.
func mergeFiles(ctx context.Context, cfg types.Config, paths []string, opts mergeOptions, w io.Writer, log *logrus.Logger) (string, error) {
	files, err := intake.FromPaths(paths)
	if err != nil {
		return "", err
	}

	valid, rejected := intake.Partition(files)
	for _, f := range rejected {
		fmt.Fprintf(w, "%s %s (not a PDF: %s)\n", failStyle.Render("rejected:"), f.Name, f.ContentType)
	}
	if len(rejected) > 0 && !opts.SkipInvalid {
		return "", fmt.Errorf("%d input(s) are not PDF files; remove them or use --skip-invalid", len(rejected))
	}

	run := &types.MergeRun{StartedAt: now(), Inputs: names(valid)}

	pipeline := merge.NewPipeline(engine.NewPdfcpu(cfg.Engine), log)
	pipeline.Concurrency = cfg.Merge.Concurrency
	pipeline.LoadOptions.IgnoreEncryption = cfg.Engine.IgnoreEncryption

	res, err := pipeline.Merge(ctx, valid)
	if err != nil {
		var perr *merge.ProcessingError
		if errors.As(err, &perr) {
			fmt.Fprintf(w, "%s %s: %v\n", failStyle.Render("failed:"), perr.FileName, perr.Err)
			fmt.Fprintln(w, dimStyle.Render("Remove or replace that file and run the merge again."))
		}
		run.Status = types.RunFailed
		run.Error = err.Error()
		recordRun(ctx, cfg, opts, run, log)
		return "", err
	}

	trigger := download.NewTrigger(cfg.Merge.OutputDir, log)
	if cfg.Merge.Open && opts.Output != download.Stdout {
		opener, err := download.DetectOpener()
		if err != nil {
			log.WithError(err).Warn("--open ignored")
		} else {
			trigger.Opener = opener
		}
	}

	filename := opts.Output
	if filename == "" {
		filename = download.Filename(cfg.Merge.Prefix, now())
	}
	path, err := trigger.Download(res.Data, filename, types.MediaTypePDF)
	if err != nil {
		run.Status = types.RunFailed
		run.Error = err.Error()
		recordRun(ctx, cfg, opts, run, log)
		return "", err
	}

	run.Status = types.RunOK
	run.Pages = res.Pages
	run.OutputPath = path
	recordRun(ctx, cfg, opts, run, log)

	fmt.Fprintf(w, "%s %d file(s), %d page(s) -> %s\n", okStyle.Render("merged:"), res.Files, res.Pages, path)
	return path, nil
}

// recordRun writes run to the history ledger. Ledger failures never fail
// the merge itself.
func recordRun(ctx context.Context, cfg types.Config, opts mergeOptions, run *types.MergeRun, log *logrus.Logger) {
	if !cfg.History.Enabled || opts.NoHistory {
		return
	}
	store, err := history.NewStore(cfg.History)
	if err != nil {
		log.WithError(err).Warn("history unavailable")
		return
	}
	defer store.Close()

	if err := store.Record(context.WithoutCancel(ctx), run); err != nil {
		log.WithError(err).Warn("recording run failed")
	}
}

func names(files []types.SourceFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}
