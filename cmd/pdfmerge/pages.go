// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfmerge/internal/engine"
	"github.com/pdiddy/pdfmerge/internal/intake"
	"github.com/pdiddy/pdfmerge/internal/merge"
	"github.com/pdiddy/pdfmerge/pkg/types"
)

var pagesCmd = &cobra.Command{
	Use:   "pages [files...]",
	Short: "Print the page count of each file",
	Long: `Pages prints the page count of each file. Paths that cannot be read
and files that cannot be parsed report 0 pages; the command never fails on
a bad input.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPages,
}

func init() {
	pagesCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(pagesCmd)
}

func runPages(cmd *cobra.Command, args []string) error {
	files := countPages(cmd.Context(), loadConfig(), args, logger)

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	}

	fmt.Fprintf(w, "%-6s  %s\n", "Pages", "File")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	total := 0
	for _, f := range files {
		n, _ := f.Pages()
		total += n
		fmt.Fprintf(w, "%-6d  %s\n", n, f.Name)
	}
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d page(s) in %d file(s)", total, len(files))))
	return nil
}

// countPages builds a SourceFile for every path, unreadable ones included,
// and caches each file's page count.
func countPages(ctx context.Context, cfg types.Config, paths []string, log *logrus.Logger) []types.SourceFile {
	files := intake.FromPathsLenient(paths)

	pipeline := merge.NewPipeline(engine.NewPdfcpu(cfg.Engine), log)
	pipeline.LoadOptions.IgnoreEncryption = cfg.Engine.IgnoreEncryption
	pipeline.Annotate(ctx, files)
	return files
}
