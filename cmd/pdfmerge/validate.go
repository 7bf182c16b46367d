// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfmerge/internal/intake"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check that files are PDFs",
	Long: `Validate checks each file's detected content type and its .pdf
extension. It exits non-zero if any file is rejected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := intake.FromPaths(args)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	rejected := 0
	for _, f := range files {
		if intake.IsValid(f) {
			fmt.Fprintf(w, "%s %s\n", okStyle.Render("ok:      "), f.Name)
			continue
		}
		rejected++
		fmt.Fprintf(w, "%s %s (%s)\n", failStyle.Render("rejected:"), f.Name, f.ContentType)
	}
	if rejected > 0 {
		return fmt.Errorf("%d of %d file(s) rejected", rejected, len(files))
	}
	return nil
}
