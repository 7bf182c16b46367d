// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfmerge/internal/history"
	"github.com/pdiddy/pdfmerge/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent merge runs",
	Long: `History lists recent merge runs from the local ledger: when they ran,
which files went in, how many pages came out, and why failed runs failed.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum number of runs to list (default from config)")
	historyCmd.Flags().Bool("yaml", false, "output runs as YAML")
	historyCmd.Flags().String("history-dir", "", "directory holding history.db")

	bindFlag(historyCmd, "history.dir", "history-dir")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.NewStore(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	w := cmd.OutOrStdout()
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		return store.Export(cmd.Context(), w, limit)
	}

	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No merge runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-19s  %-6s  %-5s  %s\n", "ID", "Started", "Status", "Pages", "Inputs")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range runs {
		status := okStyle.Render(fmt.Sprintf("%-6s", r.Status))
		if r.Status == types.RunFailed {
			status = failStyle.Render(fmt.Sprintf("%-6s", r.Status))
		}
		fmt.Fprintf(w, "%-4d  %-19s  %s  %-5d  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), status, r.Pages, strings.Join(r.Inputs, ", "))
		if r.Error != "" {
			fmt.Fprintf(w, "      %s\n", dimStyle.Render(r.Error))
		}
	}
	return nil
}
