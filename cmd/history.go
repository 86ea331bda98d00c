package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crepbook/pkg/journal"
	"crepbook/pkg/usecase"
)

var (
	historyLimit    int
	historyFailures bool
)

func buildHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded mutations, newest first",
		Long: `Shows the mutation journal written by commands run with --journal
(or CREPBOOK_JOURNAL=true).`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}
	cmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries (0 for all)")
	cmd.Flags().BoolVar(&historyFailures, "failures", false, "Only show failed mutations")
	return cmd
}

func runHistory(_ *cobra.Command, _ []string) error {
	return withService(func(svc *usecase.Service) error {
		entries, err := svc.History(usecase.HistoryRequest{
			Limit:        historyLimit,
			FailuresOnly: historyFailures,
		})
		if err != nil {
			return err
		}

		return render(entries, func() {
			failed := 0
			for _, entry := range entries {
				printEntry(entry)
				if !entry.Success {
					failed++
				}
			}
			if verbose {
				fmt.Println()
				printSummary(
					fmt.Sprintf("Entries:  %d", len(entries)),
					fmt.Sprintf("Failed:   %d", failed),
				)
			}
		})
	})
}

func printEntry(entry journal.Entry) {
	status := "OK  "
	if !entry.Success {
		status = "FAIL"
	}

	line := fmt.Sprintf("%s %s %-6s %s", entry.Timestamp.Local().Format("2006-01-02 15:04:05"), status, entry.Type, entry.Source)
	if entry.Dest != "" {
		line += " -> " + entry.Dest
	}
	if entry.Error != "" {
		line += " (" + entry.Error + ")"
	}
	fmt.Println(line)
}
