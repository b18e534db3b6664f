package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thiri-win/helix/internal/cli"
	"github.com/thiri-win/helix/internal/model"
	"github.com/thiri-win/helix/internal/service"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the routing history",
		Long: `Query the routing-history store: one entry per routed file with its
outcome, record counts, and error report GUID.`,
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 20, "maximum entries to show")
	cmd.Flags().String("status", "", "filter by outcome (archived, rejected, skipped, failed)")
	cmd.Flags().String("since", "", "only entries on or after this date (YYYY-MM-DD)")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	dirs, err := resolveDirs()
	if err != nil {
		return err
	}
	history, err := openHistory(ctx, dirs)
	if err != nil {
		return err
	}
	if history == nil {
		return fmt.Errorf("routing history is disabled (history.enabled: false)")
	}
	defer func() { _ = history.Close() }()

	filter := service.HistoryFilter{}
	filter.Limit, _ = cmd.Flags().GetInt("limit")
	if status, _ := cmd.Flags().GetString("status"); status != "" {
		filter.Status = model.RouteStatus(status)
	}
	if since, _ := cmd.Flags().GetString("since"); since != "" {
		t, err := time.Parse("2006-01-02", since)
		if err != nil {
			return fmt.Errorf("invalid --since date (expected YYYY-MM-DD): %s", since)
		}
		filter.Since = &t
	}

	entries, err := history.ListOutcomes(ctx, filter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(cli.FormatInfo("No routing history"))
		return nil
	}

	fmt.Println(cli.FormatTitle("Routing history"))
	for _, entry := range entries {
		fmt.Println("  " + formatHistoryEntry(entry))
	}
	return nil
}

func formatHistoryEntry(entry model.HistoryEntry) string {
	line := fmt.Sprintf("%s  %-8s  %s", entry.RoutedAt.Local().Format("2006-01-02 15:04:05"), entry.Status, entry.Filename)
	switch entry.Status {
	case model.StatusArchived:
		return cli.SuccessStyle.Render(line) + cli.SubtleStyle.Render(fmt.Sprintf("  (%d records)", entry.RecordCount))
	case model.StatusRejected:
		detail := fmt.Sprintf("  (%d errors", entry.ViolationCount)
		if entry.ReportID != "" {
			detail += ", GUID " + entry.ReportID
		}
		return cli.ErrorStyle.Render(line) + cli.SubtleStyle.Render(detail+")")
	case model.StatusFailed:
		return cli.ErrorStyle.Render(line)
	default:
		return cli.SubtleStyle.Render(line)
	}
}
