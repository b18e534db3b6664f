package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thiri-win/helix/internal/cli"
	"github.com/thiri-win/helix/internal/pipeline"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [files...]",
		Short: "Validate files without routing them (dry run)",
		Long: `Run the filename and content checks against files on the configured
source without moving anything, updating the ledger, or writing error
reports. Already-processed files are skipped.

Examples:
  # Validate every CSV file on the source
  helix validate

  # Validate a specific file
  helix validate CLINICALDATA_20240101120000.CSV`,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	processor, cleanup, err := buildProcessor(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	candidates, err := processor.ListCandidates(ctx)
	if err != nil {
		return err
	}
	files, err := selectFiles(candidates, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println(cli.FormatWarning("No CSV files found on source"))
		return nil
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Validating %d file(s)", len(files))))
	bar := newRunBar(len(files), "Validating")

	var summary pipeline.RunSummary
	var runErr error
	for _, file := range files {
		var fileSummary pipeline.RunSummary
		fileSummary, runErr = processor.ValidateOnly(ctx, []string{file})
		summary.Merge(fileSummary)
		_ = bar.Add(1)
		if runErr != nil {
			break
		}
	}
	_ = bar.Finish()
	fmt.Println()

	printSummary(summary, true)
	return runErr
}
