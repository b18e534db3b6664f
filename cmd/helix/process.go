package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/thiri-win/helix/internal/cli"
	"github.com/thiri-win/helix/internal/pipeline"
)

func processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process [files...]",
		Short: "Download, validate, and route clinical data files",
		Long: `Download clinical data files from the configured source, validate each
one, and route it: valid files are archived with a date suffix, invalid
files are moved to the error store and logged with a tracking GUID.
Already-processed files are skipped.

Examples:
  # Process every CSV file on the source
  helix process

  # Process specific files
  helix process CLINICALDATA_20240101120000.CSV`,
		RunE: runProcess,
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
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

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Processing %d file(s)", len(files))))
	bar := newRunBar(len(files), "Processing")

	var summary pipeline.RunSummary
	var runErr error
	for _, file := range files {
		var fileSummary pipeline.RunSummary
		fileSummary, runErr = processor.Process(ctx, []string{file})
		summary.Merge(fileSummary)
		_ = bar.Add(1)
		if runErr != nil {
			break
		}
	}
	_ = bar.Finish()
	fmt.Println()

	printSummary(summary, false)
	return runErr
}

func newRunBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func printSummary(summary pipeline.RunSummary, dryRun bool) {
	fmt.Println(cli.FormatTitle("Summary"))
	if dryRun {
		fmt.Println("  " + cli.FormatSuccess(fmt.Sprintf("%d valid", summary.Archived)))
		fmt.Println("  " + cli.FormatError(fmt.Sprintf("%d invalid", summary.Rejected)))
	} else {
		fmt.Println("  " + cli.FormatSuccess(fmt.Sprintf("%d archived", summary.Archived)))
		fmt.Println("  " + cli.FormatError(fmt.Sprintf("%d rejected", summary.Rejected)))
		if summary.Failed > 0 {
			fmt.Println("  " + cli.FormatError(fmt.Sprintf("%d failed", summary.Failed)))
		}
	}
	if summary.Skipped > 0 {
		fmt.Println("  " + cli.FormatWarning(fmt.Sprintf("%d skipped (already processed)", summary.Skipped)))
	}
}
