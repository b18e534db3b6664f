package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thiri-win/helix/internal/cli"
)

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Manage the processed-file ledger",
	}
	cmd.AddCommand(ledgerListCmd())
	return cmd
}

func ledgerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List files already routed to a terminal state",
		RunE: func(_ *cobra.Command, _ []string) error {
			dirs, err := resolveDirs()
			if err != nil {
				return err
			}
			ldg, err := openLedger(dirs)
			if err != nil {
				return err
			}

			names := ldg.Names()
			if len(names) == 0 {
				fmt.Println(cli.FormatInfo("No files processed yet"))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Processed files (%d)", len(names))))
			for _, name := range names {
				fmt.Println("  " + name)
			}
			return nil
		},
	}
}
