package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mangatrack/internal/domain"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the library as JSON to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.init(); err != nil {
				return err
			}
			entries, err := ctx.library.Entries()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the library with a previously exported backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.init(); err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var entries []domain.LibraryEntry
			if err := json.Unmarshal(data, &entries); err != nil {
				return fmt.Errorf("not a valid backup file: %w", err)
			}
			count, err := ctx.library.Import(entries)
			if err != nil {
				return err
			}
			cmd.Printf("Imported %d entries.\n", count)
			return nil
		},
	}
}
