package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mangatrack/internal/domain"
	"mangatrack/internal/library"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var providerFlag string
	var pickFlag int

	cmd := &cobra.Command{
		Use:   "add <query>",
		Short: "Search and add a series to the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.init(); err != nil {
				return err
			}
			query := strings.Join(args, " ")
			result, err := ctx.aggregator.Search(cmd.Context(), query, searchMode(ctx, providerFlag))
			if err != nil {
				return err
			}
			series, err := pickResult(result, pickFlag)
			if err != nil {
				if errors.Is(err, domain.ErrNoResults) {
					return fmt.Errorf("no results for %q", query)
				}
				return err
			}
			entry, err := ctx.library.Add(series)
			if err != nil {
				return err
			}
			cmd.Printf("Added %s (%s, %s)\n",
				styled(titleStyle, entry.Title), entry.Type, entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&providerFlag, "source", "s", "", "search a single source instead of all of them")
	cmd.Flags().IntVarP(&pickFlag, "pick", "n", 1, "which search result to add, 1-based")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string

	cmd := &cobra.Command{
		Use:   "list [filter]",
		Short: "List the library, optionally filtered by fuzzy title match",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.init(); err != nil {
				return err
			}

			// Opening the library doubles as the periodic update check.
			if ctx.cfg.Updates.CheckOnStart {
				if report, err := ctx.scheduler.CheckDue(cmd.Context()); err == nil && len(report.Updated) > 0 {
					cmd.Println(styled(accentStyle, fmt.Sprintf(
						"%d series got new chapters; see mangatrack notifications.", len(report.Updated))))
				}
			}

			entries, err := ctx.library.Entries()
			if err != nil {
				return err
			}
			if statusFlag != "" {
				status, ok := domain.ParseReadingStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q, want reading, plan or completed", statusFlag)
				}
				entries = library.FilterByStatus(entries, status)
			}
			if len(args) > 0 {
				entries = library.Filter(entries, strings.Join(args, " "))
			}
			if len(entries) == 0 {
				cmd.Println("Nothing here yet. Try: mangatrack add <title>")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.ID,
					e.Title,
					string(e.Type),
					styledStatus(e.Status),
					e.FormattedProgress(),
				})
			}
			cmd.Println(renderTable(
				[]string{"ID", "Title", "Type", "Status", "Progress"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&statusFlag, "status", "s", "", "only entries with this status (reading, plan, completed)")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id|title>",
		Short: "Remove a series from the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.init(); err != nil {
				return err
			}
			entry, err := findEntry(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			removed, err := ctx.library.Remove(entry.ID)
			if err != nil {
				return err
			}
			cmd.Printf("Removed %s\n", styled(titleStyle, removed.Title))
			return nil
		},
	}
}

// findEntry resolves a command argument to a library entry, by exact id
// first, then by best fuzzy title match.
func findEntry(ctx *commandContext, arg string) (domain.LibraryEntry, error) {
	if entry, err := ctx.library.Get(arg); err == nil {
		return entry, nil
	}
	entries, err := ctx.library.Entries()
	if err != nil {
		return domain.LibraryEntry{}, err
	}
	matches := library.Filter(entries, arg)
	if len(matches) == 0 {
		return domain.LibraryEntry{}, fmt.Errorf("%q: %w", arg, domain.ErrSeriesNotFound)
	}
	return matches[0], nil
}
