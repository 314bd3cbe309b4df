package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mangatrack/internal/domain"
)

func newReadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "read <id|title> <chapter|+1|-1>",
		Short: "Set or bump read progress",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.init(); err != nil {
				return err
			}
			target := args[len(args)-1]
			entry, err := findEntry(ctx, strings.Join(args[:len(args)-1], " "))
			if err != nil {
				return err
			}

			var updated domain.LibraryEntry
			switch target {
			case "+1":
				updated, err = ctx.library.Increment(entry.ID)
			case "-1":
				updated, err = ctx.library.Decrement(entry.ID)
			default:
				var n int
				n, err = strconv.Atoi(target)
				if err != nil {
					return fmt.Errorf("chapter must be a number, +1 or -1, got %q", target)
				}
				updated, err = ctx.library.SetReadChapters(entry.ID, n)
			}
			if err != nil {
				return err
			}

			cmd.Printf("%s: %s  %s\n",
				styled(titleStyle, updated.Title),
				updated.FormattedProgress(),
				styledStatus(updated.Status))
			return nil
		},
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id|title> <reading|plan|completed>",
		Short: "Change reading status",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.init(); err != nil {
				return err
			}
			status, ok := domain.ParseReadingStatus(args[len(args)-1])
			if !ok {
				return fmt.Errorf("unknown status %q, want reading, plan or completed", args[len(args)-1])
			}
			entry, err := findEntry(ctx, strings.Join(args[:len(args)-1], " "))
			if err != nil {
				return err
			}
			updated, err := ctx.library.SetStatus(entry.ID, status)
			if err != nil {
				return err
			}
			cmd.Printf("%s is now %s (%s)\n",
				styled(titleStyle, updated.Title),
				styledStatus(updated.Status),
				updated.FormattedProgress())
			return nil
		},
	}
}

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chapters <id|title> <total>",
		Short: "Override the known total chapter count",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.init(); err != nil {
				return err
			}
			total, err := strconv.Atoi(args[len(args)-1])
			if err != nil {
				return fmt.Errorf("total must be a number, got %q", args[len(args)-1])
			}
			entry, err := findEntry(ctx, strings.Join(args[:len(args)-1], " "))
			if err != nil {
				return err
			}
			updated, err := ctx.library.SetTotalChapters(entry.ID, total)
			if err != nil {
				return err
			}
			cmd.Printf("%s: %d chapters total, %s\n",
				styled(titleStyle, updated.Title),
				updated.TotalChapters,
				updated.FormattedProgress())
			return nil
		},
	}
}
