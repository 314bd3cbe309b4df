package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mangatrack/internal/domain"
	"mangatrack/internal/update"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check tracked series for new chapters",
		Long: "Checks series that have not been looked at recently. With --force, every\n" +
			"non-completed series is re-checked immediately, at most once every 12 hours.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.init(); err != nil {
				return err
			}

			var (
				report update.Report
				err    error
			)
			if forceFlag {
				report, err = ctx.scheduler.CheckNow(cmd.Context())
			} else {
				report, err = ctx.scheduler.CheckDue(cmd.Context())
			}
			if err != nil {
				if errors.Is(err, domain.ErrSyncDisabled) {
					return fmt.Errorf("update checks need an account: run mangatrack account login <name>")
				}
				return err
			}

			printReport(cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "re-check every non-completed series now")
	return cmd
}

func printReport(cmd *cobra.Command, report update.Report) {
	if report.Checked == 0 {
		cmd.Println("Everything is up to date.")
		return
	}
	cmd.Printf("Checked %d series.\n", report.Checked)
	if len(report.Updated) > 0 {
		cmd.Printf("%s %s\n",
			styled(successStyle, "Updates found:"),
			strings.Join(report.Updated, ", "))
		cmd.Println("See mangatrack notifications for details.")
	} else {
		cmd.Println("No new chapters.")
	}
	if report.Failed > 0 {
		cmd.Println(styled(errorStyle,
			fmt.Sprintf("%d update(s) could not be saved and will be retried.", report.Failed)))
	}
}

func newNotificationsCommand(ctx *commandContext) *cobra.Command {
	var clearFlag bool

	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notifs"},
		Short:   "Show update notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.init(); err != nil {
				return err
			}
			if clearFlag {
				if err := ctx.store.ClearNotifications(); err != nil {
					return err
				}
				cmd.Println("Notifications cleared.")
				return nil
			}

			notifs, err := ctx.store.Notifications()
			if err != nil {
				return err
			}
			if len(notifs) == 0 {
				cmd.Println("No notifications.")
				return nil
			}
			rows := make([][]string, 0, len(notifs))
			for _, n := range notifs {
				rows = append(rows, []string{
					n.Date.Format("2006-01-02 15:04"),
					n.SeriesTitle,
					n.Message,
				})
			}
			cmd.Println(renderTable(
				[]string{"When", "Series", "Update"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearFlag, "clear", false, "clear all notifications")
	return cmd
}
