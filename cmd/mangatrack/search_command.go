package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mangatrack/internal/domain"
	"mangatrack/internal/search"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var providerFlag string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalogs for a series",
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
			printSearchResults(cmd, query, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&providerFlag, "source", "s", "", "search a single source instead of all of them")
	return cmd
}

func searchMode(ctx *commandContext, providerFlag string) search.Mode {
	if providerFlag != "" {
		return search.Mode(providerFlag)
	}
	return ctx.searchMode()
}

func printSearchResults(cmd *cobra.Command, query string, result search.Result) {
	if len(result.Series) == 0 {
		cmd.Printf("No results for %q.\n", query)
	} else {
		rows := make([][]string, 0, len(result.Series))
		for i, s := range result.Series {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				s.Title,
				string(s.Type),
				formatChapters(s.ChapterCount),
				formatScore(s.Score),
				s.Source,
			})
		}
		cmd.Println(renderTable(
			[]string{"#", "Title", "Type", "Chapters", "Score", "Source"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		))
	}

	if len(result.Failed) > 0 {
		cmd.Println(styled(dimStyle,
			fmt.Sprintf("Some sources did not respond: %s", strings.Join(result.Failed, ", "))))
	}
}

func formatChapters(count *float64) string {
	if count == nil {
		return "?"
	}
	return strconv.Itoa(int(*count))
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return strconv.FormatFloat(*score, 'f', 1, 64)
}

// pickResult selects one result from a search, 1-based.
func pickResult(result search.Result, pick int) (domain.SeriesResult, error) {
	if len(result.Series) == 0 {
		return domain.SeriesResult{}, domain.ErrNoResults
	}
	if pick < 1 || pick > len(result.Series) {
		return domain.SeriesResult{}, fmt.Errorf("pick %d out of range, have %d results", pick, len(result.Series))
	}
	return result.Series[pick-1], nil
}
