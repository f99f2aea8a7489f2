package main

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/config"
	"github.com/erazemk/katalog/internal/model"
	"github.com/erazemk/katalog/internal/query"
)

// mediumSummary is a medium with its item counts, as printed by "katalog mediums".
type mediumSummary struct {
	model.Medium
	Items      int `json:"items"`
	Wishlist   int `json:"wishlist"`
	InProgress int `json:"inProgress"`
	Consumed   int `json:"consumed"`
}

func newMediumsCommand(ctx *commandContext) *cobra.Command {
	var sortBy string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "mediums [text]",
		Short: "List mediums with item counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{"sortBy": {sortBy}}
			if len(args) == 1 {
				params.Set("query", args[0])
			}
			c, err := query.ParseMediumCriteria(params)
			if err != nil {
				return err
			}

			return ctx.withStore(cmd.Context(), func(_ *config.Config, st catalog.Store) error {
				summaries, err := summarizeMediums(cmd, st, c.MediumPlan())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, summaries)
				}
				printMediums(cmd, summaries)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sortBy, "sort", "s", "", "Sort: newest, oldest or name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func summarizeMediums(cmd *cobra.Command, st catalog.Store, plan query.Plan) ([]mediumSummary, error) {
	ctx := cmd.Context()
	mediums, err := st.SearchMediums(ctx, plan)
	if err != nil {
		return nil, err
	}

	counts := map[model.Placement]map[string]int{}
	for _, p := range append([]model.Placement{model.PlacementNone}, model.Placements...) {
		if counts[p], err = st.CountByMedium(ctx, p); err != nil {
			return nil, err
		}
	}

	summaries := make([]mediumSummary, 0, len(mediums))
	for _, m := range mediums {
		summaries = append(summaries, mediumSummary{
			Medium:     m,
			Items:      counts[model.PlacementNone][m.ID],
			Wishlist:   counts[model.PlacementWishlist][m.ID],
			InProgress: counts[model.PlacementInProgress][m.ID],
			Consumed:   counts[model.PlacementConsumed][m.ID],
		})
	}
	return summaries, nil
}

func printMediums(cmd *cobra.Command, summaries []mediumSummary) {
	out := cmd.OutOrStdout()
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No mediums found")
		return
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Title,
			s.ID,
			strconv.Itoa(s.Items),
			strconv.Itoa(s.Wishlist),
			strconv.Itoa(s.InProgress),
			strconv.Itoa(s.Consumed),
			s.CreatedAt.Local().Format(time.DateOnly),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Title", "ID", "Items", "Wishlist", "In progress", "Consumed", "Added"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))
}
