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

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		ratingMin, ratingMax string
		date, sortBy         string
		medium, placement    string
		asJSON               bool
	)

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search catalogued items",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			if len(args) == 1 {
				params.Set("query", args[0])
			}
			params.Set("ratingMin", ratingMin)
			params.Set("ratingMax", ratingMax)
			params.Set("dateFilter", date)
			params.Set("sortBy", sortBy)
			params.Set("medium", medium)
			params.Set("placement", placement)

			c, err := query.ParseItemCriteria(params)
			if err != nil {
				return err
			}

			return ctx.withStore(cmd.Context(), func(cfg *config.Config, st catalog.Store) error {
				items, err := st.SearchItems(cmd.Context(), c.ItemPlan(time.Now().In(cfg.Location())))
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, items)
				}
				printItems(cmd, items)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ratingMin, "rating-min", "", "Minimum rating (inclusive)")
	cmd.Flags().StringVar(&ratingMax, "rating-max", "", "Maximum rating (inclusive)")
	cmd.Flags().StringVar(&date, "date", "", "Date filter: all, today, week, month or year")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "", "Sort: newest, oldest, rating-high, rating-low, liked or name")
	cmd.Flags().StringVarP(&medium, "medium", "m", "", "Limit to a medium id")
	cmd.Flags().StringVarP(&placement, "placement", "p", "", "Limit to wishlist, inprogress or consumed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func printItems(cmd *cobra.Command, items []model.Item) {
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No items found")
		return
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, itemRow(it))
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Title", "Creator", "Medium", "Rating", "Status", "Added"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
}

func itemRow(it model.Item) []string {
	medium := it.MediumID
	if it.Medium != nil {
		medium = it.Medium.Title
	}
	return []string{
		it.Title,
		it.Creator,
		medium,
		strconv.FormatFloat(it.Rating, 'f', -1, 64),
		itemStatus(it.Flags()),
		it.CreatedAt.Local().Format(time.DateOnly),
	}
}

func itemStatus(f model.Flags) string {
	var status string
	switch f.Placement() {
	case model.PlacementWishlist:
		status = "wishlist"
	case model.PlacementInProgress:
		status = "in progress"
	case model.PlacementConsumed:
		status = "consumed"
	}
	if f.Liked {
		if status == "" {
			return "liked"
		}
		return status + ", liked"
	}
	return status
}
