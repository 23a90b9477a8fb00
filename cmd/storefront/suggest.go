package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storefront-search-api/internal/models"
	"storefront-search-api/internal/tui"
)

func newSuggestCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <term>",
		Short: "Show predictive search results for a term",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			term := strings.Join(args, " ")
			set := a.service.Predict(cmd.Context(), term, limit)

			out := cmd.OutOrStdout()
			if handled, err := writeStructured(out, models.PredictiveSearchResponse{
				Term:         term,
				Results:      set.Results,
				TotalResults: set.TotalResults,
			}); handled {
				return err
			}

			fmt.Fprint(out, tui.RenderResults(set, -1))
			fmt.Fprintf(out, "%d results\n", set.TotalResults)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "results per group (default and maximum come from config)")
	return cmd
}
