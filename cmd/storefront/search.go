package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storefront-search-api/internal/filters"
	"storefront-search-api/internal/models"
	"storefront-search-api/internal/tui"
)

func newSearchCommand() *cobra.Command {
	var (
		vendors   []string
		types     []string
		cursor    string
		direction string
		locale    string
	)

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Run a full search",
		Long: `Run a full search for products, pages and articles.

Vendors and product types narrow the products: values within one flag are
ORed, the two flags are ANDed.

Examples:
  storefront search naruto
  storefront search naruto --vendor Funko --vendor Bandai --type Plush
  storefront search naruto --cursor <end cursor> --direction next`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			params := models.SearchParams{
				Term:      strings.Join(args, " "),
				Filters:   models.FilterSpec{Vendors: vendors, Types: types},
				Cursor:    cursor,
				Direction: direction,
				Locale:    locale,
			}
			resp, err := a.service.Search(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if handled, err := writeStructured(out, resp); handled {
				return err
			}

			state, err := filters.FromSpec(resp.Term, resp.Filters)
			if err != nil {
				return err
			}
			fmt.Fprint(out, tui.RenderSearchResponse(resp))
			fmt.Fprintf(out, "location: %s\n", filters.Location(state, nil))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&vendors, "vendor", nil, "filter by vendor (repeatable)")
	cmd.Flags().StringArrayVar(&types, "type", nil, "filter by product type (repeatable)")
	cmd.Flags().StringVar(&cursor, "cursor", "", "product page cursor")
	cmd.Flags().StringVar(&direction, "direction", "", "cursor direction: next or previous")
	cmd.Flags().StringVar(&locale, "locale", "", "locale path prefix for result URLs, e.g. en-ca")
	return cmd
}
