package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"storefront-search-api/internal/filters"
	"storefront-search-api/internal/predictive"
	"storefront-search-api/internal/tui"
)

func newBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive predictive search screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			controller := predictive.NewController(a.service, predictive.Options{
				Limit:      a.service.PredictiveLimit(),
				Debounce:   a.cfg.Search.Debounce(),
				Timeout:    a.cfg.Storefront.Timeout(),
				Normalizer: a.service.Normalizer(),
			})
			defer controller.Close()

			model := tui.NewModel(controller, a.service, filters.Catalog{
				Vendors: a.cfg.Filters.Vendors,
				Types:   a.cfg.Filters.Types,
			})
			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("failed to start the terminal user interface: %w", err)
			}
			return nil
		},
	}
}
