package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"country-api/feature/countries/models"

	"github.com/spf13/cobra"
)

// refreshCmd runs one refresh without starting the server.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the country dataset once",
	Long: `Fetches countries and exchange rates, replaces the stored dataset and
regenerates the summary image, then exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.countriesFeature().Service().Refresh(ctx)
		if err != nil {
			return fmt.Errorf("refresh failed: %w", err)
		}

		fmt.Printf("Refreshed %d countries (%d with exchange rate, %d without) at %s\n",
			res.Total, res.Matched, res.Unmatched, models.FormatTime(res.RefreshedAt))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(refreshCmd)
}
