package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"country-api/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database schema and the report bucket",
	Long: `Compares the countries table with its model and checks that the bucket
holding the summary image exists. Use --fix to create a missing bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		svc := a.integrityFeature().Service()
		report := svc.CheckAll(ctx)

		if fixFlag && report.Storage != nil && !report.Storage.Exists {
			a.logger.Info("Creating missing bucket", zap.String("bucket", report.Storage.Bucket))
			if err := svc.FixStorage(ctx); err != nil {
				return err
			}
			report = svc.CheckAll(ctx)
		}

		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))

		if report.Status != checks.StatusOK {
			return fmt.Errorf("integrity check failed: %d issue(s)", len(report.Errors))
		}
		return nil
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the report bucket when missing")
	RootCmd.AddCommand(integrityCmd)
}
