package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"country-api/core/database"

	"github.com/spf13/cobra"
)

// migrateCmd applies pending migrations and prints the resulting schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Applies every pending migration for the configured driver and prints
the resulting layout of the countries table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		cols, err := database.GetTableColumns(a.db, "countries")
		if err != nil {
			return fmt.Errorf("failed to inspect schema: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "COLUMN\tTYPE\tNULL\tKEY")
		for _, c := range cols {
			null := "NO"
			if c.Nullable() {
				null = "YES"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Field, c.Type, null, c.Key)
		}
		return w.Flush()
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
