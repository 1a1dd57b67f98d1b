package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/marktwatch/internal/dates"
)

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "Print the sample dates a range would cover",
	Long: `Print the sample dates (the 1st and 15th of each month, plus the
range bounds) that a scrape over the given range would fetch, one per
line. Useful for estimating run length before committing to the
request delay.`,
	RunE: runDates,
}

func init() {
	rootCmd.AddCommand(datesCmd)

	flags := datesCmd.Flags()
	flags.String("date-from", "2024-10-01", "start date (YYYY-MM-DD)")
	flags.String("date-to", "2025-10-01", "end date (YYYY-MM-DD)")
}

func runDates(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("date-from")
	to, _ := cmd.Flags().GetString("date-to")

	seq, err := dates.Range(from, to)
	if err != nil {
		logError("%v", err)
		return err
	}
	for _, d := range seq {
		fmt.Fprintln(cmd.OutOrStdout(), d.Format(dates.Format))
	}
	return nil
}
