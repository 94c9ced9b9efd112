package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"livetrader/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the order-submission journal",
	Long: `Inspect recorded order submissions from a SQLite journal.

Examples:
  livetrader journal --db ./livetrader.sqlite today
  livetrader journal --db ./livetrader.sqlite day 2026-03-02
  livetrader journal --db ./livetrader.sqlite get 01JD...`,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.PersistentFlags().StringVar(&journalDBPath, "db", "./livetrader.sqlite", "path to SQLite journal DB")

	journalCmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "List submissions from today (UTC)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDay(time.Now().UTC().Format("2006-01-02"))
		},
	})

	journalCmd.AddCommand(&cobra.Command{
		Use:   "day YYYY-MM-DD",
		Short: "List submissions from a given UTC day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDay(args[0])
		},
	})

	journalCmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "Show one submission by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.NewSQLite(journalDBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer j.Close()

			rec, err := j.GetSubmission(args[0])
			if err != nil {
				return err
			}
			fmt.Println(journal.FormatSubmission(rec))
			return nil
		},
	})
}

func listDay(day string) error {
	start, end, err := dayBounds(day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListSubmissionsBetween(start, end)
	if err != nil {
		return fmt.Errorf("query submissions: %w", err)
	}
	fmt.Println(journal.FormatSubmissions(recs))
	return nil
}

func dayBounds(day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour), nil
}
