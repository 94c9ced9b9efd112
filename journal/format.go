package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatSubmission renders one record for the CLI.
func FormatSubmission(r SubmissionRecord) string {
	status := "ok order_id=" + r.OrderID
	if r.Error != "" {
		status = "REJECTED " + r.Error
	}
	return fmt.Sprintf("%s  %s %-8s %5s %8.0f  entry=%.3f sl=%.3f tp=%.3f  %s",
		r.ID, r.Time.UTC().Format(time.RFC3339), r.Instrument, r.Side, r.Units,
		r.EntryPrice, r.StopLoss, r.TakeProfit, status)
}

// FormatSubmissions renders a list of records, one per line.
func FormatSubmissions(recs []SubmissionRecord) string {
	if len(recs) == 0 {
		return "no submissions"
	}
	lines := make([]string, 0, len(recs))
	for _, r := range recs {
		lines = append(lines, FormatSubmission(r))
	}
	return strings.Join(lines, "\n")
}
