// Package journal records order submissions for operational audit. It does
// not track fills, exits, or P/L; positions belong to the broker.
package journal

import "time"

// SubmissionRecord is one attempted bracket order submission, successful
// or rejected.
type SubmissionRecord struct {
	ID         string // ULID, time-sortable
	Time       time.Time
	Instrument string
	Side       string
	Units      float64
	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	OrderID    string // broker order id, empty on rejection
	Error      string // broker error, empty on success
}

type Journal interface {
	RecordSubmission(SubmissionRecord) error
	Close() error
}

// Nop discards all records. Used when journaling is disabled.
type Nop struct{}

func (Nop) RecordSubmission(SubmissionRecord) error { return nil }
func (Nop) Close() error                            { return nil }
