package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	w    *csv.Writer
	file *os.File
}

func NewCSV(path string) (*CSVJournal, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(file)
	if err := w.Write([]string{"id", "time", "instrument", "side", "units", "entry_price", "stop_loss", "take_profit", "order_id", "error"}); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{w: w, file: file}, nil
}

func (j *CSVJournal) RecordSubmission(r SubmissionRecord) error {
	err := j.w.Write([]string{
		r.ID,
		r.Time.Format(time.RFC3339),
		r.Instrument,
		r.Side,
		f(r.Units),
		f(r.EntryPrice),
		f(r.StopLoss),
		f(r.TakeProfit),
		r.OrderID,
		r.Error,
	})
	if err != nil {
		return err
	}

	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.file.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 3, 64)
}
