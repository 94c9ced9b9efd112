package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordSubmission(r SubmissionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO submissions
		(id, time, instrument, side, units, entry_price, stop_loss, take_profit, order_id, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Time, r.Instrument, r.Side, r.Units,
		r.EntryPrice, r.StopLoss, r.TakeProfit, r.OrderID, r.Error,
	)
	return err
}

// GetSubmission looks a record up by its ULID.
func (j *SQLiteJournal) GetSubmission(id string) (SubmissionRecord, error) {
	row := j.db.QueryRow(`
		SELECT id, time, instrument, side, units, entry_price, stop_loss, take_profit, order_id, error
		FROM submissions WHERE id = ?`, id)

	var r SubmissionRecord
	err := row.Scan(&r.ID, &r.Time, &r.Instrument, &r.Side, &r.Units,
		&r.EntryPrice, &r.StopLoss, &r.TakeProfit, &r.OrderID, &r.Error)
	if err == sql.ErrNoRows {
		return r, fmt.Errorf("submission %q not found", id)
	}
	return r, err
}

// ListSubmissionsBetween returns records submitted in [start, end), oldest
// first.
func (j *SQLiteJournal) ListSubmissionsBetween(start, end time.Time) ([]SubmissionRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, time, instrument, side, units, entry_price, stop_loss, take_profit, order_id, error
		FROM submissions WHERE time >= ? AND time < ? ORDER BY time`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []SubmissionRecord
	for rows.Next() {
		var r SubmissionRecord
		if err := rows.Scan(&r.ID, &r.Time, &r.Instrument, &r.Side, &r.Units,
			&r.EntryPrice, &r.StopLoss, &r.TakeProfit, &r.OrderID, &r.Error); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
