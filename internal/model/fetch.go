package model

import "time"

// FetchEntry is one row of the fetch diagnostics journal: a single page
// request against the notification source and how it went.
type FetchEntry struct {
	ID          string    `json:"id" db:"id"`
	Filter      string    `json:"filter" db:"filter"`
	Page        int       `json:"page" db:"page"`
	RecordCount int       `json:"record_count" db:"record_count"`
	DurationMs  int64     `json:"duration_ms" db:"duration_ms"`
	Error       string    `json:"error,omitempty" db:"error"`
	FetchedAt   time.Time `json:"fetched_at" db:"fetched_at"`
}

// Failed reports whether the fetch ended in an error.
func (e FetchEntry) Failed() bool { return e.Error != "" }
