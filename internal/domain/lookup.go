package domain

import "time"

// Lookup is the audit record of one fetch. It never carries the API key or
// the response body. The row id is assigned by the database and not read back.
type Lookup struct {
	Zone       string    `db:"zone"`
	Endpoint   string    `db:"endpoint"`
	Succeeded  bool      `db:"succeeded"`
	StatusCode int       `db:"status_code"`
	DurationMS int64     `db:"duration_ms"`
	LookedUpAt time.Time `db:"looked_up_at"`
}
