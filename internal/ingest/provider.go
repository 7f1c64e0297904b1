package ingest

// Result holds the outcome of an import into the training log.
type Result struct {
	SessionsReceived int `json:"sessions_received"`
	SetsReceived     int `json:"sets_received"`
	WarmupsSkipped   int `json:"warmups_skipped"`
	EntriesInserted  int `json:"entries_inserted"`

	FirstDate string `json:"first_date,omitempty"`
	LastDate  string `json:"last_date,omitempty"`

	Message string `json:"message,omitempty"`
}
