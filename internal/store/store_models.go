package store

import "time"

// DefaultRecentLimit is used by FetchRecent when limit <= 0.
const DefaultRecentLimit = 10

// NewRecord is what the orchestrator hands over for persistence.
type NewRecord struct {
	SourceResponse string
	TargetResponse string
	Differences    string
	Metrics        string // JSON encoded metrics
	ContentType1   *string
	ContentType2   *string
}

// Record is one persisted comparison. Records are never updated.
type Record struct {
	ID             int64
	SourceResponse string
	TargetResponse string
	Differences    string
	Metrics        string
	ContentType1   *string
	ContentType2   *string
	CreatedAt      time.Time
}
