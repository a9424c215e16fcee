package app

import (
	"encoding/json"
	"time"

	"github.com/raysh454/respdiff/internal/compare"
	"github.com/raysh454/respdiff/internal/store"
	"github.com/raysh454/respdiff/internal/webclient"
)

// ComparisonRequest describes one source/target comparison.
type ComparisonRequest struct {
	Method       string                `json:"method" example:"get"`
	SourceURL    string                `json:"source_url" example:"http://localhost:9001/api/items"`
	TargetURL    string                `json:"target_url" example:"http://localhost:9002/api/items"`
	SourceParams map[string]any        `json:"source_params,omitempty"`
	TargetParams map[string]any        `json:"target_params,omitempty"`
	SourceBody   *string               `json:"source_body,omitempty" example:"{\"key\": \"value\"}"`
	TargetBody   *string               `json:"target_body,omitempty"`
	SourceAuth   *webclient.AuthConfig `json:"source_auth,omitempty"`
	TargetAuth   *webclient.AuthConfig `json:"target_auth,omitempty"`
}

// ComparisonResult is returned for a successful run.
type ComparisonResult struct {
	Status         string          `json:"status" example:"success"`
	ID             int64           `json:"id" example:"42"`
	DiffSummary    string          `json:"diff_summary"`
	Metrics        compare.Metrics `json:"metrics" swaggertype:"object"`
	SourceResponse string          `json:"source_response"`
	TargetResponse string          `json:"target_response"`
	ContentType1   *string         `json:"content_type1" example:"application/json"`
	ContentType2   *string         `json:"content_type2" example:"application/json"`
}

// ComparisonHistoryItem is the read-side view of a stored record.
type ComparisonHistoryItem struct {
	ID             int64           `json:"id" example:"42"`
	CreatedAt      time.Time       `json:"created_at"`
	Metrics        json.RawMessage `json:"metrics" swaggertype:"object"`
	Differences    string          `json:"differences"`
	SourceResponse string          `json:"source_response"`
	TargetResponse string          `json:"target_response"`
	ContentType1   *string         `json:"content_type1"`
	ContentType2   *string         `json:"content_type2"`
}

// HistoryItemFromRecord converts a stored record. Metrics that are not valid
// JSON are carried as a JSON string holding the raw text.
func HistoryItemFromRecord(rec *store.Record) ComparisonHistoryItem {
	metrics := json.RawMessage(rec.Metrics)
	if !json.Valid(metrics) {
		quoted, _ := json.Marshal(rec.Metrics)
		metrics = quoted
	}
	return ComparisonHistoryItem{
		ID:             rec.ID,
		CreatedAt:      rec.CreatedAt,
		Metrics:        metrics,
		Differences:    rec.Differences,
		SourceResponse: rec.SourceResponse,
		TargetResponse: rec.TargetResponse,
		ContentType1:   rec.ContentType1,
		ContentType2:   rec.ContentType2,
	}
}

// ComparisonEvent is pushed to subscribers after each stored comparison.
type ComparisonEvent struct {
	Type      string                `json:"type"`
	Data      ComparisonHistoryItem `json:"data"`
	Timestamp time.Time             `json:"timestamp"`
}

// EventComparison is the ComparisonEvent type for a new record.
const EventComparison = "comparison"
