// Package enrich - Debug trace contract
package enrich

import (
	"time"

	"github.com/shopspring/decimal"

	"plancost/core/types"
)

// TraceCandidate is one scored candidate in a trace record
type TraceCandidate struct {
	ProductName string          `json:"product_name"`
	SkuName     string          `json:"sku_name"`
	MeterName   string          `json:"meter_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Score       float64         `json:"score"`
}

// TraceRecord is one per-resource scoring snapshot. Emitting it must
// never affect pricing control flow.
type TraceRecord struct {
	RunID          string           `json:"run_id,omitempty"`
	At             time.Time        `json:"at"`
	Scenario       string           `json:"scenario"`
	Resource       string           `json:"resource"`
	Category       string           `json:"category"`
	CandidateCount int              `json:"candidate_count"`
	Top            []TraceCandidate `json:"top,omitempty"`
	Winner         *TraceCandidate  `json:"winner,omitempty"`
	Score          float64          `json:"score"`
	Status         types.Status     `json:"status"`
	CacheHit       bool             `json:"cache_hit"`
	Note           string           `json:"note,omitempty"`
}

// Tracer receives per-resource scoring snapshots
type Tracer interface {
	Trace(rec TraceRecord)
}

// NopTracer discards all records
type NopTracer struct{}

// Trace discards the record
func (NopTracer) Trace(TraceRecord) {}
