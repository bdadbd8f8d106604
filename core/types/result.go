// Package types - Pricing outcome types
package types

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status classifies a pricing outcome
type Status string

const (
	// StatusPriced is a confident match with a non-null record and cost
	StatusPriced Status = "priced"

	// StatusEstimated is a low-confidence or unit-inferred result with a note
	StatusEstimated Status = "estimated"

	// StatusUnpriced carries neither cost nor record
	StatusUnpriced Status = "unpriced"
)

// PricedResource is a resource descriptor plus its pricing outcome
type PricedResource struct {
	// Resource is the original descriptor
	Resource ResourceDescriptor `json:"resource"`

	// Record is the matched catalog entry, nil when unpriced
	Record *PriceRecord `json:"record,omitempty"`

	// Score is the match confidence
	Score float64 `json:"score"`

	// UnitPrice is the matched record's price
	UnitPrice decimal.Decimal `json:"unit_price"`

	// UnitOfMeasure is the matched record's billed unit
	UnitOfMeasure string `json:"unit_of_measure,omitempty"`

	// MonthlyCost is unit price times monthly-equivalent quantity
	MonthlyCost decimal.Decimal `json:"monthly_cost"`

	// YearlyCost is twelve times the monthly cost
	YearlyCost decimal.Decimal `json:"yearly_cost"`

	// Status classifies the outcome
	Status Status `json:"status"`

	// Note explains estimated and unpriced outcomes
	Note string `json:"note,omitempty"`
}

// ScenarioTotals aggregates a scenario's priced resources.
// Priced and estimated sums are kept separate so a reader can judge
// confidence in the figures.
type ScenarioTotals struct {
	PricedMonthly    decimal.Decimal `json:"priced_monthly"`
	EstimatedMonthly decimal.Decimal `json:"estimated_monthly"`
	CombinedMonthly  decimal.Decimal `json:"combined_monthly"`

	// DeltaVsBaseline is combined total minus the baseline scenario's
	// combined total; zero for the baseline itself
	DeltaVsBaseline decimal.Decimal `json:"delta_vs_baseline"`

	PricedCount    int `json:"priced_count"`
	EstimatedCount int `json:"estimated_count"`
	UnpricedCount  int `json:"unpriced_count"`
}

// EnrichedScenario is a scenario with pricing outcomes and totals
type EnrichedScenario struct {
	Name      string           `json:"name"`
	Baseline  bool             `json:"baseline"`
	Resources []PricedResource `json:"resources"`
	Totals    ScenarioTotals   `json:"totals"`
}

// EnrichedPlan is the structure handed to the reporting collaborator
type EnrichedPlan struct {
	Name        string             `json:"name,omitempty"`
	Baseline    string             `json:"baseline"`
	Scenarios   []EnrichedScenario `json:"scenarios"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// CacheKey identifies a memoized best-price selection
type CacheKey struct {
	Service  string       `json:"service"`
	Hints    string       `json:"hints"`
	Region   string       `json:"region"`
	Currency Currency     `json:"currency"`
	Category string       `json:"category"`
	Billing  BillingModel `json:"billing"`
	OS       OSHint       `json:"os"`
}

// NewCacheKey derives the cache key for a resource's normalized lookup
func NewCacheKey(res ResourceDescriptor, service string, hints []string) CacheKey {
	return CacheKey{
		Service:  service,
		Hints:    strings.Join(hints, " "),
		Region:   res.Region,
		Currency: res.Currency,
		Category: res.Category,
		Billing:  res.Billing,
		OS:       res.OS,
	}
}

// String returns a stable representation for logging
func (k CacheKey) String() string {
	return strings.Join([]string{
		k.Service, k.Hints, k.Region, string(k.Currency),
		k.Category, string(k.Billing), string(k.OS),
	}, "|")
}

// CacheEntry is a memoized winner for a cache key
type CacheEntry struct {
	// Record is the chosen price record
	Record PriceRecord `json:"record"`

	// Score is the score the record won with
	Score float64 `json:"score"`

	// SelectedAt is when the selection was made
	SelectedAt time.Time `json:"selected_at"`
}
