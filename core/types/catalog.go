// Package types defines core domain types shared across all layers.
// This package contains no business logic beyond small accessors.
package types

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// PriceType values observed in vendor catalogs
const (
	PriceTypeConsumption = "Consumption"
	PriceTypeReservation = "Reservation"
)

// PriceRecord is one vendor catalog entry. Records are immutable once
// fetched; identity is the tuple of all fields.
type PriceRecord struct {
	ServiceName        string          `json:"serviceName"`
	ServiceFamily      string          `json:"serviceFamily"`
	ProductName        string          `json:"productName"`
	SkuName            string          `json:"skuName"`
	MeterName          string          `json:"meterName"`
	ArmSkuName         string          `json:"armSkuName,omitempty"`
	ArmRegionName      string          `json:"armRegionName"`
	UnitOfMeasure      string          `json:"unitOfMeasure"`
	UnitPrice          decimal.Decimal `json:"unitPrice"`
	CurrencyCode       string          `json:"currencyCode"`
	PriceType          string          `json:"priceType"`
	EffectiveStartDate time.Time       `json:"effectiveStartDate"`
}

// SearchText returns the lowercase concatenation of the name fields
// that SKU hint tokens are matched against.
func (r PriceRecord) SearchText() string {
	return strings.ToLower(r.ProductName + " " + r.SkuName + " " + r.MeterName + " " + r.ArmSkuName)
}

// CatalogKey addresses one persisted catalog
type CatalogKey struct {
	Service  string   `json:"service"`
	Region   string   `json:"region"`
	Currency Currency `json:"currency"`
}

// String returns a human-readable key representation
func (k CatalogKey) String() string {
	return k.Service + "/" + k.Region + "/" + string(k.Currency)
}

// Encode returns a stable, filesystem-safe encoding of the key
func (k CatalogKey) Encode() string {
	enc := func(s string) string {
		var b strings.Builder
		for _, r := range strings.ToLower(s) {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
				b.WriteRune(r)
			default:
				b.WriteByte('_')
			}
		}
		return b.String()
	}
	return enc(k.Service) + "__" + enc(k.Region) + "__" + enc(string(k.Currency))
}

// CatalogMeta describes one persisted catalog record set
type CatalogMeta struct {
	// Key identifies the catalog
	Key CatalogKey `json:"key"`

	// FetchedAt is when the records were fetched
	FetchedAt time.Time `json:"fetched_at"`

	// RecordCount is the number of persisted records
	RecordCount int `json:"record_count"`

	// Warnings holds non-fatal fetch problems (zero results, failed pages)
	Warnings []string `json:"warnings,omitempty"`
}

// CatalogSet is an ordered sequence of price records for one key.
// An empty set is a valid, cacheable outcome, not an error.
type CatalogSet struct {
	Meta    CatalogMeta   `json:"meta"`
	Records []PriceRecord `json:"records"`
}
