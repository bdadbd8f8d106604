// Package units converts vendor billed units and requested resource usage
// into a common monthly-equivalent basis.
package units

import (
	"strings"

	"github.com/shopspring/decimal"

	"plancost/core/types"
	"plancost/internal/errors"
)

// HoursPerMonth is the monthly-equivalent convention for hourly meters
var HoursPerMonth = decimal.NewFromInt(730)

// Kind classifies a parsed billed unit
type Kind int

const (
	KindUnknown Kind = iota
	KindHour
	KindMonth
	KindGBMonth
	KindTransactions
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindHour:
		return "hour"
	case KindMonth:
		return "month"
	case KindGBMonth:
		return "gb-month"
	case KindTransactions:
		return "transactions"
	default:
		return "unknown"
	}
}

// ParsedUnit is a vendor unit string decomposed into quantity and kind.
// "10000 Transactions" parses to quantity 10000, kind transactions.
type ParsedUnit struct {
	Quantity decimal.Decimal
	Kind     Kind
	Raw      string
}

// Parse decomposes a vendor unit-of-measure string
func Parse(unitOfMeasure string) (ParsedUnit, error) {
	raw := unitOfMeasure
	s := strings.ToLower(strings.TrimSpace(unitOfMeasure))
	if s == "" {
		return ParsedUnit{Raw: raw}, errors.UnsupportedUnit(unitOfMeasure)
	}

	qty, rest := splitQuantity(s)

	kind := KindUnknown
	switch {
	case strings.Contains(rest, "gb") && (strings.Contains(rest, "month") || strings.Contains(rest, "/mo")):
		kind = KindGBMonth
	case strings.Contains(rest, "hour") || rest == "hr" || rest == "hrs":
		kind = KindHour
	case strings.Contains(rest, "month"):
		kind = KindMonth
	case strings.Contains(rest, "gb"):
		// Flat per-GB meters are billed monthly in practice
		kind = KindGBMonth
	case strings.Contains(rest, "transaction") || strings.Contains(rest, "request") ||
		strings.Contains(rest, "operation") || strings.Contains(rest, "api call") ||
		strings.Contains(rest, "execution"):
		kind = KindTransactions
	}

	if kind == KindUnknown {
		return ParsedUnit{Quantity: qty, Raw: raw}, errors.UnsupportedUnit(unitOfMeasure)
	}

	return ParsedUnit{Quantity: qty, Kind: kind, Raw: raw}, nil
}

// splitQuantity peels a leading quantity off a unit string. Commas and
// K/M multiplier suffixes are tolerated ("10,000", "10K", "1M").
func splitQuantity(s string) (decimal.Decimal, string) {
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == ',' || s[i] == '.') {
		i++
	}
	numText := strings.ReplaceAll(s[:i], ",", "")
	rest := strings.TrimLeft(s[i:], " /")

	if numText == "" {
		return decimal.NewFromInt(1), rest
	}
	qty, err := decimal.NewFromString(numText)
	if err != nil || qty.IsZero() {
		return decimal.NewFromInt(1), rest
	}

	switch {
	case strings.HasPrefix(rest, "k "):
		qty = qty.Mul(decimal.NewFromInt(1000))
		rest = strings.TrimPrefix(rest, "k ")
	case strings.HasPrefix(rest, "m "):
		qty = qty.Mul(decimal.NewFromInt(1000000))
		rest = strings.TrimPrefix(rest, "m ")
	}
	return qty, rest
}

// Convertible reports whether a unit string can be converted to a
// monthly basis
func Convertible(unitOfMeasure string) bool {
	_, err := Parse(unitOfMeasure)
	return err == nil
}

// ToMonthlyQuantity converts a resource's requested usage into the billed
// unit's monthly-equivalent quantity. Hourly meters use the 730-hour
// convention when no explicit hours are given; monthly meters pass the
// instance count through.
func ToMonthlyQuantity(usage types.UsageHint, unitOfMeasure string) (decimal.Decimal, error) {
	parsed, err := Parse(unitOfMeasure)
	if err != nil {
		return decimal.Zero, err
	}

	instances := decimal.NewFromFloat(usage.Instances)
	if instances.IsZero() {
		instances = decimal.NewFromInt(1)
	}

	switch parsed.Kind {
	case KindHour:
		hours := decimal.NewFromFloat(usage.HoursPerMonth)
		if hours.IsZero() {
			hours = HoursPerMonth
		}
		return hours.Mul(instances).Div(parsed.Quantity), nil

	case KindMonth:
		return instances.Div(parsed.Quantity), nil

	case KindGBMonth:
		return decimal.NewFromFloat(usage.GBPerMonth).Div(parsed.Quantity), nil

	case KindTransactions:
		return decimal.NewFromFloat(usage.TransactionsPerMonth).Div(parsed.Quantity), nil

	default:
		return decimal.Zero, errors.UnsupportedUnit(unitOfMeasure)
	}
}
