package units

import (
	"testing"

	"github.com/shopspring/decimal"

	"plancost/core/types"
	"plancost/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		unit    string
		wantQty string
		want    Kind
	}{
		{"1 Hour", "1", KindHour},
		{"100 Hours", "100", KindHour},
		{"1/Month", "1", KindMonth},
		{"1 Month", "1", KindMonth},
		{"1 GB/Month", "1", KindGBMonth},
		{"1 GB", "1", KindGBMonth},
		{"10000 Transactions", "10000", KindTransactions},
		{"10,000 Transactions", "10000", KindTransactions},
		{"10K Operations", "10000", KindTransactions},
		{"1M Requests", "1000000", KindTransactions},
	}
	for _, tt := range tests {
		parsed, err := Parse(tt.unit)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.unit, err)
			continue
		}
		if parsed.Kind != tt.want {
			t.Errorf("Parse(%q) kind = %s, want %s", tt.unit, parsed.Kind, tt.want)
		}
		if parsed.Quantity.String() != tt.wantQty {
			t.Errorf("Parse(%q) quantity = %s, want %s", tt.unit, parsed.Quantity, tt.wantQty)
		}
	}
}

func TestParseUnsupported(t *testing.T) {
	for _, unit := range []string{"1 Widget", "", "Quantity"} {
		_, err := Parse(unit)
		if err == nil {
			t.Errorf("Parse(%q) should fail", unit)
			continue
		}
		if !errors.IsType(err, errors.TypeUnsupportedUnit) {
			t.Errorf("Parse(%q) error = %v, want UNSUPPORTED_UNIT", unit, err)
		}
	}
}

func TestToMonthlyQuantityHourlyDefault(t *testing.T) {
	qty, err := ToMonthlyQuantity(types.UsageHint{}, "1 Hour")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !qty.Equal(decimal.NewFromInt(730)) {
		t.Errorf("expected 730-hour convention, got %s", qty)
	}
}

func TestToMonthlyQuantityHourlyExplicit(t *testing.T) {
	usage := types.UsageHint{HoursPerMonth: 100, Instances: 3}
	qty, err := ToMonthlyQuantity(usage, "1 Hour")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !qty.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected 300, got %s", qty)
	}
}

func TestToMonthlyQuantityTransactions(t *testing.T) {
	// 500,000 transactions against a 10,000-transaction meter is 50 units
	usage := types.UsageHint{TransactionsPerMonth: 500000}
	qty, err := ToMonthlyQuantity(usage, "10000 Transactions")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !qty.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected 50, got %s", qty)
	}
}

func TestToMonthlyQuantityMonthlyMeter(t *testing.T) {
	qty, err := ToMonthlyQuantity(types.UsageHint{Instances: 2}, "1/Month")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !qty.Equal(decimal.NewFromInt(2)) {
		t.Errorf("expected instance pass-through of 2, got %s", qty)
	}
}

func TestToMonthlyQuantityGB(t *testing.T) {
	qty, err := ToMonthlyQuantity(types.UsageHint{GBPerMonth: 250}, "1 GB/Month")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !qty.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected 250, got %s", qty)
	}
}

func TestToMonthlyQuantityUnsupported(t *testing.T) {
	_, err := ToMonthlyQuantity(types.UsageHint{}, "1 Widget")
	if err == nil {
		t.Fatal("expected error for unsupported unit")
	}
	if !errors.IsType(err, errors.TypeUnsupportedUnit) {
		t.Errorf("expected UNSUPPORTED_UNIT, got %v", err)
	}
}

func TestConvertible(t *testing.T) {
	if !Convertible("1 Hour") {
		t.Error("'1 Hour' should be convertible")
	}
	if Convertible("1 Widget") {
		t.Error("'1 Widget' should not be convertible")
	}
}
