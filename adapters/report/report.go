// Package report renders an enriched plan for humans and machines.
// Priced, estimated, and unpriced figures stay distinguishable so a
// reader can judge confidence in the totals.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"plancost/core/types"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable CLI table
	FormatTable Format = "table"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the enriched plan
	Render(w io.Writer, plan *types.EnrichedPlan) error
}

// New returns the formatter for a format name
func New(format string) (Formatter, error) {
	switch Format(format) {
	case FormatTable, "":
		return &TableFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// JSONFormatter renders the whole enriched plan as indented JSON
type JSONFormatter struct{}

// Format returns the format type
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render writes the enriched plan as JSON
func (f *JSONFormatter) Render(w io.Writer, plan *types.EnrichedPlan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// TableFormatter renders per-scenario tables with totals
type TableFormatter struct{}

// Format returns the format type
func (f *TableFormatter) Format() Format { return FormatTable }

// Render writes one table per scenario plus a totals footer
func (f *TableFormatter) Render(w io.Writer, plan *types.EnrichedPlan) error {
	for _, sc := range plan.Scenarios {
		label := sc.Name
		if sc.Baseline {
			label += " (baseline)"
		}
		fmt.Fprintf(w, "Scenario: %s\n", label)

		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RESOURCE\tCATEGORY\tSTATUS\tUNIT\tUNIT PRICE\tMONTHLY\tNOTE")
		for _, pr := range sc.Resources {
			unit, price, monthly := "-", "-", "-"
			if pr.Record != nil {
				unit = pr.UnitOfMeasure
				price = pr.UnitPrice.StringFixed(4)
				monthly = pr.MonthlyCost.StringFixed(2)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				pr.Resource.Name, pr.Resource.Category, pr.Status,
				unit, price, monthly, pr.Note)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		t := sc.Totals
		fmt.Fprintf(w, "  priced: %s  estimated: %s  combined: %s",
			t.PricedMonthly.StringFixed(2),
			t.EstimatedMonthly.StringFixed(2),
			t.CombinedMonthly.StringFixed(2))
		if !sc.Baseline {
			fmt.Fprintf(w, "  delta vs %s: %s", plan.Baseline, t.DeltaVsBaseline.StringFixed(2))
		}
		if t.UnpricedCount > 0 {
			fmt.Fprintf(w, "  (%d unpriced)", t.UnpricedCount)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w)
	}
	return nil
}
