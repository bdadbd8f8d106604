// Package types - Plan input types
package types

// BillingModel represents the requested billing arrangement
type BillingModel string

const (
	BillingPayAsYouGo BillingModel = "PayAsYouGo"
	BillingReserved   BillingModel = "Reserved"
)

// String returns the string representation
func (b BillingModel) String() string {
	return string(b)
}

// OSHint is an optional operating system hint for compute resources
type OSHint string

const (
	OSNone    OSHint = ""
	OSLinux   OSHint = "Linux"
	OSWindows OSHint = "Windows"
)

// UsageHint carries the requested monthly usage of a resource.
// Quantities are plain numbers; money stays decimal.
type UsageHint struct {
	// HoursPerMonth is usage for hourly meters (0 means the monthly convention)
	HoursPerMonth float64 `json:"hours_per_month,omitempty" yaml:"hours_per_month,omitempty"`

	// TransactionsPerMonth is usage for transaction/request meters
	TransactionsPerMonth float64 `json:"transactions_per_month,omitempty" yaml:"transactions_per_month,omitempty"`

	// GBPerMonth is usage for storage and transfer meters
	GBPerMonth float64 `json:"gb_per_month,omitempty" yaml:"gb_per_month,omitempty"`

	// Instances is the resource count (0 means 1)
	Instances float64 `json:"instances,omitempty" yaml:"instances,omitempty"`
}

// ResourceDescriptor is one planned resource. Owned by the plan and
// read-only to the pricing core.
type ResourceDescriptor struct {
	// Name is a human-readable resource label
	Name string `json:"name" yaml:"name"`

	// Category is the logical resource category (e.g. compute.vm)
	Category string `json:"category" yaml:"category"`

	// Region is the vendor region name (e.g. westeurope)
	Region string `json:"region" yaml:"region"`

	// Currency is the pricing currency; empty falls back to the configured default
	Currency Currency `json:"currency,omitempty" yaml:"currency,omitempty"`

	// SKUHint is free-text keyword input biasing SKU matching
	SKUHint string `json:"sku_hint,omitempty" yaml:"sku_hint,omitempty"`

	// Billing is the requested billing model
	Billing BillingModel `json:"billing,omitempty" yaml:"billing,omitempty"`

	// OS is an optional operating system hint
	OS OSHint `json:"os,omitempty" yaml:"os,omitempty"`

	// Usage carries quantity hints
	Usage UsageHint `json:"usage,omitempty" yaml:"usage,omitempty"`
}

// Scenario is a named sequence of planned resources
type Scenario struct {
	Name      string               `json:"name" yaml:"name"`
	Resources []ResourceDescriptor `json:"resources" yaml:"resources"`
}

// Plan is the planner collaborator's output: one or more scenarios,
// one of which is the baseline for delta computation.
type Plan struct {
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Baseline  string     `json:"baseline" yaml:"baseline"`
	Scenarios []Scenario `json:"scenarios" yaml:"scenarios"`
}
