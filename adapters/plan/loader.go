// Package plan loads planner output from plan files. JSON and YAML maps
// decode straight into the domain types; HCL supports hand-authored
// plans in a terraform-flavored syntax.
package plan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"

	"plancost/core/types"
	"plancost/internal/errors"
)

// Load reads a plan file, dispatching on extension (.json, .yaml, .yml,
// .hcl). The plan is returned unvalidated; the orchestrator validates.
func Load(path string) (*types.Plan, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSON(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".hcl":
		return loadHCL(path)
	default:
		return nil, errors.InvalidPlan("unsupported plan file extension: " + filepath.Ext(path))
	}
}

func loadJSON(path string) (*types.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInvalidPlan, "reading plan file", err)
	}
	var p types.Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.TypeInvalidPlan, "parsing JSON plan", err)
	}
	return &p, nil
}

func loadYAML(path string) (*types.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInvalidPlan, "reading plan file", err)
	}
	var p types.Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.TypeInvalidPlan, "parsing YAML plan", err)
	}
	return &p, nil
}

// HCL shadow structs; hclsimple decodes blocks, the domain types stay
// free of hcl tags.

type hclPlan struct {
	Name      string        `hcl:"name,optional"`
	Baseline  string        `hcl:"baseline"`
	Scenarios []hclScenario `hcl:"scenario,block"`
}

type hclScenario struct {
	Name      string        `hcl:"name,label"`
	Resources []hclResource `hcl:"resource,block"`
}

type hclResource struct {
	Name         string  `hcl:"name,label"`
	Category     string  `hcl:"category"`
	Region       string  `hcl:"region"`
	Currency     string  `hcl:"currency,optional"`
	SKU          string  `hcl:"sku,optional"`
	Billing      string  `hcl:"billing,optional"`
	OS           string  `hcl:"os,optional"`
	Hours        float64 `hcl:"hours,optional"`
	Transactions float64 `hcl:"transactions,optional"`
	GB           float64 `hcl:"gb,optional"`
	Instances    float64 `hcl:"instances,optional"`
}

func loadHCL(path string) (*types.Plan, error) {
	var raw hclPlan
	if err := hclsimple.DecodeFile(path, nil, &raw); err != nil {
		return nil, errors.Wrap(errors.TypeInvalidPlan, "parsing HCL plan", err)
	}

	p := &types.Plan{Name: raw.Name, Baseline: raw.Baseline}
	for _, sc := range raw.Scenarios {
		scenario := types.Scenario{Name: sc.Name}
		for _, r := range sc.Resources {
			scenario.Resources = append(scenario.Resources, types.ResourceDescriptor{
				Name:     r.Name,
				Category: r.Category,
				Region:   r.Region,
				Currency: types.Currency(r.Currency),
				SKUHint:  r.SKU,
				Billing:  types.BillingModel(r.Billing),
				OS:       types.OSHint(r.OS),
				Usage: types.UsageHint{
					HoursPerMonth:        r.Hours,
					TransactionsPerMonth: r.Transactions,
					GBPerMonth:           r.GB,
					Instances:            r.Instances,
				},
			})
		}
		p.Scenarios = append(p.Scenarios, scenario)
	}
	return p, nil
}
