package plan

import (
	"os"
	"path/filepath"
	"testing"

	"plancost/core/types"
	"plancost/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "plan.json", `{
  "name": "web-tier",
  "baseline": "current",
  "scenarios": [
    {
      "name": "current",
      "resources": [
        {
          "name": "web",
          "category": "compute.vm",
          "region": "westeurope",
          "currency": "EUR",
          "sku_hint": "D4s v5",
          "billing": "PayAsYouGo",
          "os": "Linux",
          "usage": {"hours_per_month": 730, "instances": 2}
        }
      ]
    }
  ]
}`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Name != "web-tier" || p.Baseline != "current" {
		t.Errorf("plan header wrong: %+v", p)
	}
	if len(p.Scenarios) != 1 || len(p.Scenarios[0].Resources) != 1 {
		t.Fatalf("unexpected shape: %+v", p)
	}
	res := p.Scenarios[0].Resources[0]
	if res.Category != "compute.vm" || res.SKUHint != "D4s v5" {
		t.Errorf("resource fields wrong: %+v", res)
	}
	if res.Billing != types.BillingPayAsYouGo || res.OS != types.OSLinux {
		t.Errorf("enum fields wrong: %+v", res)
	}
	if res.Usage.HoursPerMonth != 730 || res.Usage.Instances != 2 {
		t.Errorf("usage wrong: %+v", res.Usage)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "plan.yaml", `name: api
baseline: current
scenarios:
  - name: current
    resources:
      - name: api-func
        category: func.consumption
        region: westeurope
        currency: EUR
        usage:
          transactions_per_month: 500000
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	res := p.Scenarios[0].Resources[0]
	if res.Category != "func.consumption" {
		t.Errorf("category = %q", res.Category)
	}
	if res.Usage.TransactionsPerMonth != 500000 {
		t.Errorf("transactions = %f", res.Usage.TransactionsPerMonth)
	}
	if res.Currency != types.CurrencyEUR {
		t.Errorf("currency = %q", res.Currency)
	}
}

func TestLoadHCL(t *testing.T) {
	path := writeFile(t, "plan.hcl", `name     = "web-tier"
baseline = "current"

scenario "current" {
  resource "web" {
    category = "compute.vm"
    region   = "westeurope"
    currency = "EUR"
    sku      = "D4s v5"
    billing  = "PayAsYouGo"
    os       = "Linux"
    hours    = 400
  }
}

scenario "optimized" {
  resource "web" {
    category = "compute.vm"
    region   = "westeurope"
    currency = "EUR"
    billing  = "Reserved"
  }
}
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(p.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(p.Scenarios))
	}
	res := p.Scenarios[0].Resources[0]
	if res.Name != "web" || res.SKUHint != "D4s v5" || res.OS != types.OSLinux {
		t.Errorf("resource fields wrong: %+v", res)
	}
	if res.Usage.HoursPerMonth != 400 {
		t.Errorf("hours = %f, want 400", res.Usage.HoursPerMonth)
	}
	if p.Scenarios[1].Resources[0].Billing != types.BillingReserved {
		t.Errorf("second scenario billing = %q", p.Scenarios[1].Resources[0].Billing)
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "plan.toml", "baseline = 'current'")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if !errors.IsType(err, errors.TypeInvalidPlan) {
		t.Errorf("error = %v, want INVALID_PLAN", err)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeFile(t, "plan.json", "{broken")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !errors.IsType(err, errors.TypeInvalidPlan) {
		t.Errorf("error = %v, want INVALID_PLAN", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.IsType(err, errors.TypeInvalidPlan) {
		t.Errorf("error = %v, want INVALID_PLAN", err)
	}
}
