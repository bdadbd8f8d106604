package normalize

import (
	"reflect"
	"testing"

	"plancost/internal/errors"
)

func TestNormalizeKnownCategory(t *testing.T) {
	service, hints, err := Normalize("compute.vm", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if service != "Virtual Machines" {
		t.Errorf("expected service 'Virtual Machines', got %q", service)
	}
	if len(hints) == 0 {
		t.Error("expected default hint tokens for compute.vm")
	}
}

func TestNormalizeUnknownCategory(t *testing.T) {
	_, _, err := Normalize("quantum.flux", "")
	if err == nil {
		t.Fatal("expected error for unmapped category")
	}
	if !errors.IsType(err, errors.TypeUnknownCategory) {
		t.Errorf("expected UNKNOWN_CATEGORY, got %v", err)
	}
}

func TestNormalizeMergesSkuText(t *testing.T) {
	_, hints, err := Normalize("compute.vm", "Standard_D4s_v5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]bool{"standard": true, "d4s": true, "v5": true}
	found := 0
	for _, h := range hints {
		if want[h] {
			found++
		}
	}
	if found != len(want) {
		t.Errorf("expected sku fragments %v in hints, got %v", want, hints)
	}
}

func TestNormalizeDeterministicTokens(t *testing.T) {
	_, first, _ := Normalize("compute.vm", "D4s v5 d4s V5")
	_, second, _ := Normalize("compute.vm", "D4s v5 d4s V5")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("token sets differ between calls: %v vs %v", first, second)
	}
	seen := map[string]bool{}
	for _, h := range first {
		if seen[h] {
			t.Errorf("duplicate token %q in %v", h, first)
		}
		seen[h] = true
	}
}

func TestNormalizeCaseInsensitiveCategory(t *testing.T) {
	service, _, err := Normalize("  Compute.VM ", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if service != "Virtual Machines" {
		t.Errorf("expected 'Virtual Machines', got %q", service)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Standard_D4s_v5", []string{"standard", "d4s", "v5"}},
		{"Hot LRS", []string{"hot", "lrs"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := Tokenize(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestCategoriesSorted(t *testing.T) {
	cats := Categories()
	if len(cats) == 0 {
		t.Fatal("expected a non-empty category table")
	}
	for i := 1; i < len(cats); i++ {
		if cats[i-1] >= cats[i] {
			t.Errorf("categories not sorted: %q before %q", cats[i-1], cats[i])
		}
	}
}
