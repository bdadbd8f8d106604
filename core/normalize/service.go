// Package normalize maps logical resource categories to catalog service
// identifiers and SKU-matching hint tokens.
package normalize

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"plancost/internal/errors"
)

// TableVersion identifies the category lookup table revision
const TableVersion = "2026-08"

// Mapping binds a category to a catalog service name and default hints
type Mapping struct {
	// Service is the vendor catalog serviceName
	Service string

	// Hints are default SKU-matching keyword fragments
	Hints []string
}

// categoryTable is the closed, versioned category lookup table.
// Service names follow the vendor retail price catalog.
var categoryTable = map[string]Mapping{
	"compute.vm":        {Service: "Virtual Machines", Hints: []string{"virtual", "machines"}},
	"compute.disk":      {Service: "Storage", Hints: []string{"managed", "disk"}},
	"storage.blob":      {Service: "Storage", Hints: []string{"blob"}},
	"storage.files":     {Service: "Storage", Hints: []string{"files"}},
	"db.sql":            {Service: "SQL Database", Hints: []string{"sql", "database"}},
	"db.postgres":       {Service: "Azure Database for PostgreSQL", Hints: []string{"postgresql"}},
	"db.cosmos":         {Service: "Azure Cosmos DB", Hints: []string{"cosmos"}},
	"cache.redis":       {Service: "Redis Cache", Hints: []string{"cache"}},
	"network.lb":        {Service: "Load Balancer", Hints: []string{"load", "balancer"}},
	"network.appgw":     {Service: "Application Gateway", Hints: []string{"gateway"}},
	"network.bandwidth": {Service: "Bandwidth", Hints: []string{"data", "transfer"}},
	"app.service":       {Service: "Azure App Service", Hints: []string{"plan"}},
	"func.consumption":  {Service: "Functions", Hints: []string{"execution"}},
	"k8s.aks":           {Service: "Azure Kubernetes Service", Hints: []string{"cluster"}},
	"monitor.logs":      {Service: "Log Analytics", Hints: []string{"data", "ingestion"}},
	"vault.keys":        {Service: "Key Vault", Hints: []string{"operations"}},
}

// Categories returns the known categories in sorted order
func Categories() []string {
	cats := lo.Keys(categoryTable)
	sort.Strings(cats)
	return cats
}

// Normalize maps a category to its catalog service name and the hint
// token set derived from the table defaults plus the resource's explicit
// SKU text. Tokens are lowercase, de-duplicated, and sorted so the same
// input always yields the same vocabulary.
func Normalize(category, skuText string) (string, []string, error) {
	mapping, ok := categoryTable[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return "", nil, errors.UnknownCategory(category)
	}

	tokens := append([]string{}, mapping.Hints...)
	tokens = append(tokens, Tokenize(skuText)...)
	tokens = lo.Uniq(lo.Map(tokens, func(t string, _ int) string {
		return strings.ToLower(t)
	}))
	sort.Strings(tokens)

	return mapping.Service, tokens, nil
}

// Tokenize splits free text into lowercase word fragments
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		return !isAlnum
	})
}
