// Package enrich turns a plan of abstract resources into priced line
// items. Every pricing failure degrades to a per-resource status; a run
// always completes and produces a plan artifact. Only malformed plan
// input terminates a run.
package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"plancost/core/normalize"
	"plancost/core/scoring"
	"plancost/core/types"
	"plancost/core/units"
	"plancost/internal/errors"
	"plancost/internal/logging"
)

// CatalogStore loads or fills the catalog for a key
type CatalogStore interface {
	Ensure(ctx context.Context, key types.CatalogKey, forceRefresh bool) (*types.CatalogSet, error)
}

// PriceCache memoizes best-price selections between runs
type PriceCache interface {
	Lookup(key types.CacheKey) (types.CacheEntry, bool)
	Put(key types.CacheKey, entry types.CacheEntry)
	InvalidateCatalog(service, region string, currency types.Currency)
}

// Options configures an enrichment run
type Options struct {
	// ForceRefresh re-fetches every catalog touched by the run and
	// invalidates cache entries for those keys
	ForceRefresh bool

	// BypassCache forces a re-score for every resource
	BypassCache bool

	// ConfidenceFloor overrides the scoring default when non-zero
	ConfidenceFloor float64

	// DefaultCurrency is used for resources that omit one
	DefaultCurrency types.Currency
}

// Orchestrator drives per-resource enrichment and plan aggregation.
// Stores are injected, never ambient, so tests run on in-memory fakes.
type Orchestrator struct {
	catalog CatalogStore
	cache   PriceCache
	tracer  Tracer
	opts    Options

	// ensured avoids duplicate fetches across resources sharing a key
	ensured map[types.CatalogKey]*types.CatalogSet

	log *zap.Logger
}

// New creates an orchestrator over the given collaborators
func New(catalog CatalogStore, cache PriceCache, tracer Tracer, opts Options) *Orchestrator {
	if opts.ConfidenceFloor == 0 {
		opts.ConfidenceFloor = scoring.ConfidenceFloor
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = types.CurrencyUSD
	}
	if tracer == nil {
		tracer = NopTracer{}
	}
	return &Orchestrator{
		catalog: catalog,
		cache:   cache,
		tracer:  tracer,
		opts:    opts,
		ensured: make(map[types.CatalogKey]*types.CatalogSet),
		log:     logging.With(zap.String("component", "enrich")),
	}
}

// ValidatePlan checks the required plan input. A plan with no scenarios,
// an empty scenario, or a missing baseline is the only condition that
// terminates a run.
func ValidatePlan(plan *types.Plan) error {
	if plan == nil || len(plan.Scenarios) == 0 {
		return errors.InvalidPlan("plan has no scenarios")
	}
	if plan.Baseline == "" {
		return errors.InvalidPlan("plan designates no baseline scenario")
	}
	baselineFound := false
	for _, sc := range plan.Scenarios {
		if len(sc.Resources) == 0 {
			return errors.InvalidPlan(fmt.Sprintf("scenario %q has no resources", sc.Name))
		}
		if sc.Name == plan.Baseline {
			baselineFound = true
		}
	}
	if !baselineFound {
		return errors.InvalidPlan(fmt.Sprintf("baseline scenario %q not present in plan", plan.Baseline))
	}
	return nil
}

// EnrichPlan prices every resource in every scenario, in input order,
// and computes scenario totals plus deltas versus the baseline.
func (o *Orchestrator) EnrichPlan(ctx context.Context, plan *types.Plan) (*types.EnrichedPlan, error) {
	if err := ValidatePlan(plan); err != nil {
		return nil, err
	}

	out := &types.EnrichedPlan{
		Name:        plan.Name,
		Baseline:    plan.Baseline,
		GeneratedAt: time.Now().UTC(),
	}

	for _, sc := range plan.Scenarios {
		es := types.EnrichedScenario{
			Name:     sc.Name,
			Baseline: sc.Name == plan.Baseline,
		}
		for _, res := range sc.Resources {
			es.Resources = append(es.Resources, o.enrichResource(ctx, sc.Name, res))
		}
		es.Totals = totalsFor(es.Resources)
		out.Scenarios = append(out.Scenarios, es)
	}

	var baseline decimal.Decimal
	for _, es := range out.Scenarios {
		if es.Baseline {
			baseline = es.Totals.CombinedMonthly
		}
	}
	for i := range out.Scenarios {
		if !out.Scenarios[i].Baseline {
			out.Scenarios[i].Totals.DeltaVsBaseline = out.Scenarios[i].Totals.CombinedMonthly.Sub(baseline)
		}
	}

	return out, nil
}

// enrichResource runs one resource through the pricing state machine:
// normalize, cache check, catalog ensure, scoring, unit conversion.
func (o *Orchestrator) enrichResource(ctx context.Context, scenario string, res types.ResourceDescriptor) types.PricedResource {
	if res.Currency == "" {
		res.Currency = o.opts.DefaultCurrency
	}
	if res.Billing == "" {
		res.Billing = types.BillingPayAsYouGo
	}

	service, hints, err := normalize.Normalize(res.Category, res.SKUHint)
	if err != nil {
		return o.unpriced(scenario, res, 0, err.Error())
	}

	cacheKey := types.NewCacheKey(res, service, hints)
	if !o.opts.BypassCache {
		if entry, ok := o.cache.Lookup(cacheKey); ok {
			rec := entry.Record
			return o.finalize(finalizeInput{
				scenario: scenario,
				res:      res,
				record:   &rec,
				score:    entry.Score,
				cacheHit: true,
			})
		}
	}

	catalogKey := types.CatalogKey{Service: service, Region: res.Region, Currency: res.Currency}
	set, err := o.ensureOnce(ctx, catalogKey)
	if err != nil {
		o.log.Warn("catalog unavailable",
			zap.String("key", catalogKey.String()), zap.Error(err))
		return o.unpriced(scenario, res, 0, fmt.Sprintf("catalog unavailable: %v", err))
	}

	ranked := scoring.Rank(set.Records, hints, res.Billing, res.OS)
	if ranked.Winner == nil {
		return o.unpriced(scenario, res, len(set.Records),
			errors.NoCandidate(service, res.Region).Message)
	}

	pr := o.finalize(finalizeInput{
		scenario:       scenario,
		res:            res,
		record:         ranked.Winner,
		score:          ranked.Score,
		candidateCount: len(set.Records),
		ranked:         ranked.Candidates,
	})
	if pr.Record != nil {
		o.cache.Put(cacheKey, types.CacheEntry{
			Record:     *pr.Record,
			Score:      pr.Score,
			SelectedAt: time.Now().UTC(),
		})
	}
	return pr
}

// ensureOnce loads a catalog at most once per run per key, forcing a
// refresh (and invalidating that key's cache entries) when requested.
func (o *Orchestrator) ensureOnce(ctx context.Context, key types.CatalogKey) (*types.CatalogSet, error) {
	if set, ok := o.ensured[key]; ok {
		return set, nil
	}

	set, err := o.catalog.Ensure(ctx, key, o.opts.ForceRefresh)
	if err != nil {
		return nil, err
	}
	if o.opts.ForceRefresh {
		o.cache.InvalidateCatalog(key.Service, key.Region, key.Currency)
	}
	for _, w := range set.Meta.Warnings {
		o.log.Warn("catalog warning", zap.String("key", key.String()), zap.String("warning", w))
	}

	o.ensured[key] = set
	return set, nil
}

type finalizeInput struct {
	scenario       string
	res            types.ResourceDescriptor
	record         *types.PriceRecord
	score          float64
	candidateCount int
	ranked         []scoring.ScoredCandidate
	cacheHit       bool
}

// finalize converts the winning record's unit, computes costs, and
// classifies the outcome
func (o *Orchestrator) finalize(in finalizeInput) types.PricedResource {
	pr := types.PricedResource{
		Resource:      in.res,
		Record:        in.record,
		Score:         in.score,
		UnitPrice:     in.record.UnitPrice,
		UnitOfMeasure: in.record.UnitOfMeasure,
		Status:        types.StatusPriced,
	}

	qty, err := units.ToMonthlyQuantity(in.res.Usage, in.record.UnitOfMeasure)
	if err != nil {
		// Best-guess fallback: treat the meter as flat monthly
		qty = decimal.NewFromFloat(in.res.Usage.Instances)
		if qty.IsZero() {
			qty = decimal.NewFromInt(1)
		}
		pr.Status = types.StatusEstimated
		pr.Note = fmt.Sprintf("unit %q not convertible; assumed flat monthly meter", in.record.UnitOfMeasure)
	}

	pr.MonthlyCost = in.record.UnitPrice.Mul(qty)
	pr.YearlyCost = pr.MonthlyCost.Mul(decimal.NewFromInt(12))

	if pr.Status == types.StatusPriced && in.score < o.opts.ConfidenceFloor {
		pr.Status = types.StatusEstimated
		pr.Note = fmt.Sprintf("low-confidence match (score %.2f below floor %.2f)", in.score, o.opts.ConfidenceFloor)
	}

	o.trace(in.scenario, pr, in.candidateCount, in.ranked, in.cacheHit)
	return pr
}

// unpriced finalizes a resource without a record or cost
func (o *Orchestrator) unpriced(scenario string, res types.ResourceDescriptor, candidateCount int, note string) types.PricedResource {
	pr := types.PricedResource{
		Resource: res,
		Status:   types.StatusUnpriced,
		Note:     note,
	}
	o.trace(scenario, pr, candidateCount, nil, false)
	return pr
}

// trace emits one debug record; failures inside the tracer are its own
// concern and never surface here
func (o *Orchestrator) trace(scenario string, pr types.PricedResource, candidateCount int, ranked []scoring.ScoredCandidate, cacheHit bool) {
	rec := TraceRecord{
		At:             time.Now().UTC(),
		Scenario:       scenario,
		Resource:       pr.Resource.Name,
		Category:       pr.Resource.Category,
		CandidateCount: candidateCount,
		Score:          pr.Score,
		Status:         pr.Status,
		CacheHit:       cacheHit,
		Note:           pr.Note,
	}
	for i := 0; i < len(ranked) && i < 3; i++ {
		rec.Top = append(rec.Top, toTraceCandidate(ranked[i]))
	}
	if pr.Record != nil {
		rec.Winner = &TraceCandidate{
			ProductName: pr.Record.ProductName,
			SkuName:     pr.Record.SkuName,
			MeterName:   pr.Record.MeterName,
			UnitPrice:   pr.Record.UnitPrice,
			Score:       pr.Score,
		}
	}
	o.tracer.Trace(rec)
}

func toTraceCandidate(c scoring.ScoredCandidate) TraceCandidate {
	return TraceCandidate{
		ProductName: c.Record.ProductName,
		SkuName:     c.Record.SkuName,
		MeterName:   c.Record.MeterName,
		UnitPrice:   c.Record.UnitPrice,
		Score:       c.Score,
	}
}

// totalsFor folds priced resources into scenario totals, keeping priced
// and estimated sums separate
func totalsFor(resources []types.PricedResource) types.ScenarioTotals {
	t := types.ScenarioTotals{
		PricedMonthly:    decimal.Zero,
		EstimatedMonthly: decimal.Zero,
		CombinedMonthly:  decimal.Zero,
		DeltaVsBaseline:  decimal.Zero,
	}
	for _, pr := range resources {
		switch pr.Status {
		case types.StatusPriced:
			t.PricedMonthly = t.PricedMonthly.Add(pr.MonthlyCost)
			t.PricedCount++
		case types.StatusEstimated:
			t.EstimatedMonthly = t.EstimatedMonthly.Add(pr.MonthlyCost)
			t.EstimatedCount++
		case types.StatusUnpriced:
			t.UnpricedCount++
		}
	}
	t.CombinedMonthly = t.PricedMonthly.Add(t.EstimatedMonthly)
	return t
}
