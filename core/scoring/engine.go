// Package scoring ranks catalog price records against a resource's hint
// tokens. Ranking is a pure function over immutable inputs: no network,
// no disk, and deterministic output for identical input.
package scoring

import (
	"sort"
	"strings"

	"plancost/core/normalize"
	"plancost/core/types"
	"plancost/core/units"
)

// ConfidenceFloor is the minimum score for a confident match. Winners
// below the floor are still returned; callers downgrade them to estimated.
const ConfidenceFloor = 0.35

// Scoring weights. Token overlap contributes [0,1]; the adjustments
// below shift candidates whose unit or OS story disagrees with the
// resource.
const (
	unitBonus     = 0.20
	unitPenalty   = 0.20
	osBonus       = 0.15
	osPenalty     = 0.30
	relaxedFactor = 0.50
)

// ScoredCandidate is one candidate with its score breakdown
type ScoredCandidate struct {
	Record      types.PriceRecord `json:"record"`
	Score       float64           `json:"score"`
	Overlap     float64           `json:"overlap"`
	Convertible bool              `json:"convertible"`
	OSAdjust    float64           `json:"os_adjust"`
}

// Result is the outcome of ranking a candidate set
type Result struct {
	// Winner is the top candidate, nil when the candidate set is empty
	Winner *types.PriceRecord

	// Score is the winner's combined score
	Score float64

	// RunnerUp is the second-ranked candidate, used for traces and diffing
	RunnerUp *types.PriceRecord

	// Candidates holds every surviving candidate in rank order
	Candidates []ScoredCandidate

	// Relaxed reports that the billing-model filter had to be dropped
	Relaxed bool
}

// Rank scores candidates by token overlap, unit compatibility, and OS
// fit, then orders them descending by score. Ties prefer the lower unit
// price, then the lexically smaller meter name, so ranking is fully
// deterministic.
func Rank(candidates []types.PriceRecord, hints []string, billing types.BillingModel, osHint types.OSHint) Result {
	if len(candidates) == 0 {
		return Result{}
	}

	survivors, relaxed := filterBilling(candidates, billing)

	scored := make([]ScoredCandidate, 0, len(survivors))
	for _, rec := range survivors {
		c := ScoredCandidate{
			Record:      rec,
			Overlap:     tokenOverlap(rec, hints),
			Convertible: units.Convertible(rec.UnitOfMeasure),
			OSAdjust:    osAdjust(rec, osHint),
		}
		c.Score = c.Overlap + c.OSAdjust
		if c.Convertible {
			c.Score += unitBonus
		} else {
			c.Score -= unitPenalty
		}
		if relaxed {
			c.Score *= relaxedFactor
		}
		scored = append(scored, c)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if cmp := scored[i].Record.UnitPrice.Cmp(scored[j].Record.UnitPrice); cmp != 0 {
			return cmp < 0
		}
		return scored[i].Record.MeterName < scored[j].Record.MeterName
	})

	result := Result{
		Winner:     &scored[0].Record,
		Score:      scored[0].Score,
		Candidates: scored,
		Relaxed:    relaxed,
	}
	if len(scored) > 1 {
		result.RunnerUp = &scored[1].Record
	}
	return result
}

// filterBilling keeps candidates whose price type is compatible with the
// requested billing model. When nothing is compatible the filter is
// relaxed and the caller applies a lower confidence.
func filterBilling(candidates []types.PriceRecord, billing types.BillingModel) ([]types.PriceRecord, bool) {
	var want string
	switch billing {
	case types.BillingPayAsYouGo:
		want = types.PriceTypeConsumption
	case types.BillingReserved:
		want = types.PriceTypeReservation
	default:
		return candidates, false
	}

	var kept []types.PriceRecord
	for _, rec := range candidates {
		if rec.PriceType == want {
			kept = append(kept, rec)
		}
	}
	if len(kept) == 0 {
		return candidates, true
	}
	return kept, false
}

// tokenOverlap counts hint tokens present as whole words in the record's
// name fields, normalized by hint count
func tokenOverlap(rec types.PriceRecord, hints []string) float64 {
	if len(hints) == 0 {
		return 0
	}

	words := make(map[string]struct{})
	for _, w := range normalize.Tokenize(rec.SearchText()) {
		words[w] = struct{}{}
	}

	matched := 0
	for _, h := range hints {
		if _, ok := words[h]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(hints))
}

// osAdjust rewards candidates mentioning the resource's OS and penalizes
// those mentioning a conflicting one
func osAdjust(rec types.PriceRecord, osHint types.OSHint) float64 {
	if osHint == types.OSNone {
		return 0
	}

	text := rec.SearchText()
	mentionsWindows := strings.Contains(text, "windows")
	mentionsLinux := strings.Contains(text, "linux")

	switch osHint {
	case types.OSWindows:
		if mentionsWindows {
			return osBonus
		}
		if mentionsLinux {
			return -osPenalty
		}
	case types.OSLinux:
		if mentionsLinux {
			return osBonus
		}
		if mentionsWindows {
			return -osPenalty
		}
	}
	return 0
}
