package agentfolio

import (
	"context"
	"slices"
	"strings"
	"time"
)

// SeriesPoint is a value at a point in time.
type SeriesPoint struct {
	Time  time.Time `json:"time"`
	Value Money     `json:"value"`
}

// BuyHoldSeries is the value over time of a counterfactual portfolio that
// bought one symbol with the reference agent's initial value and held it.
type BuyHoldSeries struct {
	Label     string        `json:"label"`
	Symbol    string        `json:"symbol"`
	Reference string        `json:"reference"` // the agent whose time axis and initial value are used
	Shares    Quantity      `json:"shares"`
	Points    []SeriesPoint `json:"points"`
}

// IsEmpty reports whether s has no point. A nil series is empty.
func (s *BuyHoldSeries) IsEmpty() bool { return s == nil || len(s.Points) == 0 }

// BaselineLabel and BenchmarkLabel name the synthesized series.
const (
	BaselineLabel  = "baseline"
	BenchmarkLabel = "benchmark"
)

// IsBaselineLabel reports whether name designates a synthesized series rather than an agent.
func IsBaselineLabel(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, BaselineLabel) || strings.Contains(name, BenchmarkLabel) || strings.Contains(name, "buy-and-hold")
}

// referenceAgent returns the first agent name, in sorted order, that is not a baseline label.
func referenceAgent(agents map[string]*AgentResult) (string, bool) {
	names := make([]string, 0, len(agents))
	for name, r := range agents {
		if r != nil && len(r.AssetHistory) > 0 && !IsBaselineLabel(name) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", false
	}
	return slices.Min(names), true
}

// representativeSymbol returns the first nonzero holding seen in snapshots.
func representativeSymbol(snapshots []Snapshot) (string, bool) {
	for i := range snapshots {
		if held := snapshots[i].Held(); len(held) > 0 {
			return held[0], true
		}
	}
	return "", false
}

// SynthesizeBaseline computes the buy-and-hold baseline of the intraday market.
//
// The reference agent is the first non baseline agent in name order, and the
// symbol the first one it ever held. snapshots maps agent names to their
// normalized snapshots. It returns an empty series when no reference agent or
// no symbol can be found.
func SynthesizeBaseline(ctx context.Context, agents map[string]*AgentResult, snapshots map[string][]Snapshot, oracle *Oracle) *BuyHoldSeries {
	reference, ok := referenceAgent(agents)
	if !ok {
		return &BuyHoldSeries{Label: BaselineLabel}
	}
	symbol, ok := representativeSymbol(snapshots[reference])
	if !ok {
		return &BuyHoldSeries{Label: BaselineLabel, Reference: reference}
	}
	return buyAndHold(ctx, BaselineLabel, symbol, reference, agents[reference], oracle)
}

// SynthesizeBenchmark computes the buy-and-hold series of a fixed symbol,
// typically a market index, on the reference agent's time axis.
func SynthesizeBenchmark(ctx context.Context, agents map[string]*AgentResult, symbol string, oracle *Oracle) *BuyHoldSeries {
	reference, ok := referenceAgent(agents)
	if !ok || symbol == "" {
		return &BuyHoldSeries{Label: BenchmarkLabel, Symbol: symbol}
	}
	return buyAndHold(ctx, BenchmarkLabel, symbol, reference, agents[reference], oracle)
}

func buyAndHold(ctx context.Context, label, symbol, reference string, r *AgentResult, oracle *Oracle) *BuyHoldSeries {
	series := &BuyHoldSeries{Label: label, Symbol: symbol, Reference: reference}
	axis := make([]time.Time, len(r.AssetHistory))
	for i, e := range r.AssetHistory {
		axis[i] = e.Time
	}
	_, first, ok := oracle.FirstAvailable(ctx, symbol, axis)
	if !ok || first.IsZero() {
		return series
	}
	series.Shares = r.InitialValue.DivPrice(first)

	series.Points = make([]SeriesPoint, 0, len(axis))
	previous := r.InitialValue
	for _, t := range axis {
		if price, err := oracle.Price(ctx, symbol, t); err == nil {
			previous = price.Mul(series.Shares)
		}
		series.Points = append(series.Points, SeriesPoint{Time: t, Value: previous})
	}
	return series
}
