package agentfolio

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/etnz/agentfolio/date"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrNoSnapshots reports an agent without any usable snapshot. Such agents are
// omitted from the results.
var ErrNoSnapshots = errors.New("no snapshots")

// AgentResult is the reconstruction of one agent.
type AgentResult struct {
	Name          string              `json:"name"`
	AssetHistory  []AssetHistoryEntry `json:"assetHistory"`
	TradeMarkers  []TradeMarker       `json:"tradeMarkers"`
	InitialValue  Money               `json:"initialValue"`
	CurrentValue  Money               `json:"currentValue"`
	ReturnPercent Percent             `json:"returnPercent"`
}

// Results is the reconstruction of every agent of a market.
type Results struct {
	Market    Market                  `json:"market"`
	Currency  string                  `json:"currency"`
	Window    date.Range              `json:"-"`
	Agents    map[string]*AgentResult `json:"agents"`
	Baseline  *BuyHoldSeries          `json:"baseline,omitempty"`
	Benchmark *BuyHoldSeries          `json:"benchmark,omitempty"`
}

// Names returns the agent names, sorted.
func (r *Results) Names() []string { return slices.Sorted(maps.Keys(r.Agents)) }

// Reconstruct runs the whole pipeline on the documents of one agent.
//
// It returns ErrNoSnapshots when nothing in snapshots survives normalization.
func Reconstruct(ctx context.Context, agent string, snapshots []Snapshot, md Metadata, v *Valuator) (*AgentResult, error) {
	market := v.Market()
	normalized := Normalize(market, snapshots)
	if len(normalized) == 0 {
		return nil, fmt.Errorf("agent %q: %w", agent, ErrNoSnapshots)
	}
	history := BuildAssetHistory(ctx, normalized, v, md)
	markers := MergeTradeMarkers(BuildTradeMarkers(agent, Order(market, snapshots), history))

	r := &AgentResult{
		Name:         agent,
		AssetHistory: history,
		TradeMarkers: markers,
		InitialValue: md.InitialCash,
		CurrentValue: md.InitialCash,
	}
	if len(history) > 0 {
		r.InitialValue = history[0].Value
		r.CurrentValue = history[len(history)-1].Value
	}
	if !r.InitialValue.IsZero() {
		r.ReturnPercent = Percent(100 * (r.CurrentValue.Ratio(r.InitialValue) - 1))
	}
	return r, nil
}

// agentDocs are the documents of one agent.
type agentDocs struct {
	name      string
	snapshots []Snapshot
	metadata  Metadata
}

// Session reconstructs agents from a Source.
//
// Price series are cached for the lifetime of the session, across markets.
type Session struct {
	source Source
	cache  *PriceCache
	log    zerolog.Logger

	// Benchmarks is the index symbol of each daily market, used to compute Results.Benchmark.
	Benchmarks map[Market]string
}

// NewSession returns a session reading from source.
func NewSession(source Source, log zerolog.Logger) *Session {
	return &Session{
		source: source,
		cache:  NewPriceCache(USDaily),
		log:    log.With().Str("component", "session").Logger(),
	}
}

// Cache returns the price cache of the session.
func (s *Session) Cache() *PriceCache { return s.cache }

// Reconstruct reconstructs agents of market, or all of them when agents is empty.
//
// Agents are loaded then reconstructed concurrently. An agent whose documents
// cannot be read, or without snapshots, is logged and omitted; it never fails
// the others.
func (s *Session) Reconstruct(ctx context.Context, market Market, agents ...string) (*Results, error) {
	if len(agents) == 0 {
		var err error
		agents, err = s.source.Agents(ctx, market)
		if err != nil {
			return nil, err
		}
	}

	docs := make([]*agentDocs, len(agents))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range agents {
		g.Go(func() error {
			d, err := s.load(gctx, market, name)
			if err != nil {
				s.log.Warn().Err(err).Str("agent", name).Msg("skipping agent")
				return nil
			}
			docs[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	docs = slices.DeleteFunc(docs, func(d *agentDocs) bool { return d == nil })

	var window date.Range
	for _, d := range docs {
		for _, sn := range d.snapshots {
			window = window.Extend(market.Day(sn.Time))
		}
	}

	oracle := NewOracle(market, s.source, s.cache, window, s.log)
	valuator := NewValuator(oracle, s.log)
	results := &Results{
		Market:   market,
		Currency: market.Currency(),
		Window:   window,
		Agents:   make(map[string]*AgentResult, len(docs)),
	}
	normalized := make(map[string][]Snapshot, len(docs))

	var mu sync.Mutex
	g, gctx = errgroup.WithContext(ctx)
	for _, d := range docs {
		g.Go(func() error {
			r, err := Reconstruct(gctx, d.name, d.snapshots, d.metadata, valuator)
			if err != nil {
				s.log.Info().Err(err).Str("agent", d.name).Msg("omitting agent")
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			results.Agents[d.name] = r
			normalized[d.name] = Normalize(market, d.snapshots)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !market.IsDaily() {
		results.Baseline = SynthesizeBaseline(ctx, results.Agents, normalized, oracle)
	} else if symbol := s.Benchmarks[market]; symbol != "" {
		results.Benchmark = SynthesizeBenchmark(ctx, results.Agents, symbol, oracle)
	}
	return results, nil
}

func (s *Session) load(ctx context.Context, market Market, name string) (*agentDocs, error) {
	snapshots, err := s.source.Snapshots(ctx, market, name)
	if err != nil {
		return nil, err
	}
	md, err := s.source.Metadata(ctx, market, name)
	if err != nil {
		s.log.Warn().Err(err).Str("agent", name).Msg("using default agent configuration")
	}
	return &agentDocs{name: name, snapshots: snapshots, metadata: md}, nil
}
