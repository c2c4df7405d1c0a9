package agentfolio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/etnz/agentfolio/date"
	"github.com/rs/zerolog"
)

// Source gives access to the documents written by the trading agents and
// their price feeds.
//
// Documents are laid out the way the agents write them:
//
//	agent_data/<agent>/position/position.jsonl        US daily agents
//	agent_data/<agent>/agent_config.json
//	agent_data_astock/<agent>/...                     A-share agents
//	agent_data_5min/<agent>/...                       US intraday agents
//	merged.jsonl                                      US daily prices
//	A_stock/merged.jsonl                              A-share daily prices
//	price_cache_5min/<SYMBOL>/<YYYY-MM-DD>.json       intraday bars
//	price_cache_5min/latest/<SYMBOL>.json             latest intraday bar
type Source interface {
	PriceProvider
	// Agents lists the agents of market, sorted by name.
	Agents(ctx context.Context, market Market) ([]string, error)
	// Snapshots returns the raw snapshots of agent, in arrival order.
	Snapshots(ctx context.Context, market Market, agent string) ([]Snapshot, error)
	// Metadata returns the configuration of agent, defaults when it has none.
	Metadata(ctx context.Context, market Market, agent string) (Metadata, error)
}

// ErrDocumentNotFound is returned when a source has no document at a path.
var ErrDocumentNotFound = errors.New("document not found")

// agentDir returns the folder containing the agents of market.
func agentDir(market Market) string {
	switch market {
	case CNDaily:
		return "agent_data_astock"
	case USIntraday:
		return "agent_data_5min"
	default:
		return "agent_data"
	}
}

func positionPath(market Market, agent string) string {
	return path.Join(agentDir(market), agent, "position", "position.jsonl")
}

func configPath(market Market, agent string) string {
	return path.Join(agentDir(market), agent, "agent_config.json")
}

func mergedPath(market Market) string {
	if market == CNDaily {
		return "A_stock/merged.jsonl"
	}
	return "merged.jsonl"
}

func barsPath(symbol string, day date.Date) string {
	return path.Join("price_cache_5min", symbol, day.String()+".json")
}

func latestBarPath(symbol string) string {
	return path.Join("price_cache_5min", "latest", symbol+".json")
}

// opener opens a document by its slash separated path.
//
// It returns an error wrapping ErrDocumentNotFound when there is no such document.
type opener interface {
	open(ctx context.Context, market Market, name string) (io.ReadCloser, error)
}

// store decodes documents read from an opener. It is shared by the Source implementations.
type store struct {
	docs opener
	log  zerolog.Logger

	mu     sync.Mutex
	merged map[Market]map[string]*PriceSeries // merged price files, read once
}

func newStore(docs opener, log zerolog.Logger) *store {
	return &store{
		docs:   docs,
		log:    log.With().Str("component", "source").Logger(),
		merged: make(map[Market]map[string]*PriceSeries),
	}
}

// Snapshots implements Source.
func (s *store) Snapshots(ctx context.Context, market Market, agent string) ([]Snapshot, error) {
	r, err := s.docs.open(ctx, market, positionPath(market, agent))
	if err != nil {
		return nil, fmt.Errorf("cannot open the log of %q: %w", agent, err)
	}
	defer r.Close()
	return DecodeSnapshots(r, market, s.log.With().Str("agent", agent).Logger())
}

// Metadata implements Source.
func (s *store) Metadata(ctx context.Context, market Market, agent string) (Metadata, error) {
	defaults := Metadata{InitialCash: M(DefaultInitialCash, market.Currency())}
	r, err := s.docs.open(ctx, market, configPath(market, agent))
	if errors.Is(err, ErrDocumentNotFound) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("cannot open the configuration of %q: %w", agent, err)
	}
	defer r.Close()
	return DecodeMetadata(r, market)
}

// Prices implements PriceProvider.
func (s *store) Prices(ctx context.Context, market Market, symbol string, window date.Range) (*PriceSeries, error) {
	if market.IsDaily() {
		return s.dailyPrices(ctx, market, symbol)
	}
	return s.intradayPrices(ctx, market, symbol, window)
}

func (s *store) dailyPrices(ctx context.Context, market Market, symbol string) (*PriceSeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all, ok := s.merged[market]
	if !ok {
		r, err := s.docs.open(ctx, market, mergedPath(market))
		if err != nil {
			return nil, fmt.Errorf("cannot open %s prices: %w", market, err)
		}
		defer r.Close()
		all, err = DecodeMergedPrices(r, market, s.log)
		if err != nil {
			return nil, err
		}
		s.merged[market] = all
	}
	series, ok := all[symbol]
	if !ok {
		return nil, fmt.Errorf("no %s prices for %q: %w", market, symbol, ErrPriceNotAvailable)
	}
	return series, nil
}

// intradayPrices reads the bar files of every weekday of window, then the latest bar.
func (s *store) intradayPrices(ctx context.Context, market Market, symbol string, window date.Range) (*PriceSeries, error) {
	series := new(PriceSeries)
	if !window.IsZero() {
		for day := range window.Weekdays() {
			points, err := s.bars(ctx, market, symbol, day)
			if err != nil {
				return nil, err
			}
			series.Append(points...)
		}
	}

	r, err := s.docs.open(ctx, market, latestBarPath(symbol))
	if errors.Is(err, ErrDocumentNotFound) {
		return series, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open the latest bar of %q: %w", symbol, err)
	}
	defer r.Close()
	latest, err := DecodeLatestBar(r, market)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("ignoring latest bar")
		return series, nil
	}
	return series.Append(latest), nil
}

func (s *store) bars(ctx context.Context, market Market, symbol string, day date.Date) ([]PricePoint, error) {
	r, err := s.docs.open(ctx, market, barsPath(symbol, day))
	if errors.Is(err, ErrDocumentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open %q bars of %s: %w", symbol, day, err)
	}
	defer r.Close()
	points, err := DecodeBars(r, market)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Stringer("day", day).Msg("ignoring bar file")
		return nil, nil
	}
	return points, nil
}
