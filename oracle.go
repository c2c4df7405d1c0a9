package agentfolio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/etnz/agentfolio/date"
	"github.com/rs/zerolog"
)

// ErrPriceNotAvailable reports that no price is known for a symbol at a given time.
var ErrPriceNotAvailable = errors.New("price not available")

// MissingPriceError details an ErrPriceNotAvailable.
type MissingPriceError struct {
	Symbol string
	At     time.Time
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("%v for %s at %s", ErrPriceNotAvailable, e.Symbol, e.At.Format(time.RFC3339))
}

func (e *MissingPriceError) Is(target error) bool { return target == ErrPriceNotAvailable }

// PriceProvider fetches the price series of a symbol for a market.
//
// window is the range of days the caller is interested in, providers that
// store prices per day use it to bound their reads, others can ignore it.
type PriceProvider interface {
	Prices(ctx context.Context, market Market, symbol string, window date.Range) (*PriceSeries, error)
}

type cacheKey struct {
	market Market
	symbol string
}

// PriceCache memoizes price series per market and symbol.
//
// A cache is owned by one session and shared by its concurrent runs. Writing
// the same symbol twice is harmless: the last writer wins.
type PriceCache struct {
	mu      sync.Mutex
	market  Market
	entries map[cacheKey]*PriceSeries
}

// NewPriceCache returns an empty cache for market.
func NewPriceCache(market Market) *PriceCache {
	return &PriceCache{market: market, entries: make(map[cacheKey]*PriceSeries)}
}

// Get returns the cached series of symbol in market.
func (c *PriceCache) Get(market Market, symbol string) (*PriceSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[cacheKey{market, symbol}]
	return s, ok
}

// Put stores the series of symbol in market.
func (c *PriceCache) Put(market Market, symbol string, s *PriceSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{market, symbol}] = s
}

// Len returns the number of cached series.
func (c *PriceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Switch makes market the active one.
//
// Intraday prices are live, so switching to another market drops them. Daily
// prices are kept.
func (c *PriceCache) Switch(market Market) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if market == c.market {
		return
	}
	for k := range c.entries {
		if k.market == USIntraday {
			delete(c.entries, k)
		}
	}
	c.market = market
}

// Oracle answers "what was the price of this symbol at that time" under a
// market's lookup policy.
type Oracle struct {
	market   Market
	provider PriceProvider
	cache    *PriceCache
	window   date.Range
	log      zerolog.Logger
}

// NewOracle returns an oracle reading prices from provider through cache.
func NewOracle(market Market, provider PriceProvider, cache *PriceCache, window date.Range, log zerolog.Logger) *Oracle {
	cache.Switch(market)
	return &Oracle{
		market:   market,
		provider: provider,
		cache:    cache,
		window:   window,
		log:      log.With().Str("component", "oracle").Logger(),
	}
}

// Market returns the market this oracle prices in.
func (o *Oracle) Market() Market { return o.market }

// series returns the price series of symbol, fetching it on a cache miss.
//
// A failed fetch is logged and cached as an empty series: the symbol simply has no price.
func (o *Oracle) series(ctx context.Context, symbol string) *PriceSeries {
	if s, ok := o.cache.Get(o.market, symbol); ok {
		return s
	}
	s, err := o.provider.Prices(ctx, o.market, symbol, o.window)
	if err != nil || s == nil {
		o.log.Warn().Err(err).Str("symbol", symbol).Msg("no price series")
		s = new(PriceSeries)
	}
	o.cache.Put(o.market, symbol, s)
	return s
}

// Price returns the best known price of symbol at time at.
//
//   - exact timestamp first;
//   - US daily: the latest price on or before that day;
//   - US intraday: the latest bar at or before at, or the earliest bar if at
//     precedes them all;
//   - A-share: the price of that exact day, or its latest intraday price. No
//     price is carried across days.
//
// It returns a *MissingPriceError when no price applies.
func (o *Oracle) Price(ctx context.Context, symbol string, at time.Time) (Money, error) {
	s := o.series(ctx, symbol)
	p, ok := s.At(at)
	if !ok {
		switch o.market {
		case USDaily:
			p, ok = s.AsOfDay(o.market.Day(at))
		case USIntraday:
			p, ok = s.AsOf(at)
			if !ok {
				p, ok = s.First()
			}
		case CNDaily:
			p, ok = s.OnDay(o.market.Day(at))
		}
	}
	if !ok {
		return Money{}, &MissingPriceError{Symbol: symbol, At: at}
	}
	return M(p.Close, o.market.Currency()), nil
}

// FirstAvailable returns the earliest of times at which symbol has a price, and that price.
func (o *Oracle) FirstAvailable(ctx context.Context, symbol string, times []time.Time) (time.Time, Money, bool) {
	for _, t := range times {
		price, err := o.Price(ctx, symbol, t)
		if err == nil {
			return t, price, true
		}
	}
	return time.Time{}, Money{}, false
}
