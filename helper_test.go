package agentfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/agentfolio/date"
	"github.com/rs/zerolog"
)

func usd(v float64) Money { return M(v, "USD") }
func cny(v float64) Money { return M(v, "CNY") }

// ts parses a timestamp in market, or panics.
func ts(market Market, s string) time.Time {
	t, err := market.ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return t
}

// position is a shortcut to build snapshot holdings.
type position map[string]float64

// snap builds a snapshot the way the decoder would.
func snap(market Market, stamp string, id int64, cash float64, holdings position, action *TradeAction) Snapshot {
	on := ts(market, stamp)
	s := Snapshot{
		Time:       on,
		Key:        market.Key(on),
		SequenceID: id,
		Holdings:   make(map[string]Quantity, len(holdings)),
		Cash:       M(cash, market.Currency()).ptr(),
		Action:     action,
	}
	for symbol, q := range holdings {
		s.Holdings[symbol] = Q(q)
	}
	return s
}

func buy(symbol string, q float64) *TradeAction {
	return &TradeAction{Kind: Buy, Symbol: symbol, Quantity: Q(q)}
}

func sell(symbol string, q float64) *TradeAction {
	return &TradeAction{Kind: Sell, Symbol: symbol, Quantity: Q(q)}
}

func short(symbol string, q float64) *TradeAction {
	return &TradeAction{Kind: Short, Symbol: symbol, Quantity: Q(q)}
}

// closes builds a price series from raw keys and close prices.
func closes(market Market, prices map[string]float64) *PriceSeries {
	s := new(PriceSeries)
	for key, v := range prices {
		p, err := newPricePoint(market, key, v)
		if err != nil {
			panic(err)
		}
		s.Append(p)
	}
	return s
}

// priceTable is an in memory PriceProvider.
type priceTable map[string]*PriceSeries

func (p priceTable) Prices(_ context.Context, market Market, symbol string, _ date.Range) (*PriceSeries, error) {
	s, ok := p[symbol]
	if !ok {
		return nil, fmt.Errorf("no %s prices for %q: %w", market, symbol, ErrPriceNotAvailable)
	}
	return s, nil
}

// countingProvider counts the calls made to its provider.
type countingProvider struct {
	PriceProvider
	calls int
}

func (c *countingProvider) Prices(ctx context.Context, market Market, symbol string, window date.Range) (*PriceSeries, error) {
	c.calls++
	return c.PriceProvider.Prices(ctx, market, symbol, window)
}

func newTestOracle(market Market, provider PriceProvider) *Oracle {
	return NewOracle(market, provider, NewPriceCache(market), date.Range{}, zerolog.Nop())
}

func newTestValuator(market Market, provider PriceProvider) *Valuator {
	return NewValuator(newTestOracle(market, provider), zerolog.Nop())
}
