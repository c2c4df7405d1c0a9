package agentfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Valuator converts positions into a total value using an Oracle.
type Valuator struct {
	oracle *Oracle
	log    zerolog.Logger
}

// NewValuator returns a valuator pricing with oracle.
func NewValuator(oracle *Oracle, log zerolog.Logger) *Valuator {
	return &Valuator{oracle: oracle, log: log.With().Str("component", "valuator").Logger()}
}

// Market returns the market prices are looked up in.
func (v *Valuator) Market() Market { return v.oracle.Market() }

// Value returns cash plus the market value of every nonzero holding of s at time at.
//
// A missing price fails the whole valuation in the A-share market. In the other
// markets it is logged and the holding counts for zero.
func (v *Valuator) Value(ctx context.Context, s *Snapshot, at time.Time) (Money, error) {
	market := v.oracle.Market()
	total := s.Balance(market.Currency())
	for _, symbol := range s.Held() {
		price, err := v.oracle.Price(ctx, symbol, at)
		if err != nil {
			if market == CNDaily {
				return Money{}, fmt.Errorf("cannot value snapshot %d: %w", s.SequenceID, err)
			}
			v.log.Warn().Err(err).Str("symbol", symbol).Msg("holding valued at zero")
			continue
		}
		total = total.Add(price.Mul(s.Position(symbol)))
	}
	return total, nil
}
