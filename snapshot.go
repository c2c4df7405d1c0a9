package agentfolio

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// CashKey is the reserved position holding the agent's cash balance.
const CashKey = "CASH"

// ActionKind is the kind of decision an agent logged for a cycle.
type ActionKind int

const (
	NoTrade ActionKind = iota
	Buy
	Sell
	Short
)

func (k ActionKind) String() string {
	switch k {
	case NoTrade:
		return "no_trade"
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case Short:
		return "short"
	default:
		panic(fmt.Sprintf("unknown action kind %d", k))
	}
}

// parseActionKind reads the action names written by the agents.
func parseActionKind(s string) (ActionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	case "short":
		return Short, nil
	case "no_trade", "no-trade", "notrade", "hold", "":
		return NoTrade, nil
	default:
		return NoTrade, fmt.Errorf("unknown action %q", s)
	}
}

func (k ActionKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// TradeAction is the trade an agent executed during a cycle.
type TradeAction struct {
	Kind     ActionKind `json:"kind"`
	Symbol   string     `json:"symbol"`
	Quantity Quantity   `json:"quantity"`
}

// IsTrade reports whether a is an actual trade: present, not a no-trade and of nonzero quantity.
func (a *TradeAction) IsTrade() bool {
	return a != nil && a.Kind != NoTrade && !a.Quantity.IsZero()
}

// Snapshot is one logged record of an agent's full portfolio at a point in time.
//
// Snapshots are immutable once decoded.
type Snapshot struct {
	Time       time.Time
	Key        string // deduplication key, see Market.Key
	SequenceID int64
	Holdings   map[string]Quantity // never contains CashKey
	Cash       *Money              // nil when the record had no cash position
	Action     *TradeAction        // nil when the agent did not log an action
}

// Position returns the quantity held of symbol.
func (s *Snapshot) Position(symbol string) Quantity { return s.Holdings[symbol] }

// Held returns the symbols with a nonzero quantity, sorted.
func (s *Snapshot) Held() []string {
	held := make([]string, 0, len(s.Holdings))
	for _, symbol := range slices.Sorted(maps.Keys(s.Holdings)) {
		if !s.Holdings[symbol].IsZero() {
			held = append(held, symbol)
		}
	}
	return held
}

// Balance returns the cash balance, zero in currency when it is unknown.
func (s *Snapshot) Balance(currency string) Money {
	if s.Cash == nil {
		return M(0, currency)
	}
	return *s.Cash
}
