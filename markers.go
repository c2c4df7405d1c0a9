package agentfolio

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// markerNamespace scopes the name based ids of trade markers.
var markerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/etnz/agentfolio/markers"))

// TradeMarker is a discrete trade event derived from two consecutive snapshots.
//
// Short trades are reported as sells. Pointer fields are nil when the value
// could not be derived from the logs, they are never guessed.
type TradeMarker struct {
	ID               string     `json:"id"`
	Time             time.Time  `json:"time"`
	Symbol           string     `json:"symbol"`
	Action           ActionKind `json:"action"`
	Quantity         Quantity   `json:"quantity"`
	ExecutionPrice   *Money     `json:"executionPrice"`
	CashBefore       *Money     `json:"cashBefore"`
	CashAfter        *Money     `json:"cashAfter"`
	ValueBefore      *Money     `json:"valueBefore"`
	ValueAfter       *Money     `json:"valueAfter"`
	SharesAfterTrade *Quantity  `json:"sharesAfterTrade"`
}

// Signed returns the quantity signed by the trade direction: sells are negative.
func (m *TradeMarker) Signed() Quantity {
	if m.Action == Sell {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// markerID returns the deterministic id of the marker of snapshot s of agent.
func markerID(agent string, s *Snapshot) string {
	name := fmt.Sprintf("%s/%s/%d/%s", agent, s.Time.UTC().Format(time.RFC3339Nano), s.SequenceID, s.Action.Symbol)
	return uuid.NewSHA1(markerNamespace, []byte(name)).String()
}

// markerState is the accumulator of the trade marker fold.
type markerState struct {
	lastKnownValue *Money
	lastKnownCash  *Money
	previous       *Snapshot
}

// step folds one snapshot into the state, and returns the marker it produced, if any.
func (st markerState) step(agent string, s *Snapshot, history []AssetHistoryEntry) (markerState, *TradeMarker) {
	valueAfter := st.lastKnownValue
	if v, ok := valueAsOf(history, s.Time); ok {
		valueAfter = v.ptr()
	}

	cashBefore := st.lastKnownCash
	if st.previous != nil && st.previous.Cash != nil {
		cashBefore = st.previous.Cash
	}

	var marker *TradeMarker
	if s.Action.IsTrade() {
		action := s.Action
		marker = &TradeMarker{
			ID:          markerID(agent, s),
			Time:        s.Time,
			Symbol:      action.Symbol,
			Action:      Buy,
			Quantity:    action.Quantity,
			CashBefore:  cashBefore,
			CashAfter:   s.Cash,
			ValueBefore: st.lastKnownValue,
			ValueAfter:  valueAfter,
		}
		if action.Kind != Buy {
			marker.Action = Sell
		}
		if shares, ok := s.Holdings[action.Symbol]; ok {
			marker.SharesAfterTrade = shares.ptr()
		} else {
			marker.SharesAfterTrade = Q(0).ptr()
		}
		marker.ExecutionPrice = executionPrice(marker.Action, marker.CashBefore, marker.CashAfter, marker.Quantity)
	}

	next := markerState{lastKnownValue: valueAfter, lastKnownCash: cashBefore, previous: s}
	if s.Cash != nil {
		next.lastKnownCash = s.Cash
	}
	return next, marker
}

// executionPrice derives a unit price from the cash moved by a trade.
//
// It returns nil when a cash value is unknown or the quantity is zero.
func executionPrice(action ActionKind, before, after *Money, quantity Quantity) *Money {
	if before == nil || after == nil || quantity.IsZero() {
		return nil
	}
	moved := after.Sub(*before)
	if action == Buy {
		moved = moved.Neg()
	}
	return moved.Div(quantity.Abs()).ptr()
}

// BuildTradeMarkers derives the trade markers of an agent.
//
// ordered are the agent's snapshots as returned by Order, so that every fill
// logged during a cycle is seen. history is the agent's asset history, used for
// the value before and after each trade. A trade on the first snapshot starts
// from the initial cash when history begins at or before it.
func BuildTradeMarkers(agent string, ordered []Snapshot, history []AssetHistoryEntry) []TradeMarker {
	var markers []TradeMarker
	var st markerState
	// the first history entry holds the initial cash.
	if len(history) > 0 && len(ordered) > 0 && !history[0].Time.After(ordered[0].Time) {
		initial := history[0].Value
		st.lastKnownValue = initial.ptr()
		st.lastKnownCash = initial.ptr()
	}
	for i := range ordered {
		var m *TradeMarker
		st, m = st.step(agent, &ordered[i], history)
		if m != nil {
			markers = append(markers, *m)
		}
	}
	return markers
}
