package renderer

import (
	"fmt"

	"github.com/etnz/agentfolio"
)

// Trades lists the merged trade markers of one agent.
type Trades struct {
	Agent  string            `json:"agent"`
	Market agentfolio.Market `json:"market"`
	Trades []Trade           `json:"trades"`
}

// Trade is a row of Trades. Unknown values are rendered as "-".
type Trade struct {
	Time     string `json:"time"`
	Action   string `json:"action"`
	Symbol   string `json:"symbol"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Shares   string `json:"shares"`
	Cash     string `json:"cash"`
	Value    string `json:"value"`
}

func orDash[T fmt.Stringer](v *T) string {
	if v == nil {
		return "-"
	}
	return (*v).String()
}

// NewTrades returns the trades of agent in r.
func NewTrades(r *agentfolio.Results, agent string) (*Trades, error) {
	a, ok := r.Agents[agent]
	if !ok {
		return nil, fmt.Errorf("unknown agent %q in %s results", agent, r.Market)
	}
	layout := "2006-01-02 15:04"
	if r.Market.IsDaily() {
		layout = "2006-01-02"
	}
	t := &Trades{Agent: agent, Market: r.Market}
	for _, m := range a.TradeMarkers {
		t.Trades = append(t.Trades, Trade{
			Time:     m.Time.In(r.Market.Location()).Format(layout),
			Action:   m.Action.String(),
			Symbol:   m.Symbol,
			Quantity: m.Quantity.String(),
			Price:    orDash(m.ExecutionPrice),
			Shares:   orDash(m.SharesAfterTrade),
			Cash:     orDash(m.CashAfter),
			Value:    orDash(m.ValueAfter),
		})
	}
	return t, nil
}
