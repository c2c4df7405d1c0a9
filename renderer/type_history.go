package renderer

import (
	"fmt"

	"github.com/etnz/agentfolio"
)

// History is the asset history of one agent.
type History struct {
	Agent    string             `json:"agent"`
	Market   agentfolio.Market  `json:"market"`
	Daily    bool               `json:"daily"`
	Entries  []HistoryEntry     `json:"entries"`
	Return   agentfolio.Percent `json:"return"`
	Currency string             `json:"currency"`
}

// HistoryEntry is a row of the history.
type HistoryEntry struct {
	Time   string           `json:"time"`
	Value  agentfolio.Money `json:"value"`
	Change agentfolio.Money `json:"change"`
	Action string           `json:"action,omitempty"`
}

// NewHistory returns the history of agent in r.
func NewHistory(r *agentfolio.Results, agent string) (*History, error) {
	a, ok := r.Agents[agent]
	if !ok {
		return nil, fmt.Errorf("unknown agent %q in %s results", agent, r.Market)
	}
	h := &History{
		Agent:    agent,
		Market:   r.Market,
		Daily:    r.Market.IsDaily(),
		Return:   a.ReturnPercent,
		Currency: r.Currency,
	}
	loc := r.Market.Location()
	for i, e := range a.AssetHistory {
		row := HistoryEntry{Value: e.Value}
		if h.Daily {
			row.Time = e.Time.In(loc).Format("2006-01-02")
		} else {
			row.Time = e.Time.In(loc).Format("2006-01-02 15:04")
		}
		if i > 0 {
			row.Change = e.Value.Sub(a.AssetHistory[i-1].Value)
		}
		if e.Action.IsTrade() {
			row.Action = fmt.Sprintf("%s %s %s", e.Action.Kind, e.Action.Quantity, e.Action.Symbol)
		}
		h.Entries = append(h.Entries, row)
	}
	return h, nil
}
