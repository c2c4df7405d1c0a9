package renderer

import (
	"cmp"
	"slices"

	"github.com/etnz/agentfolio"
	"github.com/etnz/agentfolio/date"
)

// Summary is the leaderboard of a market: every agent ranked by return.
// Numbers keep their exact types so that templates can use their renderers.
type Summary struct {
	Market   agentfolio.Market `json:"market"`
	Currency string            `json:"currency"`
	// Window is the range of days covered by the agents' logs.
	Window date.Range `json:"window"`
	// Agents are sorted by decreasing return.
	Agents []SummaryAgent `json:"agents"`
	// References are the synthesized series, if any.
	References []SummaryReference `json:"references,omitempty"`
}

// SummaryAgent is one line of the leaderboard.
type SummaryAgent struct {
	Rank         int                `json:"rank"`
	Name         string             `json:"name"`
	InitialValue agentfolio.Money   `json:"initialValue"`
	CurrentValue agentfolio.Money   `json:"currentValue"`
	Return       agentfolio.Percent `json:"return"`
	Trades       int                `json:"trades"`
	Entries      int                `json:"entries"`
}

// SummaryReference is a buy-and-hold series shown next to the agents.
type SummaryReference struct {
	Label        string             `json:"label"`
	Symbol       string             `json:"symbol"`
	CurrentValue agentfolio.Money   `json:"currentValue"`
	Return       agentfolio.Percent `json:"return"`
}

// NewSummary ranks the agents of r.
func NewSummary(r *agentfolio.Results) *Summary {
	s := &Summary{
		Market:   r.Market,
		Currency: r.Currency,
		Window:   r.Window,
	}
	for _, name := range r.Names() {
		a := r.Agents[name]
		s.Agents = append(s.Agents, SummaryAgent{
			Name:         name,
			InitialValue: a.InitialValue,
			CurrentValue: a.CurrentValue,
			Return:       a.ReturnPercent,
			Trades:       len(a.TradeMarkers),
			Entries:      len(a.AssetHistory),
		})
	}
	slices.SortStableFunc(s.Agents, func(a, b SummaryAgent) int { return cmp.Compare(b.Return, a.Return) })
	for i := range s.Agents {
		s.Agents[i].Rank = i + 1
	}

	for _, series := range []*agentfolio.BuyHoldSeries{r.Baseline, r.Benchmark} {
		if series.IsEmpty() {
			continue
		}
		first, last := series.Points[0].Value, series.Points[len(series.Points)-1].Value
		ref := SummaryReference{Label: series.Label, Symbol: series.Symbol, CurrentValue: last}
		if !first.IsZero() {
			ref.Return = agentfolio.Percent(100 * (last.Ratio(first) - 1))
		}
		s.References = append(s.References, ref)
	}
	return s
}
