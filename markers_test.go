package agentfolio

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr(m Money) *Money { return &m }

func TestBuildTradeMarkers(t *testing.T) {
	prices := priceTable{"AAPL": closes(USDaily, map[string]float64{
		"2025-10-01": 100,
		"2025-10-02": 100,
		"2025-10-03": 120,
		"2025-10-06": 110,
	})}
	raw := []Snapshot{
		snap(USDaily, "2025-10-01", 0, 10000, nil, nil),
		snap(USDaily, "2025-10-02", 1, 9000, position{"AAPL": 10}, buy("AAPL", 10)),
		snap(USDaily, "2025-10-03", 2, 9600, position{"AAPL": 5}, sell("AAPL", 5)),
		snap(USDaily, "2025-10-06", 3, 9600, position{"AAPL": 5}, &TradeAction{Kind: NoTrade}),
	}
	v := newTestValuator(USDaily, prices)
	history := BuildAssetHistory(context.Background(), Normalize(USDaily, raw), v, Metadata{InitialCash: usd(10000)})

	got := BuildTradeMarkers("alpha", Order(USDaily, raw), history)

	if len(got) != 2 {
		t.Fatalf("BuildTradeMarkers() = %d markers, want 2: %v", len(got), got)
	}
	want := []TradeMarker{
		{
			ID:               got[0].ID,
			Time:             ts(USDaily, "2025-10-02"),
			Symbol:           "AAPL",
			Action:           Buy,
			Quantity:         Q(10),
			ExecutionPrice:   ptr(usd(100)),
			CashBefore:       ptr(usd(10000)),
			CashAfter:        ptr(usd(9000)),
			ValueBefore:      ptr(usd(10000)),
			ValueAfter:       ptr(usd(10000)),
			SharesAfterTrade: Q(10).ptr(),
		},
		{
			ID:               got[1].ID,
			Time:             ts(USDaily, "2025-10-03"),
			Symbol:           "AAPL",
			Action:           Sell,
			Quantity:         Q(5),
			ExecutionPrice:   ptr(usd(120)),
			CashBefore:       ptr(usd(9000)),
			CashAfter:        ptr(usd(9600)),
			ValueBefore:      ptr(usd(10000)),
			ValueAfter:       ptr(usd(10200)),
			SharesAfterTrade: Q(5).ptr(),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildTradeMarkers() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTradeMarkers_UnknownCash(t *testing.T) {
	first := snap(USDaily, "2025-10-02", 1, 0, position{"AAPL": 10}, buy("AAPL", 10))
	first.Cash = nil

	got := BuildTradeMarkers("alpha", []Snapshot{first}, nil)

	if len(got) != 1 {
		t.Fatalf("BuildTradeMarkers() = %d markers, want 1", len(got))
	}
	if got[0].ExecutionPrice != nil {
		t.Errorf("ExecutionPrice = %v, want nil when cash is unknown", got[0].ExecutionPrice)
	}
	if got[0].ValueBefore != nil || got[0].ValueAfter != nil {
		t.Errorf("values = %v/%v, want nil without history", got[0].ValueBefore, got[0].ValueAfter)
	}
}

func TestBuildTradeMarkers_ShortIsSell(t *testing.T) {
	raw := []Snapshot{
		snap(USIntraday, "2025-10-06 09:35:00", 0, 10000, nil, nil),
		snap(USIntraday, "2025-10-06 09:40:00", 1, 10500, position{"TSLA": -2}, short("TSLA", 2)),
	}
	got := BuildTradeMarkers("alpha", raw, nil)
	if len(got) != 1 {
		t.Fatalf("BuildTradeMarkers() = %d markers, want 1", len(got))
	}
	if got[0].Action != Sell {
		t.Errorf("Action = %v, want %v", got[0].Action, Sell)
	}
	if want := usd(250); got[0].ExecutionPrice == nil || !got[0].ExecutionPrice.Equal(want) {
		t.Errorf("ExecutionPrice = %v, want %v", got[0].ExecutionPrice, want)
	}
	if want := Q(-2); !got[0].SharesAfterTrade.Equal(want) {
		t.Errorf("SharesAfterTrade = %v, want %v", got[0].SharesAfterTrade, want)
	}
}

func TestBuildTradeMarkers_DeterministicIDs(t *testing.T) {
	raw := []Snapshot{
		snap(USDaily, "2025-10-01", 0, 10000, nil, nil),
		snap(USDaily, "2025-10-02", 1, 9000, position{"AAPL": 10}, buy("AAPL", 10)),
	}
	a := BuildTradeMarkers("alpha", raw, nil)
	b := BuildTradeMarkers("alpha", raw, nil)
	c := BuildTradeMarkers("beta", raw, nil)
	if a[0].ID != b[0].ID {
		t.Errorf("ids differ between runs: %q and %q", a[0].ID, b[0].ID)
	}
	if a[0].ID == c[0].ID {
		t.Errorf("two agents share the id %q", a[0].ID)
	}
}

func TestBuildTradeMarkers_TradeOnFirstSnapshot(t *testing.T) {
	prices := priceTable{"AAPL": closes(USDaily, map[string]float64{"2025-10-02": 100})}
	raw := []Snapshot{
		snap(USDaily, "2025-10-02", 1, 9000, position{"AAPL": 10}, buy("AAPL", 10)),
	}
	start := ts(USDaily, "2025-10-01")
	md := Metadata{StartTime: &start, InitialCash: usd(10000)}
	history := BuildAssetHistory(context.Background(), Normalize(USDaily, raw), newTestValuator(USDaily, prices), md)

	got := BuildTradeMarkers("alpha", Order(USDaily, raw), history)

	if len(got) != 1 {
		t.Fatalf("BuildTradeMarkers() = %d markers, want 1", len(got))
	}
	m := got[0]
	if m.CashBefore == nil || !m.CashBefore.Equal(usd(10000)) {
		t.Errorf("CashBefore = %v, want the initial cash", m.CashBefore)
	}
	if m.ValueBefore == nil || !m.ValueBefore.Equal(usd(10000)) {
		t.Errorf("ValueBefore = %v, want the initial cash", m.ValueBefore)
	}
	if m.ExecutionPrice == nil || !m.ExecutionPrice.Equal(usd(100)) {
		t.Errorf("ExecutionPrice = %v, want 100", m.ExecutionPrice)
	}
}
