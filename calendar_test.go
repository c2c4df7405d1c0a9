package agentfolio

import (
	"context"
	"testing"
	"time"
)

type wantEntry struct {
	day   string
	value float64
	id    int64
}

func checkHistory(t *testing.T, market Market, got []AssetHistoryEntry, want []wantEntry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		e := got[i]
		if at := ts(market, w.day); !e.Time.Equal(at) {
			t.Errorf("entry %d: time = %v, want %v", i, e.Time, at)
		}
		if v := M(w.value, market.Currency()); !e.Value.Equal(v) {
			t.Errorf("entry %d: value = %v, want %v", i, e.Value, v)
		}
		if e.SourceSnapshotID != w.id {
			t.Errorf("entry %d: source snapshot = %d, want %d", i, e.SourceSnapshotID, w.id)
		}
	}
}

func TestReconcile_SkipsWeekends(t *testing.T) {
	// 2025-10-03 is a Friday, 2025-10-06 a Monday.
	prices := priceTable{"AAPL": closes(USDaily, map[string]float64{
		"2025-10-03": 100,
		"2025-10-06": 110,
	})}
	normalized := Normalize(USDaily, []Snapshot{
		snap(USDaily, "2025-10-03", 1, 0, position{"AAPL": 10}, buy("AAPL", 10)),
		snap(USDaily, "2025-10-06", 2, 550, position{"AAPL": 5}, sell("AAPL", 5)),
	})

	got := Reconcile(context.Background(), normalized, newTestValuator(USDaily, prices))

	checkHistory(t, USDaily, got, []wantEntry{
		{"2025-10-03", 1000, 1},
		{"2025-10-06", 1100, 2},
	})
	for _, e := range got {
		if wd := e.Time.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("Reconcile() produced a weekend entry %v", e.Time)
		}
	}
}

func TestReconcile_CarriesForward(t *testing.T) {
	prices := priceTable{"AAPL": closes(USDaily, map[string]float64{
		"2025-10-02": 100,
		"2025-10-03": 105,
		"2025-10-06": 110,
	})}
	normalized := Normalize(USDaily, []Snapshot{
		snap(USDaily, "2025-10-02", 1, 0, position{"AAPL": 10}, buy("AAPL", 10)),
		snap(USDaily, "2025-10-06", 2, 0, position{"AAPL": 10}, nil),
	})

	got := Reconcile(context.Background(), normalized, newTestValuator(USDaily, prices))

	checkHistory(t, USDaily, got, []wantEntry{
		{"2025-10-02", 1000, 1},
		{"2025-10-03", 1050, 1},
		{"2025-10-06", 1100, 2},
	})
	if got[0].Action == nil {
		t.Errorf("Reconcile() lost the action of the adopted snapshot")
	}
	if got[1].Action != nil {
		t.Errorf("Reconcile() carried the action forward: %v", got[1].Action)
	}
}

func TestReconcile_DropsAShareDayWithoutPrice(t *testing.T) {
	prices := priceTable{"600519.SH": closes(CNDaily, map[string]float64{
		"2025-10-13": 1500,
		"2025-10-15": 1520,
	})}
	normalized := Normalize(CNDaily, []Snapshot{
		snap(CNDaily, "2025-10-13", 1, 50000, position{"600519.SH": 10}, buy("600519.SH", 10)),
		snap(CNDaily, "2025-10-15", 2, 50000, position{"600519.SH": 10}, nil),
	})

	got := Reconcile(context.Background(), normalized, newTestValuator(CNDaily, prices))

	checkHistory(t, CNDaily, got, []wantEntry{
		{"2025-10-13", 65000, 1},
		{"2025-10-15", 65200, 2},
	})
}
