package agentfolio

import (
	"context"
	"testing"
)

func TestBuildAssetHistory_InitialCash(t *testing.T) {
	prices := priceTable{"AAPL": closes(USDaily, map[string]float64{
		"2025-10-02": 120,
		"2025-10-03": 125,
	})}
	snapshots := Normalize(USDaily, []Snapshot{
		// the natural value of the first snapshot is 10200, not the initial cash
		snap(USDaily, "2025-10-02", 1, 9000, position{"AAPL": 10}, buy("AAPL", 10)),
		snap(USDaily, "2025-10-03", 2, 9000, position{"AAPL": 10}, nil),
	})
	start := ts(USDaily, "2025-10-01")

	testCases := []struct {
		name string
		md   Metadata
		want []wantEntry
	}{
		{
			name: "overwritten",
			md:   Metadata{InitialCash: usd(10000)},
			want: []wantEntry{
				{"2025-10-02", 10000, 1},
				{"2025-10-03", 10250, 2},
			},
		},
		{
			name: "injected",
			md:   Metadata{StartTime: &start, InitialCash: usd(10000)},
			want: []wantEntry{
				{"2025-10-01", 10000, InjectedSnapshotID},
				{"2025-10-02", 10200, 1},
				{"2025-10-03", 10250, 2},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildAssetHistory(context.Background(), snapshots, newTestValuator(USDaily, prices), tc.md)
			checkHistory(t, USDaily, got, tc.want)
		})
	}
}

func TestBuildAssetHistory_Intraday(t *testing.T) {
	prices := priceTable{"NVDA": closes(USIntraday, map[string]float64{
		"2025-10-06 09:35:00": 100,
		"2025-10-06 09:40:00": 101,
		"2025-10-06 09:45:00": 102,
	})}
	snapshots := Normalize(USIntraday, []Snapshot{
		snap(USIntraday, "2025-10-06 09:30:00", 0, 10000, nil, nil),
		snap(USIntraday, "2025-10-06 09:40:00", 1, 9000, position{"NVDA": 10}, buy("NVDA", 10)),
		snap(USIntraday, "2025-10-06 09:50:00", 2, 9000, position{"NVDA": 10}, nil),
	})

	got := BuildAssetHistory(context.Background(), snapshots, newTestValuator(USIntraday, prices), Metadata{InitialCash: usd(10000)})

	checkHistory(t, USIntraday, got, []wantEntry{
		{"2025-10-06 09:30:00", 10000, 0},
		{"2025-10-06 09:40:00", 10010, 1},
		{"2025-10-06 09:50:00", 10020, 2},
	})
}

func TestBuildAssetHistory_Empty(t *testing.T) {
	got := BuildAssetHistory(context.Background(), nil, newTestValuator(USDaily, priceTable{}), Metadata{InitialCash: usd(10000)})
	if len(got) != 0 {
		t.Errorf("BuildAssetHistory(nil) = %v, want empty", got)
	}
}
