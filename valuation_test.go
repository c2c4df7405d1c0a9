package agentfolio

import (
	"context"
	"errors"
	"testing"
)

func TestValuator_Value(t *testing.T) {
	us := priceTable{"AAPL": closes(USDaily, map[string]float64{"2025-10-02": 100})}
	cn := priceTable{"600519.SH": closes(CNDaily, map[string]float64{"2025-10-13": 1500})}

	testCases := []struct {
		name     string
		market   Market
		prices   priceTable
		snapshot Snapshot
		at       string
		want     Money
		wantErr  error
	}{
		{
			name:     "cash and holdings",
			market:   USDaily,
			prices:   us,
			snapshot: snap(USDaily, "2025-10-02", 1, 500, position{"AAPL": 3}, nil),
			at:       "2025-10-02",
			want:     usd(800),
		},
		{
			name:     "zero quantity is not looked up",
			market:   USDaily,
			prices:   us,
			snapshot: snap(USDaily, "2025-10-02", 1, 500, position{"MSFT": 0}, nil),
			at:       "2025-10-02",
			want:     usd(500),
		},
		{
			name:     "us missing price counts for zero",
			market:   USDaily,
			prices:   us,
			snapshot: snap(USDaily, "2025-10-02", 1, 500, position{"AAPL": 1, "MSFT": 4}, nil),
			at:       "2025-10-02",
			want:     usd(600),
		},
		{
			name:     "a-share missing price fails",
			market:   CNDaily,
			prices:   cn,
			snapshot: snap(CNDaily, "2025-10-14", 1, 500, position{"600519.SH": 1}, nil),
			at:       "2025-10-14",
			wantErr:  ErrPriceNotAvailable,
		},
		{
			name:     "short positions are negative",
			market:   CNDaily,
			prices:   cn,
			snapshot: snap(CNDaily, "2025-10-13", 1, 5000, position{"600519.SH": -2}, nil),
			at:       "2025-10-13",
			want:     cny(2000),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := newTestValuator(tc.market, tc.prices)
			got, err := v.Value(context.Background(), &tc.snapshot, ts(tc.market, tc.at))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Value() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Value() error = %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("Value() = %v, want %v", got, tc.want)
			}
		})
	}
}
