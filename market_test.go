package agentfolio

import (
	"testing"
	"time"
)

func TestParseMarket(t *testing.T) {
	testCases := []struct {
		in      string
		want    Market
		wantErr bool
	}{
		{in: "us", want: USDaily},
		{in: "US-5min", want: USIntraday},
		{in: "intraday", want: USIntraday},
		{in: "cn", want: CNDaily},
		{in: "a_stock", want: CNDaily},
		{in: "crypto", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMarket(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseMarket(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseMarket(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMarket_ParseTimestamp(t *testing.T) {
	testCases := []struct {
		market Market
		in     string
		want   time.Time
	}{
		{USDaily, "2025-10-02", time.Date(2025, 10, 2, 4, 0, 0, 0, time.UTC)},
		{USIntraday, "2025-10-02 09:35:00", time.Date(2025, 10, 2, 13, 35, 0, 0, time.UTC)},
		{USIntraday, "2025-10-02T13:35:00Z", time.Date(2025, 10, 2, 13, 35, 0, 0, time.UTC)},
		{CNDaily, "2025-10-13 10:00:00", time.Date(2025, 10, 13, 2, 0, 0, 0, time.UTC)},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := tc.market.ParseTimestamp(tc.in)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) error = %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tc.in, got.UTC(), tc.want)
			}
		})
	}
	if _, err := USDaily.ParseTimestamp("02/10/2025"); err == nil {
		t.Errorf("ParseTimestamp(02/10/2025) want an error")
	}
}

func TestMarket_Key(t *testing.T) {
	at := ts(CNDaily, "2025-10-13 14:55:00")
	if got, want := CNDaily.Key(at), "2025-10-13"; got != want {
		t.Errorf("CNDaily.Key() = %q, want %q", got, want)
	}
	at = ts(USIntraday, "2025-10-06 09:35:00")
	if got, want := USIntraday.Key(at), "2025-10-06T09:35:00-04:00"; got != want {
		t.Errorf("USIntraday.Key() = %q, want %q", got, want)
	}
}
