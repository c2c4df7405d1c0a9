package agentfolio

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/etnz/agentfolio/date"
)

// Market identifies the temporal regime a set of agents traded under.
//
// It drives the price lookup policy, the deduplication key of snapshots and
// whether valuations are laid on a daily calendar or per snapshot.
type Market int

const (
	USDaily    Market = iota // US equities, one decision per trading day.
	USIntraday               // US equities, one decision per 5-minute bar.
	CNDaily                  // China A-shares, daily with weekend skipping.
)

func (m Market) String() string {
	switch m {
	case USDaily:
		return "us"
	case USIntraday:
		return "us-5min"
	case CNDaily:
		return "cn"
	default:
		panic(fmt.Sprintf("unknown market %d", m))
	}
}

func (m Market) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Market) UnmarshalText(text []byte) (err error) {
	*m, err = ParseMarket(string(text))
	return err
}

// ParseMarket parses the name of a market as returned by String.
func ParseMarket(s string) (Market, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "us", "us-daily", "daily":
		return USDaily, nil
	case "us-5min", "us-intraday", "5min", "intraday":
		return USIntraday, nil
	case "cn", "astock", "a-stock", "a_stock":
		return CNDaily, nil
	default:
		return USDaily, fmt.Errorf("unknown market %q", s)
	}
}

// Currency returns the ISO code of the currency agents hold their cash in.
func (m Market) Currency() string {
	if m == CNDaily {
		return "CNY"
	}
	return "USD"
}

// IsDaily reports whether valuations are laid on a daily trading calendar.
func (m Market) IsDaily() bool { return m != USIntraday }

// Location returns the exchange time zone, used to read naive timestamps.
//
// It falls back to UTC if the time zone database is not available.
func (m Market) Location() *time.Location {
	if m == CNDaily {
		return shanghai()
	}
	return newYork()
}

var (
	newYork  = sync.OnceValue(func() *time.Location { return loadLocation("America/New_York") })
	shanghai = sync.OnceValue(func() *time.Location { return loadLocation("Asia/Shanghai") })
)

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Key returns the timestamp key used to deduplicate snapshots in this market.
func (m Market) Key(t time.Time) string {
	t = t.In(m.Location())
	if m == CNDaily {
		return date.Of(t).String()
	}
	return t.Format(time.RFC3339)
}

// Day returns the trading day of t in this market's time zone.
func (m Market) Day(t time.Time) date.Date { return date.Of(t.In(m.Location())) }

// timestamp layouts accepted in logs and price documents, most specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp reads a timestamp as written by the agents and the price feeds.
//
// Timestamps without an offset are read in the market's exchange time zone.
func (m Market) ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	loc := m.Location()
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
