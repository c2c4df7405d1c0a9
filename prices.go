package agentfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/agentfolio/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PricePoint is a closing (or last trade) price at a point in time.
type PricePoint struct {
	Time  time.Time
	Day   date.Date // trading day of Time in the market's time zone
	Daily bool      // true if the source key was a plain date, without a time of day
	Close decimal.Decimal
}

// PriceSeries is a chronological series of prices for one symbol.
// Times are unique, the last appended point wins.
type PriceSeries struct {
	points []PricePoint
}

// Len returns the number of points in the series.
func (s *PriceSeries) Len() int { return len(s.points) }

// Points returns a copy of the points, in chronological order.
func (s *PriceSeries) Points() []PricePoint { return slices.Clone(s.points) }

// Append adds points to the series. Existing points at the same time are overwritten.
func (s *PriceSeries) Append(points ...PricePoint) *PriceSeries {
	for _, p := range points {
		i, found := slices.BinarySearchFunc(s.points, p.Time, func(x PricePoint, t time.Time) int { return x.Time.Compare(t) })
		if found {
			s.points[i] = p
			continue
		}
		s.points = slices.Insert(s.points, i, p)
	}
	return s
}

// At returns the price at exactly t.
func (s *PriceSeries) At(t time.Time) (PricePoint, bool) {
	i, found := slices.BinarySearchFunc(s.points, t, func(x PricePoint, t time.Time) int { return x.Time.Compare(t) })
	if !found {
		return PricePoint{}, false
	}
	return s.points[i], true
}

// AsOf returns the latest price at or before t.
func (s *PriceSeries) AsOf(t time.Time) (PricePoint, bool) {
	i, found := slices.BinarySearchFunc(s.points, t, func(x PricePoint, t time.Time) int { return x.Time.Compare(t) })
	if found {
		return s.points[i], true
	}
	if i == 0 {
		return PricePoint{}, false
	}
	return s.points[i-1], true
}

// AsOfDay returns the latest price on or before the trading day d.
func (s *PriceSeries) AsOfDay(d date.Date) (PricePoint, bool) {
	for i := len(s.points) - 1; i >= 0; i-- {
		if !s.points[i].Day.After(d) {
			return s.points[i], true
		}
	}
	return PricePoint{}, false
}

// OnDay returns the price keyed by the plain date d if any, otherwise the latest
// intraday price of that same day.
func (s *PriceSeries) OnDay(d date.Date) (PricePoint, bool) {
	var latest PricePoint
	var found bool
	for _, p := range s.points {
		if p.Day != d {
			continue
		}
		if p.Daily {
			return p, true
		}
		latest, found = p, true
	}
	return latest, found
}

// First returns the earliest price.
func (s *PriceSeries) First() (PricePoint, bool) {
	if len(s.points) == 0 {
		return PricePoint{}, false
	}
	return s.points[0], true
}

// closeKeys are the known spellings of the close price, in order of preference.
// Daily and hourly feeds spell it "4. close", the A-share feed "4. sell price".
var closeKeys = []string{"4. close", "4. sell price", "close", "c"}

// timeKeys are the known spellings of a bar timestamp.
var timeKeys = []string{"timestamp", "t", "date"}

func firstOf(obj map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// newPricePoint builds a point from a raw key and a raw close value.
func newPricePoint(market Market, key string, closing any) (PricePoint, error) {
	on, err := market.ParseTimestamp(key)
	if err != nil {
		return PricePoint{}, err
	}
	q, err := parseQuantity(closing)
	if err != nil {
		return PricePoint{}, fmt.Errorf("close price at %q: %w", key, err)
	}
	return PricePoint{
		Time:  on,
		Day:   market.Day(on),
		Daily: len(strings.TrimSpace(key)) == len(date.DateFormat),
		Close: q.value,
	}, nil
}

// symbolPaths locate the symbol of a merged price document.
var symbolPaths = []string{`$["Meta Data"]["2. Symbol"]`, `$.symbol`}

// DecodeMergedPrices reads a merged price file: one JSON document per line and
// per symbol, with a "Meta Data" header and a "Time Series (...)" object keyed
// by date or date and time.
//
// Unreadable documents and points are reported to log and skipped.
func DecodeMergedPrices(r io.Reader, market Market, log zerolog.Logger) (map[string]*PriceSeries, error) {
	result := make(map[string]*PriceSeries)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var jobj map[string]any
		if err := json.Unmarshal(line, &jobj); err != nil {
			log.Warn().Err(err).Int("line", i).Msg("discarding price document")
			continue
		}
		symbol := findSymbol(jobj)
		if symbol == "" {
			log.Warn().Int("line", i).Msg("discarding price document without symbol")
			continue
		}
		series := result[symbol]
		if series == nil {
			series = new(PriceSeries)
			result[symbol] = series
		}
		for key, value := range jobj {
			if !strings.HasPrefix(key, "Time Series") {
				continue
			}
			bars, ok := value.(map[string]any)
			if !ok {
				continue
			}
			for stamp, jbar := range bars {
				bar, ok := jbar.(map[string]any)
				if !ok {
					continue
				}
				closing, ok := firstOf(bar, closeKeys)
				if !ok {
					continue
				}
				p, err := newPricePoint(market, stamp, closing)
				if err != nil {
					log.Debug().Err(err).Str("symbol", symbol).Msg("skipping price point")
					continue
				}
				series.Append(p)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("cannot read prices: %w", err)
	}
	return result, nil
}

func findSymbol(jobj map[string]any) string {
	for _, path := range symbolPaths {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue
		}
		if s, ok := jval.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// DecodeBars reads an intraday bar file: {"bars": [{"timestamp": ..., "close": ...}, ...]}.
func DecodeBars(r io.Reader, market Market) ([]PricePoint, error) {
	var jfile struct {
		Bars []map[string]any `json:"bars"`
	}
	if err := json.NewDecoder(r).Decode(&jfile); err != nil {
		return nil, fmt.Errorf("cannot decode bars: %w", err)
	}
	points := make([]PricePoint, 0, len(jfile.Bars))
	for _, bar := range jfile.Bars {
		p, err := decodeBar(market, bar)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func decodeBar(market Market, bar map[string]any) (PricePoint, error) {
	jstamp, ok := firstOf(bar, timeKeys)
	if !ok {
		return PricePoint{}, fmt.Errorf("bar without timestamp")
	}
	stamp, ok := jstamp.(string)
	if !ok {
		return PricePoint{}, fmt.Errorf("bar timestamp must be of type 'string' got %T", jstamp)
	}
	closing, ok := firstOf(bar, closeKeys)
	if !ok {
		return PricePoint{}, fmt.Errorf("bar at %q without close price", stamp)
	}
	p, err := newPricePoint(market, stamp, closing)
	if err != nil {
		return PricePoint{}, err
	}
	p.Daily = false
	return p, nil
}

// DecodeLatestBar reads the single bar document refreshed by the latest bar poller:
// {"symbol": "AAPL", "bar": {"t": ..., "c": ...}, "meta": {...}}.
func DecodeLatestBar(r io.Reader, market Market) (PricePoint, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return PricePoint{}, fmt.Errorf("cannot decode latest bar: %w", err)
	}
	jbar, err := jsonpath.Get("$.bar", jobj)
	if err != nil {
		return PricePoint{}, fmt.Errorf("latest bar: %w", err)
	}
	bar, ok := jbar.(map[string]any)
	if !ok {
		return PricePoint{}, fmt.Errorf("latest bar must be an object got %T", jbar)
	}
	return decodeBar(market, bar)
}
