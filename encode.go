package agentfolio

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// This file decodes the documents written by the trading agents, and encodes
// the reconstructed results for the chart layer.
//
// Agent logs are JSONL files, one record per decision cycle:
//
//	{"date": "2025-10-02", "id": 3, "this_action": {"action": "buy", "symbol": "NVDA", "amount": 10}, "positions": {"CASH": 8123.5, "NVDA": 10}}
//
// A malformed record is logged and skipped, it never fails the whole log.

// ErrMalformedRecord is wrapped by every record level decoding error.
var ErrMalformedRecord = errors.New("malformed record")

// jsnapshot is the object read from a log line using the json parser.
type jsnapshot struct {
	Date       string         `json:"date"`
	ID         *json.Number   `json:"id"`
	ActionID   *json.Number   `json:"action_id"` // live intraday agents write their first record this way
	ThisAction *jaction       `json:"this_action"`
	Positions  map[string]any `json:"positions"`
}

type jaction struct {
	Action string `json:"action"`
	Symbol string `json:"symbol"`
	Amount any    `json:"amount"`
}

// decodeSnapshot validates a single record. previousID is used when the record has no id.
func decodeSnapshot(market Market, line []byte, previousID int64) (Snapshot, error) {
	var js jsnapshot
	if err := json.Unmarshal(line, &js); err != nil {
		return Snapshot{}, fmt.Errorf("%w: not a correct json: %w", ErrMalformedRecord, err)
	}
	if js.Date == "" {
		return Snapshot{}, fmt.Errorf("%w: missing the property %q", ErrMalformedRecord, "date")
	}
	on, err := market.ParseTimestamp(js.Date)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: property %q: %w", ErrMalformedRecord, "date", err)
	}
	if js.Positions == nil {
		return Snapshot{}, fmt.Errorf("%w: missing the property %q", ErrMalformedRecord, "positions")
	}

	s := Snapshot{
		Time:       on,
		Key:        market.Key(on),
		SequenceID: previousID,
		Holdings:   make(map[string]Quantity, len(js.Positions)),
	}
	id := js.ID
	if id == nil {
		id = js.ActionID
	}
	if id != nil {
		seq, err := id.Int64()
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: property %q must be an integer: %w", ErrMalformedRecord, "id", err)
		}
		s.SequenceID = seq
	}

	for symbol, v := range js.Positions {
		q, err := parseQuantity(v)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: position %q: %w", ErrMalformedRecord, symbol, err)
		}
		if symbol == CashKey {
			s.Cash = M(q.value, market.Currency()).ptr()
			continue
		}
		s.Holdings[symbol] = q
	}

	if js.ThisAction != nil {
		kind, err := parseActionKind(js.ThisAction.Action)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		a := &TradeAction{Kind: kind, Symbol: strings.TrimSpace(js.ThisAction.Symbol)}
		if kind != NoTrade {
			q, err := parseQuantity(js.ThisAction.Amount)
			if err != nil {
				return Snapshot{}, fmt.Errorf("%w: action amount: %w", ErrMalformedRecord, err)
			}
			if q.IsNegative() {
				return Snapshot{}, fmt.Errorf("%w: negative action amount %v", ErrMalformedRecord, q)
			}
			if a.Symbol == "" {
				return Snapshot{}, fmt.Errorf("%w: %s action without a symbol", ErrMalformedRecord, kind)
			}
			a.Quantity = q
		}
		s.Action = a
	}
	return s, nil
}

// DecodeSnapshots reads an agent log in arrival order.
//
// Malformed lines are reported to log and discarded, the returned error is only
// about reading r.
func DecodeSnapshots(r io.Reader, market Market, log zerolog.Logger) ([]Snapshot, error) {
	var snapshots []Snapshot
	var previousID int64
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		s, err := decodeSnapshot(market, line, previousID)
		if err != nil {
			log.Warn().Err(err).Int("line", i).Msg("discarding log record")
			continue
		}
		previousID = s.SequenceID
		snapshots = append(snapshots, s)
	}
	if err := scanner.Err(); err != nil {
		return snapshots, fmt.Errorf("cannot read log: %w", err)
	}
	return snapshots, nil
}

// DefaultInitialCash is the starting cash of agents that do not declare one.
const DefaultInitialCash = 10000

// Metadata is the per-agent configuration written next to its log.
type Metadata struct {
	StartTime   *time.Time // nil when unknown
	InitialCash Money
}

// DecodeMetadata reads an agent configuration document. Missing fields get defaults.
func DecodeMetadata(r io.Reader, market Market) (Metadata, error) {
	var jmeta struct {
		StartTime   string `json:"start_time"`
		InitialCash any    `json:"initial_cash"`
	}
	md := Metadata{InitialCash: M(DefaultInitialCash, market.Currency())}
	if err := json.NewDecoder(r).Decode(&jmeta); err != nil {
		return md, fmt.Errorf("cannot decode agent metadata: %w", err)
	}
	if jmeta.StartTime != "" {
		on, err := market.ParseTimestamp(jmeta.StartTime)
		if err != nil {
			return md, fmt.Errorf("agent metadata %q: %w", "start_time", err)
		}
		md.StartTime = &on
	}
	if jmeta.InitialCash != nil {
		q, err := parseQuantity(jmeta.InitialCash)
		if err != nil {
			return md, fmt.Errorf("agent metadata %q: %w", "initial_cash", err)
		}
		md.InitialCash = M(q.value, market.Currency())
	}
	return md, nil
}

// EncodeResults writes results as an indented JSON document.
func EncodeResults(w io.Writer, r *Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("cannot encode results: %w", err)
	}
	return nil
}
