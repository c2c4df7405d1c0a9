package agentfolio

import (
	"context"
	"time"
)

// InjectedSnapshotID is the SourceSnapshotID of an entry that no snapshot backs:
// the initial cash injected at the agent's start time.
const InjectedSnapshotID = -1

// AssetHistoryEntry is the total value of an agent's portfolio at a point in time.
type AssetHistoryEntry struct {
	Time             time.Time    `json:"time"`
	Value            Money        `json:"value"`
	SourceSnapshotID int64        `json:"sourceSnapshotId"`
	Action           *TradeAction `json:"triggeringAction,omitempty"`
}

// BuildAssetHistory values normalized snapshots.
//
// Daily markets go through Reconcile. The intraday market values each snapshot
// at its own time, gaps are left for the time axis of the consumer to fill.
//
// The first entry is always worth md.InitialCash: it is injected at the
// agent's start time when that precedes the first entry, otherwise the first
// entry's value is overwritten. Every agent starts from the same ground.
func BuildAssetHistory(ctx context.Context, normalized []Snapshot, v *Valuator, md Metadata) []AssetHistoryEntry {
	var history []AssetHistoryEntry
	if v.Market().IsDaily() {
		history = Reconcile(ctx, normalized, v)
	} else {
		history = make([]AssetHistoryEntry, 0, len(normalized))
		for i := range normalized {
			s := &normalized[i]
			value, err := v.Value(ctx, s, s.Time)
			if err != nil {
				v.log.Info().Err(err).Time("time", s.Time).Msg("dropping snapshot from asset history")
				continue
			}
			history = append(history, AssetHistoryEntry{
				Time:             s.Time,
				Value:            value,
				SourceSnapshotID: s.SequenceID,
				Action:           s.Action,
			})
		}
	}
	return withInitialCash(history, md)
}

// withInitialCash enforces the initial cash invariant on a non empty history.
func withInitialCash(history []AssetHistoryEntry, md Metadata) []AssetHistoryEntry {
	if len(history) == 0 {
		return history
	}
	if md.StartTime != nil && md.StartTime.Before(history[0].Time) {
		injected := AssetHistoryEntry{
			Time:             *md.StartTime,
			Value:            md.InitialCash,
			SourceSnapshotID: InjectedSnapshotID,
		}
		return append([]AssetHistoryEntry{injected}, history...)
	}
	history[0].Value = md.InitialCash
	return history
}

// valueAsOf returns the value of the latest entry at or before t.
func valueAsOf(history []AssetHistoryEntry, t time.Time) (Money, bool) {
	var value Money
	found := false
	for _, e := range history {
		if e.Time.After(t) {
			break
		}
		value, found = e.Value, true
	}
	return value, found
}
