package agentfolio

import (
	"context"

	"github.com/etnz/agentfolio/date"
)

// Reconcile values normalized snapshots on a daily trading calendar.
//
// Every weekday from the first to the last snapshot day gets a valuation of
// the latest snapshot on or before that day. A day that cannot be valued, in
// practice an A-share day missing a price for a held symbol, is dropped from
// the history: it is neither zero-filled nor interpolated.
func Reconcile(ctx context.Context, normalized []Snapshot, v *Valuator) []AssetHistoryEntry {
	if len(normalized) == 0 {
		return nil
	}
	market := v.Market()
	loc := market.Location()
	days := date.Range{
		From: market.Day(normalized[0].Time),
		To:   market.Day(normalized[len(normalized)-1].Time),
	}

	var history []AssetHistoryEntry
	var current *Snapshot
	next := 0
	for day := range days.Weekdays() {
		adopted := false
		for next < len(normalized) && !market.Day(normalized[next].Time).After(day) {
			current = &normalized[next]
			adopted = true
			next++
		}
		if current == nil {
			continue
		}
		at := day.In(loc)
		value, err := v.Value(ctx, current, at)
		if err != nil {
			v.log.Info().Err(err).Stringer("day", day).Msg("dropping day from asset history")
			continue
		}
		entry := AssetHistoryEntry{
			Time:             at,
			Value:            value,
			SourceSnapshotID: current.SequenceID,
		}
		if adopted {
			entry.Action = current.Action
		}
		history = append(history, entry)
	}
	return history
}
