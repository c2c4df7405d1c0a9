package agentfolio

import (
	"cmp"
	"slices"
)

// recordKey identifies a logged record: a record written twice shares both.
type recordKey struct {
	key string
	seq int64
}

// Order returns snapshots in chronological order, ties broken by sequence id.
//
// A record repeated with the same key and sequence id is kept once, the last
// arrival wins. In the A-share market weekend snapshots are dropped, and times
// are stripped down to the day.
func Order(market Market, snapshots []Snapshot) []Snapshot {
	ordered := make([]Snapshot, 0, len(snapshots))
	seen := make(map[recordKey]int, len(snapshots))
	for _, s := range snapshots {
		if market == CNDaily {
			day := market.Day(s.Time)
			if day.IsWeekend() {
				continue
			}
			s.Time = day.In(market.Location())
			s.Key = day.String()
		}
		k := recordKey{s.Key, s.SequenceID}
		if i, ok := seen[k]; ok {
			ordered[i] = s
			continue
		}
		seen[k] = len(ordered)
		ordered = append(ordered, s)
	}
	slices.SortStableFunc(ordered, func(a, b Snapshot) int {
		return cmp.Or(a.Time.Compare(b.Time), cmp.Compare(a.SequenceID, b.SequenceID))
	})
	return ordered
}

// Normalize returns exactly one snapshot per timestamp key, the one with the
// highest sequence id, in chronological order.
//
// The key is the calendar day in the A-share market and the full timestamp
// otherwise, see Market.Key.
func Normalize(market Market, snapshots []Snapshot) []Snapshot {
	ordered := Order(market, snapshots)
	index := make(map[string]int, len(ordered))
	result := make([]Snapshot, 0, len(ordered))
	for _, s := range ordered {
		i, seen := index[s.Key]
		if !seen {
			index[s.Key] = len(result)
			result = append(result, s)
			continue
		}
		if s.SequenceID >= result[i].SequenceID {
			result[i] = s
		}
	}
	return result
}
