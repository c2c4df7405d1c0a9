package date

import "iter"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// IsZero reports whether the range was never set.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Extend returns the smallest range containing both r and d.
func (r Range) Extend(d Date) Range {
	if r.IsZero() {
		return Range{From: d, To: d}
	}
	if d.Before(r.From) {
		r.From = d
	}
	if d.After(r.To) {
		r.To = d
	}
	return r
}

// Days iterates over every calendar day of the range, in order.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Weekdays iterates over the days of the range that are neither Saturday nor Sunday.
//
// Exchange holidays are not known here: they are weekdays without a price.
func (r Range) Weekdays() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := range r.Days() {
			if d.IsWeekend() {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}
