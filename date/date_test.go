package date

import (
	"slices"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-10-01", want: New(2025, time.October, 1)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "2025-10-16 16:00:00", want: New(2025, time.October, 16)},
		{in: "2025-10-16T13:35:00Z", want: New(2025, time.October, 16)},
		{in: "16/10/2025", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsWeekend(t *testing.T) {
	// 2025-10-04 is a Saturday.
	sat := New(2025, time.October, 4)
	if !sat.IsWeekend() || !sat.Add(1).IsWeekend() {
		t.Errorf("%v and %v should be weekend days", sat, sat.Add(1))
	}
	if sat.Add(2).IsWeekend() || sat.Add(-1).IsWeekend() {
		t.Errorf("%v and %v should be weekdays", sat.Add(2), sat.Add(-1))
	}
}

func TestRange_Weekdays(t *testing.T) {
	// Thursday to the following Tuesday.
	r := Range{From: New(2025, time.October, 2), To: New(2025, time.October, 7)}
	got := slices.Collect(r.Weekdays())
	want := []Date{
		New(2025, time.October, 2),
		New(2025, time.October, 3),
		New(2025, time.October, 6),
		New(2025, time.October, 7),
	}
	if !slices.Equal(got, want) {
		t.Errorf("Weekdays() = %v, want %v", got, want)
	}
}

func TestRange_Extend(t *testing.T) {
	var r Range
	r = r.Extend(New(2025, 10, 5))
	r = r.Extend(New(2025, 10, 1))
	r = r.Extend(New(2025, 10, 3))
	want := Range{From: New(2025, 10, 1), To: New(2025, 10, 5)}
	if r != want {
		t.Errorf("Extend() = %v, want %v", r, want)
	}
	if !r.Contains(New(2025, 10, 5)) || r.Contains(New(2025, 10, 6)) {
		t.Errorf("Contains() does not include boundaries only")
	}
}
