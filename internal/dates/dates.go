package dates

import (
	"fmt"
	"time"
)

// Layout is the wire and storage format for calendar dates. Stay ranges are
// half-open: [check_in, check_out). Because the format is fixed-width ISO,
// lexicographic comparison of two date strings matches chronological order,
// which the store relies on for its ascending-date lock discipline.
const Layout = "2006-01-02"

// Parse converts a YYYY-MM-DD string into a UTC time at midnight.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Format renders t as a YYYY-MM-DD string in UTC.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Nights expands a half-open stay range into the list of nights it covers,
// in ascending order. A one-night stay yields exactly the check-in date.
// Returns an empty slice when checkOut is not after checkIn.
func Nights(checkIn, checkOut string) ([]string, error) {
	start, err := Parse(checkIn)
	if err != nil {
		return nil, err
	}
	end, err := Parse(checkOut)
	if err != nil {
		return nil, err
	}

	var nights []string
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		nights = append(nights, Format(d))
	}
	return nights, nil
}
