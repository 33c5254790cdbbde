package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// Format is the canonical ISO-8601 day format used everywhere dates are rendered
const Format = "2006-01-02"

// readFormat additionally accepts single-digit month/day on input
const readFormat = "2006-1-2"

// Date is a civil date with day granularity. The zero value is usable as
// "no date" and sorts before any real date. Date is comparable and can key maps.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month and day
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Parse reads an ISO day string such as "2024-01-02" (single-digit parts accepted)
func Parse(s string) (Date, error) {
	t, err := time.Parse(readFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format %q: %w", s, Format, err)
	}
	return New(t.Date()), nil
}

// MustParse is Parse that panics on error; for fixtures and defaults
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// FromTime truncates a time.Time to its civil date
func FromTime(t time.Time) Date { return New(t.Date()) }

// Today returns the current date
func Today() Date { return New(time.Now().Date()) }

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Time returns the date at midnight UTC
func (d Date) Time() time.Time { return d.time() }

// Year returns the calendar year
func (d Date) Year() int { return d.y }

// Month returns the calendar month
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month
func (d Date) Day() int { return d.d }

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether d is strictly before x
func (d Date) Before(x Date) bool {
	if d.y != x.y {
		return d.y < x.y
	}
	if d.m != x.m {
		return d.m < x.m
	}
	return d.d < x.d
}

// After reports whether d is strictly after x
func (d Date) After(x Date) bool { return x.Before(d) }

// Compare returns -1, 0 or +1 ordering d against x
func (d Date) Compare(x Date) int {
	switch {
	case d.Before(x):
		return -1
	case d.After(x):
		return 1
	default:
		return 0
	}
}

// Add returns the date i days later (or earlier for negative i)
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// String renders the date in ISO form
func (d Date) String() string { return d.time().Format(Format) }

// MarshalJSON renders the date as an ISO string
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON reads the date from an ISO string
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	p, err := Parse(s)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = (*Date)(nil)

// Ascending reports whether ds is strictly increasing
func Ascending(ds []Date) bool {
	for i := 1; i < len(ds); i++ {
		if !ds[i-1].Before(ds[i]) {
			return false
		}
	}
	return true
}
