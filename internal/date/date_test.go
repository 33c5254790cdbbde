package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	d, err := Parse("2024-01-02")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.January || d.Day() != 2 {
		t.Errorf("Parse = %v, want 2024-01-02", d)
	}
}

func TestParse_SingleDigit(t *testing.T) {
	d, err := Parse("2024-1-2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.String() != "2024-01-02" {
		t.Errorf("String = %q, want 2024-01-02", d.String())
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse("02/01/2024"); err == nil {
		t.Error("expected error for non-ISO input")
	}
	if _, err := Parse(""); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestNew_Normalizes(t *testing.T) {
	// Day overflow rolls into the next month
	d := New(2024, time.January, 32)
	if d.String() != "2024-02-01" {
		t.Errorf("New(2024,1,32) = %v, want 2024-02-01", d)
	}
}

func TestOrdering(t *testing.T) {
	a := MustParse("2024-01-02")
	b := MustParse("2024-01-03")

	if !a.Before(b) {
		t.Error("a.Before(b) = false")
	}
	if !b.After(a) {
		t.Error("b.After(a) = false")
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("Compare ordering wrong")
	}
	if (Date{}).Before(a) != true {
		t.Error("zero date should sort before real dates")
	}
}

func TestAdd(t *testing.T) {
	d := MustParse("2024-02-28")
	if got := d.Add(1).String(); got != "2024-02-29" {
		t.Errorf("Add(1) = %s, want 2024-02-29 (leap year)", got)
	}
	if got := d.Add(-28).String(); got != "2024-01-31" {
		t.Errorf("Add(-28) = %s, want 2024-01-31", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := MustParse("2024-06-30")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"2024-06-30"` {
		t.Errorf("Marshal = %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestAscending(t *testing.T) {
	ds := []Date{MustParse("2024-01-01"), MustParse("2024-01-02"), MustParse("2024-01-05")}
	if !Ascending(ds) {
		t.Error("Ascending = false for sorted dates")
	}
	dup := []Date{MustParse("2024-01-01"), MustParse("2024-01-01")}
	if Ascending(dup) {
		t.Error("Ascending = true for duplicate dates")
	}
	if !Ascending(nil) {
		t.Error("Ascending(nil) should be true")
	}
}
