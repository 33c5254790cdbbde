package market

import (
	"testing"

	"ballast/internal/date"
	"ballast/internal/panel"
)

func TestHistory_Lookup(t *testing.T) {
	d1 := date.MustParse("2024-01-02")
	d2 := date.MustParse("2024-01-03")
	h := NewHistory([]Bar{
		{Symbol: "AAA", Date: d1, Close: 100},
		{Symbol: "AAA", Date: d2, Close: 110},
		{Symbol: "BBB", Date: d1, Close: 50},
	})

	if h.Len() != 3 {
		t.Errorf("Len = %d, want 3", h.Len())
	}
	if c, ok := h.Close("AAA", d2); !ok || c != 110 {
		t.Errorf("Close(AAA, d2) = %f/%v, want 110/true", c, ok)
	}
	if _, ok := h.Close("BBB", d2); ok {
		t.Error("unquoted date should report false")
	}
	if _, ok := h.Close("ZZZ", d1); ok {
		t.Error("unknown symbol should report false")
	}
}

func TestHistory_AddOverwrites(t *testing.T) {
	d := date.MustParse("2024-01-02")
	h := NewHistory([]Bar{{Symbol: "AAA", Date: d, Close: 100}})
	h.Add(Bar{Symbol: "AAA", Date: d, Close: 101})
	if c, _ := h.Close("AAA", d); c != 101 {
		t.Errorf("Close = %f, want 101 after overwrite", c)
	}
	if h.Len() != 1 {
		t.Errorf("Len = %d, want 1", h.Len())
	}
}

func TestHistory_Axes(t *testing.T) {
	d1 := date.MustParse("2024-01-02")
	d2 := date.MustParse("2024-01-03")
	h := NewHistory([]Bar{
		{Symbol: "BBB", Date: d2, Close: 55},
		{Symbol: "AAA", Date: d1, Close: 100},
	})

	syms := h.Symbols()
	if len(syms) != 2 || syms[0] != "AAA" || syms[1] != "BBB" {
		t.Errorf("Symbols = %v, want [AAA BBB]", syms)
	}
	ds := h.Dates()
	if len(ds) != 2 || ds[0] != d1 || ds[1] != d2 {
		t.Errorf("Dates = %v, want ascending [d1 d2]", ds)
	}
}

func TestHistory_ClosePanel(t *testing.T) {
	d1 := date.MustParse("2024-01-02")
	d2 := date.MustParse("2024-01-03")
	h := NewHistory([]Bar{
		{Symbol: "AAA", Date: d1, Close: 100},
		{Symbol: "AAA", Date: d2, Close: 110},
		{Symbol: "BBB", Date: d1, Close: 50},
	})

	f, err := h.ClosePanel([]date.Date{d1, d2}, []string{"AAA", "BBB"})
	if err != nil {
		t.Fatalf("ClosePanel: %v", err)
	}
	if v := f.At(d1, "AAA"); v != 100 {
		t.Errorf("AAA@d1 = %f, want 100", v)
	}
	if v := f.At(d2, "BBB"); !panel.IsMissing(v) {
		t.Errorf("BBB@d2 = %f, want missing", v)
	}
}

func TestHistory_ClosePanelBadAxes(t *testing.T) {
	h := NewHistory(nil)
	dup := []date.Date{date.MustParse("2024-01-02"), date.MustParse("2024-01-02")}
	if _, err := h.ClosePanel(dup, []string{"AAA"}); err == nil {
		t.Error("expected error for duplicate dates")
	}
}
