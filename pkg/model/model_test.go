package model

import "testing"

func TestFormatFrequency(t *testing.T) {
	tests := []struct {
		hz   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1KHz"},
		{12500, "12.5KHz"},
		{91500000, "91.5MHz"},
		{100300000, "100.3MHz"},
		{1000000000, "1GHz"},
		{1296123456, "1.296123456GHz"},
		{-2500000, "-2.5MHz"},
	}
	for _, tt := range tests {
		if got := FormatFrequency(tt.hz); got != tt.want {
			t.Errorf("FormatFrequency(%d) = %q, want %q", tt.hz, got, tt.want)
		}
	}
}

func TestDisplayNames(t *testing.T) {
	bm := &Bookmark{Type: "FM", Frequency: 91500000}
	if got := bm.DisplayName(); got != "91.5MHz FM" {
		t.Errorf("unlabelled bookmark display = %q", got)
	}
	bm.Label = "NPR"
	if got := bm.DisplayName(); got != "NPR" {
		t.Errorf("labelled bookmark display = %q", got)
	}

	d := &Demodulator{Type: "AM", Frequency: 1000000}
	if got := d.DisplayName(); got != "1MHz AM" {
		t.Errorf("demod display = %q", got)
	}

	r := &Range{Start: 88000000, End: 108000000}
	if got := r.DisplayName(); got != "88MHz - 108MHz" {
		t.Errorf("range display = %q", got)
	}
	if r.Center() != 98000000 {
		t.Errorf("range center = %d", r.Center())
	}
}

func TestNewRangeOrdersBounds(t *testing.T) {
	r := NewRange("", 200, 100)
	if r.Start != 100 || r.End != 200 {
		t.Fatalf("expected swapped bounds, got %d-%d", r.Start, r.End)
	}
	if r.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestBookmarkValidate(t *testing.T) {
	if err := NewBookmark("x", "FM", 100, 10).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (&Bookmark{ID: "a"}).Validate(); err == nil {
		t.Fatal("expected error for zero frequency")
	}
	if err := (&Bookmark{Frequency: 1}).Validate(); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestDemodulatorMatches(t *testing.T) {
	d := &Demodulator{Type: "FM", UserLabel: "NPR", Frequency: 91500000, Bandwidth: 200000}
	if !d.Matches("FM", "NPR", 91500000, 200000) {
		t.Fatal("expected match")
	}
	if d.Matches("FM", "", 91500000, 200000) {
		t.Fatal("label must participate in match")
	}
	bm := d.ToBookmark()
	if bm.Label != "NPR" || bm.Frequency != 91500000 || bm.ID == "" {
		t.Fatalf("bad bookmark snapshot: %+v", bm)
	}
}
