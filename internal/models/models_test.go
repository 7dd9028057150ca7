package models

import (
	"math"
	"testing"
)

func TestFilterCriteriaNormalize(t *testing.T) {
	f := FilterCriteria{}.Normalize()
	if f.Page != 1 || f.Limit != 10 {
		t.Fatalf("unexpected defaults: %+v", f)
	}
	f = FilterCriteria{Page: 3, Limit: 4}.Normalize()
	if f.Page != 3 || f.Limit != 4 || f.Offset() != 8 {
		t.Fatalf("unexpected normalized criteria: %+v offset=%d", f, f.Offset())
	}
}

func TestFilterSentinels(t *testing.T) {
	cases := []struct {
		in   FilterCriteria
		prod string
		mkt  string
	}{
		{FilterCriteria{}, "", ""},
		{FilterCriteria{Product: NoProductFilter, Market: NoMarketFilter}, "", ""},
		{FilterCriteria{Product: "select product", Market: " "}, "", ""},
		{FilterCriteria{Product: "Beans", Market: "Kitale"}, "Beans", "Kitale"},
	}
	for _, tc := range cases {
		if got := tc.in.ProductFilter(); got != tc.prod {
			t.Fatalf("product filter for %+v: got %q want %q", tc.in, got, tc.prod)
		}
		if got := tc.in.MarketFilter(); got != tc.mkt {
			t.Fatalf("market filter for %+v: got %q want %q", tc.in, got, tc.mkt)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ total, limit, want int }{
		{0, 10, 0}, {5, 10, 1}, {10, 10, 1}, {11, 10, 2}, {5, 3, 2}, {5, 0, 0},
	}
	for _, tc := range cases {
		p := &PriceList{Total: tc.total, Limit: tc.limit}
		if got := p.TotalPages(); got != tc.want {
			t.Fatalf("total=%d limit=%d: got %d want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestExportDateRange(t *testing.T) {
	e := ExportCriteria{StartDate: "2024-03-01", EndDate: "2024-03-31"}
	if !e.InDateRange("2024-03-20") || e.InDateRange("2024-04-01") || e.InDateRange("2024-02-29") {
		t.Fatalf("date range check failed")
	}
	if !(ExportCriteria{}).InDateRange("1999-01-01") {
		t.Fatalf("open range should match everything")
	}
}

func TestCanonicalCounty(t *testing.T) {
	if len(Counties) != 47 {
		t.Fatalf("expected 47 counties, got %d", len(Counties))
	}
	got, ok := CanonicalCounty("  trans nzoia ")
	if !ok || got != "Trans Nzoia" {
		t.Fatalf("unexpected canonical county %q %v", got, ok)
	}
	if _, ok := CanonicalCounty("Atlantis"); ok {
		t.Fatalf("unknown county accepted")
	}
}

func TestLimitIsCapped(t *testing.T) {
	f := FilterCriteria{Page: 2, Limit: 5000}.Normalize()
	if f.Limit != MaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", MaxLimit, f.Limit)
	}
}

func TestPageOffsetSaturates(t *testing.T) {
	cases := []struct {
		page, limit, want int
	}{
		{1, 10, 0},
		{0, 10, 0},
		{3, 4, 8},
		{1 << 62, 4, math.MaxInt},
		{math.MaxInt, MaxLimit, math.MaxInt},
	}
	for _, tc := range cases {
		if got := PageOffset(tc.page, tc.limit); got != tc.want {
			t.Fatalf("PageOffset(%d, %d) = %d, want %d", tc.page, tc.limit, got, tc.want)
		}
	}
	if got := (FilterCriteria{Page: 1 << 62, Limit: 4}).Offset(); got < 0 {
		t.Fatalf("offset overflowed: %d", got)
	}
}
