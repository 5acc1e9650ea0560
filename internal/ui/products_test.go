package ui

import (
	"strings"
	"testing"

	"github.com/abelbrown/storefront/internal/filter"
	"github.com/abelbrown/storefront/internal/model"
	"github.com/abelbrown/storefront/internal/state"
)

func TestRenderProductsEmpty(t *testing.T) {
	v := filter.Derive(nil, state.DefaultFilters(), state.PageSize)
	if got := RenderProducts(v, 0, 80, 20); got != "" {
		t.Errorf("expected empty render, got %q", got)
	}
}

func TestRenderProductsDetailAndPrice(t *testing.T) {
	v := filter.Derive(sampleProducts(), state.DefaultFilters(), state.PageSize)
	out := RenderProducts(v, 1, 120, 20)

	if !strings.Contains(out, "$999.00") || !strings.Contains(out, "$25.00") {
		t.Errorf("prices missing:\n%s", out)
	}
	if !strings.Contains(out, "Ergonomic wireless mouse") {
		t.Errorf("selected product should show its description:\n%s", out)
	}
	if strings.Contains(out, "High-performance laptop") {
		t.Error("only the selected product shows a description")
	}
	if strings.Contains(out, "load") {
		t.Error("no load-more hint when everything is shown")
	}
}

func TestRenderProductsLoadMoreHint(t *testing.T) {
	v := filter.Derive(manyProducts(12), state.DefaultFilters(), state.PageSize)
	out := RenderProducts(v, 0, 120, 40)
	if !strings.Contains(out, "m: load 3 more") {
		t.Errorf("expected load-more hint for the 3 remaining items:\n%s", out)
	}
}

func TestCalcScrollOffset(t *testing.T) {
	tests := []struct {
		n, cursor, available, want int
	}{
		{0, 0, 10, 0},
		{5, 0, 10, 0},
		{20, 8, 10, 0},
		{20, 9, 10, 1},
		{20, 19, 10, 11},
		{20, 50, 10, 11},
	}
	for _, tt := range tests {
		if got := calcScrollOffset(tt.n, tt.cursor, tt.available); got != tt.want {
			t.Errorf("calcScrollOffset(%d, %d, %d) = %d, want %d", tt.n, tt.cursor, tt.available, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 5, "hell…"},
		{"héllo wörld", 4, "hél…"},
		{"abc", 1, "…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestRenderSidebar(t *testing.T) {
	f := state.DefaultFilters()
	f.Category = "clothing"
	f.MinRating = 4
	v := filter.Derive(sampleProducts(), f, state.PageSize)
	lo, hi := v.PriceControls()

	out := RenderSidebar(v, model.PriceRange{Min: lo, Max: hi}, 0, true, 40)
	for _, want := range []string{"clothing (2)", "electronics (2)", "$15.00", "$999.00", "4+", "clear all (2 active)"} {
		if !strings.Contains(out, want) {
			t.Errorf("sidebar missing %q:\n%s", want, out)
		}
	}
}

func TestWithLabels(t *testing.T) {
	counts := []model.CategoryCount{{Name: "b", Count: 2}, {Name: "d", Count: 1}}

	got := withLabels(counts, []model.Category{"a", "b", "c"})
	want := []model.CategoryCount{{Name: "a"}, {Name: "b", Count: 2}, {Name: "c"}, {Name: "d", Count: 1}}
	if len(got) != len(want) {
		t.Fatalf("withLabels() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("withLabels()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if counts[0].Name != "b" || len(counts) != 2 {
		t.Error("input slice modified")
	}

	if same := withLabels(counts, []model.Category{"b"}); len(same) != 2 {
		t.Errorf("known labels should not add entries, got %v", same)
	}
}
