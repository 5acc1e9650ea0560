package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/storefront/internal/filter"
	"github.com/abelbrown/storefront/internal/model"
	"github.com/abelbrown/storefront/internal/state"
)

// RenderProducts renders the visible page of the product list.
// The cursor row gets a detail line; rows scroll to keep it on screen.
func RenderProducts(v filter.View, cursor, width, height int) string {
	if len(v.Shown) == 0 {
		return ""
	}

	var b strings.Builder
	rendered := 0

	// One line per product, one extra for the selected product's detail,
	// and one reserved for the load-more hint.
	available := height - 1
	if v.HasMore {
		available--
	}
	if available < 2 {
		available = 2
	}

	offset := calcScrollOffset(len(v.Shown), cursor, available)
	for i := offset; i < len(v.Shown) && rendered < available; i++ {
		p := v.Shown[i]
		selected := i == cursor
		b.WriteString(renderProductLine(p, selected, width))
		b.WriteString("\n")
		rendered++

		if selected && rendered < available {
			b.WriteString(DetailStyle.Render(truncateRunes(p.Description, max(width-6, 10))))
			b.WriteString("\n")
			rendered++
		}
	}

	if v.HasMore {
		b.WriteString(LoadMoreStyle.Render(fmt.Sprintf("m: load %d more", min(len(v.Matched)-len(v.Shown), state.PageSize))))
		b.WriteString("\n")
	}

	return b.String()
}

// calcScrollOffset returns the first visible index so that the cursor row and
// its detail line fit within available lines.
func calcScrollOffset(n, cursor, available int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		cursor = n - 1
	}
	// cursor row plus its detail line
	if cursor+2 > available {
		return cursor + 2 - available
	}
	return 0
}

// renderProductLine renders a single product row:
// title, category badge, price and star rating.
func renderProductLine(p model.Product, selected bool, width int) string {
	price := PriceStyle.Render(model.FormatPrice(p.Price))
	rating := RatingStyle.Render(model.Stars(p.Rating.Rate)) + " " +
		StatusBarText.Render(fmt.Sprintf("%s (%d)", model.FormatRating(p.Rating.Rate), p.Rating.Count))
	badge := CategoryBadge.Render(p.Category)

	suffix := "  " + price + "  " + rating
	titleWidth := width - lipgloss.Width(badge) - lipgloss.Width(suffix) - 4
	if titleWidth < 10 {
		titleWidth = 10
	}
	title := truncateRunes(p.Title, titleWidth)

	if selected {
		return SelectedItem.Render(title) + " " + badge + suffix
	}
	return NormalItem.Render(title) + " " + badge + suffix
}

// truncateRunes shortens s to at most n runes, ending in an ellipsis when cut.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
