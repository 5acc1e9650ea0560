package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abelbrown/storefront/internal/filter"
	"github.com/abelbrown/storefront/internal/model"
)

// sidebarWidth is the fixed width of the filter panel.
const sidebarWidth = 30

// ratingSteps are the selectable minimum ratings.
var ratingSteps = []float64{0, 1, 2, 3, 4}

// RenderSidebar renders the filter panel: categories with counts over the
// unfiltered catalog, the price controls, and the minimum rating.
// price is the value the price controls currently display, which may be a
// draft not yet committed to the location.
func RenderSidebar(v filter.View, price model.PriceRange, cursor int, focused bool, height int) string {
	var lines []string

	lines = append(lines, SectionHeader.Render("Categories"))
	if len(v.Categories) == 0 {
		lines = append(lines, SidebarItem.Render("(none)"))
	}
	for i, c := range v.Categories {
		label := truncateRunes(fmt.Sprintf("%s (%d)", c.Name, c.Count), sidebarWidth-4)
		switch {
		case focused && i == cursor:
			prefix := "  "
			if c.Name == v.Filters.Category {
				prefix = "● "
			}
			lines = append(lines, SidebarCursor.Render(prefix+label))
		case c.Name == v.Filters.Category:
			lines = append(lines, SidebarActive.Render("● "+label))
		default:
			lines = append(lines, SidebarItem.Render("  "+label))
		}
	}

	lines = append(lines, SectionHeader.Render("Price"))
	lines = append(lines, SidebarItem.Render(fmt.Sprintf("min %s  [ ]", model.FormatPrice(price.Min))))
	lines = append(lines, SidebarItem.Render(fmt.Sprintf("max %s  { }", model.FormatPrice(price.Max))))
	lines = append(lines, SidebarItem.Render(fmt.Sprintf("range %s - %s",
		model.FormatPrice(v.Bounds.Min), model.FormatPrice(v.Bounds.Max))))

	lines = append(lines, SectionHeader.Render("Rating"))
	var steps []string
	for _, r := range ratingSteps {
		label := fmt.Sprintf("%.0f+", r)
		if r == 0 {
			label = "any"
		}
		if r == v.Filters.MinRating {
			steps = append(steps, SidebarActive.Render(label))
		} else {
			steps = append(steps, StatusBarText.Render(label))
		}
	}
	lines = append(lines, " "+strings.Join(steps, ""))

	lines = append(lines, "")
	if n := v.Filters.Active(); n > 0 {
		lines = append(lines, SidebarItem.Render(fmt.Sprintf("c: clear all (%d active)", n)))
	} else {
		lines = append(lines, StatusBarText.Render("  no filters active"))
	}

	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return Sidebar.Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

// withLabels adds the category labels the API lists but no product carries,
// with a count of zero, keeping the list ordered by label.
func withLabels(counts []model.CategoryCount, labels []model.Category) []model.CategoryCount {
	seen := make(map[string]bool, len(counts))
	for _, c := range counts {
		seen[c.Name] = true
	}
	var missing []model.CategoryCount
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			missing = append(missing, model.CategoryCount{Name: l})
		}
	}
	if len(missing) == 0 {
		return counts
	}
	out := append(append([]model.CategoryCount(nil), counts...), missing...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
