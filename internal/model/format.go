package model

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatPrice renders a price in US dollars with thousands separators,
// e.g. 1000 -> "$1,000.00".
func FormatPrice(price float64) string {
	if price < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -price)
	}
	return "$" + humanize.FormatFloat("#,###.##", price)
}

// FormatRating renders a rating with one decimal, e.g. 4.567 -> "4.6".
func FormatRating(rate float64) string {
	return fmt.Sprintf("%.1f", rate)
}

// Stars renders a five-star bar for a rating, rounding to the nearest star.
func Stars(rate float64) string {
	full := int(rate + 0.5)
	if full < 0 {
		full = 0
	}
	if full > 5 {
		full = 5
	}
	s := ""
	for i := 0; i < 5; i++ {
		if i < full {
			s += "★"
		} else {
			s += "☆"
		}
	}
	return s
}
