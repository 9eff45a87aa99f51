package main

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// formatRating renders 1-5 as stars; unrated is "-".
func formatRating(r *int) string {
	if r == nil {
		return "-"
	}
	return strings.Repeat("★", *r) + strings.Repeat("☆", 5-*r)
}

func formatAvg(avg *float64) string {
	if avg == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *avg)
}

func favoriteMark(fav bool) string {
	if fav {
		return "♥"
	}
	return " "
}

// bar draws n blocks scaled so that max fills width.
func bar(n, max, width int) string {
	if max <= 0 || n <= 0 {
		return ""
	}
	w := n * width / max
	if w == 0 {
		w = 1
	}
	return strings.Repeat("█", w)
}
