// Bundlecraft - Product Recommendations and Bundle Composition
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bundlecraft

package recommend

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/tomtom215/bundlecraft/internal/models"
)

// Dayparts used for time-of-day affinity.
const (
	DaypartMorning   = "morning"
	DaypartAfternoon = "afternoon"
	DaypartEvening   = "evening"
	DaypartNight     = "night"
)

// ValidDaypart reports whether s names a daypart.
func ValidDaypart(s string) bool {
	switch s {
	case DaypartMorning, DaypartAfternoon, DaypartEvening, DaypartNight:
		return true
	default:
		return false
	}
}

// DaypartAt returns the daypart of t in t's location: morning 05-12,
// afternoon 12-17, evening 17-22, night otherwise.
func DaypartAt(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return DaypartMorning
	case h >= 12 && h < 17:
		return DaypartAfternoon
	case h >= 17 && h < 22:
		return DaypartEvening
	default:
		return DaypartNight
	}
}

// Explain builds the shopper-facing sentence for a recommendation from the
// strategies that contributed to it.
func Explain(strategies []string, reason models.Reason) string {
	phrases := make([]string, 0, len(strategies))
	for _, s := range strategies {
		switch s {
		case StrategyCoPurchase:
			phrases = append(phrases, "often bought together with this item")
		case StrategyContent:
			if reason == models.ReasonCategory {
				phrases = append(phrases, "from the same category")
			} else {
				phrases = append(phrases, "similar to this item")
			}
		case StrategyPopularity:
			phrases = append(phrases, "a best seller in this shop")
		}
	}

	var sentence string
	switch len(phrases) {
	case 0:
		return ""
	case 1:
		sentence = phrases[0]
	default:
		sentence = strings.Join(phrases[:len(phrases)-1], ", ") + " and " + phrases[len(phrases)-1]
	}
	return capitalize(sentence)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
