// Package dates extracts date ranges from natural language. Parsing is
// deterministic: the reference time is always injected by the caller, never
// read from the clock.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/homewiz/query-engine/pkg/models"
)

const isoDate = "2006-01-02"

var (
	lastNPattern     = regexp.MustCompile(`last\s+(\d+)\s+(day|week|month)s?`)
	monthYearPattern = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\b(?:\s+(\d{4}))?`)

	// "may" is also a modal verb. Without a year it only counts as a month
	// when a preposition marks it as one ("in may", "during may").
	mayContextPattern = regexp.MustCompile(`\b(?:in|for|during|since|of)\s+may\b`)
)

var monthNumbers = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// ParseRelativeRange extracts a date range from the query text relative to
// now. Returns false when the text names no recognizable period.
//
// Supported forms, checked in this order:
//   - "last N days/weeks/months" (rolling window ending today)
//   - "last week" (rolling 7 days)
//   - "last/this quarter", "last/this month", "last/this year"
//   - a month name with optional year ("march", "march 2024")
func ParseRelativeRange(query string, now time.Time) (*models.DateRange, bool) {
	q := strings.ToLower(query)
	day := truncateToDay(now)

	if m := lastNPattern.FindStringSubmatch(q); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			var start time.Time
			switch m[2] {
			case "day":
				start = day.AddDate(0, 0, -n)
			case "week":
				start = day.AddDate(0, 0, -7*n)
			case "month":
				start = day.AddDate(0, -n, 0)
			}
			return rangeOf(start, day), true
		}
	}

	switch {
	case strings.Contains(q, "last week"):
		return rangeOf(day.AddDate(0, 0, -7), day), true

	case strings.Contains(q, "last quarter"):
		start := quarterStart(day).AddDate(0, -3, 0)
		return rangeOf(start, quarterStart(day).AddDate(0, 0, -1)), true

	case strings.Contains(q, "this quarter"):
		return rangeOf(quarterStart(day), day), true

	case strings.Contains(q, "last month"):
		start := monthStart(day).AddDate(0, -1, 0)
		return rangeOf(start, monthStart(day).AddDate(0, 0, -1)), true

	case strings.Contains(q, "this month"):
		return rangeOf(monthStart(day), day), true

	case strings.Contains(q, "last year"):
		start := time.Date(day.Year()-1, time.January, 1, 0, 0, 0, 0, day.Location())
		return rangeOf(start, time.Date(day.Year()-1, time.December, 31, 0, 0, 0, 0, day.Location())), true

	case strings.Contains(q, "this year"):
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
		return rangeOf(start, day), true
	}

	if m := monthYearPattern.FindStringSubmatch(q); m != nil {
		if m[1] == "may" && m[2] == "" && !mayContextPattern.MatchString(q) {
			return nil, false
		}
		month := monthNumbers[m[1]]
		year := day.Year()
		if m[2] != "" {
			if y, err := strconv.Atoi(m[2]); err == nil {
				year = y
			}
		}
		start := time.Date(year, month, 1, 0, 0, 0, 0, day.Location())
		end := start.AddDate(0, 1, -1)
		return rangeOf(start, end), true
	}

	return nil, false
}

func rangeOf(start, end time.Time) *models.DateRange {
	return &models.DateRange{
		StartDate: start.Format(isoDate),
		EndDate:   end.Format(isoDate),
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// quarterStart returns the first day of the calendar quarter containing t.
func quarterStart(t time.Time) time.Time {
	q := (int(t.Month()) - 1) / 3
	return time.Date(t.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, t.Location())
}
