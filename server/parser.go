package main

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParsedPurchase is the validated result of an add command.
type ParsedPurchase struct {
	ItemName string
	Platform string
	Price    float64
	Date     string // normalized YYYY-MM-DD, empty when no explicit date was given
}

// dateLayouts are tried in order; the first that parses wins. The ordering is
// load-bearing: for inputs like 01/02/2024 the day/month/year reading is
// chosen before month/day/year.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"20060102",
	"02/01/2006",
	"01/02/2006",
}

// ParsePurchase interprets the argument tokens of an add command. With four or
// more tokens the last one must be a date, which may not be later than now.
// Of the remaining tokens the last is the price, the one before it the
// platform, and everything earlier joins into the item name.
func ParsePurchase(args []string, now time.Time) (ParsedPurchase, error) {
	var date string
	if len(args) >= 4 {
		parsed, ok := parseDate(args[len(args)-1], now.Location())
		if !ok {
			return ParsedPurchase{}, ErrDateFormat
		}
		if parsed.After(now) {
			return ParsedPurchase{}, ErrFutureDate
		}
		date = parsed.Format(dateLayout)
		args = args[:len(args)-1]
	}

	if len(args) < 3 {
		return ParsedPurchase{}, ErrInsufficientArgs
	}

	price, err := strconv.ParseFloat(args[len(args)-1], 64)
	if err != nil || math.IsInf(price, 0) || math.IsNaN(price) {
		return ParsedPurchase{}, ErrNonNumericPrice
	}

	return ParsedPurchase{
		ItemName: strings.Join(args[:len(args)-2], " "),
		Platform: args[len(args)-2],
		Price:    price,
		Date:     date,
	}, nil
}

// parseDate interprets s as a calendar date in loc, so the future-date check
// compares against the caller's wall clock rather than midnight UTC.
func parseDate(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
