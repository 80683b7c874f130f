package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"

	"eventgraph/internal/domain"
)

// dateLayouts are tried in order before falling back to natural language parsing.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsePrice coerces the textual price of an event input to a float.
func ParsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.NewValidationError("Event", "price", "required")
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, domain.NewValidationError("Event", "price", "number")
	}
	return price, nil
}

// ParseDate coerces the textual date of an event input to a UTC timestamp.
// Relative expressions such as "next friday" resolve against now.
func ParseDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, domain.NewValidationError("Event", "date", "required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	cfg := &dps.Configuration{
		CurrentTime:     now.UTC(),
		DefaultTimezone: time.UTC,
	}
	dt, err := dps.Parse(cfg, raw)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, domain.NewValidationError("Event", "date", "date")
	}
	return dt.Time.UTC(), nil
}
