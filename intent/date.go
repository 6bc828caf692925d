package intent

import (
	"strings"
	"time"

	"github.com/habiliai/recallhub/entity"
)

const day = 24 * time.Hour

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var relativeDates = []struct {
	phrase string
	ago    time.Duration
}{
	{"yesterday", day},
	{"last week", 7 * day},
	{"last month", 30 * day},
	{"last year", 365 * day},
}

// ParseDateFilter normalises a date lower bound to the stored timestamp
// layout. ISO dates and times are converted as they are; anything else is
// read as a relative phrase, a month back when none is recognised. Dates
// without a zone are taken as UTC. An empty input stays empty.
func ParseDateFilter(s string, now time.Time) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
		return ""
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return entity.FormatTimestamp(t)
		}
	}

	lower := strings.ToLower(s)
	for _, r := range relativeDates {
		if strings.Contains(lower, r.phrase) {
			return entity.FormatTimestamp(now.Add(-r.ago))
		}
	}
	return entity.FormatTimestamp(now.Add(-30 * day))
}
