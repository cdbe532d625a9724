// internal/scoring/freshness.go
package scoring

import (
	"strings"
	"time"

	"provider-ranking-workers/internal/models"
)

const (
	day = 24 * time.Hour

	freshTodayWithin = 1 * day
	freshWeekWithin  = 7 * day
	freshMonthWithin = 30 * day
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ClassifyFreshness buckets the age of updatedAt relative to now. A zero
// updatedAt is treated as unknown and lands in the stalest bucket. Timestamps
// slightly in the future (clock skew) count as today.
func ClassifyFreshness(updatedAt, now time.Time) models.FreshnessBadge {
	if updatedAt.IsZero() {
		return stalest()
	}
	elapsed := now.Sub(updatedAt)
	switch {
	case elapsed < freshTodayWithin:
		return models.FreshnessBadge{Label: models.FreshnessToday, Tone: models.ToneSuccess}
	case elapsed < freshWeekWithin:
		return models.FreshnessBadge{Label: models.FreshnessThisWeek, Tone: models.ToneInfo}
	case elapsed < freshMonthWithin:
		return models.FreshnessBadge{Label: models.FreshnessThisMonth, Tone: models.ToneWarning}
	default:
		return stalest()
	}
}

// ClassifyFreshnessString parses raw and classifies it. Anything that does
// not parse is maximally stale.
func ClassifyFreshnessString(raw string, now time.Time) models.FreshnessBadge {
	ts, ok := ParseTimestamp(raw)
	if !ok {
		return stalest()
	}
	return ClassifyFreshness(ts, now)
}

func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func stalest() models.FreshnessBadge {
	return models.FreshnessBadge{Label: models.FreshnessOver30Days, Tone: models.ToneDanger}
}
