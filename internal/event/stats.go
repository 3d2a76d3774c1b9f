package event

import (
	"sort"
	"time"
)

// Period selects the bucketing granularity for Summarize.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week" // weeks start on Monday
	PeriodMonth Period = "month"
)

// Periods lists all valid periods.
var Periods = []Period{PeriodDay, PeriodWeek, PeriodMonth}

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// Bucket aggregates events whose occurred-at falls on the same
// day/week/month. Start is midnight UTC of the bucket's first day.
type Bucket struct {
	Start        time.Time `json:"start"`
	FeedVolumeML int       `json:"feed_volume_ml"`
	PumpedML     int       `json:"pumped_ml"`
	NursedMin    int       `json:"nursed_min"`
	SleepMin     int       `json:"sleep_min"`
	WetDiapers   int       `json:"wet_diapers"`
	StoolDiapers int       `json:"stool_diapers"`
}

// Summarize groups events into period buckets and totals the
// kind-specific measures. Buckets are returned in ascending Start
// order regardless of input order.
func Summarize(events []Event, period Period) []Bucket {
	byStart := make(map[time.Time]*Bucket)

	for _, e := range events {
		start := bucketStart(e.OccurredAt.UTC(), period)
		b, ok := byStart[start]
		if !ok {
			b = &Bucket{Start: start}
			byStart[start] = b
		}

		switch e.Kind {
		case KindFeeding:
			if e.Source == FeedBreast {
				b.NursedMin += e.Minutes
			} else {
				b.FeedVolumeML += e.QuantityML
			}
		case KindPumping:
			b.PumpedML += e.QuantityML
		case KindSleep:
			b.SleepMin += e.Minutes
		case KindDiaperChange:
			if e.Urine {
				b.WetDiapers++
			}
			if e.Stool {
				b.StoolDiapers++
			}
		}
	}

	buckets := make([]Bucket, 0, len(byStart))
	for _, b := range byStart {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Start.Before(buckets[j].Start)
	})

	return buckets
}

// bucketStart truncates t to the start of its day, Monday-start week,
// or month.
func bucketStart(t time.Time, period Period) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	switch period {
	case PeriodWeek:
		// time.Weekday numbers Sunday as 0; shift so Monday is 0.
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}
