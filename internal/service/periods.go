package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
)

// Granularity selects how transactions are bucketed into calendar periods.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
	GranularityAnnual  Granularity = "annual"
	GranularityShift   Granularity = "shift"
)

// ParseGranularity validates a caller-supplied granularity string.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityAnnual, GranularityShift:
		return Granularity(s), nil
	}
	return "", &domain.ErrValidation{Field: "granularity", Message: "must be daily, weekly, monthly, annual or shift"}
}

// dateLabel formats a calendar date the way the frontend displays it (pt-BR).
func dateLabel(t time.Time) string {
	return t.Format("02/01/2006")
}

// shiftOf returns the 8-hour shift ordinal and name for an hour of day:
// 06:00–13:59 Manhã, 14:00–21:59 Tarde, everything else Noite.
func shiftOf(hour int) (int, string) {
	switch {
	case hour >= 6 && hour < 14:
		return 0, "Manhã"
	case hour >= 14 && hour < 22:
		return 1, "Tarde"
	default:
		return 2, "Noite"
	}
}

// periodOf derives the bucket label and its numeric sort key for one
// transaction date. The sort key orders buckets chronologically regardless
// of how the labels collate, and never leaves this package.
func periodOf(t time.Time, g Granularity) (string, int64) {
	day := startOfDay(t)
	switch g {
	case GranularityWeekly:
		sunday := startOfDay(t.AddDate(0, 0, -int(t.Weekday())))
		return "Sem " + dateLabel(sunday), sunday.Unix()
	case GranularityMonthly:
		return fmt.Sprintf("%d/%d", int(t.Month()), t.Year()), int64(t.Year())*100 + int64(t.Month())
	case GranularityAnnual:
		return fmt.Sprintf("%d", t.Year()), int64(t.Year())
	case GranularityShift:
		ordinal, name := shiftOf(t.Hour())
		return dateLabel(day) + " - " + name, day.Unix()*3 + int64(ordinal)
	default: // daily
		return dateLabel(day), day.Unix()
	}
}

// buildPeriodSeries groups transactions into labeled buckets for the given
// granularity, summing inflow and outflow per bucket. Buckets come back in
// chronological order; the sort key is assigned from the first transaction
// seen for each label and discarded by construction (it is never part of
// the returned buckets). An empty input yields an empty slice.
func buildPeriodSeries(txns []domain.CashTransaction, g Granularity) []domain.PeriodBucket {
	type keyedBucket struct {
		sortKey int64
		bucket  domain.PeriodBucket
	}

	byLabel := make(map[string]*keyedBucket)
	for _, t := range txns {
		label, sortKey := periodOf(t.Date, g)
		kb, ok := byLabel[label]
		if !ok {
			kb = &keyedBucket{sortKey: sortKey, bucket: domain.PeriodBucket{Label: label}}
			byLabel[label] = kb
		}
		if t.Type == domain.TypeSaida {
			kb.bucket.Outflow += t.Amount
		} else {
			kb.bucket.Inflow += t.Amount
		}
	}

	ordered := make([]*keyedBucket, 0, len(byLabel))
	for _, kb := range byLabel {
		ordered = append(ordered, kb)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].sortKey < ordered[j].sortKey })

	out := make([]domain.PeriodBucket, 0, len(ordered))
	for _, kb := range ordered {
		kb.bucket.Net = kb.bucket.Inflow - kb.bucket.Outflow
		out = append(out, kb.bucket)
	}
	return out
}

// toPeriodPoints flattens inflow-only buckets into the {label,total} shape
// used by the sales trend.
func toPeriodPoints(buckets []domain.PeriodBucket) []domain.PeriodPoint {
	out := make([]domain.PeriodPoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, domain.PeriodPoint{Label: b.Label, Total: b.Inflow})
	}
	return out
}
