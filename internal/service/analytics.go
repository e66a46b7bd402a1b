package service

import (
	"iter"
	"slices"
	"time"

	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

const (
	defaultEnergyLevel = 5
	day                = 24 * time.Hour
)

var windows = map[string]time.Duration{
	"week":    7 * day,
	"month":   30 * day,
	"3months": 90 * day,
	"year":    365 * day,
}

// WindowStart returns the start of the named window ending at now. An empty
// period falls back to def.
func WindowStart(now time.Time, period, def string) (time.Time, error) {
	if period == "" {
		period = def
	}
	d, ok := windows[period]
	if !ok {
		return time.Time{}, domain.ValidationError("invalid period %q", period)
	}
	return now.Add(-d), nil
}

// WeightTrend yields one point per entry in the order given.
func WeightTrend(entries []domain.Progress) iter.Seq[domain.TrendPoint] {
	return trend(entries, func(p domain.Progress) float64 { return p.Weight })
}

func BMITrend(entries []domain.Progress) iter.Seq[domain.TrendPoint] {
	return trend(entries, func(p domain.Progress) float64 { return p.BMI })
}

func trend(entries []domain.Progress, value func(domain.Progress) float64) iter.Seq[domain.TrendPoint] {
	return func(yield func(domain.TrendPoint) bool) {
		for _, e := range entries {
			if !yield(domain.TrendPoint{Date: e.Date, Value: value(e)}) {
				return
			}
		}
	}
}

// Summarize compares the first and last entry and averages energy and sleep.
// It returns nil for an empty window.
func Summarize(entries []domain.Progress) *domain.ProgressSummary {
	if len(entries) == 0 {
		return nil
	}
	first, last := entries[0], entries[len(entries)-1]

	var energy, sleep float64
	for _, e := range entries {
		if e.EnergyLevel > 0 {
			energy += float64(e.EnergyLevel)
		} else {
			energy += defaultEnergyLevel
		}
		sleep += e.SleepHours
	}
	n := float64(len(entries))

	return &domain.ProgressSummary{
		StartWeight:    first.Weight,
		CurrentWeight:  last.Weight,
		WeightChange:   round(last.Weight-first.Weight, 2),
		StartBMI:       first.BMI,
		CurrentBMI:     last.BMI,
		BMIChange:      round(last.BMI-first.BMI, 2),
		EntriesCount:   len(entries),
		AvgEnergyLevel: round(energy/n, 1),
		AvgSleepHours:  round(sleep/n, 1),
	}
}

// Analyze builds trends and summary over entries sorted by date ascending.
func Analyze(entries []domain.Progress) domain.ProgressAnalytics {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b domain.Progress) int { return a.Date.Compare(b.Date) })

	weights := slices.Collect(WeightTrend(sorted))
	bmis := slices.Collect(BMITrend(sorted))
	if weights == nil {
		weights = []domain.TrendPoint{}
	}
	if bmis == nil {
		bmis = []domain.TrendPoint{}
	}
	return domain.ProgressAnalytics{
		WeightTrend: weights,
		BMITrend:    bmis,
		Summary:     Summarize(sorted),
	}
}
