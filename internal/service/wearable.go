package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

// FallbackMaxHeartRate is used when neither the activity nor the user's age
// gives a maximum heart rate.
const FallbackMaxHeartRate = 190

var activityTypes = map[string]string{
	"running":           domain.WorkoutCardio,
	"walking":           domain.WorkoutCardio,
	"cycling":           domain.WorkoutCardio,
	"swimming":          domain.WorkoutCardio,
	"hiking":            domain.WorkoutCardio,
	"strength_training": domain.WorkoutStrength,
	"weight_training":   domain.WorkoutStrength,
	"yoga":              domain.WorkoutYoga,
	"hiit":              domain.WorkoutHIIT,
	"crossfit":          domain.WorkoutHIIT,
	"soccer":            domain.WorkoutSports,
	"basketball":        domain.WorkoutSports,
	"tennis":            domain.WorkoutSports,
	"other":             domain.WorkoutMixed,
}

func WorkoutTypeFor(activityType string) string {
	if t, ok := activityTypes[strings.ToLower(activityType)]; ok {
		return t
	}
	return domain.WorkoutMixed
}

// InferIntensity grades the average heart rate against a maximum: the
// activity's own max when present, else 220 minus age, else the fallback.
func InferIntensity(avgHR, maxHR float64, age int) string {
	if avgHR <= 0 {
		return domain.IntensityModerate
	}

	limit := maxHR
	if limit <= 0 && age > 0 {
		limit = float64(220 - age)
	}
	if limit <= 0 {
		limit = FallbackMaxHeartRate
	}

	pct := avgHR / limit * 100
	switch {
	case pct >= 85:
		return domain.IntensityExtreme
	case pct >= 70:
		return domain.IntensityHigh
	case pct >= 55:
		return domain.IntensityModerate
	default:
		return domain.IntensityLow
	}
}

// TransformActivity maps one vendor activity record onto a wearable-sourced
// workout. The start time is required since it identifies the record on
// later syncs.
func TransformActivity(activity gjson.Result, age int) (domain.Workout, error) {
	start := activity.Get("metadata.start_time")
	completedAt, err := time.Parse(time.RFC3339, start.String())
	if err != nil {
		return domain.Workout{}, fmt.Errorf("activity has no valid start time %q: %w", start.String(), err)
	}

	activityType := strings.ToLower(activity.Get("metadata.type").String())
	if activityType == "" {
		activityType = "other"
	}
	title := activity.Get("metadata.name").String()
	if title == "" {
		title = activityType + " Workout"
	}
	device := activity.Get("metadata.source_name").String()
	if device == "" {
		device = "Unknown Device"
	}

	avgHR := activity.Get("heart_rate_data.summary.avg_hr_bpm")
	maxHR := activity.Get("heart_rate_data.summary.max_hr_bpm")

	w := domain.Workout{
		Title:               title,
		Type:                WorkoutTypeFor(activityType),
		Exercises:           []domain.Exercise{},
		Duration:            int(math.Round(activity.Get("active_durations_data.activity_seconds").Float() / 60)),
		TotalCaloriesBurned: math.Round(activity.Get("calories_data.total_burned_calories").Float()),
		Intensity:           InferIntensity(avgHR.Float(), maxHR.Float(), age),
		IsCompleted:         true,
		CompletedAt:         completedAt,
		Source:              domain.SourceWearable,
		SourceDevice:        device,
		HeartRateAvg:        optionalFloat(avgHR),
		HeartRateMax:        optionalFloat(maxHR),
		Distance:            optionalFloat(activity.Get("distance_data.summary.distance_meters")),
		Notes:               "Synced from " + device,
	}
	if steps := activity.Get("distance_data.summary.steps"); steps.Exists() {
		n := int(steps.Int())
		w.Steps = &n
	}
	return w, nil
}

func DailySummaryFrom(record gjson.Result) *domain.DailySummary {
	if !record.Exists() {
		return nil
	}
	return &domain.DailySummary{
		Steps:            record.Get("distance_data.steps").Int(),
		Distance:         record.Get("distance_data.distance_meters").Float(),
		CaloriesBurned:   record.Get("calories_data.total_burned_calories").Float(),
		ActiveMinutes:    int(math.Round(record.Get("active_durations_data.activity_seconds").Float() / 60)),
		AvgHeartRate:     optionalFloat(record.Get("heart_rate_data.summary.avg_hr_bpm")),
		RestingHeartRate: optionalFloat(record.Get("heart_rate_data.summary.resting_hr_bpm")),
		StressLevel:      optionalFloat(record.Get("stress_data.avg_stress_level")),
	}
}

func SleepSummaryFrom(record gjson.Result) domain.SleepSummary {
	hours := func(path string) float64 {
		return round(record.Get("sleep_durations_data."+path).Float()/3600, 1)
	}
	s := domain.SleepSummary{
		TotalSleep:      hours("total_sleep_time_seconds"),
		DeepSleep:       hours("deep_sleep_seconds"),
		LightSleep:      hours("light_sleep_seconds"),
		RemSleep:        hours("rem_sleep_seconds"),
		AwakeTime:       int(math.Round(record.Get("sleep_durations_data.awake_seconds").Float() / 60)),
		SleepEfficiency: optionalFloat(record.Get("sleep_durations_data.sleep_efficiency")),
		SleepScore:      optionalFloat(record.Get("metadata.sleep_score")),
	}
	if t, err := time.Parse(time.RFC3339, record.Get("metadata.start_time").String()); err == nil {
		s.Date = &t
	}
	return s
}

func optionalFloat(r gjson.Result) *float64 {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	v := r.Float()
	return &v
}
