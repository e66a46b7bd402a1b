package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

const runActivity = `{
	"metadata": {
		"name": "Morning Run",
		"type": "RUNNING",
		"start_time": "2025-03-01T07:00:00Z",
		"source_name": "Garmin"
	},
	"active_durations_data": {"activity_seconds": 1830},
	"calories_data": {"total_burned_calories": 310.6},
	"heart_rate_data": {"summary": {"avg_hr_bpm": 150, "max_hr_bpm": 200}},
	"distance_data": {"summary": {"distance_meters": 5012.5, "steps": 6400}}
}`

func TestTransformActivity(t *testing.T) {
	w, err := TransformActivity(gjson.Parse(runActivity), 30)
	require.NoError(t, err)

	assert.Equal(t, "Morning Run", w.Title)
	assert.Equal(t, domain.WorkoutCardio, w.Type)
	assert.Equal(t, 31, w.Duration)
	assert.Equal(t, 311.0, w.TotalCaloriesBurned)
	assert.Equal(t, domain.IntensityHigh, w.Intensity)
	assert.Equal(t, domain.SourceWearable, w.Source)
	assert.Equal(t, "Garmin", w.SourceDevice)
	assert.Equal(t, "Synced from Garmin", w.Notes)
	assert.True(t, w.IsCompleted)
	assert.True(t, w.CompletedAt.Equal(time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC)))
	require.NotNil(t, w.HeartRateAvg)
	assert.Equal(t, 150.0, *w.HeartRateAvg)
	require.NotNil(t, w.Distance)
	assert.Equal(t, 5012.5, *w.Distance)
	require.NotNil(t, w.Steps)
	assert.Equal(t, 6400, *w.Steps)
	assert.NotNil(t, w.Exercises)
}

func TestTransformActivityDefaults(t *testing.T) {
	w, err := TransformActivity(gjson.Parse(`{"metadata":{"start_time":"2025-03-01T07:00:00Z"}}`), 0)
	require.NoError(t, err)

	assert.Equal(t, "other Workout", w.Title)
	assert.Equal(t, domain.WorkoutMixed, w.Type)
	assert.Equal(t, "Unknown Device", w.SourceDevice)
	assert.Equal(t, domain.IntensityModerate, w.Intensity)
	assert.Nil(t, w.HeartRateAvg)
	assert.Nil(t, w.Steps)
}

func TestTransformActivityRequiresStartTime(t *testing.T) {
	_, err := TransformActivity(gjson.Parse(`{"metadata":{"type":"running"}}`), 0)
	assert.Error(t, err)
}

func TestInferIntensity(t *testing.T) {
	tests := []struct {
		name string
		avg  float64
		max  float64
		age  int
		want string
	}{
		{"no heart rate", 0, 0, 30, domain.IntensityModerate},
		{"fallback max", 171, 0, 0, domain.IntensityExtreme},
		{"activity max", 150, 200, 30, domain.IntensityHigh},
		{"age based max", 100, 0, 30, domain.IntensityLow},
		{"age based moderate", 110, 0, 30, domain.IntensityModerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferIntensity(tt.avg, tt.max, tt.age))
		})
	}
}

func TestWorkoutTypeFor(t *testing.T) {
	assert.Equal(t, domain.WorkoutCardio, WorkoutTypeFor("Cycling"))
	assert.Equal(t, domain.WorkoutStrength, WorkoutTypeFor("weight_training"))
	assert.Equal(t, domain.WorkoutHIIT, WorkoutTypeFor("crossfit"))
	assert.Equal(t, domain.WorkoutSports, WorkoutTypeFor("tennis"))
	assert.Equal(t, domain.WorkoutMixed, WorkoutTypeFor("underwater_basket_weaving"))
}

func TestDailySummaryFrom(t *testing.T) {
	assert.Nil(t, DailySummaryFrom(gjson.Result{}))

	s := DailySummaryFrom(gjson.Parse(`{
		"distance_data": {"steps": 9000, "distance_meters": 6500},
		"calories_data": {"total_burned_calories": 2300},
		"active_durations_data": {"activity_seconds": 3600},
		"heart_rate_data": {"summary": {"avg_hr_bpm": 72, "resting_hr_bpm": 58}}
	}`))
	require.NotNil(t, s)
	assert.Equal(t, int64(9000), s.Steps)
	assert.Equal(t, 60, s.ActiveMinutes)
	require.NotNil(t, s.RestingHeartRate)
	assert.Equal(t, 58.0, *s.RestingHeartRate)
	assert.Nil(t, s.StressLevel)
}

func TestSleepSummaryFrom(t *testing.T) {
	s := SleepSummaryFrom(gjson.Parse(`{
		"metadata": {"start_time": "2025-03-01T23:00:00Z"},
		"sleep_durations_data": {
			"total_sleep_time_seconds": 27000,
			"deep_sleep_seconds": 5400,
			"light_sleep_seconds": 14400,
			"rem_sleep_seconds": 7200,
			"awake_seconds": 1230,
			"sleep_efficiency": 0.91
		}
	}`))

	assert.Equal(t, 7.5, s.TotalSleep)
	assert.Equal(t, 1.5, s.DeepSleep)
	assert.Equal(t, 4.0, s.LightSleep)
	assert.Equal(t, 2.0, s.RemSleep)
	assert.Equal(t, 21, s.AwakeTime)
	require.NotNil(t, s.SleepEfficiency)
	assert.Nil(t, s.SleepScore)
	require.NotNil(t, s.Date)
}
