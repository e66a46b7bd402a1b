package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

func TestTotalCalories(t *testing.T) {
	exercises := []domain.Exercise{{CaloriesBurned: 120}, {CaloriesBurned: 80.5}}
	assert.Equal(t, 200.5, TotalCalories(exercises, 999))
	assert.Equal(t, 350.0, TotalCalories(nil, 350))
}

func TestApplyWorkoutDerived(t *testing.T) {
	w := domain.Workout{TotalCaloriesBurned: 300}
	ApplyWorkoutDerived(&w)
	assert.NotNil(t, w.Exercises)
	assert.Equal(t, 300.0, w.TotalCaloriesBurned)

	w.Exercises = []domain.Exercise{{CaloriesBurned: 50}, {CaloriesBurned: 25}}
	ApplyWorkoutDerived(&w)
	assert.Equal(t, 75.0, w.TotalCaloriesBurned)
}

func TestWorkoutStats(t *testing.T) {
	stats := WorkoutStats([]domain.Workout{
		{Type: domain.WorkoutStrength, Duration: 45, TotalCaloriesBurned: 300},
		{Type: domain.WorkoutCardio, Duration: 30, TotalCaloriesBurned: 250},
		{Type: domain.WorkoutCardio, Duration: 20, TotalCaloriesBurned: 180},
	})

	assert.Equal(t, domain.WorkoutSummary{
		TotalWorkouts: 3,
		TotalDuration: 95,
		TotalCalories: 730,
		AvgDuration:   31.7,
	}, stats.Summary)
	assert.Equal(t, []domain.TypeCount{
		{Type: domain.WorkoutCardio, Count: 2},
		{Type: domain.WorkoutStrength, Count: 1},
	}, stats.ByType)
}

func TestWorkoutStatsEmpty(t *testing.T) {
	stats := WorkoutStats(nil)
	assert.Equal(t, domain.WorkoutSummary{}, stats.Summary)
	assert.NotNil(t, stats.ByType)
	assert.Empty(t, stats.ByType)
}
