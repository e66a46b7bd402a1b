package service

import (
	"sort"

	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

// TotalCalories is the derived burned calories of a workout: the sum over
// exercises when there are any, else the value supplied directly.
func TotalCalories(exercises []domain.Exercise, supplied float64) float64 {
	if len(exercises) == 0 {
		return supplied
	}
	var total float64
	for _, e := range exercises {
		total += e.CaloriesBurned
	}
	return total
}

// ApplyWorkoutDerived recomputes the derived fields of w after a write.
func ApplyWorkoutDerived(w *domain.Workout) {
	if w.Exercises == nil {
		w.Exercises = []domain.Exercise{}
	}
	w.TotalCaloriesBurned = TotalCalories(w.Exercises, w.TotalCaloriesBurned)
}

func WorkoutStats(workouts []domain.Workout) domain.WorkoutStats {
	stats := domain.WorkoutStats{ByType: []domain.TypeCount{}}
	if len(workouts) == 0 {
		return stats
	}

	counts := make(map[string]int)
	for _, w := range workouts {
		stats.Summary.TotalWorkouts++
		stats.Summary.TotalDuration += w.Duration
		stats.Summary.TotalCalories += w.TotalCaloriesBurned
		counts[w.Type]++
	}
	stats.Summary.AvgDuration = round(float64(stats.Summary.TotalDuration)/float64(len(workouts)), 1)

	for t, c := range counts {
		stats.ByType = append(stats.ByType, domain.TypeCount{Type: t, Count: c})
	}
	sort.Slice(stats.ByType, func(i, j int) bool { return stats.ByType[i].Type < stats.ByType[j].Type })
	return stats
}
