package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

func food(name string, cal, protein, carbs, fat float64) domain.FoodItem {
	return domain.FoodItem{
		Name:      name,
		Nutrition: domain.Nutrition{Calories: cal, Protein: protein, Carbs: carbs, Fat: fat, Fiber: 1, Sugar: 2},
	}
}

func TestMealTotals(t *testing.T) {
	total := MealTotals([]domain.FoodItem{
		food("oats", 150, 5, 27, 3),
		food("milk", 100, 8, 12, 2.5),
	})
	assert.Equal(t, domain.Nutrition{Calories: 250, Protein: 13, Carbs: 39, Fat: 5.5, Fiber: 2, Sugar: 4}, total)
	assert.Equal(t, domain.Nutrition{}, MealTotals(nil))
}

func TestSetFoodsRecomputesAndFillsDefaults(t *testing.T) {
	m := domain.Meal{TotalNutrition: domain.Nutrition{Calories: 999}}
	SetFoods(&m, []domain.FoodItem{food("egg", 70, 6, 0, 5)})

	require.Len(t, m.Foods, 1)
	assert.Equal(t, 1.0, m.Foods[0].Quantity)
	assert.Equal(t, "serving", m.Foods[0].Unit)
	assert.Equal(t, 70.0, m.TotalNutrition.Calories)

	SetFoods(&m, nil)
	assert.NotNil(t, m.Foods)
	assert.Equal(t, domain.Nutrition{}, m.TotalNutrition)
}

func TestAddAndRemoveFood(t *testing.T) {
	var m domain.Meal
	SetFoods(&m, []domain.FoodItem{food("rice", 200, 4, 45, 0.5)})
	original := m.Foods

	AddFood(&m, food("chicken", 165, 31, 0, 3.6))
	assert.Len(t, m.Foods, 2)
	assert.Len(t, original, 1)
	assert.Equal(t, 365.0, m.TotalNutrition.Calories)

	require.NoError(t, RemoveFood(&m, 0))
	require.Len(t, m.Foods, 1)
	assert.Equal(t, "chicken", m.Foods[0].Name)
	assert.Equal(t, 165.0, m.TotalNutrition.Calories)

	err := RemoveFood(&m, 5)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestDayTotals(t *testing.T) {
	meals := []domain.Meal{
		{TotalNutrition: domain.Nutrition{Calories: 400, Protein: 20}},
		{TotalNutrition: domain.Nutrition{Calories: 600, Protein: 35}},
	}
	total := DayTotals(meals)
	assert.Equal(t, 1000.0, total.Calories)
	assert.Equal(t, 55.0, total.Protein)
}

func TestNutritionStats(t *testing.T) {
	day1 := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 19, 0, 0, 0, time.UTC)
	meals := []domain.Meal{
		{Date: day2, TotalNutrition: domain.Nutrition{Calories: 700, Protein: 40}},
		{Date: day1, TotalNutrition: domain.Nutrition{Calories: 300, Protein: 10}},
		{Date: day1.Add(4 * time.Hour), TotalNutrition: domain.Nutrition{Calories: 500, Protein: 25}},
	}

	stats := NutritionStats(meals, time.UTC)
	require.Len(t, stats.Daily, 2)
	assert.Equal(t, "2025-03-01", stats.Daily[0].Date)
	assert.Equal(t, 800.0, stats.Daily[0].TotalCalories)
	assert.Equal(t, 2, stats.Daily[0].MealCount)
	assert.Equal(t, "2025-03-02", stats.Daily[1].Date)
	assert.Equal(t, 500.0, stats.Averages.AvgCalories)
	assert.Equal(t, 25.0, stats.Averages.AvgProtein)

	empty := NutritionStats(nil, time.UTC)
	assert.Empty(t, empty.Daily)
	assert.Equal(t, domain.NutritionAverages{}, empty.Averages)
}
