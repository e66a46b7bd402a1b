package service

import (
	"sort"
	"time"

	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

// addNutrition returns the elementwise sum of two nutrient records.
func addNutrition(a, b domain.Nutrition) domain.Nutrition {
	return domain.Nutrition{
		Calories: a.Calories + b.Calories,
		Protein:  a.Protein + b.Protein,
		Carbs:    a.Carbs + b.Carbs,
		Fat:      a.Fat + b.Fat,
		Fiber:    a.Fiber + b.Fiber,
		Sugar:    a.Sugar + b.Sugar,
	}
}

// MealTotals sums the nutrients of foods. No rounding is applied.
func MealTotals(foods []domain.FoodItem) domain.Nutrition {
	var total domain.Nutrition
	for _, f := range foods {
		total = addNutrition(total, f.Nutrition)
	}
	return total
}

// DayTotals sums the stored totals of meals.
func DayTotals(meals []domain.Meal) domain.Nutrition {
	var total domain.Nutrition
	for _, m := range meals {
		total = addNutrition(total, m.TotalNutrition)
	}
	return total
}

// NormalizeFoods fills food defaults in place.
func NormalizeFoods(foods []domain.FoodItem) {
	for i := range foods {
		if foods[i].Quantity == 0 {
			foods[i].Quantity = 1
		}
		if foods[i].Unit == "" {
			foods[i].Unit = "serving"
		}
	}
}

// SetFoods replaces the food list of m and recomputes its total. Every write
// to a meal's foods goes through here.
func SetFoods(m *domain.Meal, foods []domain.FoodItem) {
	if foods == nil {
		foods = []domain.FoodItem{}
	}
	NormalizeFoods(foods)
	m.Foods = foods
	m.TotalNutrition = MealTotals(foods)
}

func AddFood(m *domain.Meal, food domain.FoodItem) {
	foods := append(append([]domain.FoodItem{}, m.Foods...), food)
	SetFoods(m, foods)
}

func RemoveFood(m *domain.Meal, index int) error {
	if index < 0 || index >= len(m.Foods) {
		return domain.ValidationError("food index %d out of range", index)
	}
	foods := append(append([]domain.FoodItem{}, m.Foods[:index]...), m.Foods[index+1:]...)
	SetFoods(m, foods)
	return nil
}

// NutritionStats groups meals by calendar day in loc and averages the meal
// totals over every meal in the set.
func NutritionStats(meals []domain.Meal, loc *time.Location) domain.NutritionStats {
	byDay := make(map[string]*domain.DailyNutrition)
	for _, m := range meals {
		key := m.Date.In(loc).Format(time.DateOnly)
		d, ok := byDay[key]
		if !ok {
			d = &domain.DailyNutrition{Date: key}
			byDay[key] = d
		}
		d.TotalCalories += m.TotalNutrition.Calories
		d.TotalProtein += m.TotalNutrition.Protein
		d.TotalCarbs += m.TotalNutrition.Carbs
		d.TotalFat += m.TotalNutrition.Fat
		d.MealCount++
	}

	daily := make([]domain.DailyNutrition, 0, len(byDay))
	for _, d := range byDay {
		daily = append(daily, *d)
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	stats := domain.NutritionStats{Daily: daily}
	if len(meals) == 0 {
		return stats
	}
	total := DayTotals(meals)
	n := float64(len(meals))
	stats.Averages = domain.NutritionAverages{
		AvgCalories: round(total.Calories/n, 2),
		AvgProtein:  round(total.Protein/n, 2),
		AvgCarbs:    round(total.Carbs/n, 2),
		AvgFat:      round(total.Fat/n, 2),
	}
	return stats
}
