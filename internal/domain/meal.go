package domain

import "time"

// Nutrition is the six-field nutrient record shared by foods, meal totals
// and day totals.
type Nutrition struct {
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
	Fiber    float64 `json:"fiber" validate:"gte=0"`
	Sugar    float64 `json:"sugar" validate:"gte=0"`
}

type FoodItem struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Unit     string  `json:"unit" validate:"omitempty,oneof=g ml oz cup piece serving"`
	Nutrition
}

type Meal struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	Foods          []FoodItem `json:"foods"`
	TotalNutrition Nutrition  `json:"totalNutrition"`
	Date           time.Time  `json:"date"`
	Time           string     `json:"time,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	IsFavorite     bool       `json:"isFavorite"`
	ImageURL       string     `json:"imageUrl,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type MealFilter struct {
	Type string
	From *time.Time
	To   *time.Time
	Page
}

type CreateMealRequest struct {
	Name       string     `json:"name" validate:"required,max=100"`
	Type       string     `json:"type" validate:"required,oneof=breakfast lunch dinner snack"`
	Foods      []FoodItem `json:"foods" validate:"dive"`
	Date       *time.Time `json:"date"`
	Time       string     `json:"time"`
	Notes      string     `json:"notes"`
	IsFavorite bool       `json:"isFavorite"`
	ImageURL   string     `json:"imageUrl" validate:"omitempty,url"`
}

type UpdateMealRequest struct {
	Name       *string     `json:"name" validate:"omitempty,min=1,max=100"`
	Type       *string     `json:"type" validate:"omitempty,oneof=breakfast lunch dinner snack"`
	Foods      *[]FoodItem `json:"foods" validate:"omitempty,dive"`
	Date       *time.Time  `json:"date"`
	Time       *string     `json:"time"`
	Notes      *string     `json:"notes"`
	IsFavorite *bool       `json:"isFavorite"`
	ImageURL   *string     `json:"imageUrl" validate:"omitempty,url"`
}

type DailyNutrition struct {
	Date          string  `json:"date"`
	TotalCalories float64 `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
	TotalCarbs    float64 `json:"totalCarbs"`
	TotalFat      float64 `json:"totalFat"`
	MealCount     int     `json:"mealCount"`
}

type NutritionAverages struct {
	AvgCalories float64 `json:"avgCalories"`
	AvgProtein  float64 `json:"avgProtein"`
	AvgCarbs    float64 `json:"avgCarbs"`
	AvgFat      float64 `json:"avgFat"`
}

type NutritionStats struct {
	Daily    []DailyNutrition  `json:"daily"`
	Averages NutritionAverages `json:"averages"`
}
