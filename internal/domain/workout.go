package domain

import "time"

const (
	WorkoutCardio   = "cardio"
	WorkoutStrength = "strength"
	WorkoutHIIT     = "hiit"
	WorkoutYoga     = "yoga"
	WorkoutMixed    = "mixed"
	WorkoutSports   = "sports"
	WorkoutOther    = "other"
)

const (
	IntensityLow      = "low"
	IntensityModerate = "moderate"
	IntensityHigh     = "high"
	IntensityExtreme  = "extreme"
)

const (
	SourceManual   = "manual"
	SourceWearable = "wearable"
)

type Exercise struct {
	Name           string  `json:"name" validate:"required"`
	Category       string  `json:"category" validate:"required,oneof=cardio strength flexibility balance sports"`
	Sets           int     `json:"sets" validate:"gte=0"`
	Reps           int     `json:"reps" validate:"gte=0"`
	Weight         float64 `json:"weight" validate:"gte=0"`
	Duration       float64 `json:"duration" validate:"gte=0"`
	Distance       float64 `json:"distance" validate:"gte=0"`
	CaloriesBurned float64 `json:"caloriesBurned" validate:"gte=0"`
	Notes          string  `json:"notes,omitempty"`
}

type Mood struct {
	Before string `json:"before" validate:"omitempty,oneof=great good okay tired exhausted"`
	After  string `json:"after" validate:"omitempty,oneof=great good okay tired exhausted"`
}

type Workout struct {
	ID                  string     `json:"id"`
	UserID              string     `json:"userId"`
	Title               string     `json:"title"`
	Type                string     `json:"type"`
	Exercises           []Exercise `json:"exercises"`
	Duration            int        `json:"duration"`
	TotalCaloriesBurned float64    `json:"totalCaloriesBurned"`
	Intensity           string     `json:"intensity"`
	Mood                Mood       `json:"mood"`
	Notes               string     `json:"notes,omitempty"`
	IsCompleted         bool       `json:"isCompleted"`
	ScheduledFor        *time.Time `json:"scheduledFor,omitempty"`
	CompletedAt         time.Time  `json:"completedAt"`
	Source              string     `json:"source"`
	SourceDevice        string     `json:"sourceDevice,omitempty"`
	HeartRateAvg        *float64   `json:"heartRateAvg,omitempty"`
	HeartRateMax        *float64   `json:"heartRateMax,omitempty"`
	Distance            *float64   `json:"distance,omitempty"`
	Steps               *int       `json:"steps,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

type WorkoutFilter struct {
	Type string
	From *time.Time
	To   *time.Time
	Page
}

type CreateWorkoutRequest struct {
	Title               string     `json:"title" validate:"required,max=100"`
	Type                string     `json:"type" validate:"omitempty,oneof=cardio strength hiit yoga mixed sports other"`
	Exercises           []Exercise `json:"exercises" validate:"dive"`
	Duration            *int       `json:"duration" validate:"required,gte=0"`
	TotalCaloriesBurned float64    `json:"totalCaloriesBurned" validate:"gte=0"`
	Intensity           string     `json:"intensity" validate:"omitempty,oneof=low moderate high extreme"`
	Mood                *Mood      `json:"mood"`
	Notes               string     `json:"notes"`
	IsCompleted         *bool      `json:"isCompleted"`
	ScheduledFor        *time.Time `json:"scheduledFor"`
	CompletedAt         *time.Time `json:"completedAt"`
}

type UpdateWorkoutRequest struct {
	Title               *string     `json:"title" validate:"omitempty,min=1,max=100"`
	Type                *string     `json:"type" validate:"omitempty,oneof=cardio strength hiit yoga mixed sports other"`
	Exercises           *[]Exercise `json:"exercises" validate:"omitempty,dive"`
	Duration            *int        `json:"duration" validate:"omitempty,gte=0"`
	TotalCaloriesBurned *float64    `json:"totalCaloriesBurned" validate:"omitempty,gte=0"`
	Intensity           *string     `json:"intensity" validate:"omitempty,oneof=low moderate high extreme"`
	Mood                *Mood       `json:"mood"`
	Notes               *string     `json:"notes"`
	IsCompleted         *bool       `json:"isCompleted"`
	ScheduledFor        *time.Time  `json:"scheduledFor"`
	CompletedAt         *time.Time  `json:"completedAt"`
}

type WorkoutSummary struct {
	TotalWorkouts int     `json:"totalWorkouts"`
	TotalDuration int     `json:"totalDuration"`
	TotalCalories float64 `json:"totalCalories"`
	AvgDuration   float64 `json:"avgDuration"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type WorkoutStats struct {
	Summary WorkoutSummary `json:"summary"`
	ByType  []TypeCount    `json:"byType"`
}
