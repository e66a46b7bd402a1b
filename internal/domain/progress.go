package domain

import "time"

type BodyMeasurements struct {
	Chest  float64 `json:"chest" validate:"gte=0"`
	Waist  float64 `json:"waist" validate:"gte=0"`
	Hips   float64 `json:"hips" validate:"gte=0"`
	Arms   float64 `json:"arms" validate:"gte=0"`
	Thighs float64 `json:"thighs" validate:"gte=0"`
	Calves float64 `json:"calves" validate:"gte=0"`
}

type Progress struct {
	ID                string           `json:"id"`
	UserID            string           `json:"userId"`
	Date              time.Time        `json:"date"`
	Weight            float64          `json:"weight"`
	BodyMeasurements  BodyMeasurements `json:"bodyMeasurements"`
	BodyFatPercentage float64          `json:"bodyFatPercentage"`
	BMI               float64          `json:"bmi"`
	MuscleMass        float64          `json:"muscleMass"`
	WaterPercentage   float64          `json:"waterPercentage"`
	Notes             string           `json:"notes,omitempty"`
	PhotoURL          string           `json:"photoUrl,omitempty"`
	EnergyLevel       int              `json:"energyLevel"`
	SleepHours        float64          `json:"sleepHours"`
	SleepQuality      string           `json:"sleepQuality"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

type CreateProgressRequest struct {
	Date              *time.Time        `json:"date"`
	Weight            float64           `json:"weight" validate:"required,gt=0,lte=700"`
	BodyMeasurements  *BodyMeasurements `json:"bodyMeasurements"`
	BodyFatPercentage float64           `json:"bodyFatPercentage" validate:"gte=0,lte=100"`
	MuscleMass        float64           `json:"muscleMass" validate:"gte=0"`
	WaterPercentage   float64           `json:"waterPercentage" validate:"gte=0,lte=100"`
	Notes             string            `json:"notes"`
	PhotoURL          string            `json:"photoUrl" validate:"omitempty,url"`
	EnergyLevel       *int              `json:"energyLevel" validate:"omitempty,min=1,max=10"`
	SleepHours        float64           `json:"sleepHours" validate:"gte=0,lte=24"`
	SleepQuality      string            `json:"sleepQuality" validate:"omitempty,oneof=poor fair good excellent"`
}

// UpdateProgressRequest has no date: an entry's date is fixed once recorded.
type UpdateProgressRequest struct {
	Weight            *float64          `json:"weight" validate:"omitempty,gt=0,lte=700"`
	BodyMeasurements  *BodyMeasurements `json:"bodyMeasurements"`
	BodyFatPercentage *float64          `json:"bodyFatPercentage" validate:"omitempty,gte=0,lte=100"`
	MuscleMass        *float64          `json:"muscleMass" validate:"omitempty,gte=0"`
	WaterPercentage   *float64          `json:"waterPercentage" validate:"omitempty,gte=0,lte=100"`
	Notes             *string           `json:"notes"`
	PhotoURL          *string           `json:"photoUrl" validate:"omitempty,url"`
	EnergyLevel       *int              `json:"energyLevel" validate:"omitempty,min=1,max=10"`
	SleepHours        *float64          `json:"sleepHours" validate:"omitempty,gte=0,lte=24"`
	SleepQuality      *string           `json:"sleepQuality" validate:"omitempty,oneof=poor fair good excellent"`
}

type BMIRequest struct {
	Weight float64 `json:"weight" validate:"required"`
	Height float64 `json:"height" validate:"required"`
}

type WeightRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type BMIResult struct {
	BMI                float64     `json:"bmi"`
	Category           string      `json:"category"`
	HealthyWeightRange WeightRange `json:"healthyWeightRange"`
}

type TrendPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type ProgressSummary struct {
	StartWeight    float64 `json:"startWeight"`
	CurrentWeight  float64 `json:"currentWeight"`
	WeightChange   float64 `json:"weightChange"`
	StartBMI       float64 `json:"startBMI"`
	CurrentBMI     float64 `json:"currentBMI"`
	BMIChange      float64 `json:"bmiChange"`
	EntriesCount   int     `json:"entriesCount"`
	AvgEnergyLevel float64 `json:"avgEnergyLevel"`
	AvgSleepHours  float64 `json:"avgSleepHours"`
}

type ProgressAnalytics struct {
	WeightTrend []TrendPoint     `json:"weightTrend"`
	BMITrend    []TrendPoint     `json:"bmiTrend"`
	Summary     *ProgressSummary `json:"summary"`
}
