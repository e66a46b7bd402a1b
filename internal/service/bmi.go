package service

import (
	"math"

	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

const (
	CategoryUnderweight = "Underweight"
	CategoryNormal      = "Normal"
	CategoryOverweight  = "Overweight"
	CategoryObese       = "Obese"
)

const (
	healthyBMIMin = 18.5
	healthyBMIMax = 24.9
)

// ComputeBMI returns the BMI rounded to two decimals, its category and the
// healthy weight range for the given height. The range is rounded inward to
// one decimal so both bounds stay inside the healthy band.
func ComputeBMI(weightKg, heightCm float64) (domain.BMIResult, error) {
	if weightKg <= 0 || heightCm <= 0 {
		return domain.BMIResult{}, domain.ValidationError("weight and height must be positive")
	}

	heightM := heightCm / 100
	sq := heightM * heightM
	bmi := round(weightKg/sq, 2)

	return domain.BMIResult{
		BMI:      bmi,
		Category: BMICategory(bmi),
		HealthyWeightRange: domain.WeightRange{
			Min: math.Ceil(healthyBMIMin*sq*10-1e-9) / 10,
			Max: math.Floor(healthyBMIMax*sq*10+1e-9) / 10,
		},
	}, nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return CategoryUnderweight
	case bmi < 25:
		return CategoryNormal
	case bmi < 30:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}

// ProgressBMI is the derived BMI stored on a progress entry. It is 0 when the
// height is unknown so the write still succeeds.
func ProgressBMI(weightKg, heightCm float64) float64 {
	res, err := ComputeBMI(weightKg, heightCm)
	if err != nil {
		return 0
	}
	return res.BMI
}
