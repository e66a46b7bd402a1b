package domain

import "time"

type Profile struct {
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activityLevel"`
	GoalWeight    float64 `json:"goalWeight"`
	FitnessGoal   string  `json:"fitnessGoal"`
}

type Settings struct {
	Notifications bool   `json:"notifications"`
	DarkMode      bool   `json:"darkMode"`
	Units         string `json:"units"`
}

type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Avatar         string    `json:"avatar"`
	Profile        Profile   `json:"profile"`
	Settings       Settings  `json:"settings"`
	WearableUserID *string   `json:"wearableUserId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func DefaultProfile() Profile {
	return Profile{
		Gender:        "other",
		ActivityLevel: "moderate",
		FitnessGoal:   "maintain",
	}
}

func DefaultSettings() Settings {
	return Settings{
		Notifications: true,
		DarkMode:      true,
		Units:         "metric",
	}
}

// ProfileUpdate holds the optional profile fields of an update request;
// nil fields keep their stored value.
type ProfileUpdate struct {
	Height        *float64 `json:"height" validate:"omitempty,gte=0,lte=300"`
	Weight        *float64 `json:"weight" validate:"omitempty,gte=0,lte=700"`
	Age           *int     `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender        *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	ActivityLevel *string  `json:"activityLevel" validate:"omitempty,oneof=sedentary light moderate active very_active"`
	GoalWeight    *float64 `json:"goalWeight" validate:"omitempty,gte=0,lte=700"`
	FitnessGoal   *string  `json:"fitnessGoal" validate:"omitempty,oneof=lose_weight maintain gain_muscle improve_fitness"`
}

func (u ProfileUpdate) ApplyTo(p *Profile) {
	if u.Height != nil {
		p.Height = *u.Height
	}
	if u.Weight != nil {
		p.Weight = *u.Weight
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.Gender != nil {
		p.Gender = *u.Gender
	}
	if u.ActivityLevel != nil {
		p.ActivityLevel = *u.ActivityLevel
	}
	if u.GoalWeight != nil {
		p.GoalWeight = *u.GoalWeight
	}
	if u.FitnessGoal != nil {
		p.FitnessGoal = *u.FitnessGoal
	}
}

type SettingsUpdate struct {
	Notifications *bool   `json:"notifications"`
	DarkMode      *bool   `json:"darkMode"`
	Units         *string `json:"units" validate:"omitempty,oneof=metric imperial"`
}

func (u SettingsUpdate) ApplyTo(s *Settings) {
	if u.Notifications != nil {
		s.Notifications = *u.Notifications
	}
	if u.DarkMode != nil {
		s.DarkMode = *u.DarkMode
	}
	if u.Units != nil {
		s.Units = *u.Units
	}
}

type UpdateProfileRequest struct {
	Name     *string         `json:"name" validate:"omitempty,min=1,max=50"`
	Profile  *ProfileUpdate  `json:"profile"`
	Settings *SettingsUpdate `json:"settings"`
}
