package domain

import (
	"encoding/json"
	"time"
)

type WidgetSession struct {
	WidgetURL string `json:"widgetUrl"`
	SessionID string `json:"sessionId"`
}

type SyncRequest struct {
	StartDate string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

type SyncResult struct {
	Synced   int       `json:"synced"`
	Total    int       `json:"total"`
	Workouts []Workout `json:"workouts"`
}

type DailySummary struct {
	Steps            int64    `json:"steps"`
	Distance         float64  `json:"distance"`
	CaloriesBurned   float64  `json:"caloriesBurned"`
	ActiveMinutes    int      `json:"activeMinutes"`
	AvgHeartRate     *float64 `json:"avgHeartRate"`
	RestingHeartRate *float64 `json:"restingHeartRate"`
	StressLevel      *float64 `json:"stressLevel"`
}

type SleepSummary struct {
	Date            *time.Time `json:"date"`
	TotalSleep      float64    `json:"totalSleep"`
	DeepSleep       float64    `json:"deepSleep"`
	LightSleep      float64    `json:"lightSleep"`
	RemSleep        float64    `json:"remSleep"`
	AwakeTime       int        `json:"awakeTime"`
	SleepEfficiency *float64   `json:"sleepEfficiency"`
	SleepScore      *float64   `json:"sleepScore"`
}

const (
	WebhookAuth     = "auth"
	WebhookActivity = "activity"
	WebhookDeauth   = "deauth"
)

type WebhookUser struct {
	UserID      string `json:"user_id"`
	ReferenceID string `json:"reference_id"`
}

// WebhookEvent is the vendor push envelope. Data stays raw until the event
// type is known.
type WebhookEvent struct {
	Type string          `json:"type"`
	User *WebhookUser    `json:"user"`
	Data json.RawMessage `json:"data"`
}
