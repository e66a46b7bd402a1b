package domain

import "time"

const (
	DefaultReminderIcon  = "🔔"
	DefaultReminderColor = "#6366f1"
)

type Reminder struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Type          string     `json:"type"`
	Time          string     `json:"time"`
	Days          []string   `json:"days"`
	IsRecurring   bool       `json:"isRecurring"`
	IsActive      bool       `json:"isActive"`
	Sound         string     `json:"sound"`
	LastTriggered *time.Time `json:"lastTriggered,omitempty"`
	NextTrigger   *time.Time `json:"nextTrigger"`
	Icon          string     `json:"icon"`
	Color         string     `json:"color"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type CreateReminderRequest struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description"`
	Type        string   `json:"type" validate:"omitempty,oneof=workout meal water sleep medication weight_check custom"`
	Time        string   `json:"time" validate:"required,clock"`
	Days        []string `json:"days" validate:"dive,weekday"`
	IsRecurring *bool    `json:"isRecurring"`
	IsActive    *bool    `json:"isActive"`
	Sound       string   `json:"sound" validate:"omitempty,oneof=default gentle energetic silent"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color" validate:"omitempty,hexcolor"`
}

type UpdateReminderRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description"`
	Type        *string   `json:"type" validate:"omitempty,oneof=workout meal water sleep medication weight_check custom"`
	Time        *string   `json:"time" validate:"omitempty,clock"`
	Days        *[]string `json:"days" validate:"omitempty,dive,weekday"`
	IsRecurring *bool     `json:"isRecurring"`
	IsActive    *bool     `json:"isActive"`
	Sound       *string   `json:"sound" validate:"omitempty,oneof=default gentle energetic silent"`
	Icon        *string   `json:"icon"`
	Color       *string   `json:"color" validate:"omitempty,hexcolor"`
}
