package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
	"github.com/yusufkecer/fittrack-backend/internal/middleware"
	"github.com/yusufkecer/fittrack-backend/internal/repository"
	"github.com/yusufkecer/fittrack-backend/internal/service"
)

type ReminderHandler struct {
	responder
	reminders repository.ReminderStore
	now       func() time.Time
}

func NewReminderHandler(reminders repository.ReminderStore, rs responder) *ReminderHandler {
	return &ReminderHandler{responder: rs, reminders: reminders, now: time.Now}
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	var active *bool
	if v := r.URL.Query().Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.fail(w, r, domain.ValidationError("active must be true or false"))
			return
		}
		active = &b
	}

	reminders, err := h.reminders.List(r.Context(), middleware.UserIDFromContext(r.Context()), active)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"count": len(reminders), "data": reminders})
}

// Today lists the active reminders that fire on the current weekday.
func (h *ReminderHandler) Today(w http.ResponseWriter, r *http.Request) {
	active := true
	reminders, err := h.reminders.List(r.Context(), middleware.UserIDFromContext(r.Context()), &active)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	now := h.now()
	due := service.TodayReminders(reminders, now)
	writeJSON(w, http.StatusOK, envelope{
		"count": len(due),
		"day":   service.WeekdayName(now.Weekday()),
		"data":  due,
	})
}

func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	reminder, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": reminder})
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReminderRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	clock, err := service.NormalizeClock(req.Time)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	days, err := service.NormalizeDays(req.Days)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	reminder := domain.Reminder{
		UserID:      middleware.UserIDFromContext(r.Context()),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Type:        defaultString(req.Type, "custom"),
		Time:        clock,
		Days:        days,
		IsRecurring: true,
		IsActive:    true,
		Sound:       defaultString(req.Sound, "default"),
		Icon:        defaultString(req.Icon, domain.DefaultReminderIcon),
		Color:       defaultString(req.Color, domain.DefaultReminderColor),
	}
	if req.IsRecurring != nil {
		reminder.IsRecurring = *req.IsRecurring
	}
	if req.IsActive != nil {
		reminder.IsActive = *req.IsActive
	}
	if err := h.schedule(&reminder); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.reminders.Create(r.Context(), &reminder); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"data": reminder})
}

// Update applies the supplied fields. nextTrigger is recomputed when the
// time or days change, or when the reminder is switched back on.
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateReminderRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	reminder, ok := h.load(w, r)
	if !ok {
		return
	}
	wasActive := reminder.IsActive

	if req.Title != nil {
		reminder.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		reminder.Description = *req.Description
	}
	if req.Type != nil {
		reminder.Type = *req.Type
	}
	if req.Time != nil {
		clock, err := service.NormalizeClock(*req.Time)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		reminder.Time = clock
	}
	if req.Days != nil {
		days, err := service.NormalizeDays(*req.Days)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		reminder.Days = days
	}
	if req.IsRecurring != nil {
		reminder.IsRecurring = *req.IsRecurring
	}
	if req.IsActive != nil {
		reminder.IsActive = *req.IsActive
	}
	if req.Sound != nil {
		reminder.Sound = *req.Sound
	}
	if req.Icon != nil {
		reminder.Icon = *req.Icon
	}
	if req.Color != nil {
		reminder.Color = *req.Color
	}

	if req.Time != nil || req.Days != nil || (reminder.IsActive && !wasActive) {
		if err := h.schedule(reminder); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	h.save(w, r, reminder)
}

func (h *ReminderHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	reminder, ok := h.load(w, r)
	if !ok {
		return
	}

	reminder.IsActive = !reminder.IsActive
	if reminder.IsActive {
		if err := h.schedule(reminder); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	h.save(w, r, reminder)
}

func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.reminders.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		h.fail(w, r, domain.NotFoundError("Reminder"))
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": envelope{}})
}

func (h *ReminderHandler) schedule(reminder *domain.Reminder) error {
	next, err := service.NextTrigger(h.now(), reminder.Time, reminder.Days)
	if err != nil {
		return err
	}
	reminder.NextTrigger = next
	return nil
}

func (h *ReminderHandler) save(w http.ResponseWriter, r *http.Request, reminder *domain.Reminder) {
	if err := h.reminders.Update(r.Context(), reminder); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": reminder})
}

func (h *ReminderHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Reminder, bool) {
	reminder, err := h.reminders.Get(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	if reminder == nil {
		h.fail(w, r, domain.NotFoundError("Reminder"))
		return nil, false
	}
	return reminder, true
}
