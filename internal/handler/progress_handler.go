package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
	"github.com/yusufkecer/fittrack-backend/internal/middleware"
	"github.com/yusufkecer/fittrack-backend/internal/repository"
	"github.com/yusufkecer/fittrack-backend/internal/service"
)

const (
	progressPageLimit  = 30
	defaultEnergyLevel = 5
)

type ProgressHandler struct {
	responder
	progress repository.ProgressStore
	users    repository.UserStore
	now      func() time.Time
}

func NewProgressHandler(progress repository.ProgressStore, users repository.UserStore, rs responder) *ProgressHandler {
	return &ProgressHandler{responder: rs, progress: progress, users: users, now: time.Now}
}

func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	if r.URL.Query().Get("limit") == "" {
		page.Limit = progressPageLimit
	}

	entries, total, err := h.progress.List(r.Context(), middleware.UserIDFromContext(r.Context()), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope(entries, total, page))
}

func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": entry})
}

// Create records a check-in. Its weight also becomes the user's current
// profile weight.
func (h *ProgressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProgressRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user := middleware.UserFromContext(r.Context())
	entry := domain.Progress{
		UserID:            user.ID,
		Date:              h.now().UTC(),
		Weight:            req.Weight,
		BodyFatPercentage: req.BodyFatPercentage,
		MuscleMass:        req.MuscleMass,
		WaterPercentage:   req.WaterPercentage,
		Notes:             req.Notes,
		PhotoURL:          req.PhotoURL,
		EnergyLevel:       defaultEnergyLevel,
		SleepHours:        req.SleepHours,
		SleepQuality:      defaultString(req.SleepQuality, "good"),
		BMI:               service.ProgressBMI(req.Weight, user.Profile.Height),
	}
	if req.Date != nil {
		entry.Date = req.Date.UTC()
	}
	if req.BodyMeasurements != nil {
		entry.BodyMeasurements = *req.BodyMeasurements
	}
	if req.EnergyLevel != nil {
		entry.EnergyLevel = *req.EnergyLevel
	}

	if err := h.progress.Create(r.Context(), &entry); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.users.UpdateWeight(r.Context(), user.ID, entry.Weight); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"data": entry})
}

// Update edits a check-in in place. The date is fixed and the profile
// weight is left alone.
func (h *ProgressHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProgressRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	entry, ok := h.load(w, r)
	if !ok {
		return
	}

	if req.Weight != nil {
		entry.Weight = *req.Weight
		if height := middleware.UserFromContext(r.Context()).Profile.Height; height > 0 {
			entry.BMI = service.ProgressBMI(entry.Weight, height)
		}
	}
	if req.BodyMeasurements != nil {
		entry.BodyMeasurements = *req.BodyMeasurements
	}
	if req.BodyFatPercentage != nil {
		entry.BodyFatPercentage = *req.BodyFatPercentage
	}
	if req.MuscleMass != nil {
		entry.MuscleMass = *req.MuscleMass
	}
	if req.WaterPercentage != nil {
		entry.WaterPercentage = *req.WaterPercentage
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}
	if req.PhotoURL != nil {
		entry.PhotoURL = *req.PhotoURL
	}
	if req.EnergyLevel != nil {
		entry.EnergyLevel = *req.EnergyLevel
	}
	if req.SleepHours != nil {
		entry.SleepHours = *req.SleepHours
	}
	if req.SleepQuality != nil {
		entry.SleepQuality = *req.SleepQuality
	}

	if err := h.progress.Update(r.Context(), entry); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": entry})
}

func (h *ProgressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.progress.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		h.fail(w, r, domain.NotFoundError("Progress entry"))
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": envelope{}})
}

// BMI is a stateless calculator; nothing is stored.
func (h *ProgressHandler) BMI(w http.ResponseWriter, r *http.Request) {
	var req domain.BMIRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, domain.ValidationError("Please provide weight and height"))
		return
	}

	result, err := service.ComputeBMI(req.Weight, req.Height)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": struct {
		domain.BMIResult
		CurrentWeight float64 `json:"currentWeight"`
		Height        float64 `json:"height"`
	}{result, req.Weight, req.Height}})
}

func (h *ProgressHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	since, err := service.WindowStart(h.now(), r.URL.Query().Get("period"), "month")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	entries, err := h.progress.Since(r.Context(), middleware.UserIDFromContext(r.Context()), since)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": service.Analyze(entries)})
}

func (h *ProgressHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Progress, bool) {
	entry, err := h.progress.Get(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	if entry == nil {
		h.fail(w, r, domain.NotFoundError("Progress entry"))
		return nil, false
	}
	return entry, true
}
