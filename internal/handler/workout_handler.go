package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
	"github.com/yusufkecer/fittrack-backend/internal/middleware"
	"github.com/yusufkecer/fittrack-backend/internal/repository"
	"github.com/yusufkecer/fittrack-backend/internal/service"
)

type WorkoutHandler struct {
	responder
	workouts repository.WorkoutStore
	now      func() time.Time
}

func NewWorkoutHandler(workouts repository.WorkoutStore, rs responder) *WorkoutHandler {
	return &WorkoutHandler{responder: rs, workouts: workouts, now: time.Now}
}

func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.WorkoutFilter{
		Type: r.URL.Query().Get("type"),
		Page: parsePage(r),
	}
	var err error
	if filter.From, err = optionalDate(r, "startDate"); err != nil {
		h.fail(w, r, err)
		return
	}
	if filter.To, err = optionalDate(r, "endDate"); err != nil {
		h.fail(w, r, err)
		return
	}
	if filter.To != nil {
		_, end := dayBounds(*filter.To)
		filter.To = &end
	}

	workouts, total, err := h.workouts.List(r.Context(), middleware.UserIDFromContext(r.Context()), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope(workouts, total, filter.Page))
}

func (h *WorkoutHandler) Stats(w http.ResponseWriter, r *http.Request) {
	since, err := statsWindow(h.now(), r.URL.Query().Get("period"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	workouts, err := h.workouts.Since(r.Context(), middleware.UserIDFromContext(r.Context()), since)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": service.WorkoutStats(workouts)})
}

func (h *WorkoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	workout, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": workout})
}

func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWorkoutRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	workout := domain.Workout{
		UserID:              middleware.UserIDFromContext(r.Context()),
		Title:               strings.TrimSpace(req.Title),
		Type:                defaultString(req.Type, domain.WorkoutMixed),
		Exercises:           req.Exercises,
		Duration:            *req.Duration,
		TotalCaloriesBurned: req.TotalCaloriesBurned,
		Intensity:           defaultString(req.Intensity, domain.IntensityModerate),
		Notes:               req.Notes,
		IsCompleted:         true,
		ScheduledFor:        req.ScheduledFor,
		CompletedAt:         h.now().UTC(),
		Source:              domain.SourceManual,
	}
	if req.Mood != nil {
		workout.Mood = *req.Mood
	}
	if req.IsCompleted != nil {
		workout.IsCompleted = *req.IsCompleted
	}
	if req.CompletedAt != nil {
		workout.CompletedAt = req.CompletedAt.UTC()
	}
	service.ApplyWorkoutDerived(&workout)

	if err := h.workouts.Create(r.Context(), &workout); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"data": workout})
}

func (h *WorkoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateWorkoutRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	workout, ok := h.load(w, r)
	if !ok {
		return
	}

	if req.Title != nil {
		workout.Title = strings.TrimSpace(*req.Title)
	}
	if req.Type != nil {
		workout.Type = *req.Type
	}
	if req.Exercises != nil {
		workout.Exercises = *req.Exercises
	}
	if req.Duration != nil {
		workout.Duration = *req.Duration
	}
	if req.TotalCaloriesBurned != nil {
		workout.TotalCaloriesBurned = *req.TotalCaloriesBurned
	}
	if req.Intensity != nil {
		workout.Intensity = *req.Intensity
	}
	if req.Mood != nil {
		workout.Mood = *req.Mood
	}
	if req.Notes != nil {
		workout.Notes = *req.Notes
	}
	if req.IsCompleted != nil {
		workout.IsCompleted = *req.IsCompleted
	}
	if req.ScheduledFor != nil {
		workout.ScheduledFor = req.ScheduledFor
	}
	if req.CompletedAt != nil {
		workout.CompletedAt = req.CompletedAt.UTC()
	}
	service.ApplyWorkoutDerived(workout)

	if err := h.workouts.Update(r.Context(), workout); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": workout})
}

func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.workouts.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		h.fail(w, r, domain.NotFoundError("Workout"))
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": envelope{}})
}

// load fetches the workout named in the path, writing a 404 when it is
// missing or owned by someone else.
func (h *WorkoutHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Workout, bool) {
	workout, err := h.workouts.Get(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	if workout == nil {
		h.fail(w, r, domain.NotFoundError("Workout"))
		return nil, false
	}
	return workout, true
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func statsWindow(now time.Time, period string) (time.Time, error) {
	return service.WindowStart(now, period, "week")
}
