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

type MealHandler struct {
	responder
	meals repository.MealStore
	now   func() time.Time
}

func NewMealHandler(meals repository.MealStore, rs responder) *MealHandler {
	return &MealHandler{responder: rs, meals: meals, now: time.Now}
}

func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.MealFilter{
		Type: r.URL.Query().Get("type"),
		Page: parsePage(r),
	}
	date, err := optionalDate(r, "date")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if date != nil {
		from, to := dayBounds(*date)
		filter.From, filter.To = &from, &to
	}

	meals, total, err := h.meals.List(r.Context(), middleware.UserIDFromContext(r.Context()), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope(meals, total, filter.Page))
}

// Daily returns the meals of one calendar day with their summed nutrition.
func (h *MealHandler) Daily(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["date"]
	date, err := parseDate("date", raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	from, to := dayBounds(date)

	meals, err := h.meals.Between(r.Context(), middleware.UserIDFromContext(r.Context()), from, to)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"date":        raw,
		"count":       len(meals),
		"dailyTotals": service.DayTotals(meals),
		"data":        meals,
	})
}

func (h *MealHandler) Stats(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	since, err := statsWindow(now, r.URL.Query().Get("period"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	meals, err := h.meals.Between(r.Context(), middleware.UserIDFromContext(r.Context()), since, now)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": service.NutritionStats(meals, time.UTC)})
}

func (h *MealHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	meals, err := h.meals.Favorites(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"count": len(meals), "data": meals})
}

func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	meal, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": meal})
}

func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMealRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	meal := domain.Meal{
		UserID:     middleware.UserIDFromContext(r.Context()),
		Name:       strings.TrimSpace(req.Name),
		Type:       req.Type,
		Date:       h.now().UTC(),
		Time:       req.Time,
		Notes:      req.Notes,
		IsFavorite: req.IsFavorite,
		ImageURL:   req.ImageURL,
	}
	if req.Date != nil {
		meal.Date = req.Date.UTC()
	}
	service.SetFoods(&meal, req.Foods)

	if err := h.meals.Create(r.Context(), &meal); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{"data": meal})
}

func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateMealRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	meal, ok := h.load(w, r)
	if !ok {
		return
	}

	if req.Name != nil {
		meal.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		meal.Type = *req.Type
	}
	if req.Date != nil {
		meal.Date = req.Date.UTC()
	}
	if req.Time != nil {
		meal.Time = *req.Time
	}
	if req.Notes != nil {
		meal.Notes = *req.Notes
	}
	if req.IsFavorite != nil {
		meal.IsFavorite = *req.IsFavorite
	}
	if req.ImageURL != nil {
		meal.ImageURL = *req.ImageURL
	}
	foods := meal.Foods
	if req.Foods != nil {
		foods = *req.Foods
	}
	service.SetFoods(meal, foods)

	h.save(w, r, meal)
}

func (h *MealHandler) AddFood(w http.ResponseWriter, r *http.Request) {
	var food domain.FoodItem
	if err := decode(r, &food); err != nil {
		h.fail(w, r, err)
		return
	}

	meal, ok := h.load(w, r)
	if !ok {
		return
	}
	service.AddFood(meal, food)

	h.save(w, r, meal)
}

func (h *MealHandler) RemoveFood(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		h.fail(w, r, domain.ValidationError("invalid food index"))
		return
	}

	meal, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := service.RemoveFood(meal, index); err != nil {
		h.fail(w, r, err)
		return
	}

	h.save(w, r, meal)
}

func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.meals.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		h.fail(w, r, domain.NotFoundError("Meal"))
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": envelope{}})
}

func (h *MealHandler) save(w http.ResponseWriter, r *http.Request, meal *domain.Meal) {
	if err := h.meals.Update(r.Context(), meal); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": meal})
}

func (h *MealHandler) load(w http.ResponseWriter, r *http.Request) (*domain.Meal, bool) {
	meal, err := h.meals.Get(r.Context(), middleware.UserIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	if meal == nil {
		h.fail(w, r, domain.NotFoundError("Meal"))
		return nil, false
	}
	return meal, true
}
