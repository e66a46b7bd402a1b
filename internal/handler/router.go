package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/yusufkecer/fittrack-backend/internal/config"
	"github.com/yusufkecer/fittrack-backend/internal/metrics"
	"github.com/yusufkecer/fittrack-backend/internal/middleware"
	"github.com/yusufkecer/fittrack-backend/internal/repository"
	"github.com/yusufkecer/fittrack-backend/internal/service"
)

const maxBodyBytes = 1 << 20

// maxWebhookBodyBytes is larger since vendor activity pushes carry
// per-sample heart-rate and position data.
const maxWebhookBodyBytes = 16 << 20

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Config    *config.Config
	Stores    repository.Stores
	Wearables *service.WearableService
	Mailer    service.Mailer
	Log       logrus.FieldLogger
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	rs := responder{log: d.Log, dev: cfg.IsDevelopment()}

	authHandler := NewAuthHandler(cfg.JWTSecret, cfg.JWTExpire, d.Stores.Users, d.Stores.ResetTokens, d.Mailer, rs)
	workoutHandler := NewWorkoutHandler(d.Stores.Workouts, rs)
	mealHandler := NewMealHandler(d.Stores.Meals, rs)
	progressHandler := NewProgressHandler(d.Stores.Progress, d.Stores.Users, rs)
	reminderHandler := NewReminderHandler(d.Stores.Reminders, rs)
	deviceHandler := NewDeviceHandler(d.Wearables, cfg.TerraSigningSecret, rs)

	loginRL := middleware.NewRateLimiter(5, 15*time.Minute)
	forgotPasswordRL := middleware.NewRateLimiter(3, 60*time.Minute)

	r := mux.NewRouter()

	// Global middleware: request log -> metrics -> CORS -> security headers.
	// Body limits are set per route group below.
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(metrics.Middleware)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.SecurityHeaders)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})

	mode := "PRODUCTION"
	if cfg.DemoMode {
		mode = "DEMO"
	}
	r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, envelope{
			"message":   "Fitness Tracker API is running",
			"mode":      mode,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// The vendor cannot send our API key, so the webhook sits outside it.
	r.Handle("/api/devices/webhook", middleware.MaxBodySize(maxWebhookBodyBytes)(http.HandlerFunc(deviceHandler.Webhook))).
		Methods(http.MethodPost, http.MethodOptions)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.MaxBodySize(maxBodyBytes))
	api.Use(middleware.APIKeyMiddleware(cfg.APIKey))

	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/login", loginRL.Middleware(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/forgot-password", forgotPasswordRL.Middleware(http.HandlerFunc(authHandler.ForgotPassword))).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/auth/reset-password", authHandler.ResetPassword).Methods(http.MethodPost, http.MethodOptions)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret, d.Stores.Users, d.Log))

	protected.HandleFunc("/auth/me", authHandler.Me).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/auth/profile", authHandler.UpdateProfile).Methods(http.MethodPut, http.MethodOptions)
	protected.HandleFunc("/auth/password", authHandler.UpdatePassword).Methods(http.MethodPut, http.MethodOptions)

	protected.HandleFunc("/workouts", workoutHandler.List).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/workouts", workoutHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/workouts/stats", workoutHandler.Stats).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/workouts/{id}", workoutHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/workouts/{id}", workoutHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/workouts/{id}", workoutHandler.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/meals", mealHandler.List).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/meals", mealHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/meals/stats", mealHandler.Stats).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/meals/favorites", mealHandler.Favorites).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/meals/daily/{date}", mealHandler.Daily).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/meals/{id}", mealHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/meals/{id}", mealHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/meals/{id}", mealHandler.Delete).Methods(http.MethodDelete)
	protected.HandleFunc("/meals/{id}/foods", mealHandler.AddFood).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/meals/{id}/foods/{index:[0-9]+}", mealHandler.RemoveFood).Methods(http.MethodDelete, http.MethodOptions)

	protected.HandleFunc("/progress", progressHandler.List).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/progress", progressHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/progress/bmi", progressHandler.BMI).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/progress/analytics", progressHandler.Analytics).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/progress/{id}", progressHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/progress/{id}", progressHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/progress/{id}", progressHandler.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/reminders", reminderHandler.List).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/reminders", reminderHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/reminders/today", reminderHandler.Today).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/reminders/{id}/toggle", reminderHandler.Toggle).Methods(http.MethodPatch, http.MethodOptions)
	protected.HandleFunc("/reminders/{id}", reminderHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/reminders/{id}", reminderHandler.Update).Methods(http.MethodPut)
	protected.HandleFunc("/reminders/{id}", reminderHandler.Delete).Methods(http.MethodDelete)

	protected.HandleFunc("/devices/connect", deviceHandler.Connect).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/devices", deviceHandler.List).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/devices/sync", deviceHandler.Sync).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/devices/daily", deviceHandler.Daily).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/devices/sleep", deviceHandler.Sleep).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/devices/disconnect", deviceHandler.Disconnect).Methods(http.MethodDelete, http.MethodOptions)

	return r
}
