package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
	"github.com/yusufkecer/fittrack-backend/internal/middleware"
	"github.com/yusufkecer/fittrack-backend/internal/service"
)

// envelope holds the fields written next to "success".
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	if body == nil {
		body = envelope{}
	}
	body["success"] = status < http.StatusBadRequest
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"message": message})
}

// responder maps errors onto the response envelope. Internal causes are
// logged and only exposed to clients in development.
type responder struct {
	log logrus.FieldLogger
	dev bool
}

func (rs responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *domain.Error
	if !errors.As(err, &appErr) {
		appErr = domain.InternalError("Server Error", err)
	}

	switch appErr.Kind {
	case domain.KindValidation:
		writeError(w, http.StatusBadRequest, appErr.Message)
	case domain.KindAuth:
		writeError(w, http.StatusUnauthorized, appErr.Message)
	case domain.KindNotFound:
		writeError(w, http.StatusNotFound, appErr.Message)
	case domain.KindUpstream:
		rs.entry(r).WithError(appErr.Err).Warn(appErr.Message)
		writeError(w, http.StatusBadRequest, appErr.Message)
	default:
		rs.entry(r).WithError(err).Error("request failed")
		body := envelope{"message": "Server Error"}
		if rs.dev {
			body["error"] = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
	}
}

func (rs responder) entry(r *http.Request) logrus.FieldLogger {
	return rs.log.WithFields(logrus.Fields{
		"request_id": middleware.RequestIDFromContext(r.Context()),
		"user_id":    middleware.UserIDFromContext(r.Context()),
	})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, _, err := service.ParseClock(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return service.IsWeekdayName(strings.ToLower(strings.TrimSpace(fl.Field().String())))
	})
	return v
}

// normalizer is implemented by requests that canonicalise fields, such as
// email addresses, before validation.
type normalizer interface {
	Normalize()
}

// decode reads a JSON body into dst, normalizes it and validates it.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ValidationError("Invalid request body")
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ValidationError("Invalid request body")
	}
	return domain.ValidationError("%s", validationMessage(verrs[0]))
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please provide %s", field)
	case "email":
		return "Please provide a valid email"
	case "min", "gte", "gt":
		return fmt.Sprintf("%s must be at least %s", field, minText(fe))
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "clock":
		return fmt.Sprintf("%s must be in HH:MM format", field)
	case "weekday":
		return fmt.Sprintf("%s must be a day of the week", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func minText(fe validator.FieldError) string {
	if fe.Tag() == "gt" {
		return "more than " + fe.Param()
	}
	if fe.Kind() == reflect.String {
		return fe.Param() + " characters"
	}
	return fe.Param()
}

func parsePage(r *http.Request) domain.Page {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return domain.Page{Page: page, Limit: limit}.Normalize(domain.DefaultPageLimit)
}

func listEnvelope[T any](items []T, total int, page domain.Page) envelope {
	return envelope{
		"count":       len(items),
		"total":       total,
		"totalPages":  page.TotalPages(total),
		"currentPage": page.Page,
		"data":        items,
	}
}

// parseDate accepts YYYY-MM-DD or RFC 3339 input.
func parseDate(name, s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, domain.ValidationError("invalid %s %q, expected YYYY-MM-DD", name, s)
}

func optionalDate(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	t, err := parseDate(name, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dayBounds returns the first and last instant of t's UTC calendar day.
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.Add(24*time.Hour - time.Millisecond)
}
