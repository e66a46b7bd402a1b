package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/yusufkecer/fittrack-backend/internal/domain"
	"github.com/yusufkecer/fittrack-backend/internal/metrics"
	"github.com/yusufkecer/fittrack-backend/internal/middleware"
	"github.com/yusufkecer/fittrack-backend/internal/service"
)

const signatureHeader = "terra-signature"

type DeviceHandler struct {
	responder
	wearables     *service.WearableService
	signingSecret string
}

func NewDeviceHandler(wearables *service.WearableService, signingSecret string, rs responder) *DeviceHandler {
	return &DeviceHandler{responder: rs, wearables: wearables, signingSecret: signingSecret}
}

func (h *DeviceHandler) Connect(w http.ResponseWriter, r *http.Request) {
	session, err := h.wearables.Connect(r.Context(), middleware.UserFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"widgetUrl": session.WidgetURL,
		"sessionId": session.SessionID,
		"message":   "Open the widget URL to connect your device",
	})
}

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	connected, info, err := h.wearables.Devices(r.Context(), middleware.UserFromContext(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !connected {
		writeJSON(w, http.StatusOK, envelope{
			"connected": false,
			"devices":   []any{},
			"message":   "No devices connected. Use /connect to link a device.",
		})
		return
	}

	var devices any = []any{}
	if len(info) > 0 {
		devices = info
	}
	writeJSON(w, http.StatusOK, envelope{"connected": true, "devices": devices})
}

func (h *DeviceHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req domain.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, r, domain.ValidationError("Invalid request body"))
		return
	}
	if err := validateStruct(&req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.wearables.Sync(r.Context(), middleware.UserFromContext(r.Context()), req.StartDate, req.EndDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"synced":   result.Synced,
		"total":    result.Total,
		"workouts": result.Workouts,
		"message":  fmt.Sprintf("Synced %d new workouts from your device", result.Synced),
	})
}

func (h *DeviceHandler) Daily(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := parseDate("date", date); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	day, summary, err := h.wearables.Daily(r.Context(), middleware.UserFromContext(r.Context()), date)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"date": day, "data": summary})
}

func (h *DeviceHandler) Sleep(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sleep, err := h.wearables.Sleep(r.Context(), middleware.UserFromContext(r.Context()), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"sleepData": sleep})
}

func (h *DeviceHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.wearables.Disconnect(r.Context(), middleware.UserFromContext(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "Device disconnected successfully"})
}

// Webhook receives vendor pushes. It acknowledges every delivery with 200 so
// the vendor does not retry; failures are logged and counted instead.
func (h *DeviceHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	log := h.entry(r)
	defer writeJSON(w, http.StatusOK, nil)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.WithError(err).Warn("webhook: failed to read body")
		metrics.RecordWebhook("unknown", "unreadable")
		return
	}

	if h.signingSecret != "" && !service.VerifyTerraSignature(h.signingSecret, r.Header.Get(signatureHeader), body) {
		log.Warn("webhook: invalid signature")
		metrics.RecordWebhook("unknown", "rejected")
		return
	}

	var event domain.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.WithError(err).Warn("webhook: malformed payload")
		metrics.RecordWebhook("unknown", "malformed")
		return
	}

	eventType := webhookLabel(event.Type)
	log = log.WithField("event", event.Type)
	if err := h.wearables.HandleWebhook(r.Context(), event); err != nil {
		log.WithError(err).Error("webhook: processing failed")
		metrics.RecordWebhook(eventType, "failed")
		return
	}
	log.Info("webhook: processed")
	metrics.RecordWebhook(eventType, "processed")
}

func webhookLabel(eventType string) string {
	switch eventType {
	case domain.WebhookAuth, domain.WebhookActivity, domain.WebhookDeauth:
		return eventType
	}
	return "other"
}
