package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"case_notification_service/internal/app"
	"case_notification_service/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

type Handlers struct {
	gate     *app.PermissionGate
	settings notification.SettingsStore
	logger   *logrus.Logger
}

func NewHandlers(gate *app.PermissionGate, settings notification.SettingsStore, logger *logrus.Logger) *Handlers {
	return &Handlers{gate: gate, settings: settings, logger: logger}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Sync is the endpoint the background worker calls when connectivity comes
// back. The body is informational only; the worker just logs it.
func (h *Handlers) Sync(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"synced_at": time.Now().Format(time.RFC3339),
	})
}

func (h *Handlers) GetPermission(w http.ResponseWriter, r *http.Request) {
	subscriberID, err := strconv.ParseInt(r.URL.Query().Get("subscriber_id"), 10, 64)
	if err != nil || subscriberID <= 0 {
		http.Error(w, "invalid subscriber_id", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subscriber_id": subscriberID,
		"state":         h.gate.Status(subscriberID),
		"supported":     h.gate.IsSupported(r.Context(), subscriberID),
	})
}

type permissionReport struct {
	SubscriberID int64                        `json:"subscriber_id"`
	State        notification.PermissionState `json:"state"`
}

// ReportPermission records the permission state a client observed on its
// platform. This is also how pending permission prompts get resolved.
func (h *Handlers) ReportPermission(w http.ResponseWriter, r *http.Request) {
	var report permissionReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if report.SubscriberID <= 0 {
		http.Error(w, "invalid subscriber_id", http.StatusBadRequest)
		return
	}
	switch report.State {
	case notification.PermissionDefault, notification.PermissionGranted, notification.PermissionDenied:
	default:
		http.Error(w, "invalid permission state", http.StatusBadRequest)
		return
	}

	h.gate.SetStatus(report.SubscriberID, report.State)
	h.logger.WithFields(logrus.Fields{
		"subscriber_id": report.SubscriberID,
		"state":         report.State,
	}).Info("Permission state reported")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := h.settings.Load(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load notification settings")
		// Defaults are still returned so the settings UI stays usable.
	}
	writeJSON(w, http.StatusOK, current)
}

func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	updated := notification.DefaultSettings()
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if updated.ReminderIntervalMinutes <= 0 {
		http.Error(w, "reminder_interval_minutes must be positive", http.StatusBadRequest)
		return
	}

	if err := h.settings.Save(r.Context(), updated); err != nil {
		h.logger.WithError(err).Error("Failed to save notification settings")
		http.Error(w, "could not persist settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
