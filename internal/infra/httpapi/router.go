package httpapi

import (
	"net/http"

	"case_notification_service/internal/infra/ws"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the notifier's HTTP surface: websocket subscriptions,
// health, metrics, the sync endpoint targeted by the background worker, and
// the notification permission/settings API.
func NewRouter(h *Handlers, hub *ws.Hub) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/ws", hub.ServeWS)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sync", h.Sync).Methods(http.MethodPost)

	n := api.PathPrefix("/notifications").Subrouter()
	n.HandleFunc("/permission", h.GetPermission).Methods(http.MethodGet)
	n.HandleFunc("/permission", h.ReportPermission).Methods(http.MethodPost)
	n.HandleFunc("/settings", h.GetSettings).Methods(http.MethodGet)
	n.HandleFunc("/settings", h.UpdateSettings).Methods(http.MethodPut)

	return r
}
