package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/adityashravan/spendsavvy/internal/middleware"
	"github.com/adityashravan/spendsavvy/internal/storage"
)

// NotificationHandler exposes the notification feed. Notifications are
// plain CRUD over the store; no ledger logic is involved.
type NotificationHandler struct {
	store storage.Store
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(store storage.Store) *NotificationHandler {
	return &NotificationHandler{store: store}
}

// Register attaches notification routes to the mux.
func (h *NotificationHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/notifications", h.handleList)
	mux.HandleFunc("POST /api/notifications/read", h.handleMarkRead)
}

type notificationPayload struct {
	ID        string          `json:"id"`
	Message   string          `json:"message"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	IsRead    bool            `json:"isRead"`
	CreatedAt int64           `json:"createdAt"`
}

type listNotificationsResponse struct {
	Success       bool                  `json:"success"`
	Notifications []notificationPayload `json:"notifications"`
}

func (h *NotificationHandler) handleList(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.store.ListNotifications(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := listNotificationsResponse{Success: true, Notifications: []notificationPayload{}}
	for _, n := range notifications {
		p := notificationPayload{
			ID:        n.ID,
			Message:   n.Message,
			Type:      string(n.Type),
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if n.Data != "" {
			p.Data = json.RawMessage(n.Data)
		}
		resp.Notifications = append(resp.Notifications, p)
	}
	writeJSON(w, http.StatusOK, resp)
}

type markReadRequest struct {
	IDs []string `json:"ids"`
}

func (h *NotificationHandler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	if err := h.store.MarkNotificationsRead(r.Context(), middleware.GetUserID(r.Context()), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
