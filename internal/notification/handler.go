package notification

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/procurement-portal/internal/auth"
	"github.com/frahmantamala/procurement-portal/internal/transport"
	"github.com/frahmantamala/procurement-portal/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListForUser(userID int64, unreadOnly bool, limit, offset int) ([]*Notification, error)
	CountUnread(userID int64) (int64, error)
	MarkRead(notificationID, userID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("ListNotifications: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 20
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.Service.ListForUser(user.ID, unreadOnly, limit, offset)
	if err != nil {
		h.Logger.Error("ListNotifications: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	unreadCount, err := h.Service.CountUnread(user.ID)
	if err != nil {
		h.Logger.Error("ListNotifications: failed to count unread", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread_count":  unreadCount,
		"limit":         limit,
		"offset":        offset,
	})
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("MarkNotificationRead: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	notificationIDStr := chi.URLParam(r, "id")
	notificationID, err := strconv.ParseInt(notificationIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("MarkNotificationRead: invalid notification ID", "id", notificationIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid notification ID")
		return
	}

	if err := h.Service.MarkRead(notificationID, user.ID); err != nil {
		if err == ErrNotificationNotFound {
			h.WriteError(w, http.StatusNotFound, "notification not found")
			return
		}
		h.Logger.Error("MarkNotificationRead: service error", "error", err, "notification_id", notificationID)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
