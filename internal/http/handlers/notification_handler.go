// README: Notification handlers for list, read-state, deletion, and unread badge.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shoerack/internal/modules/notification"
	"shoerack/internal/types"
)

type NotificationHandler struct {
	notifications *notification.Service
}

func NewNotificationHandler(svc *notification.Service) *NotificationHandler {
	return &NotificationHandler{notifications: svc}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		writeError(c, http.StatusBadRequest, "missing user_id")
		return
	}
	items, err := h.notifications.List(c.Request.Context(), types.ID(userID))
	if err != nil {
		writeNotificationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, items)
}

// MarkRead commits the read state when the client dismisses the detail view.
// Opening the detail alone does not consume the unread badge.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notifications.MarkRead(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeNotificationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ok": true})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.notifications.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeNotificationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ok": true})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		writeError(c, http.StatusBadRequest, "missing user_id")
		return
	}
	count, err := h.notifications.UnreadCount(c.Request.Context(), types.ID(userID))
	if err != nil {
		writeNotificationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"count": count})
}
