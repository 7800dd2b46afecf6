// README: Handler utilities (JSON helpers, error → status mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shoerack/internal/modules/notification"
	"shoerack/internal/modules/order"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Allowed []string `json:"allowed,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeOrderError(c *gin.Context, err error) {
	var invalid *order.InvalidTransitionError
	switch {
	case errors.Is(err, order.ErrBadRequest), errors.Is(err, order.ErrMissingReason):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.As(err, &invalid):
		allowed := make([]string, len(invalid.Allowed))
		for i, s := range invalid.Allowed {
			allowed[i] = string(s)
		}
		writeJSON(c, http.StatusConflict, errorResponse{Error: err.Error(), Allowed: allowed})
	case errors.Is(err, order.ErrTerminal), errors.Is(err, order.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, notification.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
