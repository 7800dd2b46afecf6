// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shoerack/internal/http/handlers"
	"shoerack/internal/http/middleware"
	"shoerack/internal/modules/notification"
	"shoerack/internal/modules/order"
	"shoerack/internal/realtime"
)

func NewRouter(
	orderService *order.Service,
	notificationService *notification.Service,
	ws *realtime.WSAdapter,
) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery(), middleware.Identity())

	orderHandler := handlers.NewOrderHandler(orderService)
	r.POST("/api/orders", orderHandler.Create)
	r.GET("/api/orders", orderHandler.List)
	r.GET("/api/orders/status-colors", orderHandler.StatusColors)
	r.GET("/api/orders/:id", orderHandler.Get)
	r.PATCH("/api/orders/:id/status", orderHandler.Transition)
	r.POST("/api/orders/:id/received", orderHandler.Received)

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	r.GET("/api/notifications", notificationHandler.List)
	r.GET("/api/notifications/unread-count", notificationHandler.UnreadCount)
	r.POST("/api/notifications/:id/read", notificationHandler.MarkRead)
	r.DELETE("/api/notifications/:id", notificationHandler.Delete)

	r.GET("/ws", func(c *gin.Context) {
		ws.Handle(c.Writer, c.Request)
	})

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
