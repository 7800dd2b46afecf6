// README: Order handlers for create/list/get/transition and status colors.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shoerack/internal/http/middleware"
	"shoerack/internal/modules/order"
	"shoerack/internal/types"
)

type OrderHandler struct {
	order *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{order: svc}
}

type lineItemReq struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Qty       int64  `json:"qty"`
	Price     int64  `json:"price"`
}

type createOrderReq struct {
	UserID         string        `json:"userId"`
	UserName       string        `json:"userName"`
	Items          []lineItemReq `json:"items"`
	ShippingMethod string        `json:"shippingMethod"`
	PaymentMethod  string        `json:"paymentMethod"`
	ShippingFee    int64         `json:"shippingFee"`
	Address        string        `json:"address"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == "" {
		req.UserID = c.GetString(middleware.UserIDKey)
	}
	items := make([]order.LineItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.LineItem{
			ProductID: types.ID(it.ProductID),
			Name:      it.Name,
			Size:      it.Size,
			Color:     it.Color,
			Qty:       it.Qty,
			UnitPrice: types.VND(it.Price),
		}
	}
	o, err := h.order.Create(c.Request.Context(), order.CreateCommand{
		OwnerID:        types.ID(req.UserID),
		OwnerName:      req.UserName,
		Items:          items,
		ShippingMethod: req.ShippingMethod,
		PaymentMethod:  req.PaymentMethod,
		Address:        req.Address,
		ShippingFee:    types.VND(req.ShippingFee),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, o)
}

// List returns one user's orders, or all orders when user_id is omitted
// (the admin dashboard read).
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.order.List(c.Request.Context(), types.ID(c.Query("user_id")))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.order.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

type transitionReq struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}

func (h *OrderHandler) Transition(c *gin.Context) {
	var req transitionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Actor == "" {
		req.Actor = c.GetString(middleware.UserIDKey)
	}
	o, err := h.order.Transition(c.Request.Context(), order.TransitionCommand{
		OrderID: types.ID(c.Param("id")),
		To:      order.Status(req.Status),
		Actor:   types.ID(req.Actor),
		Reason:  req.Reason,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

// Received is the customer confirmation step (Delivered → Received). It is
// not part of the admin status flow, so it gets its own endpoint.
func (h *OrderHandler) Received(c *gin.Context) {
	actor := c.GetString(middleware.UserIDKey)
	if actor == "" {
		actor = c.Query("user_id")
	}
	o, err := h.order.Transition(c.Request.Context(), order.TransitionCommand{
		OrderID: types.ID(c.Param("id")),
		To:      order.StatusReceived,
		Actor:   types.ID(actor),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *OrderHandler) StatusColors(c *gin.Context) {
	writeJSON(c, http.StatusOK, order.StatusColors)
}
