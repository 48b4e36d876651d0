package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/orderdesk-backend/internal/http/response"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
	"github.com/yungbote/orderdesk-backend/internal/services"
)

type OrderHandler struct {
	log    *logger.Logger
	orders services.OrderService
}

func NewOrderHandler(log *logger.Logger, orders services.OrderService) *OrderHandler {
	return &OrderHandler{
		log:    log.With("handler", "OrderHandler"),
		orders: orders,
	}
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

// POST /api/orders
func (h *OrderHandler) Place(c *gin.Context) {
	var req services.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.orders.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("PlaceOrder failed", "error", err, "customer_tax_id", req.CustomerTaxID, "lines", len(req.Lines))
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"order": out})
}

// GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	out, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		h.log.Error("List orders failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"orders": out})
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	out, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": out})
}

// PATCH /api/orders/:id/status
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req changeStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.orders.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"order": out})
}

// GET /api/order-statuses
func (h *OrderHandler) Statuses(c *gin.Context) {
	response.RespondOK(c, gin.H{"statuses": h.orders.Statuses()})
}
