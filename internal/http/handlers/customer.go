package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/orderdesk-backend/internal/http/response"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
	"github.com/yungbote/orderdesk-backend/internal/services"
)

type CustomerHandler struct {
	log       *logger.Logger
	customers services.CustomerService
	orders    services.OrderService
}

func NewCustomerHandler(log *logger.Logger, customers services.CustomerService, orders services.OrderService) *CustomerHandler {
	return &CustomerHandler{
		log:       log.With("handler", "CustomerHandler"),
		customers: customers,
		orders:    orders,
	}
}

// GET /api/customers
func (h *CustomerHandler) List(c *gin.Context) {
	out, err := h.customers.List(c.Request.Context())
	if err != nil {
		h.log.Error("List customers failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"customers": out})
}

// GET /api/customers/:taxId
func (h *CustomerHandler) Get(c *gin.Context) {
	v, err := h.customers.Get(c.Request.Context(), c.Param("taxId"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"customer": v})
}

// DELETE /api/customers/:taxId
func (h *CustomerHandler) Delete(c *gin.Context) {
	res, err := h.customers.Delete(c.Request.Context(), c.Param("taxId"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tax_id": res.TaxID, "detached_orders": res.DetachedOrders})
}

// GET /api/customers/:taxId/orders
func (h *CustomerHandler) ListOrders(c *gin.Context) {
	taxID := c.Param("taxId")
	if _, err := h.customers.Get(c.Request.Context(), taxID); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	out, err := h.orders.ListByCustomer(c.Request.Context(), taxID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"orders": out})
}
