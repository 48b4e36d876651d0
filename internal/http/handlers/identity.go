package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/orderdesk-backend/internal/http/response"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
	"github.com/yungbote/orderdesk-backend/internal/services"
)

type IdentityHandler struct {
	log      *logger.Logger
	identity services.IdentityService
}

func NewIdentityHandler(log *logger.Logger, identity services.IdentityService) *IdentityHandler {
	return &IdentityHandler{
		log:      log.With("handler", "IdentityHandler"),
		identity: identity,
	}
}

// POST /api/identities
func (h *IdentityHandler) Register(c *gin.Context) {
	var req services.RegisterIdentityRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.identity.Register(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("Register failed", "error", err, "tax_id", req.TaxID)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"customer": v})
}

// DELETE /api/identities/:taxId
func (h *IdentityHandler) Remove(c *gin.Context) {
	res, err := h.identity.Remove(c.Request.Context(), c.Param("taxId"))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tax_id": res.TaxID, "detached_orders": res.DetachedOrders})
}
