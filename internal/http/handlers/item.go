package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	types "github.com/yungbote/orderdesk-backend/internal/domain"
	"github.com/yungbote/orderdesk-backend/internal/http/response"
	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
	"github.com/yungbote/orderdesk-backend/internal/services"
)

type ItemHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewItemHandler(log *logger.Logger, catalog services.CatalogService) *ItemHandler {
	return &ItemHandler{
		log:     log.With("handler", "ItemHandler"),
		catalog: catalog,
	}
}

type itemRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       int              `json:"stock"`
	Active      *bool            `json:"active"`
}

func (r itemRequest) toInput(id *int64) (services.CatalogItemInput, error) {
	if r.Price == nil {
		return services.CatalogItemInput{}, errors.New("price is required")
	}
	return services.CatalogItemInput{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Stock:       r.Stock,
		Active:      r.Active,
	}, nil
}

// GET /api/items?active=true&q=lamp
func (h *ItemHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))
	q := strings.TrimSpace(c.Query("q"))

	var (
		items []*types.CatalogItem
		err   error
	)
	switch {
	case q != "":
		items, err = h.catalog.SearchByName(ctx, q, activeOnly)
	case activeOnly:
		items, err = h.catalog.ListActive(ctx)
	default:
		items, err = h.catalog.ListAll(ctx)
	}
	if err != nil {
		h.log.Error("List items failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"items": services.ItemViewsOf(items)})
}

// GET /api/items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	it, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"item": services.ItemViewOf(it)})
}

// POST /api/items
func (h *ItemHandler) Create(c *gin.Context) {
	var req itemRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.toInput(nil)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	it, err := h.catalog.Save(c.Request.Context(), in)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"item": services.ItemViewOf(it)})
}

// PUT /api/items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var req itemRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.toInput(&id)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation", err)
		return
	}
	it, err := h.catalog.Save(c.Request.Context(), in)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"item": services.ItemViewOf(it)})
}

// POST /api/items/:id/deactivate
func (h *ItemHandler) Deactivate(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	it, err := h.catalog.Deactivate(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"item": services.ItemViewOf(it)})
}
