package http

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/orderdesk-backend/internal/data/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/data/repos"
	"github.com/yungbote/orderdesk-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/orderdesk-backend/internal/http/handlers"
	"github.com/yungbote/orderdesk-backend/internal/observability"
	"github.com/yungbote/orderdesk-backend/internal/services"
)

type apiHarness struct {
	db     *gorm.DB
	engine *gin.Engine
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.New(time.Second)

	customers := repos.NewCustomerRepo(db, log)
	identities := repos.NewLegalIdentityRepo(db, log)
	items := repos.NewCatalogItemRepo(db, log)
	orderRepo := repos.NewOrderRepo(db, log)
	outbox := repos.NewOutboxRepo(db, log)
	base := aggregates.BaseDeps{DB: db, Log: log, Runner: aggregates.NewGormTxRunner(db), Hooks: aggregates.NewObservabilityHooks(metrics)}
	identityAgg := aggregates.NewIdentityAggregate(aggregates.IdentityAggregateDeps{Base: base, Identities: identities, Customers: customers, Orders: orderRepo, Outbox: outbox})
	orderAgg := aggregates.NewOrderAggregate(aggregates.OrderAggregateDeps{Base: base, Customers: customers, Items: items, Orders: orderRepo, Outbox: outbox})

	catalogSvc := services.NewCatalogService(db, log, nil, items)
	customerSvc := services.NewCustomerService(db, log, customers, identities, identityAgg)
	identitySvc := services.NewIdentityService(log, identityAgg)
	orderSvc := services.NewOrderService(db, log, orderRepo, orderAgg, metrics)

	engine := NewRouter(RouterConfig{
		Log:             log,
		Metrics:         metrics,
		IdentityHandler: httpH.NewIdentityHandler(log, identitySvc),
		CustomerHandler: httpH.NewCustomerHandler(log, customerSvc, orderSvc),
		ItemHandler:     httpH.NewItemHandler(log, catalogSvc),
		OrderHandler:    httpH.NewOrderHandler(log, orderSvc),
		HealthHandler:   httpH.NewHealthHandler(db),
	})
	return &apiHarness{db: db, engine: engine}
}

func (h *apiHarness) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" && bytes.HasPrefix(rec.Body.Bytes(), []byte("{")) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func errCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestOrderFlowOverHTTP(t *testing.T) {
	h := newAPIHarness(t)

	rec, body := h.do(t, nethttp.MethodPost, "/api/identities", map[string]any{
		"tax_id": "12345678Z", "legal_address": "Calle Mayor 1", "phone": "600123123", "customer_name": "Ana",
	})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())

	rec, body = h.do(t, nethttp.MethodPost, "/api/items", map[string]any{"name": "Desk lamp", "price": "10.00", "stock": 5})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	lampID := body["item"].(map[string]any)["id"].(float64)

	rec, body = h.do(t, nethttp.MethodPost, "/api/items", map[string]any{"name": "Bulb", "price": 2.5, "stock": 10})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	bulbID := body["item"].(map[string]any)["id"].(float64)

	rec, body = h.do(t, nethttp.MethodPost, "/api/orders", map[string]any{
		"customer_tax_id":  "12345678Z",
		"shipping_address": "Gran Via 2",
		"lines": []map[string]any{
			{"item_id": lampID, "quantity": 3},
			{"item_id": bulbID, "quantity": 4},
		},
	})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	order := body["order"].(map[string]any)
	assert.Equal(t, "40.00", order["total"])
	assert.Equal(t, "PENDING", order["status"])
	orderID := order["id"].(float64)

	rec, body = h.do(t, nethttp.MethodPost, "/api/orders", map[string]any{
		"customer_tax_id": "12345678Z",
		"lines":           []map[string]any{{"item_id": lampID, "quantity": 3}},
	})
	assert.Equal(t, nethttp.StatusConflict, rec.Code)
	assert.Equal(t, "insufficient_stock", errCode(body))

	rec, body = h.do(t, nethttp.MethodPatch, "/api/orders/"+itoa(orderID)+"/status", map[string]any{"status": "delivered"})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "DELIVERED", body["order"].(map[string]any)["status"])

	rec, body = h.do(t, nethttp.MethodPatch, "/api/orders/"+itoa(orderID)+"/status", map[string]any{"status": "LOST"})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", errCode(body))

	rec, body = h.do(t, nethttp.MethodGet, "/api/customers/12345678Z/orders", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Len(t, body["orders"], 1)

	rec, _ = h.do(t, nethttp.MethodDelete, "/api/customers/12345678Z", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	rec, body = h.do(t, nethttp.MethodGet, "/api/orders/"+itoa(orderID), nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "customer removed", body["order"].(map[string]any)["customer_name"])
	assert.Len(t, body["order"].(map[string]any)["lines"], 2)
}

func TestHTTPErrorMapping(t *testing.T) {
	h := newAPIHarness(t)

	rec, body := h.do(t, nethttp.MethodPost, "/api/identities", map[string]any{"tax_id": "123", "phone": "600123123"})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", errCode(body))

	rec, body = h.do(t, nethttp.MethodGet, "/api/customers/00000000A", nil)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errCode(body))

	rec, _ = h.do(t, nethttp.MethodGet, "/api/items/abc", nil)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec, body = h.do(t, nethttp.MethodPost, "/api/items", map[string]any{"name": "No price"})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", errCode(body))

	rec, _ = h.do(t, nethttp.MethodPost, "/api/items", map[string]any{"name": "Lamp", "price": "1.00"})
	require.Equal(t, nethttp.StatusCreated, rec.Code)
	rec, body = h.do(t, nethttp.MethodPost, "/api/items", map[string]any{"name": "LAMP", "price": "1.00"})
	assert.Equal(t, nethttp.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", errCode(body))

	rec, body = h.do(t, nethttp.MethodPost, "/api/orders", map[string]any{"customer_tax_id": "00000000A", "lines": []map[string]any{{"item_id": 1, "quantity": 1}}})
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errCode(body))

	rec, body = h.do(t, nethttp.MethodGet, "/api/order-statuses", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, []any{"PENDING", "SHIPPED", "DELIVERED", "CANCELLED"}, body["statuses"])

	rec, _ = h.do(t, nethttp.MethodGet, "/healthcheck", nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)

	rec, _ = h.do(t, nethttp.MethodGet, "/metrics", nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "od_api_requests_total")
}

func itoa(f float64) string {
	b, _ := json.Marshal(int64(f))
	return string(b)
}
