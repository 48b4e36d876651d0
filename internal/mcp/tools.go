package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	domainagg "github.com/yungbote/orderdesk-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdesk-backend/internal/services"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602
	ErrorCodeInternalError = -32603
	ErrorCodeNotFound      = -32001
	ErrorCodeConflict      = -32002
)

func (s *Server) handleRegisterIdentity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := argsOf(request)
	if err != nil {
		return nil, err
	}
	taxID, err := requireString(args, "tax_id")
	if err != nil {
		return nil, err
	}
	v, err := s.identity.Register(ctx, services.RegisterIdentityRequest{
		TaxID:        taxID,
		LegalAddress: getStringDefault(args, "legal_address", ""),
		Phone:        getStringDefault(args, "phone", ""),
		CustomerName: getStringDefault(args, "customer_name", ""),
	})
	if err != nil {
		return nil, s.toolError("register_identity", err)
	}
	return jsonResult(map[string]interface{}{"customer": v})
}

func (s *Server) handleRemoveIdentity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := argsOf(request)
	if err != nil {
		return nil, err
	}
	taxID, err := requireString(args, "tax_id")
	if err != nil {
		return nil, err
	}
	res, err := s.identity.Remove(ctx, taxID)
	if err != nil {
		return nil, s.toolError("remove_identity", err)
	}
	return jsonResult(map[string]interface{}{
		"tax_id":          res.TaxID,
		"detached_orders": res.DetachedOrders,
	})
}

func (s *Server) handleListItems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := argsOf(request)
	if err != nil {
		return nil, err
	}
	query := strings.TrimSpace(getStringDefault(args, "query", ""))
	activeOnly := getBoolDefault(args, "active_only", true)

	var views []services.ItemView
	switch {
	case query != "":
		items, err := s.catalog.SearchByName(ctx, query, activeOnly)
		if err != nil {
			return nil, s.toolError("list_items", err)
		}
		views = services.ItemViewsOf(items)
	case activeOnly:
		items, err := s.catalog.ListActive(ctx)
		if err != nil {
			return nil, s.toolError("list_items", err)
		}
		views = services.ItemViewsOf(items)
	default:
		items, err := s.catalog.ListAll(ctx)
		if err != nil {
			return nil, s.toolError("list_items", err)
		}
		views = services.ItemViewsOf(items)
	}
	return jsonResult(map[string]interface{}{"items": views, "count": len(views)})
}

func (s *Server) handlePlaceOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := argsOf(request)
	if err != nil {
		return nil, err
	}
	taxID, err := requireString(args, "customer_tax_id")
	if err != nil {
		return nil, err
	}
	lines, err := parseLines(args["lines"])
	if err != nil {
		return nil, err
	}
	out, err := s.orders.PlaceOrder(ctx, services.PlaceOrderRequest{
		CustomerTaxID:   taxID,
		ShippingAddress: getStringDefault(args, "shipping_address", ""),
		Lines:           lines,
	})
	if err != nil {
		return nil, s.toolError("place_order", err)
	}
	return jsonResult(map[string]interface{}{"order": out})
}

func (s *Server) handleChangeOrderStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := argsOf(request)
	if err != nil {
		return nil, err
	}
	orderID, ok := getInt64(args, "order_id")
	if !ok || orderID <= 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "order_id parameter is required", map[string]interface{}{
			"param":  "order_id",
			"reason": "missing or not a positive integer",
		})
	}
	status, err := requireString(args, "status")
	if err != nil {
		return nil, err
	}
	out, err := s.orders.ChangeStatus(ctx, orderID, status)
	if err != nil {
		return nil, s.toolError("change_order_status", err)
	}
	return jsonResult(map[string]interface{}{"order": out})
}

func (s *Server) handleListOrders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := argsOf(request)
	if err != nil {
		return nil, err
	}
	var out []services.OrderSummary
	if taxID := strings.TrimSpace(getStringDefault(args, "customer_tax_id", "")); taxID != "" {
		out, err = s.orders.ListByCustomer(ctx, taxID)
	} else {
		out, err = s.orders.ListAll(ctx)
	}
	if err != nil {
		return nil, s.toolError("list_orders", err)
	}
	return jsonResult(map[string]interface{}{"orders": out, "count": len(out)})
}

// toolError converts a service failure into a protocol error.
func (s *Server) toolError(tool string, err error) error {
	code := domainagg.CodeOf(err)
	mcpCode := mcpCodeFor(code)
	msg := err.Error()
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) && aggErr.Message != "" {
		msg = aggErr.Message
	}
	data := map[string]interface{}{"code": string(code)}
	if short, ok := domainagg.ShortageOf(err); ok {
		data["item_id"] = short.ItemID
		data["requested"] = short.Requested
		data["available"] = short.Available
	}
	if mcpCode == ErrorCodeInternalError {
		s.log.Error("tool failed", "tool", tool, "error", err)
		msg = "internal error"
	} else {
		s.log.Warn("tool rejected", "tool", tool, "code", code, "error", err)
	}
	return newMCPError(mcpCode, msg, data)
}

func mcpCodeFor(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return ErrorCodeInvalidParams
	case domainagg.CodeNotFound:
		return ErrorCodeNotFound
	case domainagg.CodeConflict, domainagg.CodeInsufficientStock:
		return ErrorCodeConflict
	default:
		return ErrorCodeInternalError
	}
}

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func argsOf(request mcp.CallToolRequest) (map[string]interface{}, error) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	return args, nil
}

func requireString(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", newMCPError(ErrorCodeInvalidParams, key+" parameter is required", map[string]interface{}{
			"param":  key,
			"reason": "missing or empty",
		})
	}
	return v, nil
}

func parseLines(raw interface{}) ([]services.OrderLineRequest, error) {
	list, ok := raw.([]interface{})
	if !ok || len(list) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "lines parameter is required", map[string]interface{}{
			"param":  "lines",
			"reason": "missing or empty",
		})
	}
	out := make([]services.OrderLineRequest, 0, len(list))
	for i, entry := range list {
		m, ok := entry.(map[string]interface{})
		if !ok {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid order line", map[string]interface{}{"index": i})
		}
		itemID, okID := getInt64(m, "item_id")
		qty, okQty := getInt64(m, "quantity")
		if !okID || !okQty {
			return nil, newMCPError(ErrorCodeInvalidParams, "order line needs integer item_id and quantity", map[string]interface{}{"index": i})
		}
		out = append(out, services.OrderLineRequest{ItemID: itemID, Quantity: int(qty)})
	}
	return out, nil
}

func jsonResult(data map[string]interface{}) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatJSON(data)), nil
}

func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getInt64 accepts JSON numbers that hold whole values.
func getInt64(args map[string]interface{}, key string) (int64, bool) {
	switch v := args[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	}
	return 0, false
}
