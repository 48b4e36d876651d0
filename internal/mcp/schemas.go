package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func registerIdentityTool() mcp.Tool {
	return mcp.Tool{
		Name:        "register_identity",
		Description: "Register a legal identity together with its customer record",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tax_id": map[string]interface{}{
					"type":        "string",
					"description": "Tax identifier: 8 digits followed by a letter",
				},
				"legal_address": map[string]interface{}{
					"type":        "string",
					"description": "Registered legal address",
				},
				"phone": map[string]interface{}{
					"type":        "string",
					"description": "Contact phone: exactly 9 digits",
				},
				"customer_name": map[string]interface{}{
					"type":        "string",
					"description": "Display name of the customer",
				},
			},
			Required: []string{"tax_id", "phone"},
		},
	}
}

func removeIdentityTool() mcp.Tool {
	return mcp.Tool{
		Name:        "remove_identity",
		Description: "Remove a legal identity and its customer; existing orders are kept without a customer",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tax_id": map[string]interface{}{
					"type":        "string",
					"description": "Tax identifier of the identity to remove",
				},
			},
			Required: []string{"tax_id"},
		},
	}
}

func listItemsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_items",
		Description: "List catalog items, optionally filtered by name fragment",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Case-insensitive name fragment",
				},
				"active_only": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, only items that can be ordered",
					"default":     true,
				},
			},
		},
	}
}

func placeOrderTool() mcp.Tool {
	return mcp.Tool{
		Name:        "place_order",
		Description: "Place an order atomically; stock is checked and reserved for every line or the whole order fails",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"customer_tax_id": map[string]interface{}{
					"type":        "string",
					"description": "Tax identifier of the ordering customer",
				},
				"shipping_address": map[string]interface{}{
					"type":        "string",
					"description": "Delivery address",
				},
				"lines": map[string]interface{}{
					"type":        "array",
					"description": "Order lines, one per catalog item",
					"minItems":    1,
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"item_id": map[string]interface{}{
								"type": "integer",
							},
							"quantity": map[string]interface{}{
								"type":    "integer",
								"minimum": 1,
							},
						},
						"required": []string{"item_id", "quantity"},
					},
				},
			},
			Required: []string{"customer_tax_id", "lines"},
		},
	}
}

func changeOrderStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "change_order_status",
		Description: "Change the status of an existing order",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order_id": map[string]interface{}{
					"type":        "integer",
					"description": "Order identifier",
				},
				"status": map[string]interface{}{
					"type":        "string",
					"description": "Target status",
					"enum":        []string{"PENDING", "SHIPPED", "DELIVERED", "CANCELLED"},
				},
			},
			Required: []string{"order_id", "status"},
		},
	}
}

func listOrdersTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_orders",
		Description: "List orders, or the orders of one customer",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"customer_tax_id": map[string]interface{}{
					"type":        "string",
					"description": "Restrict to this customer",
				},
			},
		},
	}
}
