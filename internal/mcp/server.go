package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/yungbote/orderdesk-backend/internal/pkg/logger"
	"github.com/yungbote/orderdesk-backend/internal/services"
)

const (
	// ServerName is the MCP server name
	ServerName = "orderdesk-backoffice"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

type Deps struct {
	Identity services.IdentityService
	Catalog  services.CatalogService
	Orders   services.OrderService
}

// Server wraps the MCP server with the back-office services.
type Server struct {
	mcp      *server.MCPServer
	log      *logger.Logger
	identity services.IdentityService
	catalog  services.CatalogService
	orders   services.OrderService
}

func NewServer(baseLog *logger.Logger, deps Deps) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		log:      baseLog.With("component", "MCPServer"),
		identity: deps.Identity,
		catalog:  deps.Catalog,
		orders:   deps.Orders,
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcp }

// Serve runs the server on stdio and blocks until stdin closes.
func (s *Server) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcp)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(registerIdentityTool(), s.handleRegisterIdentity)
	s.mcp.AddTool(removeIdentityTool(), s.handleRemoveIdentity)
	s.mcp.AddTool(listItemsTool(), s.handleListItems)
	s.mcp.AddTool(placeOrderTool(), s.handlePlaceOrder)
	s.mcp.AddTool(changeOrderStatusTool(), s.handleChangeOrderStatus)
	s.mcp.AddTool(listOrdersTool(), s.handleListOrders)
}
