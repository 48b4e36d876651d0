package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/orderdesk-backend/internal/app"
	"github.com/yungbote/orderdesk-backend/internal/mcp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	srv := mcp.NewServer(a.Log, mcp.Deps{
		Identity: a.Services.Identity,
		Catalog:  a.Services.Catalog,
		Orders:   a.Services.Order,
	})
	a.Log.Info("MCP server ready on stdio", "name", mcp.ServerName, "version", mcp.ServerVersion)
	if err := a.RunWith(ctx, srv.Serve); err != nil && ctx.Err() == nil {
		a.Log.Error("MCP server failed", "error", err)
		a.Close()
		os.Exit(1)
	}
}
