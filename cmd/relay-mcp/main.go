package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/devricklin/tg-relay-bridge/internal/conf"
	relaymcp "github.com/devricklin/tg-relay-bridge/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

const defaultBridgeURL = "http://" + conf.DefaultAdminListenAddr

// relay-mcp exposes the bridge admin API as MCP tools over stdio.
// Stdout carries the protocol, so logs go to stderr.
func main() {
	_ = godotenv.Load()
	conf.SetupLogging(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	bridgeURL := os.Getenv("BRIDGE_API_URL")
	if bridgeURL == "" {
		bridgeURL = defaultBridgeURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := relaymcp.NewServer(relaymcp.NewClient(bridgeURL), Version)
	logrus.WithField("bridge", bridgeURL).Info("relay-mcp serving on stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logrus.WithError(err).Fatal("MCP server stopped")
	}
}
