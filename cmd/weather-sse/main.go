package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcpcmd "github.com/louisbranch/weather-mcp/internal/cmd/mcp"
	"github.com/louisbranch/weather-mcp/internal/platform/config"
)

// main serves the weather MCP tools over HTTP with Server-Sent Events.
func main() {
	cfg, err := mcpcmd.ParseSSEConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[MCP] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.ExitOnError("Fatal error in main()", mcpcmd.Run(ctx, cfg))
}
