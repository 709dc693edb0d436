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

// main serves the weather MCP tools to one client over stdin/stdout.
func main() {
	cfg, err := mcpcmd.ParseStdioConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[MCP] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Weather MCP Server running on stdio")
	config.ExitOnError("Fatal error in main()", mcpcmd.Run(ctx, cfg))
}
