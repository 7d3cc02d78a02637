package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/sales-tax/internal/logging"
	"github.com/zombor/sales-tax/internal/mcpserver"
	"github.com/zombor/sales-tax/internal/receipt"
	"github.com/zombor/sales-tax/internal/version"
)

func main() {
	fs := ff.NewFlagSet("salestax-mcp")
	var (
		port        = fs.IntLong("port", 0, "TCP port for streamable HTTP (0 for stdio)")
		logLevel    = fs.StringLong("log-level", "", "Log level: debug, info, warn or error (default $LOG_LEVEL or info)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("SALESTAX_MCP"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version.Version)
		os.Exit(0)
	}

	// stdout carries the protocol, so logs always go to stderr
	logConfig := logging.DefaultConfig()
	if *logLevel != "" {
		logConfig.Level = logging.ParseLevel(*logLevel)
	}
	logging.Setup(logConfig)

	sources, err := receipt.NewLocalStorage("")
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	mcpServer := mcpserver.New(receipt.NewService(sources), version.Version)

	if *port == 0 {
		slog.Info("Serving MCP over stdio")
		if err := server.ServeStdio(mcpServer); err != nil {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	addr := fmt.Sprintf(":%d", *port)
	slog.Info("Serving MCP over HTTP", "address", addr)
	httpServer := server.NewStreamableHTTPServer(mcpServer)
	if err := httpServer.Start(addr); err != nil {
		slog.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}
