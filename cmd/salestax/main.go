package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/sales-tax/internal/logging"
	"github.com/zombor/sales-tax/internal/receipt"
	"github.com/zombor/sales-tax/internal/version"
)

// errUsage signals that help has already been printed
var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			slog.Error("salestax failed", "error", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	// Check for version flag before parsing other flags
	for _, arg := range args {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Fprintln(stdout, version.Version)
			return nil
		}
	}

	fs := ff.NewFlagSet("salestax")
	var (
		port      = fs.IntLong("port", 0, "Serve the HTTP API on this port instead of processing sources")
		outputDir = fs.StringLong("output-dir", "", "Write each source's receipts to <dir>/<name>.receipt.txt instead of stdout")
		authUser  = fs.StringLong("auth-user", "", "Basic auth username for the HTTP API (optional)")
		authPass  = fs.StringLong("auth-pass", "", "Basic auth password for the HTTP API (optional)")
		logLevel  = fs.StringLong("log-level", "", "Log level: debug, info, warn or error (default $LOG_LEVEL or info)")
		logJSON   = fs.BoolLong("log-json", "Write logs as JSON")
	)
	fs.StringLong("config", "", "Config file with one 'flag value' pair per line (optional)")
	fs.BoolLong("version", "Show version information")

	if err := ff.Parse(fs, args,
		ff.WithEnvVarPrefix("SALESTAX"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return errUsage
	}

	logConfig := logging.DefaultConfig()
	if *logLevel != "" {
		logConfig.Level = logging.ParseLevel(*logLevel)
	}
	logConfig.JSON = *logJSON
	logConfig.Output = stderr
	logging.Setup(logConfig)

	sources, err := receipt.NewLocalStorage("")
	if err != nil {
		return fmt.Errorf("initializing source storage: %w", err)
	}
	service := receipt.NewService(sources)
	if *outputDir != "" {
		output, err := receipt.NewLocalStorage(*outputDir)
		if err != nil {
			return fmt.Errorf("initializing output storage: %w", err)
		}
		service = receipt.NewServiceWithOutput(sources, output)
	}

	if *port != 0 {
		serve(service, *port, receipt.BasicAuth{Username: *authUser, Password: *authPass})
		return nil
	}

	names := fs.GetArgs()
	if len(names) == 0 {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(stderr, "error: at least one source file is required\n")
		return errUsage
	}

	if *outputDir == "" {
		out, err := service.ProcessSources(names)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, out)
		return err
	}

	for _, name := range names {
		out, err := service.ProcessSource(name)
		if err != nil {
			return err
		}
		if _, err := service.SaveReceipts(name, out); err != nil {
			return err
		}
	}
	return nil
}

// serve runs the HTTP API until the process is interrupted
func serve(service *receipt.Service, port int, basicAuth receipt.BasicAuth) {
	server := receipt.NewServer(service, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if basicAuth.Username != "" || basicAuth.Password != "" {
		slog.Info("Basic auth enabled", "user", basicAuth.Username)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
