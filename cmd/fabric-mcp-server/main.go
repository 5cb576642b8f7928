package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fabric-tools/fabric-mcp-server/configs"
	"github.com/fabric-tools/fabric-mcp-server/internal/admission"
	"github.com/fabric-tools/fabric-mcp-server/internal/app"
	"github.com/fabric-tools/fabric-mcp-server/internal/audit"
	"github.com/fabric-tools/fabric-mcp-server/internal/config"
	"github.com/fabric-tools/fabric-mcp-server/internal/constants"
	"github.com/fabric-tools/fabric-mcp-server/internal/execx"
	"github.com/fabric-tools/fabric-mcp-server/internal/fabric"
	"github.com/fabric-tools/fabric-mcp-server/internal/log"
	"github.com/fabric-tools/fabric-mcp-server/internal/patterns"
	"github.com/fabric-tools/fabric-mcp-server/internal/runtime"
	"github.com/fabric-tools/fabric-mcp-server/internal/settings"
	"github.com/fabric-tools/fabric-mcp-server/internal/startup"
)

func main() {
	settingsPath := flag.String("config", "", "Path to the YAML settings file (defaults to embedded settings)")
	flag.Parse()

	envCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(envCfg.LogLevel)

	path := *settingsPath
	if path == "" {
		path = envCfg.SettingsPath
	}
	var raw []byte
	if path == "" {
		raw, err = configs.Load(configs.DefaultName)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		logger.Error("load settings failed", "error", err)
		os.Exit(1)
	}

	cfg, err := settings.Load(raw)
	if err != nil {
		logger.Error("parse settings failed", "error", err)
		os.Exit(1)
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	go func() {
		sig := <-sigCh
		logger.Warn("shutdown requested", "signal", sig.String())
		cancel()
	}()

	runner := execx.Exec{Logger: logger}
	ready := startup.Probe(baseCtx, cfg.Fabric.Binary, runner, logger)
	client := fabric.New(cfg.Fabric, runner, logger)

	builder := runtime.Builder{
		Logger: logger,
		Audit:  audit.New(logger),
		Fabric: client,
		Resolver: &patterns.Resolver{
			Dirs:     cfg.Fabric.PatternsDirs,
			Fallback: client.ListPatterns,
			Logger:   logger,
		},
		Gate:  admission.NewGate(cfg.Admission),
		Ready: ready,
	}
	server := builder.Build(cfg)

	switch cfg.Server.Transport {
	case constants.TransportStdio:
		if err := server.Run(baseCtx, &mcp.StdioTransport{}); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	default:
		if err := runHTTP(baseCtx, envCfg, cfg, server, logger); err != nil {
			logger.Error("runtime error", "error", err)
			os.Exit(1)
		}
	}
}

func runHTTP(ctx context.Context, envCfg config.Config, cfg *settings.Config, server *mcp.Server, logger *slog.Logger) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{
		Stateless: cfg.Server.HTTP.Stateless,
	})

	application, err := app.New(ctx, cfg.Server, handler, logger, envCfg.ShutdownTimeout)
	if err != nil {
		return err
	}

	return application.Run(ctx)
}
