package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/caregate/caregate/internal/adapter/inbound/mcpserver"
	"github.com/caregate/caregate/internal/adapter/outbound/audit"
	"github.com/caregate/caregate/internal/adapter/outbound/careapi"
	"github.com/caregate/caregate/internal/config"
	"github.com/caregate/caregate/internal/domain/catalog"
	"github.com/caregate/caregate/internal/domain/policy"
	"github.com/caregate/caregate/internal/domain/schema"
	"github.com/caregate/caregate/internal/domain/tool"
	"github.com/caregate/caregate/internal/service"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Serve generated tools over stdio",
	Long: `Run authenticates with the Care API, fetches its OpenAPI schema,
generates one MCP tool per whitelisted operation, and serves the MCP
protocol on stdin/stdout until the client disconnects.

Schema or authentication failures abort startup: no tool is registered
before generation completes, and a partial schema is not usable.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.DevMode {
		level = slog.LevelDebug
	}
	// stdout carries the MCP protocol; logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auth := careapi.NewAuthenticator(careapi.AuthConfig{
		BaseURL:     cfg.BaseURL,
		Username:    cfg.Username,
		Password:    cfg.Password,
		StaticToken: cfg.AccessToken,
		UserAgent:   "caregate/" + cfg.ServerVersion,
	}, logger)

	if cfg.HasCredentials() {
		if err := auth.Authenticate(ctx); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	} else {
		logger.Warn("no credentials configured, only public endpoints will work")
	}

	parser := schema.NewParser(cfg.SchemaURL, logger)
	if err := parser.Fetch(ctx); err != nil {
		return fmt.Errorf("schema load failed: %w", err)
	}

	whitelist, err := loadWhitelist(cfg)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	transport := careapi.NewClient(cfg.HTTPTimeout, logger)
	factory := tool.NewFactory(cfg.BaseURL, auth, transport, cat, logger)
	sink := mcpserver.New(cfg.ServerName, cfg.ServerVersion, logger)

	registry := prometheus.NewRegistry()
	generator := service.NewGenerator(parser, whitelist, factory, sink, logger).
		WithMetrics(service.NewMetrics(registry))

	if cfg.AuditFile != "" {
		recorder, err := audit.NewRecorder(cfg.AuditFile, logger)
		if err != nil {
			return err
		}
		defer func() { _ = recorder.Close() }()
		generator = generator.WithAudit(recorder)
	}

	count, err := generator.GenerateAll()
	if err != nil {
		return fmt.Errorf("tool generation failed: %w", err)
	}
	if count == 0 {
		logger.Warn("no operations passed the whitelist, serving an empty tool set")
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, registry, logger)
	}

	return sink.Run(ctx)
}

// serveMetrics exposes the Prometheus registry on its own listener.
// Listener failures are logged, not fatal.
func serveMetrics(addr string, registry *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics listener failed", "error", err)
	}
}

func loadWhitelist(cfg config.Config) (*policy.Whitelist, error) {
	if cfg.WhitelistFile == "" {
		return policy.New(), nil
	}
	w, err := policy.ImportFile(cfg.WhitelistFile)
	if err != nil {
		return nil, fmt.Errorf("load whitelist: %w", err)
	}
	return w, nil
}

func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.EnhancementsFile == "" {
		return catalog.New(), nil
	}
	c, err := catalog.ImportFile(cfg.EnhancementsFile)
	if err != nil {
		return nil, fmt.Errorf("load enhancements: %w", err)
	}
	return c, nil
}
