package cli

import (
	"context"
	"fmt"
	"time"

	"skillsync/internal/catalog"
	"skillsync/internal/config"
	"skillsync/internal/observability"
	"skillsync/internal/server"

	"github.com/spf13/cobra"
)

// multipartAllowance covers form boundaries and headers around an upload
const multipartAllowance = 1 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SkillSync HTTP API",
	Long: `Start an HTTP server exposing the gap analysis workflow as a REST API.

Each client works in a session (POST /sessions) that holds its form, result,
current page, chat transcript and login flag. Stateless endpoints
(/extract-skills, /analyze) and the static catalog (/roadmaps, /calendar,
/community) are available as well. GET /health and GET /stats are public.

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveFlags struct {
	port, host                         string
	tlsMode, certFile, keyFile, caFile string
}

func init() {
	f := serveCmd.Flags()
	f.StringVarP(&serveFlags.port, "port", "p", "", "Port to listen on (default from config)")
	f.StringVar(&serveFlags.host, "host", "", "Host to bind to (default from config)")
	f.StringVar(&serveFlags.tlsMode, "tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	f.StringVar(&serveFlags.certFile, "cert-file", "", "Server certificate file (PEM, overrides config)")
	f.StringVar(&serveFlags.keyFile, "key-file", "", "Server private key file (PEM, overrides config)")
	f.StringVar(&serveFlags.caFile, "ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

// applyServeFlags copies explicitly set flags over the loaded configuration
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("port", &cfg.Server.Port, serveFlags.port)
	set("host", &cfg.Server.Host, serveFlags.host)
	set("tls-mode", &cfg.Server.TLS.Mode, serveFlags.tlsMode)
	set("cert-file", &cfg.Server.TLS.CertFile, serveFlags.certFile)
	set("key-file", &cfg.Server.TLS.KeyFile, serveFlags.keyFile)
	set("ca-file", &cfg.Server.TLS.CAFile, serveFlags.caFile)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	applyServeFlags(cmd, cfg)
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := om.Shutdown(shutdownCtx); err != nil {
			logger.LogError(err, "Failed to shutdown observability")
		}
	}()

	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	provider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer func() { _ = provider.Close() }()

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize + multipartAllowance,
		RateLimit:      &cfg.Server.RateLimit,
	}

	logger.Info("Starting SkillSync server", "version", Version, "prompts_version", cfg.Prompts.Version())
	return server.NewServer(cfg, serverCfg, provider, cat, om, logger).Run(ctx)
}
