// ABOUTME: Serve subcommand that runs the HTTP service with periodic refresh.
// ABOUTME: Exposes the risk register on /register, /metrics and /health.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jfeddern/RiskRegister/internal/config"
	"github.com/jfeddern/RiskRegister/internal/engine"
	"github.com/jfeddern/RiskRegister/internal/metrics"
	"github.com/jfeddern/RiskRegister/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service with periodic register refresh",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&flagPort, "port", config.DefaultPort, "Port to expose the HTTP endpoints on")
	serveCmd.Flags().DurationVar(&flagRefresh, "refresh-interval", config.DefaultRefreshInterval, "Interval between register refreshes")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, logger := setup(cmd)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Received shutdown signal")
		cancel()
	}()

	service, err := NewService(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create service")
	}

	if err := service.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to start service")
	}
}

type Service struct {
	config *config.Config
	logger *logrus.Logger
	engine *engine.Engine
}

func NewService(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Service, error) {
	logger.WithFields(logrus.Fields{
		"asset_source":     cfg.AssetSource,
		"report_source":    cfg.ReportSource,
		"port":             cfg.Port,
		"refresh_interval": cfg.RefreshInterval,
	}).Info("Initializing RiskRegister")

	riskEngine, err := newEngine(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Service{
		config: cfg,
		logger: logger,
		engine: riskEngine,
	}, nil
}

func (s *Service) Start(ctx context.Context) error {
	// Start the risk engine
	go s.engine.Start(ctx)

	// Create HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", s.securityMiddleware(metrics.CreateMetricsHandler(s.engine, s.logger)))
	mux.HandleFunc("/register", s.securityMiddleware(server.CreateRegisterHandler(s.engine, s.logger)))
	mux.HandleFunc("/health", s.securityMiddleware(s.healthHandler))

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.WithFields(logrus.Fields{
		"port":         s.config.Port,
		"asset_source": s.config.AssetSource,
	}).Info("Starting HTTP server")

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Service) securityMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Security headers
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; script-src 'none'; object-src 'none'; frame-ancestors 'none'")

		// Only allow specific HTTP methods
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// Log the request
		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"remote_ip":  r.RemoteAddr,
			"user_agent": r.UserAgent(),
		}).Debug("HTTP request received")

		next(w, r)
	}
}

func (s *Service) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok"}`)
}
