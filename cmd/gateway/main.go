package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"chaingateway/internal/chain"
	"chaingateway/internal/config"
	"chaingateway/internal/defi"
	"chaingateway/internal/dispatch"
	"chaingateway/internal/model"
	"chaingateway/internal/poolreg"
	"chaingateway/internal/registry"
	"chaingateway/internal/server"
)

func main() {
	root := &cobra.Command{
		Use:          "gateway",
		Short:        "AI-facing EVM chain gateway",
		SilenceUsage: true,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway's tool/resource dispatcher over HTTP",
		RunE:  runServe,
	}
	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(*cobra.Command, []string) error {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := registry.New()

	chains := chain.NewFactory(
		reg.Resolve,
		func(desc model.NetworkDescriptor) string { return cfg.RPCURLOverride(desc.ShortName) },
		func(desc model.NetworkDescriptor) chain.Options { return cfg.TLSOptions(desc.ShortName) },
	)
	defer chains.Close()

	pools, err := poolreg.Default()
	if err != nil {
		return fmt.Errorf("load pool registry: %w", err)
	}

	svc := &server.Services{
		Registry: reg,
		Chains:   chains,
		Pools:    pools,
		Defi:     defi.NewProvider(),
	}

	d := dispatch.New(logger)
	svc.RegisterTools(d)
	svc.RegisterResources(d)

	mux := http.NewServeMux()
	mux.HandleFunc("/tools", toolHandler(d))
	mux.HandleFunc("/resources", resourceHandler(d))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	addr := cfg.Host + ":" + cfg.Port
	httpServer := &http.Server{Addr: addr, Handler: mux}

	logger.Info("gateway listening",
		zap.String("addr", addr),
		zap.Strings("tools", d.ToolNames()),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return httpServer.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// toolCallRequest is the JSON body of a POST /tools?name=<tool> call.
type toolCallRequest struct {
	Arguments map[string]interface{} `json:"arguments"`
}

func toolHandler(d *dispatch.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "missing name query parameter", http.StatusBadRequest)
			return
		}

		var req toolCallRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "malformed request body", http.StatusBadRequest)
				return
			}
		}

		envelope := d.CallTool(r.Context(), name, req.Arguments)
		w.Header().Set("Content-Type", "application/json")
		if envelope.IsError {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}
		json.NewEncoder(w).Encode(envelope)
	}
}

func resourceHandler(d *dispatch.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		uri := r.URL.Query().Get("uri")
		if uri == "" {
			http.Error(w, "missing uri query parameter", http.StatusBadRequest)
			return
		}

		envelope, err := d.ReadResource(r.Context(), uri)
		if err != nil {
			http.Error(w, strings.TrimSpace(err.Error()), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(envelope)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
