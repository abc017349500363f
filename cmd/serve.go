package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"docqa/internal/httpx"
	"docqa/internal/server"
	"docqa/internal/vision"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts an HTTP server exposing document question answering, free-form
chat, multimodal image questions, and a WebSocket chat channel.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "override the configured port")
	serveCmd.Flags().Bool("allow-all-origins", false, "allow all CORS origins (dev mode)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}
	if allowAll, _ := cmd.Flags().GetBool("allow-all-origins"); allowAll {
		cfg.Server.AllowAll = true
	}

	store, err := loadStore(ctx, cfg)
	if err != nil {
		// The server is still useful for chat and vision without an
		// index.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		if store, err = openStore(cfg); err != nil {
			return err
		}
	}

	engine, provider, err := buildEngine(cfg, store)
	if err != nil {
		return err
	}

	caller := httpx.New(httpx.Config{
		MaxAttempts:    cfg.Retry.MaxAttempts,
		AttemptTimeout: time.Duration(cfg.Retry.AttemptTimeoutSeconds) * time.Second,
	})
	visionClient := vision.NewClient(os.Getenv("GEMINI_API_KEY"), cfg.VisionModel, caller)

	srv := server.New(server.Config{
		Port:     cfg.Server.Port,
		AllowAll: cfg.Server.AllowAll,
	}, engine, provider, cfg.Model, visionClient)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-sigCh:
		fmt.Fprintf(os.Stderr, "\nReceived %s, shutting down\n", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
