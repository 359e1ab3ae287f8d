package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/safar/goldstock/internal/api"
	"github.com/safar/goldstock/internal/database"
	"github.com/safar/goldstock/internal/images"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := database.EnsureSchema(cmd.Context(), e.db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	imgs, err := images.New(e.cfg.Images.Dir)
	if err != nil {
		return err
	}

	if e.cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := api.NewServer(e.db, imgs, e.log)

	server := &http.Server{
		Addr:         ":" + e.cfg.Server.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  e.cfg.Server.ReadTimeout,
		WriteTimeout: e.cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		e.log.Info("server starting",
			zap.String("port", e.cfg.Server.Port),
			zap.String("images_dir", imgs.Dir()))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	e.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
