package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"mizan/internal/embedding"
	"mizan/internal/handlers"
	"mizan/internal/routing"
	"mizan/internal/search"
	"mizan/internal/settings"
	"mizan/internal/share"
	"mizan/internal/vector"
)

var flagNoExport bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reader API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		storage, err := settings.OpenSQLite(a.cfg.Settings.Path)
		if err != nil {
			return err
		}
		defer storage.Close()

		var exporter handlers.ImageExporter
		if !flagNoExport {
			ex := share.NewExporter(a.cfg.Share.BrowserBin, a.logger)
			defer ex.Close()
			exporter = ex
		}

		handler := handlers.NewHandler(
			a.store,
			search.NewEngine(a.store, a.logger),
			settings.NewService(storage, a.logger),
			exporter,
			a.logger,
		)
		handler.Debounce = a.cfg.Search.Debounce
		handler.FrontendURL = a.cfg.Server.FrontendURL

		if a.cfg.Vector.Enabled {
			db, err := vector.Connect(a.cfg.Vector.Addr, a.cfg.Vector.Collection)
			if err != nil {
				return fmt.Errorf("connecting to qdrant: %w", err)
			}
			defer db.Close()
			handler.Semantic = vector.NewSemantic(embedding.NewClient(a.cfg.Embedding.URL, a.cfg.Embedding.Model), db, a.store, a.logger)
		}

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		routing.InitMiddleware(e, a.cfg.Server.FrontendURL, a.logger)
		dataDir := ""
		if a.cfg.Data.BaseURL == "" {
			dataDir = a.cfg.Data.Dir
		}
		routing.InitRoutes(e, handler, dataDir)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errs := make(chan error, 1)
		go func() {
			a.logger.Info("Serving", zap.String("addr", a.cfg.Server.Addr), zap.Bool("semantic", handler.Semantic != nil))
			errs <- e.Start(a.cfg.Server.Addr)
		}()

		select {
		case err := <-errs:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		a.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&flagNoExport, "no-export", false, "disable share image export (no headless browser)")
	rootCmd.AddCommand(serveCmd)
}
