package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"content-archives/handlers"
	"content-archives/render"
	"content-archives/widgets"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the archive listing pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()
			return serve(cmd.Context(), a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	registry := widgets.NewRegistry(a.svc, a.cfg.Archives.Widgets, a.log)
	engine := render.NewEngine(a.cfg.Server.Templates, a.svc, registry)

	server := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
	})

	// Middleware
	server.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.New().String() },
	}))
	server.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))

	handler := handlers.NewArchiveHandler(a.svc, render.NewTemplateChooser(a.cfg.Archives.Template), a.log)
	handlers.SetupRoutes(server, handler)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
	go func() {
		a.log.Info("Starting server", zap.String("addr", addr), zap.String("prefix", a.svc.Prefix()))
		errCh <- server.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.ShutdownWithContext(shutdownCtx)
}
