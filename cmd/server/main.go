package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/janisto/swagger-playground/internal/http/docs"
	"github.com/janisto/swagger-playground/internal/http/swaggerui"
	"github.com/janisto/swagger-playground/internal/http/v1/routes"
	"github.com/janisto/swagger-playground/internal/platform/apiconfig"
	"github.com/janisto/swagger-playground/internal/platform/config"
	applog "github.com/janisto/swagger-playground/internal/platform/logging"
	appmiddleware "github.com/janisto/swagger-playground/internal/platform/middleware"
	"github.com/janisto/swagger-playground/internal/platform/respond"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const apiTitle = "Greeting API"

const shutdownTimeout = 10 * time.Second

func main() {
	cmd, err := newRootCmd()
	if err == nil {
		err = cmd.Execute()
	}
	if syncErr := applog.Sync(); syncErr != nil && !errors.Is(syncErr, syscall.EINVAL) {
		fmt.Fprintln(os.Stderr, "logger sync error:", syncErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, error) {
	v := viper.New()
	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Serve the greeting API together with Swagger UI",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(*cobra.Command, []string) error {
			return config.LoadDotEnv(".env")
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, nil)
		},
	}
	if err := config.BindFlags(cmd.Flags(), v); err != nil {
		return nil, err
	}
	return cmd, nil
}

// run serves until ctx is cancelled or the listener fails. When ready is
// non-nil it receives the bound address once the listener is open.
func run(ctx context.Context, cfg config.Config, ready chan<- string) error {
	if err := applog.Err(); err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	if err := docs.Validate(ctx); err != nil {
		applog.LogError(ctx, "swagger document invalid", err)
		return err
	}

	assets := swaggerui.NewAssets(cfg.AssetsDir)
	defer func() { _ = assets.Close() }()
	if err := assets.Err(); err != nil {
		applog.LogWarn(ctx, "swagger ui assets unavailable", zap.String("dir", cfg.AssetsDir), zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(assets),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		applog.LogError(ctx, "listen failed", err, zap.String("addr", srv.Addr))
		return err
	}
	applog.LogInfo(ctx, "server listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("swaggerUI", "http://"+ln.Addr().String()+swaggerui.ShellPath),
		zap.String("version", Version),
	)
	if ready != nil {
		ready <- ln.Addr().String()
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			applog.LogError(ctx, "serve failed", err, zap.String("addr", srv.Addr))
			return err
		}
	case <-ctx.Done():
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
		return err
	}
	applog.LogInfo(context.Background(), "server exited")
	return nil
}

func newRouter(assets http.Handler) chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		// Static assets carry their own caching headers.
		appmiddleware.Security(swaggerui.AssetsPrefix),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Real-IP and X-Forwarded-For; run behind a trusted proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	api := apiconfig.Mount(router, apiTitle, Version)
	routes.Register(router, api, assets)
	return router
}
