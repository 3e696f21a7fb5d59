package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"pokedex_bot/handlers"
	"pokedex_bot/logger"
	"pokedex_bot/scheduler"
	"pokedex_bot/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		dryRun      bool
		noScheduler bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler together with the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if err := cfg.Twitter.Credentials.Validate(); err != nil {
				return err
			}
			a, err := newApp(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			deps := handlers.Dependencies{Bot: a.bot, Metrics: a.metrics}
			if !noScheduler {
				runOpts := services.RunOptions{DryRun: dryRun || cfg.Scheduler.DryRun}
				s, err := scheduler.Start(ctx, cfg, botJob(a, runOpts))
				if err != nil {
					return err
				}
				deps.Scheduler = s
			}
			return serveHTTP(ctx, fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port), newRouter(deps))
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "定时任务只打印回复，不发布")
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "只提供 HTTP 接口，不启动定时任务")
	return cmd
}

func newRouter(deps handlers.Dependencies) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	handlers.RegisterRoutes(r, deps)
	return r
}

// serveHTTP 阻塞直到 ctx 取消，然后优雅关闭
func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("服务器启动", "address", addr)
		logger.Info("Swagger文档可访问", "url", fmt.Sprintf("http://%s/swagger/index.html", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭服务器失败: %w", err)
	}
	logger.Info("服务器已关闭")
	return nil
}
