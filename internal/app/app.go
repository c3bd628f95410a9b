package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	logger *slog.Logger
	router *http.ServeMux
	config *config.App
	repo   *repository.Queries
	jwt    *config.JWT
	ws     *config.WebSocket
}

func New(logger *slog.Logger) *App {
	app := &App{
		logger: logger,
		router: http.NewServeMux(),
	}
	return app
}

func (a *App) init() error {
	cfg, err := config.NewApp()
	if err != nil {
		return err
	}
	a.config = cfg

	jwt, err := config.NewJWT(cfg.SessionTTL)
	if err != nil {
		return err
	}
	a.jwt = jwt

	ws, err := config.NewWebSocket()
	if err != nil {
		return err
	}
	a.ws = ws

	a.repo = repository.New(mines.NewRand())
	a.loadRoutes()
	return nil
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(a.logger),
		middleware.Cors(),
		middleware.Auth(a.logger, a.jwt),
	)
}

// sweep drops sessions idle for longer than the session TTL until ctx is
// done.
func (a *App) sweep(ctx context.Context) error {
	ticker := time.NewTicker(a.config.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			n, err := a.repo.DeleteStaleGameSessions(ctx, now.Add(-a.config.SessionTTL))
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("unable to delete stale sessions: %w", err)
			}
			if n > 0 {
				a.logger.Debug("deleted stale sessions",
					slog.Int("count", n), slog.Int("left", a.repo.Count()))
			}
		}
	}
}

func (a *App) Start(ctx context.Context) error {
	if err := a.init(); err != nil {
		return err
	}

	server := &http.Server{
		Addr:    a.config.Port,
		Handler: a.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("server listening",
			slog.String("addr", a.config.Port),
			slog.String("base path", a.config.BasePath),
		)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.sweep(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
