package web

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/school-rewards-web/internal/auth"
	"github.com/Spok95/school-rewards-web/internal/config"
	"github.com/Spok95/school-rewards-web/internal/notify"
	"github.com/Spok95/school-rewards-web/internal/upload"
)

type Server struct {
	db       *sql.DB
	cfg      *config.Config
	log      *zap.SugaredLogger
	render   Renderer
	uploads  *upload.Storage
	notifier *notify.Telegram
	limiter  *auth.LoginLimiter
}

func New(database *sql.DB, cfg *config.Config, log *zap.SugaredLogger, render Renderer, notifier *notify.Telegram) *Server {
	if render == nil {
		render = JSONRenderer{}
	}
	return &Server{
		db:       database,
		cfg:      cfg,
		log:      log,
		render:   render,
		uploads:  upload.New(cfg.UploadDir),
		notifier: notifier,
		limiter:  auth.NewLoginLimiter(),
	}
}

// Run поднимает HTTP-сервер и аккуратно гасит его по отмене контекста.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.HTTPAddr, Handler: s.Router()}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	}
}
