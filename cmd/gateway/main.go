// 개발용 인증 게이트웨이
//
// 클라이언트를 로컬에서 실행해 볼 수 있도록 /api/auth/* 계약을 제공한다.
// Postgres 설정이 없으면 메모리 저장소, REDIS_ADDR이 없으면 내장 redis 사용.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/phazelsound/client/internal/config"
	"github.com/phazelsound/client/internal/db"
	"github.com/phazelsound/client/internal/gateway"
	"github.com/phazelsound/client/internal/handler"
	"github.com/phazelsound/client/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("failed to init logger")
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("gateway stopped")
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gwCfg := cfg.Gateway

	otpTTL, err := time.ParseDuration(gwCfg.Auth.OTPTTL)
	if err != nil || otpTTL <= 0 {
		return errors.Join(gateway.ErrMisconfigured, errors.New("invalid OTP_TTL"))
	}

	tokens, err := gateway.NewTokenIssuer(gwCfg.Auth)
	if err != nil {
		return err
	}

	rdb, closeRedis, err := gateway.NewRedis(ctx, gwCfg.Redis)
	if err != nil {
		return err
	}
	defer closeRedis()
	if gateway.Embedded(gwCfg.Redis) {
		log.Warn("REDIS_ADDR not set, using embedded redis")
	}

	var users gateway.UserRepository
	if gwCfg.Postgres.IsConfigured() {
		pool, err := db.NewPostgresPool(ctx, gwCfg.Postgres)
		if err != nil {
			return err
		}
		defer pool.Close()

		pg := db.NewPostgres(pool)
		if err := pg.EnsureUserSchema(ctx); err != nil {
			return err
		}
		users = gateway.NewPostgresRepository(pg)
		log.Info("using postgres user repository")
	} else {
		users = gateway.NewMemoryRepository()
		log.Warn("postgres not configured, users are kept in memory")
	}

	svc := gateway.NewAuthService(users, gateway.NewOTPStore(rdb, otpTTL), tokens, gateway.NewLogMailer(log), log)
	limiter := gateway.NewRateLimiter(rdb, gwCfg.RateLimit.Count, gwCfg.RateLimit.Period)

	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:              gwCfg.Addr,
		Handler:           handler.NewRouter(svc, limiter, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", gwCfg.Addr).Info("gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("gracefully shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
