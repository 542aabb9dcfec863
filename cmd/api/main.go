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

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-users-api/internal/core/auth"
	"go-users-api/internal/core/config"
	"go-users-api/internal/core/database"
	"go-users-api/internal/core/logger"
	"go-users-api/internal/core/server"
	"go-users-api/internal/feature/users"
	"go-users-api/internal/search"
	"go-users-api/internal/search/memindex"
	"go-users-api/internal/search/redisindex"
	"go-users-api/internal/store"
	"go-users-api/internal/store/gormstore"
	"go-users-api/internal/store/memstore"
	"go-users-api/internal/transport/http/handler"
	"go-users-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	sc := mustStoreClient(cfg, log)
	ic := searchClient(cfg)

	// 用户仓储（索引设置在这里套用）
	userRepo, err := users.NewRepository(context.Background(), sc, ic, cfg.App.Env, cfg.Search.ClearOnInit)
	if err != nil {
		log.Fatal("users repository init", zap.Error(err))
	}
	userSvc := users.NewService(userRepo)

	jwter := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTLMin)

	r := router.NewAPIEngine(log,
		handler.NewUserHandler(userSvc, jwter),
		handler.NewAuthHandler(userSvc, jwter),
	)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("env", cfg.App.Env),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("user api start FAILED", zap.Error(err))
		}
	}()
	log.Info("user api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("user api stopped gracefully")
}

func mustStoreClient(cfg *config.Config, l *zap.Logger) store.Client {
	if cfg.DB.Driver == "memory" {
		l.Info("store: in-memory")
		return memstore.New(cfg.App.Env)
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	return gormstore.New(db, cfg.App.Env)
}

func searchClient(cfg *config.Config) search.Client {
	if cfg.Search.Provider == "redis" {
		return redisindex.New(cfg.Search.Redis.Addr, cfg.Search.Redis.Password, cfg.Search.Redis.DB)
	}
	return memindex.New()
}
