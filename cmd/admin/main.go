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

	// 管理端从不清索引启动，清空只走显式接口
	userRepo, err := users.NewRepository(context.Background(), sc, ic, cfg.App.Env, false)
	if err != nil {
		log.Fatal("users repository init", zap.Error(err))
	}

	jwter := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTLMin)

	r := router.NewAdminEngine(log, jwter,
		handler.NewAdminHandler(userRepo.SearchRepo),
	)

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("env", cfg.App.Env),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()
	log.Info("admin api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
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
