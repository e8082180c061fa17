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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/d60-Lab/todomate/config"
	"github.com/d60-Lab/todomate/internal/api"
	"github.com/d60-Lab/todomate/internal/api/handler"
	internalcache "github.com/d60-Lab/todomate/internal/cache"
	"github.com/d60-Lab/todomate/internal/model"
	"github.com/d60-Lab/todomate/internal/repository"
	"github.com/d60-Lab/todomate/internal/service"
	"github.com/d60-Lab/todomate/pkg/cache"
	"github.com/d60-Lab/todomate/pkg/database"
	"github.com/d60-Lab/todomate/pkg/errtrack"
	"github.com/d60-Lab/todomate/pkg/jwt"
	"github.com/d60-Lab/todomate/pkg/logger"
	"github.com/d60-Lab/todomate/pkg/metrics"
	"github.com/d60-Lab/todomate/pkg/tracing"
)

// @title todomate API
// @version 1.0
// @description Daily diary service: one diary per user per day, comments, follow-based read access.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()
	gin.SetMode(cfg.Server.Mode)

	flushSentry, err := errtrack.Init(cfg.Sentry)
	if err != nil {
		logger.Fatal("failed to init sentry", zap.Error(err))
	}
	defer flushSentry()

	ctx := context.Background()

	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing)
		if err != nil {
			logger.Fatal("failed to init tracer", zap.Error(err))
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(sctx); err != nil {
				logger.Warn("tracer shutdown", zap.Error(err))
			}
		}()
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer database.Close(db)
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, model.All()...); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	users := repository.NewUserRepository(db)
	diaries := repository.NewDiaryRepository(db)
	comments := repository.NewCommentRepository(db)
	follows := repository.NewFollowRepository(db)
	fans := repository.NewFanRepository(db)

	var checker service.FollowChecker = follows
	var invalidator service.FollowInvalidator
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		fc := internalcache.NewFollowCache(follows, rdb, cfg.Redis.FollowTTL, collector)
		checker, invalidator = fc, fc
	}

	replicator := service.NewFanReplicator(fans, cfg.Replicator.QueueSize)
	stopReplicator := replicator.Start(cfg.Replicator.Workers)

	policy := service.NewPolicy(diaries, checker, collector)
	userSvc := service.NewUserService(users)
	tokens := jwt.NewManager(cfg.JWT)

	h := handler.New(handler.Deps{
		Users:         userSvc,
		Diaries:       service.NewDiaryService(diaries, policy, collector),
		Comments:      service.NewCommentService(diaries, comments, policy, collector),
		Search:        service.NewSearchService(diaries, policy),
		Relationships: service.NewRelationshipService(users, follows, fans, replicator, invalidator),
		Resolver:      service.NewEntryResolver(diaries, cfg.Server.BaseURL),
		Tokens:        tokens,
		Pagination:    cfg.Pagination,
	})

	r := api.SetupRouter(api.Options{
		Handler:   h,
		Tokens:    tokens,
		Users:     userSvc,
		Metrics:   collector,
		Gatherer:  reg,
		RateLimit: cfg.RateLimit,
		Tracing:   cfg.Tracing,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("db", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := stopReplicator(shutdownCtx); err != nil {
		logger.Warn("replicator shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}
