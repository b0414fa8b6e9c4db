package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mensajes/internal/config"
	"github.com/iliyamo/mensajes/internal/database"
	"github.com/iliyamo/mensajes/internal/handler"
	"github.com/iliyamo/mensajes/internal/middleware"
	"github.com/iliyamo/mensajes/internal/queue"
	"github.com/iliyamo/mensajes/internal/repository"
	"github.com/iliyamo/mensajes/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("ensure schema: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	messages := repository.NewMessageRepo(db)
	likes := repository.NewLikeRepo(db)
	reposts := repository.NewRepostRepo(db)
	comments := repository.NewCommentRepo(db)

	authH := handler.NewAuthHandler(cfg, users, sessions)
	msgH := handler.NewMessageHandler(users, messages)
	engH := handler.NewEngagementHandler(users, messages, likes, reposts, comments)

	e := echo.New()
	e.HideBanner = true

	// Redis is optional: when unreachable both the limiter and the
	// cache become pass-through middleware.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}
	// Public routes are limited per ip; the session group is limited
	// with the configured strategy after SessionAuth has resolved the
	// user, so user-keyed buckets see the real id instead of "anon".
	rlCfg := config.LoadRateLimitConfig()
	publicRL := rlCfg
	publicRL.KeyStrategy = "ip_route"
	publicLimit := middleware.NewTokenBucket(publicRL, rdb)
	userLimit := middleware.NewTokenBucket(rlCfg, rdb)

	cacheCfg := config.LoadCacheConfig()
	feedCache := middleware.NewRedisCache(cacheCfg, rdb)
	feedBust := middleware.NewCacheInvalidator(cacheCfg, rdb, "/api/mensajes")

	router.RegisterRoutes(e, authH, publicLimit)
	router.RegisterFeed(e, authH, msgH, engH, cfg.SessionSecret, sessions, userLimit, feedCache, feedBust)

	// background audit trail for feed activity
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
