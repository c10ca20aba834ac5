package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gotodo/gotodo/handlers"
	"github.com/gotodo/gotodo/internal/config"
	"github.com/gotodo/gotodo/internal/database"
	"github.com/gotodo/gotodo/internal/sessions"
	"github.com/gotodo/gotodo/internal/todo"
	"github.com/gotodo/gotodo/internal/users"
	"github.com/gotodo/gotodo/pkg/logger"
	"github.com/gotodo/gotodo/pkg/metrics"
	"github.com/gotodo/gotodo/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.LoadHTMLGlob("templates/*.tmpl")
	r.Static("/static", "./static")

	ctx := context.Background()

	// Connect to Redis early so sessions and the rate limiter can use it when configured
	var importedRedis *redis.Client
	if cfg.Redis.Host != "" {
		importedRedis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := importedRedis.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			importedRedis = nil
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Connect to MongoDB with retry/backoff to tolerate startup races.
	// The document store is a hard dependency: give up after the retries.
	const maxAttempts = 5
	backoff := time.Second
	var client *mongo.Client
	var errConn error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if errConn == nil {
			break
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if errConn != nil {
		logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	db := client.Database(cfg.MongoDB.Database)
	todoRepo := todo.NewMongoRepository(db.Collection("todos"))
	userSvc := users.NewService(users.NewMongoRepository(db.Collection("users")))

	// Prefer Redis-based sessions when configured (fast, in-memory)
	var sessionsSvc *sessions.Service
	if importedRedis != nil {
		sessionsSvc = sessions.NewService(sessions.NewRedisRepository(importedRedis, "session:"))
		logger.Infof("Using Redis for session storage")
	} else {
		sessionsSvc = sessions.NewService(sessions.NewMongoRepository(db.Collection("sessions")))
	}

	// Operational endpoints are registered before the session middleware so
	// probes and scrapes do not mint sessions.

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint — return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		if err := client.Ping(c.Request.Context(), nil); err != nil {
			deps["mongodb"] = false
			ready = false
		} else {
			deps["mongodb"] = true
		}
		if importedRedis != nil {
			deps["redis"] = importedRedis.Ping(c.Request.Context()).Err() == nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		name := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			name = "not_ready"
		}
		c.JSON(status, gin.H{"status": name, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.Session(cfg, sessionsSvc, userSvc))

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && importedRedis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(importedRedis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Register page, auth and todo handlers
	handlers.NewPageHandler().Register(r)
	handlers.NewAuthHandler(userSvc, sessionsSvc).Register(r.Group("/"))
	todoGroup := r.Group("/todos", middleware.RequireLogin(sessionsSvc))
	handlers.NewTodoHandler(todoRepo, sessionsSvc).Register(todoGroup)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting todo service on %s", addr)
	srv := &http.Server{
		Addr: addr,
		// method override must rewrite the verb before the router matches
		Handler:      middleware.MethodOverride(r),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
