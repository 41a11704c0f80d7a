package api

import (
	"context"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/triviahq/gameshow-system/internal/api/handler"
	"github.com/triviahq/gameshow-system/internal/api/middleware"
	"github.com/triviahq/gameshow-system/internal/core/domain"
	"github.com/triviahq/gameshow-system/internal/core/service"
	mongodb "github.com/triviahq/gameshow-system/internal/infrastructure/db/mongo"
	redisdb "github.com/triviahq/gameshow-system/internal/infrastructure/db/redis"
	"github.com/triviahq/gameshow-system/internal/infrastructure/queue"
)

// Options carries the knobs the router needs beyond its store handles.
type Options struct {
	JWTSecret     string
	TokenTTL      time.Duration
	IngestWorkers int
}

// NewRouter builds and returns the Echo instance with all routes
// registered and the ingest dispatcher started.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("gameshow"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	seasonRepo := mongodb.NewSeasonRepository(db)
	attemptRepo := mongodb.NewAttemptRepository(db)
	deckRepo := mongodb.NewDeckRepository(db)
	statsCache := redisdb.NewStatsCache(rdb)

	authService := service.NewAuthService(userRepo, opts.JWTSecret, opts.TokenTTL, log)
	gameService := service.NewGameService(seasonRepo, attemptRepo, deckRepo, statsCache, log)

	dispatcher := queue.NewDispatcher(opts.IngestWorkers, gameService, log)
	dispatcher.Start(ctx)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	seasonHandler := handler.NewSeasonHandler(seasonRepo)
	gameHandler := handler.NewGameHandler(gameService)
	ingestHandler := handler.NewIngestHandler(dispatcher)

	authn := middleware.Auth(authService)
	authenticated := middleware.Authenticated()
	producer := middleware.RequireRole(domain.RoleProducer)
	admin := middleware.RequireRole(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Game routes ---
	v1 := e.Group("/v1", authn)
	v1.POST("/attempts", gameHandler.RecordAttempt, producer)
	v1.POST("/attempts/batch", ingestHandler.ReceiveBatch, producer)
	v1.GET("/attempts", gameHandler.History, authenticated)
	v1.GET("/contestants/:name/performance", gameHandler.Performance, authenticated)
	v1.GET("/seasons/:id/stats", gameHandler.SeasonStats, authenticated)
	v1.GET("/seasons/:id/deck", gameHandler.GetDeck, authenticated)
	v1.POST("/seasons/:id/deck/reset", gameHandler.ResetDeck, producer)

	// --- Season routes (thin passthroughs) ---
	v1.POST("/seasons", seasonHandler.Create, admin)
	v1.POST("/seasons/:id/cards", seasonHandler.AddCard, admin)
	v1.GET("/seasons", seasonHandler.List, authenticated)
	v1.GET("/seasons/:id", seasonHandler.Get, authenticated)

	// --- User admin ---
	v1.PATCH("/users/:id/role", userHandler.ChangeRole, admin)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
