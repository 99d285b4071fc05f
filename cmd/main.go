package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/judgerunner.net/internal/adapter/crypto"
	"gitlab.com/judgerunner.net/internal/adapter/judge0"
	"gitlab.com/judgerunner.net/internal/adapter/postgres"
	"gitlab.com/judgerunner.net/internal/adapter/postgres/roomrepository"
	"gitlab.com/judgerunner.net/internal/adapter/postgres/submissionrepository"
	"gitlab.com/judgerunner.net/internal/adapter/postgres/userrepository"
	"gitlab.com/judgerunner.net/internal/adapter/redis/ratelimitport"
	"gitlab.com/judgerunner.net/internal/config"
	auth2 "gitlab.com/judgerunner.net/internal/core/services/auth"
	"gitlab.com/judgerunner.net/internal/core/services/room"
	"gitlab.com/judgerunner.net/internal/core/services/submission"
	logger2 "gitlab.com/judgerunner.net/internal/global/logger"
	http2 "gitlab.com/judgerunner.net/internal/http"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sysCfg := config.NewSystemConfig()
	if sysCfg.DebugMode {
		logger2.SetDebug()
	}
	logger := logger2.Logger
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting judge runner gateway")

	if err := sysCfg.JwtConfig.Validate(); err != nil {
		logger.Error("Invalid jwt configuration", "error", err)
		os.Exit(1)
	}

	ctxBg := context.Background()

	db, err := setupDatabase(ctxBg, sysCfg.PostgresConfig)
	if err != nil {
		logger.Error("Failed to set up database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	// SECONDARY PORTS
	judgeClient, err := judge0.NewClient(sysCfg.Judge0Config, logger)
	if err != nil {
		logger.Error("Invalid judge configuration", "error", err)
		os.Exit(1)
	}
	schema := sysCfg.PostgresConfig.Schema
	userPort := userrepository.New(db, logger, schema)
	roomRepo := roomrepository.NewRoomRepository(db, logger, schema)
	submissionRepo := submissionrepository.NewSubmissionRepository(db, logger, schema)
	limiter := ratelimitport.NewRateLimiter(redisClient, sysCfg.RateLimitConfig, logger)

	//primary ports
	jwtProvider := crypto.NewJWTService(sysCfg.JwtConfig)

	//services
	submissionSvc := submission.NewSubmissionService(judgeClient, submissionRepo, limiter, logger)
	roomSvc := room.NewRoomService(roomRepo, jwtProvider, logger)
	ggAuth := auth2.NewGoogleAuthService(userPort, jwtProvider, sysCfg.GGAuthConfig)
	localAuth := auth2.NewLocalAuthService(userPort, jwtProvider, logger)
	serviceProvider := http2.NewServiceProvider(submissionSvc, roomSvc, ggAuth, localAuth, jwtProvider)

	//server
	httpServer := http2.NewServer(sysCfg.ServerConfig, sysCfg.GGAuthConfig, *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		logger.Error("Failed to init http server", "error", err)
		os.Exit(1)
	}
	errc := httpServer.Start(ctxBg)

	select {
	case <-quit:
	case err := <-errc:
		if err != nil {
			os.Exit(1)
		}
	}
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, 5*time.Second)
	defer cancel()
	if err := httpServer.Stop(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("successfully shutdown server")
}

// setupDatabase opens the PostgreSQL connection and creates missing tables
func setupDatabase(ctx context.Context, cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := postgres.Migrate(ctx, db, cfg.Schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
