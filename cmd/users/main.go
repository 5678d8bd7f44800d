// The users service: registration, login and the profile endpoint the
// reviews service queries during enrichment.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"goshop/config"
	"goshop/internal/api/router"
	"goshop/internal/api/user"
	"goshop/internal/pkg/cache"
	"goshop/internal/pkg/database"
	"goshop/internal/pkg/logger"
	"goshop/internal/pkg/server"
	"goshop/internal/pkg/token"
	"goshop/internal/repository/userrepo"
	"goshop/internal/service/userservice"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}

	cfg := config.LoadConfig()
	logg := logger.NewLogger(cfg.LogLevel)

	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		logg.Fatal("failed to connect to database", err)
	}
	defer db.Close()

	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		logg.Warn("redis unavailable, continuing without cache", map[string]interface{}{"error": err.Error()})
	}

	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, logg)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	userSvc := userservice.NewService(userRepo, tokenSvc)

	mw := router.NewMiddlewares(tokenSvc, cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	handler := router.NewUsersRouter(user.NewHandler(userSvc, logg), mw)

	server.Run(cfg.Port, handler, logg)
}
