// The reviews service: reviews, comments and reactions, enriched with user
// and product data fetched from the sibling services.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"goshop/config"
	"goshop/internal/api/review"
	"goshop/internal/api/router"
	"goshop/internal/client/catalogclient"
	"goshop/internal/client/usersclient"
	"goshop/internal/pkg/cache"
	"goshop/internal/pkg/database"
	"goshop/internal/pkg/logger"
	"goshop/internal/pkg/server"
	"goshop/internal/pkg/token"
	"goshop/internal/repository/reviewrepo"
	"goshop/internal/service/reviewservice"
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

	reviewRepo := reviewrepo.NewReviewRepository(db, cfg.DBTimeout, logg)
	commentRepo := reviewrepo.NewCommentRepository(db, cfg.DBTimeout, logg)
	reactionRepo := reviewrepo.NewReactionRepository(db, cfg.DBTimeout, logg)

	usersClient := usersclient.New(cfg.UsersServiceURL, cfg.HTTPClientTimeout, logg)
	catalogClient := catalogclient.New(cfg.CatalogServiceURL, cfg.HTTPClientTimeout, logg)

	reviewSvc := reviewservice.NewService(reviewRepo, commentRepo, reactionRepo, usersClient, catalogClient)

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	mw := router.NewMiddlewares(tokenSvc, cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	handler := router.NewReviewsRouter(review.NewHandler(reviewSvc, logg), mw)

	server.Run(cfg.Port, handler, logg)
}
