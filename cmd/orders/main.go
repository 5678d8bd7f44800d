// The orders service: baskets, delivery addresses and checkouts, with every
// route behind authentication and ownership checks.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"goshop/config"
	"goshop/internal/api/order"
	"goshop/internal/api/router"
	"goshop/internal/pkg/cache"
	"goshop/internal/pkg/database"
	"goshop/internal/pkg/logger"
	"goshop/internal/pkg/server"
	"goshop/internal/pkg/token"
	"goshop/internal/repository/orderrepo"
	"goshop/internal/service/orderservice"
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

	basketRepo := orderrepo.NewBasketRepository(db, cfg.DBTimeout, logg)
	addressRepo := orderrepo.NewAddressRepository(db, cfg.DBTimeout, logg)
	checkoutRepo := orderrepo.NewCheckoutRepository(db, cfg.DBTimeout, logg)

	basketSvc := orderservice.NewBasketService(basketRepo)
	addressSvc := orderservice.NewAddressService(addressRepo)
	checkoutSvc := orderservice.NewCheckoutService(checkoutRepo, basketRepo, addressRepo)

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	mw := router.NewMiddlewares(tokenSvc, cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	handler := router.NewOrdersRouter(
		order.NewBasketHandler(basketSvc, logg),
		order.NewAddressHandler(addressSvc, logg),
		order.NewCheckoutHandler(checkoutSvc, logg),
		mw,
	)

	server.Run(cfg.Port, handler, logg)
}
