// The catalog service: products, categories, tags, parameters, colors and
// brands behind public reads and admin-gated writes.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"goshop/config"
	"goshop/internal/api/catalog"
	"goshop/internal/api/router"
	"goshop/internal/pkg/cache"
	"goshop/internal/pkg/database"
	"goshop/internal/pkg/logger"
	"goshop/internal/pkg/server"
	"goshop/internal/pkg/token"
	"goshop/internal/repository/catalogrepo"
	"goshop/internal/service/catalogservice"
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

	productRepo := catalogrepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, logg)
	categoryRepo := catalogrepo.NewCategoryRepository(db, cfg.DBTimeout, logg)
	tagRepo := catalogrepo.NewTagRepository(db, cfg.DBTimeout)
	parameterRepo := catalogrepo.NewParameterRepository(db, cfg.DBTimeout)
	colorRepo := catalogrepo.NewColorRepository(db, cfg.DBTimeout)
	brandRepo := catalogrepo.NewBrandRepository(db, cfg.DBTimeout)

	productSvc := catalogservice.NewProductService(productRepo, categoryRepo, brandRepo, colorRepo, tagRepo)
	categorySvc := catalogservice.NewCategoryService(categoryRepo)
	tagSvc := catalogservice.NewTagService(tagRepo)
	parameterSvc := catalogservice.NewParameterService(parameterRepo)
	colorSvc := catalogservice.NewColorService(colorRepo)
	brandSvc := catalogservice.NewBrandService(brandRepo)

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	mw := router.NewMiddlewares(tokenSvc, cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	handler := router.NewCatalogRouter(
		catalog.NewProductHandler(productSvc, logg),
		catalog.NewCategoryHandler(categorySvc, logg),
		catalog.NewTagHandler(tagSvc, logg),
		catalog.NewParameterHandler(parameterSvc, logg),
		catalog.NewColorHandler(colorSvc, logg),
		catalog.NewBrandHandler(brandSvc, logg),
		mw,
	)

	server.Run(cfg.Port, handler, logg)
}
