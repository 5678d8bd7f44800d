// Package router wires handlers, auth and rate limiting into one
// http.Handler per service binary.
package router

import (
	"net/http"
	"time"

	"goshop/internal/api/catalog"
	"goshop/internal/api/order"
	"goshop/internal/api/review"
	"goshop/internal/api/user"
	"goshop/internal/domain"
	"goshop/internal/pkg/cache"
	"goshop/internal/pkg/middleware"
)

// Middlewares bundles the cross-cutting pieces the routers share.
type Middlewares struct {
	Auth      func(http.Handler) http.Handler
	AdminOnly func(http.Handler) http.Handler
	RateLimit func(http.Handler) http.Handler
}

// NewMiddlewares builds the standard stack: bearer-token auth, the admin
// gate and a redis-backed rate limiter. cacheClient may be nil when a
// service runs without redis; the rate limiter then passes through.
func NewMiddlewares(tokenSvc middleware.TokenValidator, cacheClient cache.Client, rateLimit int, ratePeriod time.Duration) Middlewares {
	m := Middlewares{
		Auth:      middleware.NewAuthMiddleware(tokenSvc),
		AdminOnly: middleware.RequireRole(domain.RoleAdmin),
		RateLimit: passthrough,
	}
	if cacheClient != nil {
		m.RateLimit = middleware.RateLimiter(cacheClient, rateLimit, ratePeriod)
	}
	return m
}

func passthrough(next http.Handler) http.Handler { return next }

// admin chains auth, role check and rate limiting for mutating admin routes.
func (m Middlewares) admin(h http.HandlerFunc) http.Handler {
	return m.Auth(m.AdminOnly(m.RateLimit(h)))
}

// authed requires a valid token but no particular role.
func (m Middlewares) authed(h http.HandlerFunc) http.Handler {
	return m.Auth(h)
}

func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("pong"))
}

// NewCatalogRouter exposes the catalog: public reads, admin-gated writes.
func NewCatalogRouter(
	products *catalog.ProductHandler,
	categories *catalog.CategoryHandler,
	tags *catalog.TagHandler,
	parameters *catalog.ParameterHandler,
	colors *catalog.ColorHandler,
	brands *catalog.BrandHandler,
	m Middlewares,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", pingHandler)

	mux.HandleFunc("GET /products", products.List)
	mux.HandleFunc("GET /products/price-range", products.PriceRange)
	mux.HandleFunc("GET /products/under-one-thousand", products.UnderOneThousand)
	mux.HandleFunc("GET /products/by-url/{url}", products.GetByURL)
	mux.HandleFunc("GET /products/{id}", products.GetByID)
	mux.Handle("POST /products", m.admin(products.Create))
	mux.Handle("PUT /products/{id}", m.admin(products.Update))
	mux.Handle("DELETE /products/{id}", m.admin(products.Delete))

	mux.HandleFunc("GET /categories", categories.List)
	mux.HandleFunc("GET /categories/tree", categories.Tree)
	mux.HandleFunc("GET /categories/{id}", categories.GetByID)
	mux.Handle("POST /categories", m.admin(categories.Create))
	mux.Handle("PUT /categories/{id}", m.admin(categories.Update))
	mux.Handle("DELETE /categories/{id}", m.admin(categories.Delete))

	mux.HandleFunc("GET /tags", tags.List)
	mux.HandleFunc("GET /tags/{id}", tags.GetByID)
	mux.Handle("POST /tags", m.admin(tags.Create))
	mux.Handle("PUT /tags/{id}", m.admin(tags.Update))
	mux.Handle("DELETE /tags/{id}", m.admin(tags.Delete))

	mux.HandleFunc("GET /parameters", parameters.List)
	mux.HandleFunc("GET /parameters/{id}", parameters.GetByID)
	mux.Handle("POST /parameters", m.admin(parameters.Create))
	mux.Handle("PUT /parameters/{id}", m.admin(parameters.Update))
	mux.Handle("DELETE /parameters/{id}", m.admin(parameters.Delete))

	mux.HandleFunc("GET /colors", colors.List)
	mux.HandleFunc("GET /colors/{id}", colors.GetByID)
	mux.Handle("POST /colors", m.admin(colors.Create))
	mux.Handle("PUT /colors/{id}", m.admin(colors.Update))
	mux.Handle("DELETE /colors/{id}", m.admin(colors.Delete))

	mux.HandleFunc("GET /brands", brands.List)
	mux.HandleFunc("GET /brands/{id}", brands.GetByID)
	mux.Handle("POST /brands", m.admin(brands.Create))
	mux.Handle("PUT /brands/{id}", m.admin(brands.Update))
	mux.Handle("DELETE /brands/{id}", m.admin(brands.Delete))

	return mux
}

// NewReviewsRouter exposes reviews: public reads, authenticated writes with
// ownership enforced in the service layer.
func NewReviewsRouter(reviews *review.Handler, m Middlewares) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", pingHandler)

	mux.HandleFunc("GET /reviews", reviews.List)
	mux.HandleFunc("GET /reviews/{id}", reviews.Get)
	mux.Handle("POST /reviews", m.authed(reviews.Create))
	mux.Handle("PUT /reviews/{id}", m.authed(reviews.Update))
	mux.Handle("DELETE /reviews/{id}", m.authed(reviews.Delete))

	mux.Handle("POST /reviews/{id}/comments", m.authed(reviews.CreateComment))
	mux.Handle("PUT /comments/{id}", m.authed(reviews.UpdateComment))
	mux.Handle("DELETE /comments/{id}", m.authed(reviews.DeleteComment))

	mux.Handle("POST /reviews/{id}/reactions", m.authed(reviews.CreateReaction))
	mux.Handle("DELETE /reactions/{id}", m.authed(reviews.DeleteReaction))

	return mux
}

// NewOrdersRouter exposes baskets, addresses and checkouts. Everything
// requires authentication.
func NewOrdersRouter(
	baskets *order.BasketHandler,
	addresses *order.AddressHandler,
	checkouts *order.CheckoutHandler,
	m Middlewares,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", pingHandler)

	mux.Handle("GET /baskets", m.authed(baskets.List))
	mux.Handle("GET /baskets/{id}", m.authed(baskets.GetByID))
	mux.Handle("POST /baskets", m.authed(baskets.Create))
	mux.Handle("PUT /baskets/{id}", m.authed(baskets.Update))
	mux.Handle("DELETE /baskets/{id}", m.authed(baskets.Delete))

	mux.Handle("GET /addresses", m.authed(addresses.List))
	mux.Handle("GET /addresses/{id}", m.authed(addresses.GetByID))
	mux.Handle("POST /addresses", m.authed(addresses.Create))
	mux.Handle("PUT /addresses/{id}", m.authed(addresses.Update))
	mux.Handle("DELETE /addresses/{id}", m.authed(addresses.Delete))

	mux.Handle("GET /checkouts", m.authed(checkouts.List))
	mux.Handle("GET /checkouts/{id}", m.authed(checkouts.GetByID))
	mux.Handle("POST /checkouts", m.authed(checkouts.Create))
	mux.Handle("PUT /checkouts/{id}", m.authed(checkouts.Update))
	mux.Handle("DELETE /checkouts/{id}", m.authed(checkouts.Delete))

	return mux
}

// NewUsersRouter exposes registration, login and the profile read.
func NewUsersRouter(users *user.Handler, m Middlewares) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", pingHandler)

	mux.Handle("POST /users/register", m.RateLimit(http.HandlerFunc(users.Register)))
	mux.Handle("POST /users/login", m.RateLimit(http.HandlerFunc(users.Login)))
	mux.Handle("GET /users/{id}", m.authed(users.GetProfile))
	mux.Handle("PUT /users/{id}", m.authed(users.UpdateProfile))

	return mux
}
