// Package router assembles the HTTP routes and middleware.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/vilain-Petit-Canard/API-Films/docs" // swagger docs
	"github.com/vilain-Petit-Canard/API-Films/internal/cache"
	"github.com/vilain-Petit-Canard/API-Films/internal/handler"
	"github.com/vilain-Petit-Canard/API-Films/internal/middleware"
	"github.com/vilain-Petit-Canard/API-Films/internal/repository"
	"github.com/vilain-Petit-Canard/API-Films/internal/service"
)

type Deps struct {
	Store  repository.Store
	Cache  *cache.Cache
	Logger zerolog.Logger

	BcryptCost     int
	RequestTimeout time.Duration

	// RateLimiter is optional.
	RateLimiter *middleware.RateLimiter
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.Handler)
	}
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}

	// Registered before any Route call so sub-routers inherit them.
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.NotFound)

	r.Get("/health", handler.Health(d.Store))

	mount := func(pattern string, res handler.Resource) {
		svc := service.NewResourceService(d.Store, res.Collection, res.Validate, d.Cache, d.Logger)
		r.Route(pattern, handler.NewResourceHandler(res, svc).Routes)
	}
	mount("/api/films", handler.Films)
	mount("/donnees", handler.Donnees)

	authH := handler.NewAuthHandler(service.NewAuthService(d.Store, d.BcryptCost, d.Logger))
	r.Post("/utilisateurs/inscription", authH.Register)
	r.Post("/utilisateurs/connexion", authH.Login)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
