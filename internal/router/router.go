package router

import (
	_ "embed"
	"net/http"

	"github.com/FACorreiaa/go-itinerary-planner/internal/api/auth"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api/bookmark"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api/location"
	"github.com/FACorreiaa/go-itinerary-planner/internal/api/user"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

//go:embed openapi.json
var openAPIDoc []byte

// Config carries the handlers and middleware the router wires together.
// Server-wide middleware (request ID, recoverer, logging) is applied in
// main.go before this router is mounted.
type Config struct {
	AuthHandler            *auth.HandlerImpl
	UserHandler            *user.HandlerImpl
	LocationHandler        *location.HandlerImpl
	BookmarkHandler        *bookmark.HandlerImpl
	ItineraryHandler       *itinerary.HandlerImpl
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter builds the full HTTP surface under /api/v1.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(openAPIDoc)
	})
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes, no token required.
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.RefreshSession)
		})

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Put("/auth/password", cfg.AuthHandler.UpdatePassword)

			r.Get("/users/me", cfg.UserHandler.GetProfile)
			r.Patch("/users/me", cfg.UserHandler.UpdateProfile)

			r.Get("/locations", cfg.LocationHandler.ListByCity)
			r.Post("/locations", cfg.LocationHandler.Create)
			r.Post("/locations/import", cfg.LocationHandler.Import)
			r.Get("/locations/cities", cfg.LocationHandler.ListCities)
			r.Get("/locations/{id}", cfg.LocationHandler.Get)

			r.Get("/bookmarks", cfg.BookmarkHandler.List)
			r.Post("/bookmarks", cfg.BookmarkHandler.Add)
			r.Delete("/bookmarks/{id}", cfg.BookmarkHandler.Remove)

			r.Post("/itineraries", cfg.ItineraryHandler.Generate)
			r.Get("/itineraries", cfg.ItineraryHandler.List)
			r.Get("/itineraries/{id}", cfg.ItineraryHandler.Get)
			r.Patch("/itineraries/{id}", cfg.ItineraryHandler.Update)
			r.Delete("/itineraries/{id}", cfg.ItineraryHandler.Delete)
			r.Get("/itineraries/{id}/map_data", cfg.ItineraryHandler.MapData)
			r.Get("/itineraries/{id}/daily_routes", cfg.ItineraryHandler.DailyRoutes)
		})
	})

	return r
}
