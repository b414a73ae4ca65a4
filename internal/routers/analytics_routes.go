package routers

import (
	"mockmate/internal/handlers"
	"mockmate/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func AnalyticsRoutes(router *chi.Mux, analyticsHandler *handlers.AnalyticsHandler, auth *middleware.Auth) {
	router.Route("/api/v1/analytics", func(r chi.Router) {
		r.Use(auth.RequireAPI)
		r.Get("/summary", analyticsHandler.SummaryHandler)
	})
}
