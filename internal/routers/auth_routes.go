package routers

import (
	"mockmate/internal/handlers"
	"mockmate/internal/middleware"
	"mockmate/internal/models"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(router *chi.Mux, authHandler *handlers.AuthHandler, auth *middleware.Auth) {
	router.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.RegisterRequest]()).Post("/register", authHandler.RegisterHandler)
		r.With(middleware.ValidateRequest[*models.LoginRequest]()).Post("/login", authHandler.LoginHandler)
		r.Post("/logout", authHandler.LogoutHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAPI)
			r.With(middleware.ValidateRequest[*models.ProfileUpdateRequest]()).Patch("/profile", authHandler.UpdateProfileHandler)
			r.Delete("/profile", authHandler.DeleteProfileHandler)
		})
	})
}
