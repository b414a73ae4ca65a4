package routers

import (
	"mockmate/internal/handlers"
	"mockmate/internal/middleware"
	"mockmate/internal/models"
	"mockmate/internal/session"

	"github.com/go-chi/chi/v5"
)

func InterviewRoutes(
	router *chi.Mux,
	interviewHandler *handlers.InterviewHandler,
	transcribeHandler *handlers.TranscribeHandler,
	liveHandler *session.LiveHandler,
	auth *middleware.Auth,
) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.Use(auth.RequireAPI)

		r.With(middleware.ValidateRequest[*models.GenerateRequest]()).Post("/generate", interviewHandler.GenerateHandler)
		r.Post("/generate-from-resume", interviewHandler.GenerateFromResumeHandler)
		r.With(middleware.ValidateRequest[*models.AnswerRequest]()).Post("/answer", interviewHandler.AnswerHandler)
		r.With(middleware.ValidateRequest[*models.AnalyzeRequest]()).Post("/analyze", interviewHandler.AnalyzeHandler)
		r.Post("/transcribe", transcribeHandler.TranscribeHandler)
		r.Get("/dashboard", interviewHandler.DashboardHandler)
		r.Get("/{id}", interviewHandler.GetHandler)
		r.Get("/{id}/live", liveHandler.ServeLive)
	})
}
