package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/adityaverma/portfolio-backend/internal/config"
	"github.com/adityaverma/portfolio-backend/internal/handlers"
	"github.com/adityaverma/portfolio-backend/internal/middleware"
)

// SetupRoutes registers all API routes. Reads are public; writes go through
// the auth gate.
func SetupRoutes(r *chi.Mux, cfg *config.Config) {
	authGate := middleware.RequireAuth(cfg.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		// Auth
		r.Post("/auth/login", handlers.Login)

		// Skills
		r.Get("/skills", handlers.ListSkills)
		r.Get("/skills/{id}", handlers.GetSkill)
		r.With(authGate).Post("/skills", handlers.CreateSkill)
		r.With(authGate).Put("/skills/{id}", handlers.UpdateSkill)
		r.With(authGate).Delete("/skills/{id}", handlers.DeleteSkill)

		// Projects
		r.Get("/projects", handlers.ListProjects)
		r.Get("/projects/{id}", handlers.GetProject)
		r.With(authGate).Post("/projects", handlers.CreateProject)
		r.With(authGate).Put("/projects/{id}", handlers.UpdateProject)
		r.With(authGate).Delete("/projects/{id}", handlers.DeleteProject)

		// Certifications
		r.Get("/certifications", handlers.ListCertifications)
		r.Get("/certifications/{id}", handlers.GetCertification)
		r.With(authGate).Post("/certifications", handlers.CreateCertification)
		r.With(authGate).Put("/certifications/{id}", handlers.UpdateCertification)
		r.With(authGate).Delete("/certifications/{id}", handlers.DeleteCertification)

		// Experiences
		r.Get("/experiences", handlers.ListExperiences)
		r.Get("/experiences/{id}", handlers.GetExperience)
		r.With(authGate).Post("/experiences", handlers.CreateExperience)
		r.With(authGate).Put("/experiences/{id}", handlers.UpdateExperience)
		r.With(authGate).Delete("/experiences/{id}", handlers.DeleteExperience)

		// Education
		r.Get("/education", handlers.ListEducation)
		r.Get("/education/{id}", handlers.GetEducation)
		r.With(authGate).Post("/education", handlers.CreateEducation)
		r.With(authGate).Put("/education/{id}", handlers.UpdateEducation)
		r.With(authGate).Delete("/education/{id}", handlers.DeleteEducation)

		// Personal info (singleton)
		r.Get("/personal-info", handlers.GetPersonalInfo)
		r.With(authGate).Put("/personal-info", handlers.UpdatePersonalInfo)

		// Contact messages: submission is public, inbox is admin-only
		r.Post("/messages", handlers.SubmitMessage)
		r.With(authGate).Get("/messages", handlers.ListMessages)
		r.With(authGate).Get("/messages/{id}", handlers.GetMessage)
		r.With(authGate).Put("/messages/{id}/read", handlers.MarkMessageRead)
		r.With(authGate).Delete("/messages/{id}", handlers.DeleteMessage)
	})
}
