package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"institute-app-go/internal/config"
	"institute-app-go/internal/transport/httpserver/handler"
	authmw "institute-app-go/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSAllowedOrigins, cfg.Auth.ActorHeader, cfg.Auth.RoleHeader))

	managers := authmw.RequireRole(authmw.RoleSuperAdmin, authmw.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		auth := authmw.NewActorAuth(cfg.Auth)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/me", handlers.Common.Me)

			r.Get("/fees/{class}", handlers.Billing.ResolveFee)
			r.Get("/fee-structures", handlers.Billing.ListStructures)
			r.With(managers).Post("/fee-structures", handlers.Billing.CreateStructure)
			r.With(managers).Delete("/fee-structures/{id}", handlers.Billing.DeactivateStructure)
			r.Get("/billing/joining-fee", handlers.Billing.JoiningFee)

			r.Post("/admissions", handlers.Enrollment.Admit)
			r.Get("/students/{id}", handlers.Enrollment.GetStudent)
			r.Post("/students/{id}/deactivate", handlers.Enrollment.DeactivateStudent)
			r.Get("/students/{id}/enrollments", handlers.Enrollment.ListStudentEnrollments)

			r.Get("/families", handlers.Ledger.ListFamilies)
			r.Get("/families/lookup", handlers.Ledger.LookupFamily)
			r.Get("/families/{id}", handlers.Ledger.GetFamily)
			r.Patch("/families/{id}", handlers.Ledger.UpdateFamily)
			r.With(managers).Post("/families/{id}/deactivate", handlers.Ledger.DeactivateFamily)
			r.Get("/families/{id}/students", handlers.Ledger.ListFamilyStudents)
			r.Get("/families/{id}/total-due", handlers.Ledger.TotalDue)
			r.Get("/families/{id}/reconcile", handlers.Ledger.Reconcile)

			r.Get("/transactions", handlers.Ledger.ListTransactions)
			r.With(managers).Post("/transactions", handlers.Ledger.RecordTransaction)
			r.Get("/transactions/{id}", handlers.Ledger.GetTransaction)
			r.Post("/transactions/{id}/void", handlers.Ledger.VoidTransaction)
			r.Post("/payments", handlers.Ledger.CollectPayment)

			r.Get("/batches", handlers.Enrollment.ListBatches)
			r.Get("/batches/{id}", handlers.Enrollment.GetBatch)
			r.With(managers).Post("/batches", handlers.Enrollment.CreateBatch)
			r.With(managers).Patch("/batches/{id}", handlers.Enrollment.UpdateBatch)
			r.With(managers).Delete("/batches/{id}", handlers.Enrollment.DeleteBatch)
			r.Post("/batches/{id}/enrollments", handlers.Enrollment.Enroll)
			r.Delete("/batches/{id}/enrollments/{student_id}", handlers.Enrollment.Unenroll)

			r.Post("/schedules/check", handlers.Enrollment.CheckSchedule)
		})
	})

	return r
}
