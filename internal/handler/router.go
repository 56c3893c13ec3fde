package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", h.cpfHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/account", h.CreateAccount)

	// everything below needs an existing account
	r.Group(func(r chi.Router) {
		r.Use(h.VerifyAccountCPF)

		r.Get("/account", h.GetAccount)
		r.Put("/account", h.UpdateAccount)
		r.Delete("/account", h.DeleteAccount)

		r.Get("/statement", h.GetStatement)
		r.Get("/statement/date", h.GetStatementByDate)
		r.Get("/balance", h.GetBalance)

		r.Post("/deposit", h.Deposit)
		r.Post("/withdraw", h.Withdraw)
	})

	return r
}
