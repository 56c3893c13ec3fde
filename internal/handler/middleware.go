package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/cpf-bank-ledger/internal/metrics"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/models"
)

type contextKey string

const ContextAccount contextKey = "account"

// AccountFromContext returns the account resolved by VerifyAccountCPF.
func AccountFromContext(ctx context.Context) (models.Account, bool) {
	account, ok := ctx.Value(ContextAccount).(models.Account)
	return account, ok
}

// VerifyAccountCPF resolves the CPF header to an account and stores it in the
// request context. Unknown or missing CPFs get a 404.
func (h *Handler) VerifyAccountCPF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cpf := r.Header.Get(h.cpfHeader)

		account, err := h.bank.GetAccount(r.Context(), cpf)
		if err != nil {
			h.respondError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), ContextAccount, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())

		h.logger.Info("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", elapsed))
	})
}
