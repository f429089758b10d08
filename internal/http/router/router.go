package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/accountd/accountd/internal/health"
	"github.com/accountd/accountd/internal/http/handler"
	"github.com/accountd/accountd/internal/http/middleware"
	"github.com/accountd/accountd/internal/http/response"
	"github.com/accountd/accountd/internal/security"
)

type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	JWTManager     *security.JWTManager
	CORSOrigins    []string
	Idempotency    IdempotencyMiddlewareFactory
	Readiness      *health.ProbeRunner
	EnableOTelHTTP bool
}

type IdempotencyMiddlewareFactory func(scope string) func(http.Handler) http.Handler

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.ResultSlot)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.JSON(w, r, http.StatusServiceUnavailable, map[string]any{"status": "unready", "checks": results})
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		registerChain := []func(http.Handler) http.Handler{}
		if dep.Idempotency != nil {
			registerChain = append(registerChain, dep.Idempotency("auth.register"))
		}
		r.With(registerChain...).Post("/register", dep.AuthHandler.Register)
		r.Post("/login", dep.AuthHandler.Login)
		r.Post("/logout", dep.AuthHandler.Logout)

		forgotChain := []func(http.Handler) http.Handler{}
		if dep.Idempotency != nil {
			forgotChain = append(forgotChain, dep.Idempotency("auth.send_reset_otp"))
		}
		r.With(forgotChain...).Post("/send-reset-otp", dep.AuthHandler.SendResetOTP)
		r.Post("/reset-password", dep.AuthHandler.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(dep.JWTManager))
			r.Post("/send-verify-otp", dep.AuthHandler.SendVerifyOTP)
			r.Post("/verify-email", dep.AuthHandler.VerifyEmail)
			r.Get("/is-authenticated", dep.AuthHandler.IsAuthenticated)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
