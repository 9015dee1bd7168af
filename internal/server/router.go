package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pharmacy-dashboard/internal/logger"
)

// RouterOptions configures the middleware stack
type RouterOptions struct {
	// Logger receives request and panic logs; nil discards them
	Logger *logger.Logger
	// Production enables HTTPS-only security headers
	Production bool
	// LoginPerMinute limits login attempts per client IP; zero disables it
	LoginPerMinute int
}

// NewRouter creates the chi router with the middleware stack and routes
func NewRouter(hw *HandlerWrappers, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	var loginLimit Middleware
	if opts.LoginPerMinute > 0 {
		loginLimit = LoginRateLimit(opts.LoginPerMinute)
	}
	hw.RegisterChiRoutes(r, loginLimit)

	return Chain(
		r,
		middleware.RequestID,
		middleware.RealIP,
		LoggingMiddleware(log),
		RecoveryMiddleware(log),
		SecurityMiddleware(log.Logger, opts.Production),
	)
}
