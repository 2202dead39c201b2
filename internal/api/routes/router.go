package routes

import (
	"net/http"

	"github.com/zatekoja/hospitaladmin/internal/api/handlers"
	"github.com/zatekoja/hospitaladmin/internal/api/middleware"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
)

// Handlers groups the route handlers served by the API
type Handlers struct {
	Auth      *handlers.AuthHandler
	Directory *handlers.DirectoryHandler
	Booking   *handlers.BookingHandler
	Scheduler *handlers.SchedulerHandler
	Symptom   *handlers.SymptomHandler
	Feedback  *handlers.FeedbackHandler
	Dashboard *handlers.DashboardHandler
	SSE       *handlers.SSEHandler
}

// Router holds all route handlers
type Router struct {
	mux            *http.ServeMux
	handlers       Handlers
	sessions       middleware.Authenticator
	loginLimiter   *middleware.IPRateLimiter
	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router. loginLimiter may be nil to leave login
// unthrottled.
func NewRouter(
	h Handlers,
	sessions middleware.Authenticator,
	loginLimiter *middleware.IPRateLimiter,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		handlers:       h,
		sessions:       sessions,
		loginLimiter:   loginLimiter,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	auth := middleware.RequireAuth
	admin := middleware.RequireAdmin

	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Auth endpoints
	login := r.handlers.Auth.Login
	if r.loginLimiter != nil {
		login = r.loginLimiter.Middleware(login)
	}
	r.mux.HandleFunc("POST /api/auth/login", login)
	r.mux.HandleFunc("POST /api/auth/logout", r.handlers.Auth.Logout)
	r.mux.HandleFunc("GET /api/auth/session", r.handlers.Auth.Session)

	// Directory endpoints
	r.mux.HandleFunc("GET /api/doctors", auth(r.handlers.Directory.ListDoctors))
	r.mux.HandleFunc("POST /api/doctors", admin(r.handlers.Directory.AddDoctor))
	r.mux.HandleFunc("DELETE /api/doctors/{id}", admin(r.handlers.Directory.DeleteDoctor))
	r.mux.HandleFunc("GET /api/patients", auth(r.handlers.Directory.ListPatients))
	r.mux.HandleFunc("POST /api/patients", admin(r.handlers.Directory.AddPatient))
	r.mux.HandleFunc("DELETE /api/patients/{id}", admin(r.handlers.Directory.DeletePatient))
	r.mux.HandleFunc("GET /api/appointments/board", auth(r.handlers.Directory.ListBoard))

	// Booking endpoints
	r.mux.HandleFunc("GET /api/bookings", auth(r.handlers.Booking.ListBookings))
	r.mux.HandleFunc("POST /api/bookings", auth(r.handlers.Booking.CreateBooking))
	r.mux.HandleFunc("DELETE /api/bookings/{id}", auth(r.handlers.Booking.CancelBooking))

	// Scheduler endpoints
	r.mux.HandleFunc("PUT /api/scheduler/prefill", auth(r.handlers.Scheduler.SetPrefill))
	r.mux.HandleFunc("GET /api/scheduler/prefill", auth(r.handlers.Scheduler.TakePrefill))
	r.mux.HandleFunc("POST /api/scheduler/suggestions", auth(r.handlers.Scheduler.Suggest))
	r.mux.HandleFunc("POST /api/scheduler/confirm", auth(r.handlers.Scheduler.Confirm))
	r.mux.HandleFunc("GET /api/scheduler/status", auth(r.handlers.Scheduler.Status))

	// Symptom checker endpoints
	r.mux.HandleFunc("POST /api/symptoms/check", auth(r.handlers.Symptom.Check))
	r.mux.HandleFunc("GET /api/symptoms/status", auth(r.handlers.Symptom.Status))

	// Feedback endpoints
	r.mux.HandleFunc("POST /api/feedback", auth(r.handlers.Feedback.SubmitFeedback))
	r.mux.HandleFunc("GET /api/feedback/status", auth(r.handlers.Feedback.Status))

	// Dashboard endpoints
	r.mux.HandleFunc("GET /api/dashboard/stats", auth(r.handlers.Dashboard.Stats))
	r.mux.HandleFunc("GET /api/dashboard/charts/{chart}", auth(r.handlers.Dashboard.Chart))

	// Store change stream
	if r.handlers.SSE != nil {
		r.mux.HandleFunc("GET /api/stream/{store}", auth(r.handlers.SSE.StreamStore))
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Nothing between observability and the mux may copy the request, or
	// the matched pattern is lost. The session middleware copies it.
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.SessionMiddleware(r.sessions)(handler)

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so preflight requests never reach the mux
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
