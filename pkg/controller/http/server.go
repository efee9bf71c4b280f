package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/hra/pkg/service/metrics"
	"github.com/secmon-lab/hra/pkg/usecase"
	"github.com/secmon-lab/hra/pkg/utils/logging"
)

type Server struct {
	router       *chi.Mux
	uc           *usecase.UseCases
	metrics      *metrics.Metrics
	gatherer     prometheus.Gatherer
	auditOnWrite bool
}

type Options func(*Server)

// WithMetrics records request durations and serves /metrics from the gatherer
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) Options {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithAuditOnWrite rescans stored records in the background after every HRA write
func WithAuditOnWrite(enabled bool) Options {
	return func(s *Server) {
		s.auditOnWrite = enabled
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.metricsMiddleware)

	r.Get("/health", healthHandler)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(uc.Auth))

		r.Get("/risk-matrix", s.riskMatrixHandler)
		r.Post("/risk/evaluate", s.evaluateHandler)

		r.Route("/reference", func(r chi.Router) {
			r.Get("/", s.listAllReferencesHandler)
			r.Get("/{kind}", s.listReferencesHandler)
			r.Post("/{kind}", s.createReferenceHandler)
			r.Put("/{kind}/{id}", s.updateReferenceHandler)
			r.Delete("/{kind}/{id}", s.deleteReferenceHandler)
			r.Post("/health_risk/{id}/animation", s.uploadAnimationHandler)
		})

		r.Route("/hra", func(r chi.Router) {
			r.Get("/", s.listHRAHandler)
			r.Post("/", s.createHRAHandler)
			r.Get("/groups", s.hraGroupsHandler)
			r.Get("/groups/{subProcessID}/activities", s.hraActivityGroupsHandler)
			r.Get("/{id}", s.getHRAHandler)
			r.Put("/{id}", s.updateHRAHandler)
			r.Delete("/{id}", s.deleteHRAHandler)
			r.Post("/{id}/photo/{kind}", s.uploadHRAPhotoHandler)
		})

		r.Route("/survey", func(r chi.Router) {
			r.Post("/", s.submitSurveyHandler)
			r.Get("/today", s.surveyTodayHandler)
			r.Get("/personal", s.personalHRAHandler)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.listAccountsHandler)
			r.Post("/", s.createAccountHandler)
			r.Get("/{id}", s.getAccountHandler)
			r.Put("/{id}", s.updateAccountHandler)
			r.Delete("/{id}", s.deleteAccountHandler)
			r.Post("/{id}/photo", s.uploadAccountPhotoHandler)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// metricsMiddleware observes request latency labelled by the matched route pattern
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.RecordHTTPRequest(r.Method, route, status, time.Since(start))
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}
