package devserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edulibrary_devserver",
			Name:      "requests_total",
			Help:      "API requests by route pattern and status code.",
		}, []string{"route", "code"}),
	}
	m.registry.MustRegister(m.requests)
	return m
}

// observe logs every request and counts it by route pattern and status.
func observe(log logging.Logger, m *metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
			log.Debug(r.Context(), "request",
				"method", r.Method,
				"route", route,
				"status", status,
				"request_id", middleware.GetReqID(r.Context()),
				"duration", time.Since(start))
		})
	}
}

// NewRouter mounts every API endpoint plus /metrics.
func NewRouter(store *Store, sessions *Sessions, log logging.Logger) http.Handler {
	h := &handlers{store: store, sessions: sessions, log: log}
	m := newMetrics()

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		observe(log, m),
	)

	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/user-info", h.userInfo)
	r.Get("/files", h.listFiles)
	r.Get("/preview/{id}", h.preview)

	r.Group(func(r chi.Router) {
		r.Use(h.requireLogin)
		r.Post("/upload", h.upload)
		r.Get("/download/{id}", h.download)
		r.Delete("/delete/{id}", h.deleteFile)
		r.Post("/send-invite", h.sendInvite)
		r.Get("/support/tickets", h.listTickets)
		r.Post("/support/tickets", h.createTicket)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Get("/admin/users", h.listUsers)
		r.Post("/admin/users/{id}/toggle-status", h.toggleUser)
		r.Post("/admin/files/featured/{id}", h.toggleFeatured)
		r.Post("/admin/tickets/{id}/respond", h.respondTicket)
		r.Get("/analytics", h.analytics)
	})

	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	return r
}
