package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder exposes application counters to Prometheus.
type PrometheusRecorder struct {
	usersRegistered       prometheus.Counter
	registrationsRejected prometheus.Counter
	booksCreated          prometheus.Counter
	booksUpdated          prometheus.Counter
	logins                *prometheus.CounterVec
	authRejected          prometheus.Counter
	reachChecks           *prometheus.CounterVec
}

// NewPrometheus creates a Recorder registered on the given registerer.
func NewPrometheus(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookery_users_registered_total",
			Help: "Total number of successfully registered users",
		}),
		registrationsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookery_registrations_rejected_total",
			Help: "Total number of registrations rejected by validation",
		}),
		booksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookery_books_created_total",
			Help: "Total number of books created",
		}),
		booksUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookery_books_updated_total",
			Help: "Total number of books updated",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookery_logins_total",
			Help: "Total number of login attempts by status",
		}, []string{"status"}),
		authRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookery_auth_rejected_total",
			Help: "Total number of requests rejected by the auth middleware",
		}),
		reachChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookery_reachability_checks_total",
			Help: "Total number of outbound reachability checks by status",
		}, []string{"status"}),
	}

	reg.MustRegister(
		r.usersRegistered,
		r.registrationsRejected,
		r.booksCreated,
		r.booksUpdated,
		r.logins,
		r.authRejected,
		r.reachChecks,
	)

	return r
}

// IncUserRegistered increments the registered users counter.
func (r *PrometheusRecorder) IncUserRegistered() {
	r.usersRegistered.Inc()
}

// IncRegistrationRejected increments the rejected registrations counter.
func (r *PrometheusRecorder) IncRegistrationRejected() {
	r.registrationsRejected.Inc()
}

// IncBookCreated increments the created books counter.
func (r *PrometheusRecorder) IncBookCreated() {
	r.booksCreated.Inc()
}

// IncBookUpdated increments the updated books counter.
func (r *PrometheusRecorder) IncBookUpdated() {
	r.booksUpdated.Inc()
}

// IncLogin increments the login counter for the given status.
func (r *PrometheusRecorder) IncLogin(status string) {
	r.logins.WithLabelValues(status).Inc()
}

// IncAuthRejected increments the rejected requests counter.
func (r *PrometheusRecorder) IncAuthRejected() {
	r.authRejected.Inc()
}

// IncReachCheck increments the reachability check counter.
func (r *PrometheusRecorder) IncReachCheck(status string) {
	r.reachChecks.WithLabelValues(status).Inc()
}
