package handlers

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oksasatya/go-ddd-user-registry/pkg/apperrors"
)

// UserMetrics counts use case outcomes by operation.
type UserMetrics struct {
	operations *prometheus.CounterVec
}

func NewUserMetrics(reg prometheus.Registerer, namespace string) *UserMetrics {
	m := &UserMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_operations_total",
			Help:      "User use case executions by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(m.operations)
	return m
}

func (m *UserMetrics) observe(op string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apperrors.Is(err, apperrors.ErrValidation):
		return "invalid"
	case apperrors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case apperrors.Is(err, apperrors.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
