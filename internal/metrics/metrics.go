// Package metrics exposes the Prometheus collectors of the service on a
// dedicated registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eventgraph"

// Registry holds every eventgraph collector. It is served by Handler.
var Registry = prometheus.NewRegistry()

// Domain metrics
var (
	// EventsCreated counts events committed together with their owner link.
	EventsCreated = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_created_total",
			Help:      "Total number of events created",
		},
	)

	// UsersCreated counts registered users.
	UsersCreated = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "Total number of users created",
		},
	)

	// GraphQLOperations counts executed operations by name and outcome.
	GraphQLOperations = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_operations_total",
			Help:      "Total number of GraphQL operations executed",
		},
		[]string{"operation", "outcome"}, // operation: root field|other|invalid, outcome: ok|error
	)

	// WelcomeEmailFailures counts welcome mails that could not be delivered.
	WelcomeEmailFailures = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "welcome_email_failures_total",
			Help:      "Total number of welcome emails that failed to send",
		},
	)
)

// Init registers the Go runtime and process collectors.
func Init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// Handler serves Registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// ObserveOperation records the outcome of one GraphQL operation. Names outside
// the schema's root fields are recorded as "other".
func ObserveOperation(operation string, err error) {
	if operation != OperationInvalid {
		operation = operationLabel(operation)
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	GraphQLOperations.WithLabelValues(operation, outcome).Inc()
}
