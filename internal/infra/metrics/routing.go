package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(routeRequestsTotal) }

var routeRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "route_requests_total",
		Help: "Routed requests by task category and answering provider.",
	},
	[]string{"category", "source"}, // source: provider name or 'fallback'
)

func IncRouteRequest(category, source string) {
	routeRequestsTotal.WithLabelValues(norm(category), norm(source)).Inc()
}
