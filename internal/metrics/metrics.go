package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ContactsAttempted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "outreach",
		Name:      "contacts_attempted_total",
		Help:      "Total contacts the pipeline started working on.",
	})
	ContactsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "outreach",
		Name:      "contacts_skipped_total",
		Help:      "Total contacts skipped because no profile could be fetched.",
	})
	CompletionFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "outreach",
		Name:      "completion_failures_total",
		Help:      "Total completion requests that returned no text.",
	})
	ParseFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "outreach",
		Name:      "draft_parse_failures_total",
		Help:      "Total completion responses that yielded no drafts.",
	})
	RecordsEmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "outreach",
		Name:      "records_emitted_total",
		Help:      "Total enriched records handed to sinks.",
	})
	SinkFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "outreach",
		Name:      "sink_failures_total",
		Help:      "Total records a sink failed to persist.",
	})
)

var once sync.Once

// Init registers collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(ContactsAttempted, ContactsSkipped, CompletionFailures, ParseFailures, RecordsEmitted, SinkFailures)
	})
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
