package blog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts workflow events. A nil *Metrics records nothing.
type Metrics struct {
	postsCreated prometheus.Counter
	likes        *prometheus.CounterVec
	comments     prometheus.Counter
	signups      prometheus.Counter
}

// NewMetrics registers the workflow counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		postsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "pubhouse_posts_created_total",
			Help: "Total number of posts created",
		}),
		likes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pubhouse_likes_total",
			Help: "Total like attempts by outcome",
		}, []string{"outcome"}),
		comments: f.NewCounter(prometheus.CounterOpts{
			Name: "pubhouse_comments_total",
			Help: "Total number of comments added",
		}),
		signups: f.NewCounter(prometheus.CounterOpts{
			Name: "pubhouse_signups_total",
			Help: "Total number of accounts created",
		}),
	}
}

func (m *Metrics) postCreated() {
	if m != nil {
		m.postsCreated.Inc()
	}
}

func (m *Metrics) liked(outcome LikeOutcome) {
	if m != nil {
		m.likes.WithLabelValues(outcome.String()).Inc()
	}
}

func (m *Metrics) commented() {
	if m != nil {
		m.comments.Inc()
	}
}

func (m *Metrics) signedUp() {
	if m != nil {
		m.signups.Inc()
	}
}
