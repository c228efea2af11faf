package observability

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine counters.
type Metrics struct {
	Answers          *prometheus.CounterVec
	QuestionsShown   prometheus.Counter
	QuestionsHidden  prometheus.Counter
	Submissions      prometheus.Counter
	SubmittedAnswers prometheus.Histogram
	SessionsStarted  prometheus.Counter
}

// NewMetrics creates the engine metrics and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "answers_total",
			Help:      "Answers recorded, by whether they changed the stored value.",
		}, []string{"changed"}),
		QuestionsShown: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "questions_shown_total",
			Help:      "Questions revealed by visibility changes.",
		}),
		QuestionsHidden: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "questions_hidden_total",
			Help:      "Questions hidden by visibility changes.",
		}),
		Submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "submissions_total",
			Help:      "Questionnaires submitted.",
		}),
		SubmittedAnswers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "intake",
			Name:      "submitted_answers",
			Help:      "Number of answers in submitted payloads.",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		}),
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "sessions_started_total",
			Help:      "Sessions started.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Answers, m.QuestionsShown, m.QuestionsHidden, m.Submissions, m.SubmittedAnswers, m.SessionsStarted)
	}
	return m
}

// Hooks returns lifecycle hooks feeding the metrics.
// The initial visibility event of a session counts as a session start.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAnswer: func(_ context.Context, e *domain.AnswerEvent) {
			changed := "false"
			if e.Changed {
				changed = "true"
			}
			m.Answers.WithLabelValues(changed).Inc()
		},
		OnVisibilityChange: func(_ context.Context, e *domain.VisibilityEvent) {
			if e.Initial {
				m.SessionsStarted.Inc()
				return
			}
			m.QuestionsShown.Add(float64(len(e.Shown)))
			m.QuestionsHidden.Add(float64(len(e.Hidden)))
		},
		OnSubmit: func(_ context.Context, e *domain.SubmitEvent) {
			m.Submissions.Inc()
			m.SubmittedAnswers.Observe(float64(e.AnswerCount))
		},
	}
}
