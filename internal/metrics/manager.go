package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Form trigger outcomes
const (
	OutcomeCreated  = "created"
	OutcomeExisting = "existing"
	OutcomeFailed   = "failed"
)

type Manager struct {
	// counters
	CounterDayMarks      *prometheus.CounterVec
	CounterExerciseMarks *prometheus.CounterVec
	CounterFormTriggers  *prometheus.CounterVec
	CounterContinuations prometheus.Counter
	CounterPlanExports   prometheus.Counter

	// histograms
	HistRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("planner", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("planner", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterDayMarks := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "day_marks_total",
		Help:      "The total number of day completion marks",
	}, []string{"completed"})
	counterExerciseMarks := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "exercise_marks_total",
		Help:      "The total number of exercise completion marks",
	}, []string{"completed"})
	counterFormTriggers := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "form_triggers_total",
		Help:      "Feedback form trigger attempts by outcome",
	}, []string{"outcome"})
	counterContinuations := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "continuations_total",
		Help:      "The total number of continuation plans created",
	})
	counterPlanExports := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plan_exports_total",
		Help:      "The total number of weekly plans exported to object storage",
	})

	histReqDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
		},
		[]string{"method", "route", "status"},
	)

	return &Manager{
		CounterDayMarks:      counterDayMarks,
		CounterExerciseMarks: counterExerciseMarks,
		CounterFormTriggers:  counterFormTriggers,
		CounterContinuations: counterContinuations,
		CounterPlanExports:   counterPlanExports,
		HistRequestDuration:  histReqDuration,
	}
}
