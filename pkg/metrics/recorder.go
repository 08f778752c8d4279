// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"strconv"

	"github.com/AccelByte/extend-review-prompt/pkg/review"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "review_prompt"

// Prompt modes used as the "mode" label.
const (
	ModeEligible = "eligible"
	ModePreview  = "preview"
)

// Recorder counts engine outcomes in Prometheus counters. It implements
// review.Observer.
type Recorder struct {
	LaunchesTotal         *prometheus.CounterVec
	ForegroundEventsTotal *prometheus.CounterVec
	PromptsTotal          *prometheus.CounterVec
	RequestsSkippedTotal  prometheus.Counter
	ResetsTotal           prometheus.Counter
	StorageErrorsTotal    *prometheus.CounterVec
}

var _ review.Observer = (*Recorder)(nil)

// NewRecorder creates unregistered counters. Register them with Collectors.
func NewRecorder() *Recorder {
	return &Recorder{
		LaunchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "launches_total",
				Help:      "Total number of counted launches",
			},
			[]string{"source"},
		),
		ForegroundEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "foreground_events_total",
				Help:      "Total number of will-enter-foreground events handled",
			},
			[]string{"significant"},
		),
		PromptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "prompts_total",
				Help:      "Total number of review prompts shown",
			},
			[]string{"mode"},
		),
		RequestsSkippedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_skipped_total",
			Help:      "Total number of review requests skipped as not eligible",
		}),
		ResetsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Total number of rating epochs reset",
		}),
		StorageErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_errors_total",
				Help:      "Total number of failed review state storage operations",
			},
			[]string{"op"},
		),
	}
}

// Collectors returns every metric for registration.
func (r *Recorder) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		r.LaunchesTotal,
		r.ForegroundEventsTotal,
		r.PromptsTotal,
		r.RequestsSkippedTotal,
		r.ResetsTotal,
		r.StorageErrorsTotal,
	}
}

func (r *Recorder) LaunchCounted(source review.LaunchSource) {
	r.LaunchesTotal.WithLabelValues(string(source)).Inc()
}

func (r *Recorder) ForegroundHandled(significant bool) {
	r.ForegroundEventsTotal.WithLabelValues(strconv.FormatBool(significant)).Inc()
}

func (r *Recorder) PromptShown(preview bool) {
	mode := ModeEligible
	if preview {
		mode = ModePreview
	}
	r.PromptsTotal.WithLabelValues(mode).Inc()
}

func (r *Recorder) RequestSkipped() {
	r.RequestsSkippedTotal.Inc()
}

func (r *Recorder) CountersReset() {
	r.ResetsTotal.Inc()
}

func (r *Recorder) StorageFailed(op string) {
	r.StorageErrorsTotal.WithLabelValues(op).Inc()
}
