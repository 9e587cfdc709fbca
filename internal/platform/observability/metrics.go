package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric label values.
const (
	NoteStatusComplete  = "complete"
	NoteStatusTruncated = "truncated"

	ReferenceKindNote = "note"
	ReferenceKindUser = "user"
	ReferenceKindTag  = "tag"

	RequestStatusOK       = "200"
	RequestStatusBad      = "400"
	RequestStatusMethod   = "405"
	RequestStatusTooLarge = "413"
	RequestStatusLimited  = "429"
	RequestStatusError    = "500"
)

var (
	NotesRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parsed_note_notes_rendered_total",
		Help: "The total number of notes rendered",
	}, []string{"status"})

	SegmentsRendered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parsed_note_segments_rendered_total",
		Help: "The total number of rendered segments by category",
	}, []string{"category"})

	SegmentsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parsed_note_segments_skipped_total",
		Help: "Segments left out because the word budget ran out",
	})

	MalformedReferences = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parsed_note_malformed_references_total",
		Help: "References that could not be decoded or resolved to a tag",
	}, []string{"kind"})

	WordsConsumed = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "parsed_note_words_consumed",
		Help:    "Budget units consumed per rendered note",
		Buckets: []float64{5, 10, 25, 50, 100, 150, 250, 500, 1000},
	})

	RenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "parsed_note_render_duration_seconds",
		Help:    "Duration of one render pass",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})

	PreviewsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parsed_note_previews_extracted_total",
		Help: "Link previews built from supplied documents",
	}, []string{"source"})

	RenderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parsed_note_render_requests_total",
		Help: "Render API requests by HTTP status",
	}, []string{"status"})

	RenderRequestLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "parsed_note_render_request_latency_seconds",
		Help:    "Latency of render API requests",
		Buckets: prometheus.DefBuckets,
	})
)
