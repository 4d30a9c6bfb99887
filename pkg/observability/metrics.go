package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal       = "autopatt.import.files.total"
	metricParseDuration    = "autopatt.import.parse.duration.seconds"
	metricComparisonsTotal = "autopatt.compare.cells.total"
	metricMismatchesTotal  = "autopatt.compare.mismatches.total"

	attrOutcome = "outcome"
	attrField   = "field"
)

// Import outcomes.
const (
	OutcomeParsed  = "parsed"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// parseBucketBoundaries spans sub-millisecond parses of small reports up to
// multi-second reads from slow network shares.
var parseBucketBoundaries = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// ImportMetrics holds the instruments for batch import and comparison.
// A nil *ImportMetrics is valid and records nothing.
type ImportMetrics struct {
	filesTotal       metric.Int64Counter
	parseDuration    metric.Float64Histogram
	comparisonsTotal metric.Int64Counter
	mismatchesTotal  metric.Int64Counter
}

// NewImportMetrics creates the instruments from mt.
func NewImportMetrics(mt metric.Meter) (*ImportMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Report files seen by import, by outcome"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	parseDur, err := mt.Float64Histogram(metricParseDuration,
		metric.WithDescription("Per-file read and parse duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(parseBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricParseDuration, err)
	}

	cells, err := mt.Int64Counter(metricComparisonsTotal,
		metric.WithDescription("Compared record fields"),
		metric.WithUnit("{cell}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricComparisonsTotal, err)
	}

	mismatches, err := mt.Int64Counter(metricMismatchesTotal,
		metric.WithDescription("Compared record fields with unique elements on either side"),
		metric.WithUnit("{cell}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricMismatchesTotal, err)
	}

	return &ImportMetrics{
		filesTotal:       files,
		parseDuration:    parseDur,
		comparisonsTotal: cells,
		mismatchesTotal:  mismatches,
	}, nil
}

// RecordFile records one import outcome. Durations are only recorded for
// files that were read.
func (m *ImportMetrics) RecordFile(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrOutcome, outcome))
	m.filesTotal.Add(ctx, 1, attrs)

	if outcome != OutcomeSkipped {
		m.parseDuration.Record(ctx, d.Seconds(), attrs)
	}
}

// RecordComparison records the cell and mismatch counts of one field.
func (m *ImportMetrics) RecordComparison(ctx context.Context, field string, cells, mismatches int) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrField, field))
	m.comparisonsTotal.Add(ctx, int64(cells), attrs)
	m.mismatchesTotal.Add(ctx, int64(mismatches), attrs)
}
