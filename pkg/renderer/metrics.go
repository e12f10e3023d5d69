package renderer

import (
	"context"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// KeyMode distinguishes single-frame renders from progressive passes
var KeyMode = tag.MustNewKey("mode")

const (
	modeFrame       = "frame"
	modeProgressive = "progressive"
)

var (
	rowsRendered  = stats.Int64("pathtracer/rows_rendered", "Image rows completed", stats.UnitDimensionless)
	samplesTraced = stats.Int64("pathtracer/samples_traced", "Camera ray samples traced", stats.UnitDimensionless)
	renderLatency = stats.Float64("pathtracer/render_latency", "Wall time of a frame or pass", stats.UnitMilliseconds)
)

var (
	// RowsRenderedView sums completed rows
	RowsRenderedView = &view.View{
		Name:        "pathtracer/rows_rendered",
		Description: "Total image rows completed",
		TagKeys:     []tag.Key{KeyMode},
		Measure:     rowsRendered,
		Aggregation: view.Sum(),
	}

	// SamplesTracedView sums camera samples
	SamplesTracedView = &view.View{
		Name:        "pathtracer/samples_traced",
		Description: "Total camera ray samples traced",
		TagKeys:     []tag.Key{KeyMode},
		Measure:     samplesTraced,
		Aggregation: view.Sum(),
	}

	// RenderLatencyView is the distribution of frame and pass times
	RenderLatencyView = &view.View{
		Name:        "pathtracer/render_latency",
		Description: "Distribution of frame and pass wall times",
		TagKeys:     []tag.Key{KeyMode},
		Measure:     renderLatency,
		Aggregation: view.Distribution(10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000),
	}
)

// RegisterViews registers the renderer's views with the opencensus exporter pipeline
func RegisterViews() error {
	return view.Register(RowsRenderedView, SamplesTracedView, RenderLatencyView)
}

func recordRow(ctx context.Context, mode string, samples int) {
	stats.RecordWithOptions(ctx,
		stats.WithTags(tag.Insert(KeyMode, mode)),
		stats.WithMeasurements(rowsRendered.M(1), samplesTraced.M(int64(samples))))
}

func recordLatency(ctx context.Context, mode string, elapsed time.Duration) {
	stats.RecordWithOptions(ctx,
		stats.WithTags(tag.Insert(KeyMode, mode)),
		stats.WithMeasurements(renderLatency.M(float64(elapsed)/float64(time.Millisecond))))
}
