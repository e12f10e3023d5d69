package server

import (
	"net/http"
	"sort"
	"strings"

	"github.com/golang/glog"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// KeyPath tags requests with the URL path they were served on
var KeyPath = tag.MustNewKey("path")

var requestCount = stats.Int64("pathtracer/http_requests", "Requests handled", stats.UnitDimensionless)

// RequestCountView counts handled requests by path
var RequestCountView = &view.View{
	Name:        "pathtracer/http_requests",
	Description: "Counter of requests that have been handled",
	TagKeys:     []tag.Key{KeyPath},
	Measure:     requestCount,
	Aggregation: view.Count(),
}

// RegisterViews registers the HTTP and renderer views
func RegisterViews() error {
	if err := view.Register(RequestCountView); err != nil {
		return err
	}
	return renderer.RegisterViews()
}

// MetricsWrapper counts every request served by inner
type MetricsWrapper struct {
	inner http.Handler
}

// NewMetricsWrapper wraps inner with request counting
func NewMetricsWrapper(inner http.Handler) *MetricsWrapper {
	return &MetricsWrapper{inner: inner}
}

func (h *MetricsWrapper) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.inner.ServeHTTP(w, r)

	glog.V(1).Infof("Served path=%q useragent=%q", r.URL.Path, strings.Join(r.Header["User-Agent"], "|"))

	stats.RecordWithOptions(
		r.Context(),
		stats.WithTags(tag.Insert(KeyPath, r.URL.Path)),
		stats.WithMeasurements(requestCount.M(1)))
}

// MetricRow is one aggregated view row
type MetricRow struct {
	View  string            `json:"view"`
	Tags  map[string]string `json:"tags"`
	Value float64           `json:"value"`           // Count, sum, or distribution mean
	Count int64             `json:"count,omitempty"` // Distribution sample count
}

// handleMetrics reports the current value of every registered view
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	views := []*view.View{
		RequestCountView,
		renderer.RowsRenderedView,
		renderer.SamplesTracedView,
		renderer.RenderLatencyView,
	}

	rows := []MetricRow{}
	for _, v := range views {
		data, err := view.RetrieveData(v.Name)
		if err != nil {
			// Not registered
			continue
		}
		for _, row := range data {
			rows = append(rows, newMetricRow(v.Name, row))
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].View != rows[j].View {
			return rows[i].View < rows[j].View
		}
		return tagString(rows[i].Tags) < tagString(rows[j].Tags)
	})

	writeJSON(w, http.StatusOK, rows)
}

func newMetricRow(name string, row *view.Row) MetricRow {
	metric := MetricRow{View: name, Tags: make(map[string]string, len(row.Tags))}
	for _, t := range row.Tags {
		metric.Tags[t.Key.Name()] = t.Value
	}

	switch data := row.Data.(type) {
	case *view.CountData:
		metric.Value = float64(data.Value)
	case *view.SumData:
		metric.Value = data.Value
	case *view.DistributionData:
		metric.Value = data.Mean
		metric.Count = data.Count
	case *view.LastValueData:
		metric.Value = data.Value
	}
	return metric
}

func tagString(tags map[string]string) string {
	parts := make([]string, 0, len(tags))
	for k, v := range tags {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
