package domain

import (
	"encoding/json"
	"time"
)

// Metric is a single time-stamped, labeled sample.
type Metric struct {
	Name      string            `json:"name"`
	Labels    map[string]string `json:"labels"`
	Value     float64           `json:"value"`
	Timestamp time.Time         `json:"timestamp"`
}

// Point is one (timestamp, value) sample of a queried series.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// MetricStats is a summary over a queried range. P95 is nearest-rank on the
// ascending-sorted values, not interpolated.
type MetricStats struct {
	Name        string            `json:"name"`
	Labels      map[string]string `json:"labels"`
	Min         float64           `json:"min"`
	Max         float64           `json:"max"`
	Avg         float64           `json:"avg"`
	P95         float64           `json:"p95"`
	Count       int               `json:"count"`
	LastUpdated time.Time         `json:"last_updated"`
}

// CanonicalLabels serializes a label map with its keys in sorted order, so
// two maps holding the same pairs always produce identical bytes. The
// serialized form is part of the metric uniqueness key and of every lookup
// key. Nil and empty maps both serialize to "{}".
func CanonicalLabels(labels map[string]string) string {
	if labels == nil {
		labels = map[string]string{}
	}
	b, _ := json.Marshal(labels) // json.Marshal emits map keys sorted
	return string(b)
}
