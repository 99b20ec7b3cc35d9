package domain

import (
	"context"
	"time"
)

// DashboardStore persists dashboard definitions. Panels and variables are
// owned child collections of a dashboard; appends are serialized per
// dashboard by the implementation.
type DashboardStore interface {
	Init() error
	CreateDashboard(ctx context.Context, spec DashboardSpec) (Dashboard, error)
	AddPanel(ctx context.Context, dashboardID string, spec PanelSpec) (Panel, error)
	AddVariable(ctx context.Context, dashboardID string, spec VariableSpec) (Variable, error)
	// ExportDocument returns the serialized document for a dashboard, or the
	// empty-document sentinel "{}" when the id has no row.
	ExportDocument(ctx context.Context, dashboardID string) ([]byte, error)
	// ImportDocument upserts a dashboard from a serialized document.
	ImportDocument(ctx context.Context, doc []byte) (Dashboard, error)
	Close() error
}

// MetricStore persists labeled time-series samples. Samples are append-only;
// a duplicate (name, labels, timestamp) push is silently dropped.
type MetricStore interface {
	Init() error
	Push(ctx context.Context, name string, value float64, labels map[string]string) (Metric, error)
	// QueryRange returns samples ascending by timestamp. Nil bounds are open;
	// set bounds restrict to the closed interval.
	QueryRange(ctx context.Context, name string, labels map[string]string, from, to *time.Time) ([]Point, error)
	LatestValue(ctx context.Context, name string, labels map[string]string) (float64, error)
	ComputeStats(ctx context.Context, name string, labels map[string]string, from *time.Time) (MetricStats, error)
	Close() error
}
