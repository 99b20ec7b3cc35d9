package domain

import "time"

type PanelType string

const (
	PanelTimeSeries PanelType = "timeseries"
	PanelGauge      PanelType = "gauge"
	PanelStat       PanelType = "stat"
	PanelBar        PanelType = "bar"
	PanelTable      PanelType = "table"
	PanelText       PanelType = "text"
	PanelHeatmap    PanelType = "heatmap"
)

type VariableType string

const (
	VariableQuery    VariableType = "query"
	VariableCustom   VariableType = "custom"
	VariableInterval VariableType = "interval"
)

const (
	DefaultDatasource      = "prometheus"
	DefaultRefreshInterval = "30s"
	DefaultTimeRange       = "1h"
)

// Position places a panel on the 24-unit dashboard grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func DefaultPosition() Position {
	return Position{X: 0, Y: 0, W: 12, H: 8}
}

// Panel is a single visualization unit. Query is opaque to the store and is
// never parsed or validated.
type Panel struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Type       string         `json:"type"`
	Datasource string         `json:"datasource"`
	Query      string         `json:"query"`
	Options    map[string]any `json:"options"`
	Position   Position       `json:"position"`
}

// Variable is a dashboard-scoped template parameter.
type Variable struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Query        string `json:"query"`
	CurrentValue string `json:"current_value"`
}

type Dashboard struct {
	ID              string     `json:"id"`
	UID             string     `json:"uid"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Tags            []string   `json:"tags"`
	Panels          []Panel    `json:"panels"`
	Variables       []Variable `json:"variables"`
	RefreshInterval string     `json:"refresh_interval"`
	TimeRange       string     `json:"time_range"`
	CreatedAt       time.Time  `json:"created_at"`
}

// DashboardSpec carries caller input to CreateDashboard. Zero-valued
// RefreshInterval and TimeRange fall back to the documented defaults.
type DashboardSpec struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	RefreshInterval string   `json:"refresh_interval"`
	TimeRange       string   `json:"time_range"`
}

type PanelSpec struct {
	Title      string         `json:"title"`
	Type       string         `json:"type"`
	Query      string         `json:"query"`
	Datasource string         `json:"datasource"`
	Position   *Position      `json:"position"`
	Options    map[string]any `json:"options"`
}

type VariableSpec struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Query string `json:"query"`
}

// TimeSpec is the relative time window of an exported document. From is
// "now-" plus the dashboard's time range and To is the literal "now";
// external consumers depend on the relative form, so it is never resolved
// to absolute timestamps.
type TimeSpec struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DashboardDocument is the Grafana-style export/import wire contract.
// CreatedAt is an ISO-8601 timestamp string.
type DashboardDocument struct {
	ID          string     `json:"id"`
	UID         string     `json:"uid"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Panels      []Panel    `json:"panels"`
	Variables   []Variable `json:"variables"`
	Refresh     string     `json:"refresh"`
	Time        TimeSpec   `json:"time"`
	CreatedAt   string     `json:"created_at"`
}
