package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"dashbuilder/internal/domain"
)

func (s *SQLiteStore) CreateDashboard(ctx context.Context, spec domain.DashboardSpec) (domain.Dashboard, error) {
	now := s.clock.Now()

	dashboard := domain.Dashboard{
		ID:              domain.DashboardID(spec.Title, now),
		UID:             domain.DashboardUID(spec.Title),
		Title:           spec.Title,
		Description:     spec.Description,
		Tags:            spec.Tags,
		Panels:          []domain.Panel{},
		Variables:       []domain.Variable{},
		RefreshInterval: orDefault(spec.RefreshInterval, domain.DefaultRefreshInterval),
		TimeRange:       orDefault(spec.TimeRange, domain.DefaultTimeRange),
		CreatedAt:       now,
	}
	if dashboard.Tags == nil {
		dashboard.Tags = []string{}
	}

	tagsJSON, err := json.Marshal(dashboard.Tags)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("error serializing tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO dashboards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		dashboard.ID, dashboard.UID, dashboard.Title, dashboard.Description,
		string(tagsJSON), "[]", "[]",
		dashboard.RefreshInterval, dashboard.TimeRange,
		dashboard.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Dashboard{}, fmt.Errorf("dashboard %q: %w", spec.Title, domain.ErrDashboardExists)
		}
		return domain.Dashboard{}, fmt.Errorf("error inserting dashboard: %w", err)
	}
	return dashboard, nil
}

func (s *SQLiteStore) AddPanel(ctx context.Context, dashboardID string, spec domain.PanelSpec) (domain.Panel, error) {
	panel := domain.Panel{
		ID:         domain.PanelID(dashboardID, spec.Title),
		Title:      spec.Title,
		Type:       spec.Type,
		Datasource: orDefault(spec.Datasource, domain.DefaultDatasource),
		Query:      spec.Query,
		Options:    spec.Options,
		Position:   domain.DefaultPosition(),
	}
	if spec.Position != nil {
		panel.Position = *spec.Position
	}
	if panel.Options == nil {
		panel.Options = map[string]any{}
	}

	if err := s.appendToDashboard(ctx, dashboardID, "panels", panel); err != nil {
		return domain.Panel{}, err
	}
	return panel, nil
}

func (s *SQLiteStore) AddVariable(ctx context.Context, dashboardID string, spec domain.VariableSpec) (domain.Variable, error) {
	variable := domain.Variable{
		Name:  spec.Name,
		Type:  orDefault(spec.Type, string(domain.VariableQuery)),
		Query: spec.Query,
	}

	if err := s.appendToDashboard(ctx, dashboardID, "variables", variable); err != nil {
		return domain.Variable{}, err
	}
	return variable, nil
}

// appendToDashboard appends one item to a dashboard's embedded JSON list.
// The read-modify-write runs inside a single transaction so concurrent
// appends to the same dashboard cannot lose updates. column is one of the
// fixed internal column names, never caller input.
func (s *SQLiteStore) appendToDashboard(ctx context.Context, dashboardID, column string, item any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM dashboards WHERE id = ?", column),
		dashboardID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("dashboard %q: %w", dashboardID, domain.ErrDashboardNotFound)
	}
	if err != nil {
		return fmt.Errorf("error reading dashboard %s: %w", column, err)
	}

	var list []json.RawMessage
	if err = json.Unmarshal([]byte(raw), &list); err != nil {
		return fmt.Errorf("error deserializing %s: %w", column, err)
	}

	itemJSON, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("error serializing %s item: %w", column, err)
	}
	list = append(list, itemJSON)

	listJSON, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("error serializing %s: %w", column, err)
	}

	_, err = tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE dashboards SET %s = ? WHERE id = ?", column),
		string(listJSON), dashboardID)
	if err != nil {
		return fmt.Errorf("error updating %s: %w", column, err)
	}

	return tx.Commit()
}

// emptyDocument is returned by ExportDocument when the id has no row.
var emptyDocument = []byte("{}")

func (s *SQLiteStore) ExportDocument(ctx context.Context, dashboardID string) ([]byte, error) {
	var (
		doc           domain.DashboardDocument
		tagsJSON      string
		panelsJSON    string
		variablesJSON string
		timeRange     string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, uid, title, description, tags, panels, variables,
		        refresh_interval, time_range, created_at
		 FROM dashboards WHERE id = ?`, dashboardID).
		Scan(&doc.ID, &doc.UID, &doc.Title, &doc.Description,
			&tagsJSON, &panelsJSON, &variablesJSON,
			&doc.Refresh, &timeRange, &doc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return emptyDocument, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading dashboard: %w", err)
	}

	if err = json.Unmarshal([]byte(tagsJSON), &doc.Tags); err != nil {
		return nil, fmt.Errorf("error deserializing tags: %w", err)
	}
	if err = json.Unmarshal([]byte(panelsJSON), &doc.Panels); err != nil {
		return nil, fmt.Errorf("error deserializing panels: %w", err)
	}
	if err = json.Unmarshal([]byte(variablesJSON), &doc.Variables); err != nil {
		return nil, fmt.Errorf("error deserializing variables: %w", err)
	}

	doc.Time = domain.TimeSpec{From: "now-" + timeRange, To: "now"}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error serializing document: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) ImportDocument(ctx context.Context, raw []byte) (domain.Dashboard, error) {
	var doc domain.DashboardDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Dashboard{}, fmt.Errorf("error parsing document: %w", err)
	}

	if doc.Title == "" {
		// Both id and uid derive from the title, so untitled imports all
		// collide on one row.
		log.Println("Importing dashboard document with empty title.")
	}

	now := s.clock.Now()

	dashboard := domain.Dashboard{
		ID:              domain.ImportedDashboardID(doc.Title),
		Title:           doc.Title,
		Description:     doc.Description,
		Tags:            doc.Tags,
		Panels:          doc.Panels,
		Variables:       doc.Variables,
		RefreshInterval: orDefault(doc.Refresh, domain.DefaultRefreshInterval),
		TimeRange:       orDefault(strings.TrimPrefix(doc.Time.From, "now-"), domain.DefaultTimeRange),
		CreatedAt:       now,
	}
	dashboard.UID = orDefault(doc.UID, dashboard.ID)
	if dashboard.Tags == nil {
		dashboard.Tags = []string{}
	}
	if dashboard.Panels == nil {
		dashboard.Panels = []domain.Panel{}
	}
	if dashboard.Variables == nil {
		dashboard.Variables = []domain.Variable{}
	}

	tagsJSON, err := json.Marshal(dashboard.Tags)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("error serializing tags: %w", err)
	}
	panelsJSON, err := json.Marshal(dashboard.Panels)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("error serializing panels: %w", err)
	}
	variablesJSON, err := json.Marshal(dashboard.Variables)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("error serializing variables: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO dashboards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		dashboard.ID, dashboard.UID, dashboard.Title, dashboard.Description,
		string(tagsJSON), string(panelsJSON), string(variablesJSON),
		dashboard.RefreshInterval, dashboard.TimeRange,
		dashboard.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("error upserting dashboard: %w", err)
	}
	return dashboard, nil
}
