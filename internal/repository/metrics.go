package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"dashbuilder/internal/domain"
)

func (s *SQLiteStore) Push(ctx context.Context, name string, value float64, labels map[string]string) (domain.Metric, error) {
	now := s.clock.Now()

	metric := domain.Metric{
		Name:      name,
		Labels:    labels,
		Value:     value,
		Timestamp: now,
	}
	if metric.Labels == nil {
		metric.Labels = map[string]string{}
	}

	stmt, err := s.db.PrepareContext(ctx,
		`INSERT OR IGNORE INTO metrics(name, labels, value, timestamp, created_at)
		 VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return domain.Metric{}, fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	// First write for a (name, labels, timestamp) key wins; duplicates are
	// dropped, never merged.
	_, err = stmt.ExecContext(ctx, name, domain.CanonicalLabels(labels), value,
		now.UnixNano(), now.Format(time.RFC3339Nano))
	if err != nil {
		return domain.Metric{}, fmt.Errorf("error inserting metric: %w", err)
	}
	return metric, nil
}

func (s *SQLiteStore) QueryRange(ctx context.Context, name string, labels map[string]string, from, to *time.Time) ([]domain.Point, error) {
	query := "SELECT timestamp, value FROM metrics WHERE name = ? AND labels = ?"
	args := []interface{}{name, domain.CanonicalLabels(labels)}

	if from != nil {
		query += " AND timestamp >= ?"
		args = append(args, from.UnixNano())
	}
	if to != nil {
		query += " AND timestamp <= ?"
		args = append(args, to.UnixNano())
	}
	query += " ORDER BY timestamp ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying metrics: %w", err)
	}
	defer rows.Close()

	var points []domain.Point
	for rows.Next() {
		var ts int64
		var value float64
		if err := rows.Scan(&ts, &value); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		points = append(points, domain.Point{Timestamp: time.Unix(0, ts), Value: value})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return points, nil
}

func (s *SQLiteStore) LatestValue(ctx context.Context, name string, labels map[string]string) (float64, error) {
	var value float64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM metrics WHERE name = ? AND labels = ?
		 ORDER BY timestamp DESC LIMIT 1`,
		name, domain.CanonicalLabels(labels)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("metric %q: %w", name, domain.ErrNoData)
	}
	if err != nil {
		return 0, fmt.Errorf("error querying latest value: %w", err)
	}
	return value, nil
}

// ComputeStats summarizes all samples from the given start (or the whole
// series when from is nil) to the latest, then writes the result through to
// the metric_stats table.
func (s *SQLiteStore) ComputeStats(ctx context.Context, name string, labels map[string]string, from *time.Time) (domain.MetricStats, error) {
	points, err := s.QueryRange(ctx, name, labels, from, nil)
	if err != nil {
		return domain.MetricStats{}, err
	}
	if len(points) == 0 {
		return domain.MetricStats{}, fmt.Errorf("metric %q: %w", name, domain.ErrNoData)
	}

	values := make([]float64, len(points))
	sum := 0.0
	for i, p := range points {
		values[i] = p.Value
		sum += p.Value
	}
	sort.Float64s(values)

	// Nearest-rank p95: index floor(0.95 * n) on the sorted values, clamped
	// to the last index.
	p95Idx := int(0.95 * float64(len(values)))
	if p95Idx >= len(values) {
		p95Idx = len(values) - 1
	}

	stats := domain.MetricStats{
		Name:        name,
		Labels:      labels,
		Min:         values[0],
		Max:         values[len(values)-1],
		Avg:         sum / float64(len(values)),
		P95:         values[p95Idx],
		Count:       len(values),
		LastUpdated: s.clock.Now(),
	}
	if stats.Labels == nil {
		stats.Labels = map[string]string{}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO metric_stats
		 (name, labels, min_value, max_value, avg_value, p95_value, count, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		name, domain.CanonicalLabels(labels),
		stats.Min, stats.Max, stats.Avg, stats.P95, stats.Count,
		stats.LastUpdated.Format(time.RFC3339Nano))
	if err != nil {
		return domain.MetricStats{}, fmt.Errorf("error materializing stats: %w", err)
	}

	return stats, nil
}
