package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dashbuilder/internal/domain"
	"dashbuilder/internal/util"
)

type PushRequest struct {
	Name   string            `json:"name"`
	Value  float64           `json:"value"`
	Labels map[string]string `json:"labels"`
}

type Metrics struct {
	Response APIResponse
	logger   *util.AppLogger
	store    domain.MetricStore
}

func (m *Metrics) Init(store domain.MetricStore, logger *util.AppLogger) {
	m.store = store
	m.logger = logger
}

func (m *Metrics) PushHandler(w http.ResponseWriter, r *http.Request) {
	var req PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while unmarshalling push request. Err - ", err)
		m.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Push request without a metric name")
		m.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}

	metric, err := m.store.Push(r.Context(), req.Name, req.Value, req.Labels)
	if err != nil {
		m.writeStoreError(w, "Push", err)
		return
	}

	m.Response.WriteResultResponse(w, metric)
}

func (m *Metrics) QueryRangeHandler(w http.ResponseWriter, r *http.Request) {
	name, labels, err := m.parseSeriesKey(r)
	if err != nil {
		m.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidParameters, http.StatusBadRequest)
		return
	}

	from, err := parseTimeParam(r, "from")
	if err != nil {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "While parsing from. Err - ", err)
		m.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidParameters, http.StatusBadRequest)
		return
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "While parsing to. Err - ", err)
		m.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidParameters, http.StatusBadRequest)
		return
	}

	points, err := m.store.QueryRange(r.Context(), name, labels, from, to)
	if err != nil {
		m.writeStoreError(w, "QueryRange", err)
		return
	}

	if points == nil {
		points = []domain.Point{}
	}
	m.Response.WriteResultResponse(w, points)
}

func (m *Metrics) LatestHandler(w http.ResponseWriter, r *http.Request) {
	name, labels, err := m.parseSeriesKey(r)
	if err != nil {
		m.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidParameters, http.StatusBadRequest)
		return
	}

	value, err := m.store.LatestValue(r.Context(), name, labels)
	if err != nil {
		m.writeStoreError(w, "LatestValue", err)
		return
	}

	m.Response.WriteResultResponse(w, value)
}

func (m *Metrics) StatsHandler(w http.ResponseWriter, r *http.Request) {
	name, labels, err := m.parseSeriesKey(r)
	if err != nil {
		m.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidParameters, http.StatusBadRequest)
		return
	}

	from, err := parseTimeParam(r, "from")
	if err != nil {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "While parsing from. Err - ", err)
		m.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidParameters, http.StatusBadRequest)
		return
	}

	stats, err := m.store.ComputeStats(r.Context(), name, labels, from)
	if err != nil {
		m.writeStoreError(w, "ComputeStats", err)
		return
	}

	m.Response.WriteResultResponse(w, stats)
}

// parseSeriesKey reads the name and optional labels (a JSON object) query
// parameters identifying one series.
func (m *Metrics) parseSeriesKey(r *http.Request) (string, map[string]string, error) {
	name := r.URL.Query().Get("name")
	if name == "" {
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Missing name query parameter")
		return "", nil, fmt.Errorf("missing name: %w", ErrInvalidParameters)
	}

	var labels map[string]string
	if raw := r.URL.Query().Get("labels"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &labels); err != nil {
			m.logger.LogEvent(util.LOG_LEVEL_ERROR, "While parsing labels. Err - ", err)
			return "", nil, fmt.Errorf("bad labels: %w", ErrInvalidParameters)
		}
	}
	return name, labels, nil
}

func parseTimeParam(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (m *Metrics) writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNoData):
		m.logger.LogEvent(util.LOG_LEVEL_WARN, op, " - no data. Err - ", err)
		m.Response.WriteErrorResponseWithStatusCode(w, err, http.StatusNotFound)
	case errors.Is(err, context.Canceled):
		m.logger.LogEvent(util.LOG_LEVEL_WARN, op, " - context cancelled")
		m.Response.WriteErrorResponseWithStatusCode(w, ErrRequestCancelled, http.StatusRequestTimeout)
	default:
		m.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while ", op, "(). Err - ", err)
		m.Response.WriteErrorResponse(w, err)
	}
}
