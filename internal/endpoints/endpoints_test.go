package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"dashbuilder/internal/domain"
	"dashbuilder/internal/util"
)

type MockDashboardStore struct {
	Dashboards map[string]domain.Dashboard
	Err        error
}

func (m *MockDashboardStore) Init() error { return m.Err }

func (m *MockDashboardStore) CreateDashboard(ctx context.Context, spec domain.DashboardSpec) (domain.Dashboard, error) {
	if m.Err != nil {
		return domain.Dashboard{}, m.Err
	}
	d := domain.Dashboard{
		ID:    domain.DashboardID(spec.Title, time.Now()),
		UID:   domain.DashboardUID(spec.Title),
		Title: spec.Title,
	}
	for _, existing := range m.Dashboards {
		if existing.UID == d.UID {
			return domain.Dashboard{}, domain.ErrDashboardExists
		}
	}
	m.Dashboards[d.ID] = d
	return d, nil
}

func (m *MockDashboardStore) AddPanel(ctx context.Context, dashboardID string, spec domain.PanelSpec) (domain.Panel, error) {
	if m.Err != nil {
		return domain.Panel{}, m.Err
	}
	if _, ok := m.Dashboards[dashboardID]; !ok {
		return domain.Panel{}, domain.ErrDashboardNotFound
	}
	return domain.Panel{ID: domain.PanelID(dashboardID, spec.Title), Title: spec.Title, Type: spec.Type}, nil
}

func (m *MockDashboardStore) AddVariable(ctx context.Context, dashboardID string, spec domain.VariableSpec) (domain.Variable, error) {
	if m.Err != nil {
		return domain.Variable{}, m.Err
	}
	if _, ok := m.Dashboards[dashboardID]; !ok {
		return domain.Variable{}, domain.ErrDashboardNotFound
	}
	return domain.Variable{Name: spec.Name, Type: "query"}, nil
}

func (m *MockDashboardStore) ExportDocument(ctx context.Context, dashboardID string) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	d, ok := m.Dashboards[dashboardID]
	if !ok {
		return []byte("{}"), nil
	}
	return json.Marshal(domain.DashboardDocument{ID: d.ID, UID: d.UID, Title: d.Title,
		Time: domain.TimeSpec{From: "now-1h", To: "now"}})
}

func (m *MockDashboardStore) ImportDocument(ctx context.Context, raw []byte) (domain.Dashboard, error) {
	if m.Err != nil {
		return domain.Dashboard{}, m.Err
	}
	var doc domain.DashboardDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Dashboard{}, fmt.Errorf("error parsing document: %w", err)
	}
	d := domain.Dashboard{ID: domain.ImportedDashboardID(doc.Title), Title: doc.Title}
	m.Dashboards[d.ID] = d
	return d, nil
}

func (m *MockDashboardStore) Close() error { return m.Err }

type MockMetricStore struct {
	Samples map[string][]domain.Point
	Err     error
}

func seriesKey(name string, labels map[string]string) string {
	return name + "|" + domain.CanonicalLabels(labels)
}

func (m *MockMetricStore) Init() error { return m.Err }

func (m *MockMetricStore) Push(ctx context.Context, name string, value float64, labels map[string]string) (domain.Metric, error) {
	if m.Err != nil {
		return domain.Metric{}, m.Err
	}
	key := seriesKey(name, labels)
	m.Samples[key] = append(m.Samples[key], domain.Point{Timestamp: time.Now(), Value: value})
	return domain.Metric{Name: name, Value: value, Labels: labels, Timestamp: time.Now()}, nil
}

func (m *MockMetricStore) QueryRange(ctx context.Context, name string, labels map[string]string, from, to *time.Time) ([]domain.Point, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Samples[seriesKey(name, labels)], nil
}

func (m *MockMetricStore) LatestValue(ctx context.Context, name string, labels map[string]string) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	points := m.Samples[seriesKey(name, labels)]
	if len(points) == 0 {
		return 0, domain.ErrNoData
	}
	return points[len(points)-1].Value, nil
}

func (m *MockMetricStore) ComputeStats(ctx context.Context, name string, labels map[string]string, from *time.Time) (domain.MetricStats, error) {
	if m.Err != nil {
		return domain.MetricStats{}, m.Err
	}
	points := m.Samples[seriesKey(name, labels)]
	if len(points) == 0 {
		return domain.MetricStats{}, domain.ErrNoData
	}
	return domain.MetricStats{Name: name, Count: len(points)}, nil
}

func (m *MockMetricStore) Close() error { return m.Err }

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var res APIResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	return res
}

func TestCreateHandler(t *testing.T) {
	mockStore := &MockDashboardStore{Dashboards: map[string]domain.Dashboard{}}
	handler := &Dashboards{}
	handler.Init(mockStore, &util.AppLogger{})

	body, _ := json.Marshal(domain.DashboardSpec{Title: "Service Overview"})
	req := httptest.NewRequest("POST", "/dashboards", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()
	handler.CreateHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	res := decodeResponse(t, rr)
	assert.True(t, res.Status)
	assert.Equal(t, API_SUCCESS, res.ErrorCode)

	// case 2: same title again conflicts on uid
	req = httptest.NewRequest("POST", "/dashboards", bytes.NewBuffer(body))
	rr = httptest.NewRecorder()
	handler.CreateHandler(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	res = decodeResponse(t, rr)
	assert.False(t, res.Status)
	assert.Equal(t, DASHBOARD_CONFLICT, res.ErrorCode)

	// case 3: invalid JSON body
	req = httptest.NewRequest("POST", "/dashboards", bytes.NewBufferString("not json"))
	rr = httptest.NewRecorder()
	handler.CreateHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	res = decodeResponse(t, rr)
	assert.Equal(t, INVALID_REQUEST_BODY, res.ErrorCode)
}

func TestAddPanelHandler(t *testing.T) {
	mockStore := &MockDashboardStore{Dashboards: map[string]domain.Dashboard{
		"abc12345": {ID: "abc12345", Title: "Existing"},
	}}
	handler := &Dashboards{}
	handler.Init(mockStore, &util.AppLogger{})

	body, _ := json.Marshal(domain.PanelSpec{Title: "CPU", Type: "timeseries", Query: "cpu_load"})
	req := httptest.NewRequest("POST", "/dashboards/abc12345/panels", bytes.NewBuffer(body))
	req = mux.SetURLVars(req, map[string]string{"id": "abc12345"})
	rr := httptest.NewRecorder()
	handler.AddPanelHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	res := decodeResponse(t, rr)
	assert.True(t, res.Status)

	// case 2: missing dashboard is an explicit 404, not a silent success
	req = httptest.NewRequest("POST", "/dashboards/missing1/panels", bytes.NewBuffer(body))
	req = mux.SetURLVars(req, map[string]string{"id": "missing1"})
	rr = httptest.NewRecorder()
	handler.AddPanelHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	res = decodeResponse(t, rr)
	assert.False(t, res.Status)
	assert.Equal(t, DASHBOARD_NOT_FOUND, res.ErrorCode)
}

func TestExportImportHandlers(t *testing.T) {
	mockStore := &MockDashboardStore{Dashboards: map[string]domain.Dashboard{
		"abc12345": {ID: "abc12345", UID: "fedcba98", Title: "Exported"},
	}}
	handler := &Dashboards{}
	handler.Init(mockStore, &util.AppLogger{})

	req := httptest.NewRequest("GET", "/dashboards/abc12345/export", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "abc12345"})
	rr := httptest.NewRecorder()
	handler.ExportHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	res := decodeResponse(t, rr)
	assert.True(t, res.Status)

	valueBytes, _ := json.Marshal(res.Value)
	var doc domain.DashboardDocument
	assert.NoError(t, json.Unmarshal(valueBytes, &doc))
	assert.Equal(t, "Exported", doc.Title)
	assert.Equal(t, "now", doc.Time.To)

	// case 2: export of a missing id returns the empty-document sentinel
	req = httptest.NewRequest("GET", "/dashboards/missing1/export", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "missing1"})
	rr = httptest.NewRecorder()
	handler.ExportHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	// case 3: import
	docBody := `{"title": "Imported", "tags": ["t"]}`
	req = httptest.NewRequest("POST", "/dashboards/import", bytes.NewBufferString(docBody))
	rr = httptest.NewRecorder()
	handler.ImportHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	res = decodeResponse(t, rr)
	assert.True(t, res.Status)

	// case 4: malformed import document
	req = httptest.NewRequest("POST", "/dashboards/import", bytes.NewBufferString("not json"))
	rr = httptest.NewRecorder()
	handler.ImportHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	res = decodeResponse(t, rr)
	assert.Equal(t, INVALID_REQUEST_BODY, res.ErrorCode)
}

func TestPushHandler(t *testing.T) {
	mockStore := &MockMetricStore{Samples: map[string][]domain.Point{}}
	handler := &Metrics{}
	handler.Init(mockStore, &util.AppLogger{})

	body, _ := json.Marshal(PushRequest{Name: "cpu", Value: 42.0, Labels: map[string]string{"host": "a"}})
	req := httptest.NewRequest("POST", "/metrics", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()
	handler.PushHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	res := decodeResponse(t, rr)
	assert.True(t, res.Status)

	// case 2: missing name
	body, _ = json.Marshal(PushRequest{Value: 1.0})
	req = httptest.NewRequest("POST", "/metrics", bytes.NewBuffer(body))
	rr = httptest.NewRecorder()
	handler.PushHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	res = decodeResponse(t, rr)
	assert.Equal(t, INVALID_REQUEST_BODY, res.ErrorCode)
}

func TestQueryRangeHandler(t *testing.T) {
	mockStore := &MockMetricStore{Samples: map[string][]domain.Point{
		seriesKey("cpu", map[string]string{"host": "a"}): {
			{Timestamp: time.Now(), Value: 1.0},
			{Timestamp: time.Now(), Value: 2.0},
		},
	}}
	handler := &Metrics{}
	handler.Init(mockStore, &util.AppLogger{})

	labels := url.QueryEscape(`{"host":"a"}`)
	req := httptest.NewRequest("GET", "/metrics/query?name=cpu&labels="+labels, nil)
	rr := httptest.NewRecorder()
	handler.QueryRangeHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	res := decodeResponse(t, rr)
	assert.True(t, res.Status)

	valueBytes, _ := json.Marshal(res.Value)
	var points []domain.Point
	assert.NoError(t, json.Unmarshal(valueBytes, &points))
	assert.Len(t, points, 2)

	// case 2: an unknown series is an empty list, not an error
	req = httptest.NewRequest("GET", "/metrics/query?name=unknown", nil)
	rr = httptest.NewRecorder()
	handler.QueryRangeHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	res = decodeResponse(t, rr)
	assert.True(t, res.Status)

	// case 3: missing name parameter
	req = httptest.NewRequest("GET", "/metrics/query", nil)
	rr = httptest.NewRecorder()
	handler.QueryRangeHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	res = decodeResponse(t, rr)
	assert.Equal(t, INVALID_PARAMETERS, res.ErrorCode)

	// case 4: bad labels JSON
	req = httptest.NewRequest("GET", "/metrics/query?name=cpu&labels=notjson", nil)
	rr = httptest.NewRecorder()
	handler.QueryRangeHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// case 5: bad from timestamp
	req = httptest.NewRequest("GET", "/metrics/query?name=cpu&from=yesterday", nil)
	rr = httptest.NewRecorder()
	handler.QueryRangeHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	res = decodeResponse(t, rr)
	assert.Equal(t, INVALID_PARAMETERS, res.ErrorCode)
}

func TestLatestAndStatsHandlers(t *testing.T) {
	mockStore := &MockMetricStore{Samples: map[string][]domain.Point{
		seriesKey("cpu", nil): {{Timestamp: time.Now(), Value: 42.0}},
	}}
	handler := &Metrics{}
	handler.Init(mockStore, &util.AppLogger{})

	req := httptest.NewRequest("GET", "/metrics/latest?name=cpu", nil)
	rr := httptest.NewRecorder()
	handler.LatestHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	res := decodeResponse(t, rr)
	assert.True(t, res.Status)
	assert.Equal(t, 42.0, res.Value)

	// case 2: no data for the key is a 404 with NO_METRIC_DATA
	req = httptest.NewRequest("GET", "/metrics/latest?name=unknown", nil)
	rr = httptest.NewRecorder()
	handler.LatestHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	res = decodeResponse(t, rr)
	assert.False(t, res.Status)
	assert.Equal(t, NO_METRIC_DATA, res.ErrorCode)

	// case 3: stats over the existing series
	req = httptest.NewRequest("GET", "/metrics/stats?name=cpu", nil)
	rr = httptest.NewRecorder()
	handler.StatsHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	res = decodeResponse(t, rr)
	assert.True(t, res.Status)

	// case 4: stats with no data
	req = httptest.NewRequest("GET", "/metrics/stats?name=unknown", nil)
	rr = httptest.NewRecorder()
	handler.StatsHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	res = decodeResponse(t, rr)
	assert.Equal(t, NO_METRIC_DATA, res.ErrorCode)
}

func TestHandlers_ContextCancelled(t *testing.T) {
	mockStore := &MockMetricStore{Samples: map[string][]domain.Point{}, Err: context.Canceled}
	handler := &Metrics{}
	handler.Init(mockStore, &util.AppLogger{})

	req := httptest.NewRequest("GET", "/metrics/latest?name=cpu", nil)
	rr := httptest.NewRecorder()
	handler.LatestHandler(rr, req)

	assert.Equal(t, http.StatusRequestTimeout, rr.Code)
	res := decodeResponse(t, rr)
	assert.Equal(t, REQUEST_CANCELLED, res.ErrorCode)
}
