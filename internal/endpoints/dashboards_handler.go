package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"dashbuilder/internal/domain"
	"dashbuilder/internal/util"

	"github.com/gorilla/mux"
)

type Dashboards struct {
	Response APIResponse
	logger   *util.AppLogger
	store    domain.DashboardStore
}

func (h *Dashboards) Init(store domain.DashboardStore, logger *util.AppLogger) {
	h.store = store
	h.logger = logger
}

func (h *Dashboards) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var spec domain.DashboardSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		h.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while unmarshalling dashboard spec. Err - ", err)
		h.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}

	dashboard, err := h.store.CreateDashboard(r.Context(), spec)
	if err != nil {
		h.writeStoreError(w, "CreateDashboard", err)
		return
	}

	h.Response.WriteResultResponse(w, dashboard)
}

func (h *Dashboards) AddPanelHandler(w http.ResponseWriter, r *http.Request) {
	dashboardID := mux.Vars(r)["id"]

	var spec domain.PanelSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		h.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while unmarshalling panel spec. Err - ", err)
		h.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}

	panel, err := h.store.AddPanel(r.Context(), dashboardID, spec)
	if err != nil {
		h.writeStoreError(w, "AddPanel", err)
		return
	}

	h.Response.WriteResultResponse(w, panel)
}

func (h *Dashboards) AddVariableHandler(w http.ResponseWriter, r *http.Request) {
	dashboardID := mux.Vars(r)["id"]

	var spec domain.VariableSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		h.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while unmarshalling variable spec. Err - ", err)
		h.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}

	variable, err := h.store.AddVariable(r.Context(), dashboardID, spec)
	if err != nil {
		h.writeStoreError(w, "AddVariable", err)
		return
	}

	h.Response.WriteResultResponse(w, variable)
}

func (h *Dashboards) ExportHandler(w http.ResponseWriter, r *http.Request) {
	dashboardID := mux.Vars(r)["id"]

	doc, err := h.store.ExportDocument(r.Context(), dashboardID)
	if err != nil {
		h.writeStoreError(w, "ExportDocument", err)
		return
	}

	h.Response.WriteResultResponse(w, json.RawMessage(doc))
}

func (h *Dashboards) ImportHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while reading import body. Err - ", err)
		h.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}

	dashboard, err := h.store.ImportDocument(r.Context(), body)
	if err != nil {
		h.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while ImportDocument(). Err - ", err)
		h.Response.WriteErrorResponseWithStatusCode(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}

	h.Response.WriteResultResponse(w, dashboard)
}

func (h *Dashboards) writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrDashboardNotFound):
		h.logger.LogEvent(util.LOG_LEVEL_WARN, op, " - dashboard not found. Err - ", err)
		h.Response.WriteErrorResponseWithStatusCode(w, err, http.StatusNotFound)
	case errors.Is(err, domain.ErrDashboardExists):
		h.logger.LogEvent(util.LOG_LEVEL_WARN, op, " - conflict. Err - ", err)
		h.Response.WriteErrorResponseWithStatusCode(w, err, http.StatusConflict)
	case errors.Is(err, context.Canceled):
		h.logger.LogEvent(util.LOG_LEVEL_WARN, op, " - context cancelled")
		h.Response.WriteErrorResponseWithStatusCode(w, ErrRequestCancelled, http.StatusRequestTimeout)
	default:
		h.logger.LogEvent(util.LOG_LEVEL_ERROR, "Occured while ", op, "(). Err - ", err)
		h.Response.WriteErrorResponse(w, err)
	}
}
