package handler

import (
	"net/http"
	"strconv"

	"context-builder/internal/domain"

	"github.com/gorilla/mux"
)

// DatasetHandler handles dataset HTTP requests
type DatasetHandler struct {
	datasetService domain.DatasetService
	logger         domain.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(datasetService domain.DatasetService, logger domain.Logger) *DatasetHandler {
	return &DatasetHandler{
		datasetService: datasetService,
		logger:         logger,
	}
}

type datasetIDResponse struct {
	ID string `json:"id"`
}

type segmentUpdateRequest struct {
	Content *string `json:"content"`
}

// GetDataset returns one dataset
func (h *DatasetHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	dataset, err := h.datasetService.GetDataset(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, dataset)
}

// CreateDataset accepts a dataset and starts ingesting it
func (h *DatasetHandler) CreateDataset(w http.ResponseWriter, r *http.Request) {
	var dataset domain.Dataset
	if err := decodeJSON(w, r, &dataset); err != nil {
		writeAppError(w, err)
		return
	}

	id, err := h.datasetService.CreateDataset(r.Context(), &dataset)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, datasetIDResponse{ID: id})
}

// UpdateDataset replaces the dataset's documents
func (h *DatasetHandler) UpdateDataset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch domain.DatasetPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeAppError(w, err)
		return
	}

	if err := h.datasetService.UpdateDataset(r.Context(), id, &patch); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, datasetIDResponse{ID: id})
}

// DeleteDataset removes a dataset and its segments
func (h *DatasetHandler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.datasetService.DeleteDataset(r.Context(), id); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, datasetIDResponse{ID: id})
}

// GetDocumentSegments lists a window of a document's segments
func (h *DatasetHandler) GetDocumentSegments(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	offset, ok := queryInt(w, r, "offset", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", 10)
	if !ok {
		return
	}

	page, err := h.datasetService.GetDocumentSegments(r.Context(), vars["id"], vars["uid"], offset, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, page)
}

// UpdateSegment edits the content of one segment
func (h *DatasetHandler) UpdateSegment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req segmentUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if req.Content == nil {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	if err := h.datasetService.UpdateSegment(r.Context(), vars["id"], vars["uid"], vars["segment_id"], *req.Content); err != nil {
		writeAppError(w, err)
		return
	}
	writeSuccess(w, map[string]string{"segment_id": vars["segment_id"]})
}

func queryInt(w http.ResponseWriter, r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, key+" must be an integer")
		return 0, false
	}
	return n, true
}
