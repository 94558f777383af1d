package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"context-builder/internal/domain"
	apperrors "context-builder/pkg/errors"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveDataset(h *DatasetHandler, method, target, body string, vars map[string]string, fn func(*DatasetHandler) http.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rr := httptest.NewRecorder()
	fn(h)(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data interface{}) {
	t.Helper()
	var env struct {
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
		Status  int             `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "success", env.Message)
	assert.Equal(t, http.StatusOK, env.Status)
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
}

func TestDatasetHandler_GetDataset(t *testing.T) {
	svc := newMockDatasetService()
	svc.datasets["ds1"] = &domain.Dataset{ID: "ds1", Status: domain.DatasetStatusReady}
	h := NewDatasetHandler(svc, NewMockHandlerLogger())

	rr := serveDataset(h, http.MethodGet, "/api/v1/datasets/ds1", "", map[string]string{"id": "ds1"},
		func(h *DatasetHandler) http.HandlerFunc { return h.GetDataset })
	require.Equal(t, http.StatusOK, rr.Code)
	var ds domain.Dataset
	decodeEnvelope(t, rr, &ds)
	assert.Equal(t, "ds1", ds.ID)

	rr = serveDataset(h, http.MethodGet, "/api/v1/datasets/nope", "", map[string]string{"id": "nope"},
		func(h *DatasetHandler) http.HandlerFunc { return h.GetDataset })
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Dataset not found")
}

func TestDatasetHandler_CreateDataset(t *testing.T) {
	svc := newMockDatasetService()
	h := NewDatasetHandler(svc, NewMockHandlerLogger())

	body := `{"documents":[{"uid":"u1","url":"documents/a.pdf","type":"pdf","split_option":{"split_type":"character","chunk_size":1000,"chunk_overlap":0}}]}`
	rr := serveDataset(h, http.MethodPost, "/api/v1/datasets", body, nil,
		func(h *DatasetHandler) http.HandlerFunc { return h.CreateDataset })

	require.Equal(t, http.StatusOK, rr.Code)
	var out datasetIDResponse
	decodeEnvelope(t, rr, &out)
	assert.Equal(t, "abc123", out.ID)
	require.NotNil(t, svc.created)
	require.Len(t, svc.created.Documents, 1)
	assert.Equal(t, domain.DocumentTypePDF, svc.created.Documents[0].Type)
	assert.Equal(t, 1000, svc.created.Documents[0].SplitOption.ChunkSize)

	rr = serveDataset(h, http.MethodPost, "/api/v1/datasets", "{bad", nil,
		func(h *DatasetHandler) http.HandlerFunc { return h.CreateDataset })
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDatasetHandler_UpdateAndDelete(t *testing.T) {
	svc := newMockDatasetService()
	svc.datasets["ds1"] = &domain.Dataset{ID: "ds1"}
	h := NewDatasetHandler(svc, NewMockHandlerLogger())
	vars := map[string]string{"id": "ds1"}

	rr := serveDataset(h, http.MethodPatch, "/api/v1/datasets/ds1", `{"documents":[]}`, vars,
		func(h *DatasetHandler) http.HandlerFunc { return h.UpdateDataset })
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, svc.patched)

	rr = serveDataset(h, http.MethodDelete, "/api/v1/datasets/ds1", "", vars,
		func(h *DatasetHandler) http.HandlerFunc { return h.DeleteDataset })
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serveDataset(h, http.MethodDelete, "/api/v1/datasets/ds1", "", vars,
		func(h *DatasetHandler) http.HandlerFunc { return h.DeleteDataset })
	assert.Equal(t, http.StatusNotFound, rr.Code)

	svc.err = apperrors.NewInternalError("Dataset not deleted", errors.New("db down"))
	rr = serveDataset(h, http.MethodDelete, "/api/v1/datasets/ds1", "", vars,
		func(h *DatasetHandler) http.HandlerFunc { return h.DeleteDataset })
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestDatasetHandler_GetDocumentSegments(t *testing.T) {
	svc := newMockDatasetService()
	svc.segments = &domain.SegmentPage{TotalItems: 12, Segments: []domain.Segment{{SegmentID: "ds1-u1-5", Content: "hello"}}}
	h := NewDatasetHandler(svc, NewMockHandlerLogger())
	vars := map[string]string{"id": "ds1", "uid": "u1"}

	rr := serveDataset(h, http.MethodGet, "/api/v1/datasets/ds1/document/u1?offset=5&limit=1", "", vars,
		func(h *DatasetHandler) http.HandlerFunc { return h.GetDocumentSegments })
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"totalItems":12`)
	assert.Equal(t, 5, svc.lastOffset)
	assert.Equal(t, 1, svc.lastLimit)

	rr = serveDataset(h, http.MethodGet, "/api/v1/datasets/ds1/document/u1", "", vars,
		func(h *DatasetHandler) http.HandlerFunc { return h.GetDocumentSegments })
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, svc.lastOffset)
	assert.Equal(t, 10, svc.lastLimit)

	rr = serveDataset(h, http.MethodGet, "/api/v1/datasets/ds1/document/u1?limit=ten", "", vars,
		func(h *DatasetHandler) http.HandlerFunc { return h.GetDocumentSegments })
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "limit must be an integer")
}

func TestDatasetHandler_UpdateSegment(t *testing.T) {
	svc := newMockDatasetService()
	h := NewDatasetHandler(svc, NewMockHandlerLogger())
	vars := map[string]string{"id": "ds1", "uid": "u1", "segment_id": "ds1-u1-0"}
	target := "/api/v1/datasets/ds1/document/u1/segment/ds1-u1-0"

	for _, body := range []string{`{}`, `{"content":null}`} {
		rr := serveDataset(h, http.MethodPatch, target, body, vars,
			func(h *DatasetHandler) http.HandlerFunc { return h.UpdateSegment })
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "content is required")
	}

	rr := serveDataset(h, http.MethodPatch, target, `{"content":"new text"}`, vars,
		func(h *DatasetHandler) http.HandlerFunc { return h.UpdateSegment })
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "new text", svc.lastUpdate)

	// a present but empty content clears the segment
	rr = serveDataset(h, http.MethodPatch, target, `{"content":""}`, vars,
		func(h *DatasetHandler) http.HandlerFunc { return h.UpdateSegment })
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "", svc.lastUpdate)
}
