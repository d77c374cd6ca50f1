package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "trustgate/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "internal_error", body["error"])
		_, ok := body["error_description"]
		assert.False(t, ok)
	})

	t.Run("not found includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeNotFound, "decision not found"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "not_found", body["error"])
		assert.Equal(t, "decision not found", body["error_description"])
	})

	t.Run("superseded maps to conflict", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeSuperseded, "newer submission in flight"))
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

type sampleRequest struct {
	Name  string `json:"name" validate:"required,max=10"`
	Score int    `json:"score" validate:"gte=0,lte=100"`
}

func (r *sampleRequest) Validate() error {
	if r.Name == "forbidden" {
		return dErrors.New(dErrors.CodeValidation, "name is reserved")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	decode := func(body string) (*sampleRequest, *httptest.ResponseRecorder, bool) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req, ok := DecodeAndPrepare[sampleRequest](w, r, nil, r.Context(), "req-1")
		return req, w, ok
	}

	t.Run("valid body", func(t *testing.T) {
		req, _, ok := decode(`{"name":"alice","score":90}`)
		require.True(t, ok)
		assert.Equal(t, "alice", req.Name)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, w, ok := decode(`{"name":`)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, w, ok := decode(`{"name":"alice","extra":true}`)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("struct tag violation", func(t *testing.T) {
		_, w, ok := decode(`{"name":"alice","score":101}`)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "validation_error")
	})

	t.Run("custom validation", func(t *testing.T) {
		_, w, ok := decode(`{"name":"forbidden","score":1}`)
		assert.False(t, ok)
		assert.Contains(t, w.Body.String(), "name is reserved")
	})
}
