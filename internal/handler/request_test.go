package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/skate-tracker/internal/apperror"
)

func TestLooseInt(t *testing.T) {
	tests := []struct {
		in      string
		wantSet bool
		want    int64
		wantErr bool
	}{
		{`27`, true, 27, false},
		{`"27"`, true, 27, false},
		{`" 27 "`, true, 27, false},
		{`""`, false, 0, false},
		{`null`, false, 0, false},
		{`"abc"`, false, 0, true},
		{`2.5`, false, 0, true},
		{`true`, false, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var body struct {
				Age looseInt `json:"age"`
			}
			body.Age.field = "age"

			err := json.Unmarshal([]byte(`{"age":`+tt.in+`}`), &body)
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperror.ErrValidation), "error = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSet, body.Age.Int() != nil)
			assert.Equal(t, tt.want, body.Age.Int64())
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err      error
		status   int
		code     string
		contains string
	}{
		{apperror.ValidationFailed("age", "bad age"), http.StatusBadRequest, "validation_error", "bad age"},
		{apperror.InvalidCredentials(), http.StatusBadRequest, "invalid_credentials", "Invalid email or password"},
		{apperror.Forbidden("nope"), http.StatusForbidden, "forbidden", "nope"},
		{fmt.Errorf("wrapped: %w", apperror.NotFoundMessage("No tricks found")), http.StatusNotFound, "not_found", "No tricks found"},
		{apperror.ConflictMessage("Trick already added"), http.StatusConflict, "conflict", "Trick already added"},
		{errors.New(`pq: relation "users" does not exist`), http.StatusInternalServerError, "internal_error", "An internal error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))

			rr := httptest.NewRecorder()
			writeError(rr, logger, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.contains, body.Error)

			// only 500s are logged, with the raw error kept out of the body
			if tt.status == http.StatusInternalServerError {
				assert.Contains(t, logs.String(), "unhandled error")
				assert.Contains(t, logs.String(), "does not exist")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}
