package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/starbookhq/starbook/internal/domain"
)

func TestRespondErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: domain.ErrNotFound, status: http.StatusNotFound},
		{name: "insufficient balance", err: domain.ErrInsufficientBalance, status: http.StatusBadRequest},
		{name: "tx conflict", err: domain.ErrTxConflict, status: http.StatusConflict},
		{name: "unknown error", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			respondError(c, tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status %d, want %d", rec.Code, tt.status)
			}

			var body domain.ApiResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body.Success {
				t.Fatal("error response marked success")
			}
			if body.Status != tt.status {
				t.Fatalf("envelope status %d, want %d", body.Status, tt.status)
			}
			if body.Message != tt.err.Error() {
				t.Fatalf("envelope message %q, want %q", body.Message, tt.err.Error())
			}
		})
	}
}
