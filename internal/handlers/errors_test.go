package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/httperr"
)

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidDateOrTime, http.StatusBadRequest, "invalid_date_or_time"},
		{fmt.Errorf("book: %w", domain.ErrSlotNotAvailable), http.StatusConflict, "slot_not_available"},
		{domain.ErrNoWindow, http.StatusNotFound, "invalid_window"},
		{domain.ErrRequesterIneligible, http.StatusForbidden, "requester_ineligible"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		writeError(c, zap.NewNop(), tc.err)

		var body httperr.HTTPError
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if w.Code != tc.status || body.Code != tc.code {
			t.Errorf("%v: got %d %q, want %d %q", tc.err, w.Code, body.Code, tc.status, tc.code)
		}
		if body.Message == "" {
			t.Errorf("%v: message should not be empty", tc.err)
		}
	}
}
