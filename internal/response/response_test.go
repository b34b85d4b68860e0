package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ok", func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"hello": "world"})
	})
	r.GET("/fail", func(c *gin.Context) {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{"name": "required"})
	})
	return r
}

func TestSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-123")
	newEngine().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != nil {
		t.Errorf("unexpected error body: %+v", body.Error)
	}
	if body.Metadata.RequestID != "req-123" {
		t.Errorf("request id = %q", body.Metadata.RequestID)
	}
	if w.Header().Get("X-Request-ID") != "req-123" {
		t.Errorf("X-Request-ID header = %q", w.Header().Get("X-Request-ID"))
	}
}

func TestFailEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	newEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error == nil || body.Error.Code != ErrValidation {
		t.Fatalf("error body = %+v", body.Error)
	}
	if body.Error.Fields["name"] != "required" {
		t.Errorf("fields = %v", body.Error.Fields)
	}
	if body.Metadata.RequestID == "" {
		t.Error("generated request id missing")
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	if p.TotalPages != 3 || p.Page != 2 || p.TotalItems != 25 {
		t.Errorf("pagination = %+v", p)
	}
	if NewPagination(1, 10, 0).TotalPages != 0 {
		t.Error("empty result should have zero pages")
	}
}

func TestEveryCodeHasMessage(t *testing.T) {
	codes := []ErrCode{
		ErrInvalidCredentials, ErrAccountDisabled, ErrSessionInvalidated, ErrTokenRequired,
		ErrTokenInvalid, ErrPermissionDenied, ErrStaffAccessOnly, ErrNotAuthor, ErrValidation,
		ErrInvalidID, ErrInvalidReference, ErrClassMismatch, ErrScoreOutOfRange, ErrInvalidStatus,
		ErrNotFound, ErrConflict, ErrAssignmentNotOpen, ErrRateLimitExceeded, ErrInternal,
	}
	fallback := GetMessage("SOMETHING_ELSE")
	for _, c := range codes {
		if GetMessage(c) == fallback {
			t.Errorf("%s has no dedicated message", c)
		}
	}
}
