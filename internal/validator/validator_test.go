package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classroom-backend/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

func bindBody(t *testing.T, body string, dst interface{}) map[string]string {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return Bind(c, dst)
}

func TestBindUsesJSONFieldNames(t *testing.T) {
	var req model.CreateUserRequest
	fields := bindBody(t, `{"email":"not-an-email","password1":"longenough","password2":"different","class_id":1}`, &req)
	if fields == nil {
		t.Fatal("expected validation errors")
	}
	if _, ok := fields["email"]; !ok {
		t.Errorf("missing email error: %v", fields)
	}
	if _, ok := fields["password2"]; !ok {
		t.Errorf("missing password2 mismatch error: %v", fields)
	}
}

func TestBindRejectsUnknownRole(t *testing.T) {
	var req model.UpdateUserRequest
	fields := bindBody(t, `{"email":"a@b.test","class_id":1,"role":"TEACHER"}`, &req)
	msg, ok := fields["role"]
	if !ok {
		t.Fatalf("expected role error, got %v", fields)
	}
	if !strings.Contains(msg, "INSTRUCTOR") {
		t.Errorf("role message = %q", msg)
	}
}

func TestBindRejectsBlankClassName(t *testing.T) {
	var req model.UserClassRequest
	fields := bindBody(t, `{"name":"   "}`, &req)
	if _, ok := fields["name"]; !ok {
		t.Fatalf("expected name error, got %v", fields)
	}

	fields = bindBody(t, `{"name":"123456789012345678901"}`, &req)
	if _, ok := fields["name"]; !ok {
		t.Fatalf("expected max length error, got %v", fields)
	}
}

func TestBindAcceptsValidAssignment(t *testing.T) {
	var req model.AssignmentRequest
	fields := bindBody(t, `{"title":"Essay","course":"English","course_code":"EN101","class_id":2,"duration":"2026-11-01T10:00:00Z","marks":0}`, &req)
	if fields != nil {
		t.Fatalf("unexpected errors: %v", fields)
	}
	if req.Marks == nil || *req.Marks != 0 {
		t.Errorf("marks = %v", req.Marks)
	}
}

func TestBindRejectsNegativeMarks(t *testing.T) {
	var req model.AssignmentRequest
	fields := bindBody(t, `{"title":"Essay","course":"English","course_code":"EN101","class_id":2,"duration":"2026-11-01T10:00:00Z","marks":-1}`, &req)
	if _, ok := fields["marks"]; !ok {
		t.Fatalf("expected marks error, got %v", fields)
	}
}

func TestTranslateErrorsNonValidation(t *testing.T) {
	var req model.LoginRequest
	fields := bindBody(t, `{"email":`, &req)
	if _, ok := fields["detail"]; !ok {
		t.Fatalf("expected detail key, got %v", fields)
	}
}
