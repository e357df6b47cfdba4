package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h gin.HandlerFunc, reqID string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return w, body
}

func TestFail(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		Fail(c, http.StatusConflict, ErrInvalidStep)
	}, "trace-123")

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d", w.Code)
	}
	if body.Error == nil || body.Error.Code != ErrInvalidStep || body.Error.Message != GetMessage(ErrInvalidStep) {
		t.Errorf("error = %+v", body.Error)
	}
	if body.Metadata.RequestID != "trace-123" || w.Header().Get("X-Request-ID") != "trace-123" {
		t.Errorf("request id = %q", body.Metadata.RequestID)
	}
}

func TestFailWithMessage(t *testing.T) {
	_, body := serve(t, func(c *gin.Context) {
		FailWithMessage(c, http.StatusUnprocessableEntity, ErrInsufficientBank, "Only 4 hard questions")
	}, "")
	if body.Error.Message != "Only 4 hard questions" {
		t.Errorf("message = %q", body.Error.Message)
	}

	_, body = serve(t, func(c *gin.Context) {
		FailWithMessage(c, http.StatusUnprocessableEntity, ErrInsufficientBank, "")
	}, "")
	if body.Error.Message != GetMessage(ErrInsufficientBank) {
		t.Errorf("fallback message = %q", body.Error.Message)
	}
}

func TestRequestIDRejectsUnsafeValues(t *testing.T) {
	for _, id := range []string{strings.Repeat("a", 65), "bad id", "x\ny"} {
		_, body := serve(t, func(c *gin.Context) { Success(c, http.StatusOK, nil) }, id)
		if body.Metadata.RequestID == id || body.Metadata.RequestID == "" {
			t.Errorf("id %q was echoed", id)
		}
	}
}
