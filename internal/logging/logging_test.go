package logging

import (
	"bytes"
	"errors"
	"log"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestSetupWithoutToken(t *testing.T) {
	captureLog(t)
	Setup("", "test", "dev")
	if Enabled() {
		t.Error("reporting should be disabled without a token")
	}
}

func TestErrorWritesToLog(t *testing.T) {
	buf := captureLog(t)
	Setup("", "test", "dev")

	Error("failed to save", errors.New("disk full"))
	if !strings.Contains(buf.String(), "failed to save: disk full") {
		t.Errorf("log output = %q", buf.String())
	}

	r := httptest.NewRequest("POST", "/api/lessons/1/submit", nil)
	RequestError(r, "grading failed", errors.New("timeout"))
	if !strings.Contains(buf.String(), "POST /api/lessons/1/submit: grading failed: timeout") {
		t.Errorf("log output = %q", buf.String())
	}

	Flush()
}
