package grading

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeModel(t *testing.T, reply string, status int) (*httptest.Server, *generateRequest) {
	t.Helper()
	captured := &generateRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []interface{}{
				map[string]interface{}{
					"content": map[string]interface{}{
						"parts": []interface{}{map[string]string{"text": reply}},
					},
				},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func newTestClient(url string) *Client {
	return NewClient(Options{APIKey: "secret", BaseURL: url, Model: "test-model", Timeout: 2 * time.Second})
}

func TestMissingKey(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://127.0.0.1:1", Model: "m"})
	assert.False(t, c.Enabled())

	ctx := context.Background()
	assert.Equal(t, MissingKeyMessage, c.Simulate(ctx, "print(1)").Error)
	assert.Equal(t, MissingKeyMessage, c.Grade(ctx, "print(1)", "print one").Error)
	assert.Equal(t, MissingKeyMessage, c.Assist(ctx, "lesson", "why?").Error)
}

func TestSimulate(t *testing.T) {
	srv, captured := fakeModel(t, "Hello, World!\n", http.StatusOK)

	exec := newTestClient(srv.URL).Simulate(context.Background(), `print("Hello, World!")`)
	assert.Empty(t, exec.Error)
	assert.Equal(t, "Hello, World!", exec.Output)
	assert.Nil(t, captured.GenerationConfig)
	assert.Contains(t, captured.Contents[0].Parts[0].Text, `print("Hello, World!")`)
}

func TestGradeRequestsSchema(t *testing.T) {
	srv, captured := fakeModel(t, `{"isCorrect": true, "output": "3", "feedback": "Nice work"}`, http.StatusOK)

	v := newTestClient(srv.URL).Grade(context.Background(), "print(1+2)", "print three")
	require.Empty(t, v.Error)
	assert.True(t, v.IsCorrect)
	assert.Equal(t, "3", v.Output)
	assert.Equal(t, "Nice work", v.Feedback)

	require.NotNil(t, captured.GenerationConfig)
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
	assert.Contains(t, captured.Contents[0].Parts[0].Text, "print three")
}

func TestGradeAcceptsFencedJSON(t *testing.T) {
	srv, _ := fakeModel(t, "```json\n{\"isCorrect\": false, \"output\": \"\", \"feedback\": \"Try again\"}\n```", http.StatusOK)

	v := newTestClient(srv.URL).Grade(context.Background(), "x", "y")
	require.Empty(t, v.Error)
	assert.False(t, v.IsCorrect)
	assert.Equal(t, "Try again", v.Feedback)
}

func TestFailuresUseGenericMessage(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv, _ := fakeModel(t, "", http.StatusInternalServerError)
		assert.Equal(t, FailureMessage, newTestClient(srv.URL).Simulate(context.Background(), "x").Error)
	})

	t.Run("undecodable verdict", func(t *testing.T) {
		srv, _ := fakeModel(t, "definitely not json", http.StatusOK)
		v := newTestClient(srv.URL).Grade(context.Background(), "x", "y")
		assert.Equal(t, FailureMessage, v.Error)
		assert.False(t, v.IsCorrect)
	})

	t.Run("unreachable", func(t *testing.T) {
		c := newTestClient("http://127.0.0.1:1")
		assert.Equal(t, FailureMessage, c.Assist(context.Background(), "c", "q").Error)
	})
}

func TestAssist(t *testing.T) {
	srv, captured := fakeModel(t, "Use a for loop.", http.StatusOK)

	a := newTestClient(srv.URL).Assist(context.Background(), "Loops repeat code.", "How do I repeat?")
	assert.Empty(t, a.Error)
	assert.Equal(t, "Use a for loop.", a.Text)
	prompt := captured.Contents[0].Parts[0].Text
	assert.True(t, strings.Contains(prompt, "Loops repeat code.") && strings.Contains(prompt, "How do I repeat?"))
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFence(`  {"a":1} `))
}
