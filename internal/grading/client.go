// Package grading talks to the hosted text-completion model that simulates
// running student code, judges submissions and answers tutoring questions.
package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// MissingKeyMessage is shown when no API key is configured
	MissingKeyMessage = "AI service is not configured. Add an API key to enable code execution and grading."

	// FailureMessage is shown for any transport or decoding failure
	FailureMessage = "The AI service could not be reached. Please try again."
)

var (
	ErrNoAPIKey      = errors.New("no AI API key configured")
	ErrEmptyResponse = errors.New("AI response contained no text")
)

// Execution is the simulated console result of a snippet
type Execution struct {
	Output string `json:"output"`
	Error  string `json:"error,omitempty"`
}

// Verdict is the model's judgment of a submission
type Verdict struct {
	IsCorrect bool   `json:"isCorrect"`
	Output    string `json:"output"`
	Feedback  string `json:"feedback"`
	Error     string `json:"error,omitempty"`
}

// Answer is a tutoring reply
type Answer struct {
	Text  string `json:"answer"`
	Error string `json:"error,omitempty"`
}

// Options configures a Client
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls a generateContent-style REST endpoint
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
}

// NewClient creates a grading client. An empty APIKey yields a client whose
// calls return MissingKeyMessage without network traffic.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{http: httpClient, apiKey: opts.APIKey, model: opts.Model}
}

// Enabled reports whether an API key is configured
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Simulate asks the model to act as a Python interpreter for code
func (c *Client) Simulate(ctx context.Context, code string) Execution {
	text, err := c.generate(ctx, simulatePrompt(code), nil)
	if err != nil {
		return Execution{Error: errorMessage("simulate", err)}
	}
	return Execution{Output: text}
}

// Grade asks the model whether code satisfies task
func (c *Client) Grade(ctx context.Context, code, task string) Verdict {
	text, err := c.generate(ctx, gradePrompt(code, task), verdictSchema)
	if err != nil {
		return Verdict{Error: errorMessage("grade", err)}
	}

	var v Verdict
	if err := json.Unmarshal([]byte(stripFence(text)), &v); err != nil {
		return Verdict{Error: errorMessage("grade", fmt.Errorf("failed to decode verdict: %w", err))}
	}
	return v
}

// Assist answers a student's question about the lesson content
func (c *Client) Assist(ctx context.Context, content, question string) Answer {
	text, err := c.generate(ctx, assistPrompt(content, question), nil)
	if err != nil {
		return Answer{Error: errorMessage("assist", err)}
	}
	return Answer{Text: text}
}

func errorMessage(op string, err error) string {
	if errors.Is(err, ErrNoAPIKey) {
		return MissingKeyMessage
	}
	log.Printf("AI %s call failed: %v", op, err)
	return FailureMessage
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string      `json:"responseMimeType,omitempty"`
	ResponseSchema   interface{} `json:"responseSchema,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

var verdictSchema = map[string]interface{}{
	"type": "OBJECT",
	"properties": map[string]interface{}{
		"isCorrect": map[string]string{"type": "BOOLEAN"},
		"output":    map[string]string{"type": "STRING"},
		"feedback":  map[string]string{"type": "STRING"},
	},
	"required": []string{"isCorrect", "output", "feedback"},
}

// generate sends one prompt and returns the first candidate's text. A
// non-nil schema requests a JSON response conforming to it.
func (c *Client) generate(ctx context.Context, prompt string, schema interface{}) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}
	if schema != nil {
		body.GenerationConfig = &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		}
	}

	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetPathParam("model", c.model).
		SetBody(body).
		SetResult(&out).
		Post("/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("failed to call model: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("model returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	var sb strings.Builder
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// stripFence removes a ```json fence some models wrap around JSON output
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
