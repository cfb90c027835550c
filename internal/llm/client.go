// Package llm talks to the Gemini text-generation API and turns its output
// into cluster labels, suggestions and cluster explanations.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jengzang/carbon-footprint-backend/internal/config"
	"github.com/jengzang/carbon-footprint-backend/pkg/retry"
)

var (
	// ErrNotConfigured is returned when no API key is set
	ErrNotConfigured = errors.New("llm: api key not configured")
	// ErrUpstream wraps transport failures and non-2xx responses
	ErrUpstream = errors.New("llm: upstream request failed")
	// ErrMalformedResponse is returned when the response cannot be used
	ErrMalformedResponse = errors.New("llm: malformed response")
)

// Generator produces text for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client implements Generator against the Gemini generateContent endpoint
type Client struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	retry      retry.Config
}

// NewClient creates a Gemini client. A client without an API key fails every call with ErrNotConfigured.
func NewClient(cfg config.GeminiConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash-latest"
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	rc := retry.DefaultConfig()
	if cfg.MaxAttempts > 0 {
		rc.MaxAttempts = cfg.MaxAttempts
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		retry:      rc,
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Generate sends prompt and returns the first candidate's text.
// Server errors and rate limiting are retried with backoff; other 4xx responses are not.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	ctx, span := otel.Tracer("llm").Start(ctx, "gemini.generate")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	var text string
	err := retry.DoWithLog(ctx, c.retry, "gemini", func() error {
		out, err := c.call(ctx, prompt)
		if err != nil {
			return err
		}
		text = out
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).Msg("gemini request failed, retrying")
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return text, nil
}

func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("failed to marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, truncate(string(raw), 200))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return "", statusErr
		}
		return "", retry.Permanent(statusErr)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", retry.Permanent(fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}
	if parsed.Error != nil {
		return "", retry.Permanent(fmt.Errorf("%w: error %d: %s", ErrUpstream, parsed.Error.Code, parsed.Error.Message))
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", retry.Permanent(fmt.Errorf("%w: no candidates", ErrMalformedResponse))
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// stripCodeFences removes a surrounding markdown code block, if any
func stripCodeFences(s string) string {
	cleaned := strings.TrimSpace(s)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
