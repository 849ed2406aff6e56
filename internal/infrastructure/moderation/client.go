// Package moderation screens user-submitted text through the bad-words
// provider and classifies its failures.
package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/oashtari/question-and-answer/internal/core/domain"
	"github.com/oashtari/question-and-answer/internal/infrastructure/metrics"
)

const (
	// DefaultBaseURL is the public bad-words provider.
	DefaultBaseURL = "https://api.apilayer.com"
	// DefaultTimeout bounds a single provider call.
	DefaultTimeout = 10 * time.Second

	maxBody = 1 << 20
	op      = "moderation.Check"
)

// Client calls the bad-words provider. It implements ports.Moderator.
type Client struct {
	endpoint   string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	log        zerolog.Logger
}

type censorResponse struct {
	CensoredContent *string `json:"censored_content"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// NewClient builds a Client. An empty baseURL selects DefaultBaseURL and a
// non-positive timeout selects DefaultTimeout.
func NewClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + "/bad_words?" + url.Values{"censor_character": {"*"}}.Encode(),
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// Check returns text with offensive words replaced by '*'. Failures are
// domain errors of kind KindModerationTransport, KindModerationClient or
// KindModerationServer.
func (c *Client) Check(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	cleaned, err := c.check(ctx, text)
	metrics.ModerationDuration.Observe(time.Since(start).Seconds())
	metrics.ModerationRequestsTotal.WithLabelValues(resultLabel(err)).Inc()

	if err != nil {
		c.log.Error().Err(err).Int("text_len", len(text)).Msg("moderation call failed")
		return "", err
	}
	return cleaned, nil
}

func (c *Client) check(ctx context.Context, text string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(text))
	if err != nil {
		return "", domain.E(domain.KindModerationTransport, op, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.E(domain.KindModerationTransport, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", mapHTTPError(resp)
	}

	var out censorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		return "", domain.E(domain.KindModerationTransport, op, fmt.Errorf("decode response: %w", err))
	}
	if out.CensoredContent == nil {
		return "", domain.E(domain.KindModerationTransport, op, fmt.Errorf("response has no censored_content"))
	}
	return *out.CensoredContent, nil
}

// mapHTTPError classifies a non-2xx reply: 4xx is the caller's fault (bad key,
// quota), everything else is the provider's.
func mapHTTPError(resp *http.Response) error {
	message := extractMessage(resp.Body)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	kind := domain.KindModerationServer
	if resp.StatusCode >= 400 && resp.StatusCode <= 499 {
		kind = domain.KindModerationClient
	}
	return domain.Upstream(kind, op, resp.StatusCode, message)
}

func extractMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var e errorResponse
	if err := json.Unmarshal(data, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(data))
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	switch kind, _ := domain.KindOf(err); kind {
	case domain.KindModerationClient:
		return "client"
	case domain.KindModerationServer:
		return "server"
	default:
		return "transport"
	}
}
