// Package judge0 is the HTTP adapter for a Judge0 compatible judge service.
package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gitlab.com/judgerunner.net/internal/config"
	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	"gitlab.com/judgerunner.net/internal/core/ports/secondary"
	"gitlab.com/judgerunner.net/internal/domain"
	"gitlab.com/judgerunner.net/internal/static/errs"
)

var _ secondary.CodeExecutor = (*Client)(nil)

const (
	submissionsPath = "/submissions"
	languagesPath   = "/languages"

	opRequest = "request"
	opRead    = "read response"
	opDecode  = "decode response"
)

// submitQuery asks for plain-text payloads and makes the judge answer only
// once execution has finished.
var submitQuery = url.Values{
	"base64_encoded": {"false"},
	"wait":           {"true"},
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client. The configured timeout is
// not applied to a client supplied this way.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client sends submissions to a Judge0 endpoint. It holds no per-call state,
// so one Client may be shared by concurrent callers.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	apiHost       string
	apiKeyHeader  string
	apiHostHeader string
	maxRetries    int
	retryBackoff  time.Duration
	logger        primary.Logger
}

// NewClient validates cfg and builds a client. A missing key or endpoint is
// reported here, before any request can be attempted.
func NewClient(cfg *config.Judge0Config, logger primary.Logger, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	keyHeader := cfg.APIKeyHeader
	if keyHeader == "" {
		keyHeader = config.DefaultAPIKeyHeader
	}

	c := &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		apiHost:       cfg.APIHost,
		apiKeyHeader:  keyHeader,
		apiHostHeader: cfg.APIHostHeader,
		maxRetries:    cfg.MaxRetries,
		retryBackoff:  cfg.RetryBackoff,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Submit posts one program to the judge and returns its decoded answer.
// A compile or runtime failure reported by the judge is still a successful
// call here; only transport failures and non-2xx statuses are errors.
func (c *Client) Submit(ctx context.Context, languageID int, sourceCode string) (domain.SubmissionResult, error) {
	body, err := EncodeSubmission(domain.SubmissionRequest{
		LanguageID: languageID,
		SourceCode: sourceCode,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	c.logger.Debug("Submitting to judge0", "languageId", languageID, "bytes", len(sourceCode))

	var result domain.SubmissionResult
	err = c.withRetry(ctx, func() error {
		raw, err := c.do(ctx, http.MethodPost, submissionsPath, submitQuery, body)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &result); err != nil {
			return &errs.TransportError{Op: opDecode, Err: err}
		}
		if result == nil {
			return &errs.TransportError{Op: opDecode, Err: errors.New("empty response body")}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Languages returns the judge's runtime catalogue
func (c *Client) Languages(ctx context.Context) ([]domain.Language, error) {
	var languages []domain.Language
	err := c.withRetry(ctx, func() error {
		raw, err := c.do(ctx, http.MethodGet, languagesPath, nil, nil)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &languages); err != nil {
			return &errs.TransportError{Op: opDecode, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return languages, nil
}

// EncodeSubmission renders the request body exactly as the judge receives it:
// fields in declaration order, no HTML escaping, no trailing newline.
func EncodeSubmission(req domain.SubmissionRequest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(req); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(c.apiKeyHeader, c.apiKey)
	if c.apiHostHeader != "" && c.apiHost != "" {
		req.Header.Set(c.apiHostHeader, c.apiHost)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errs.TransportError{Op: opRequest, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.TransportError{Op: opRead, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errs.RemoteServiceError{StatusCode: resp.StatusCode, Body: respBody}
	}

	return respBody, nil
}

// withRetry repeats fn while it fails before any response arrived. Errors
// raised after the judge answered are returned at once, so are remote
// statuses.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || attempt >= c.maxRetries || !retryable(err) || ctx.Err() != nil {
			return err
		}

		c.logger.Warn("Retrying judge0 call", "attempt", attempt+1, "error", err)

		timer := time.NewTimer(c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

func retryable(err error) bool {
	var te *errs.TransportError
	return errors.As(err, &te) && te.Op == opRequest
}
