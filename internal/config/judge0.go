package config

import (
	"net/url"
	"os"
	"time"

	"gitlab.com/judgerunner.net/internal/static/errs"
)

const (
	DefaultJudge0URL     = "https://judge0-ce.p.rapidapi.com"
	DefaultAPIKeyHeader  = "x-rapidapi-key"
	DefaultAPIHostHeader = "x-rapidapi-host"
)

type Judge0Config struct {
	BaseURL       string
	APIKey        string
	APIHost       string
	APIKeyHeader  string
	APIHostHeader string
	// Timeout of zero leaves the call unbounded; the judge's wait=true
	// semantics decide when it returns.
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

func NewJudge0Config() *Judge0Config {
	baseURL := getEnv("JUDGE0_URL", DefaultJudge0URL)
	return &Judge0Config{
		BaseURL:       baseURL,
		APIKey:        os.Getenv("JUDGE0_API_KEY"),
		APIHost:       getEnv("JUDGE0_API_HOST", hostOf(baseURL)),
		APIKeyHeader:  getEnv("JUDGE0_API_KEY_HEADER", DefaultAPIKeyHeader),
		APIHostHeader: lookupEnv("JUDGE0_API_HOST_HEADER", DefaultAPIHostHeader),
		Timeout:       getDurationEnv("JUDGE0_TIMEOUT", 0),
		MaxRetries:    getIntEnv("JUDGE0_MAX_RETRIES", 0),
		RetryBackoff:  getDurationEnv("JUDGE0_RETRY_BACKOFF", 500*time.Millisecond),
	}
}

// MaxCallDuration bounds one Submit including retries and backoff; zero when
// the call is unbounded
func (c *Judge0Config) MaxCallDuration() time.Duration {
	if c.Timeout <= 0 {
		return 0
	}
	attempts := time.Duration(c.MaxRetries + 1)
	return c.Timeout*attempts + c.RetryBackoff*(attempts-1)
}

// Validate reports configuration that would make every call fail.
func (c *Judge0Config) Validate() error {
	if c.BaseURL == "" {
		return errs.ErrMissingEndpoint
	}
	if c.APIKey == "" {
		return errs.ErrMissingAPIKey
	}
	return nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
