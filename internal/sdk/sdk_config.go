package sdk

import (
	"net/url"
	"time"
)

const (
	DefaultBaseURL = "http://127.0.0.1:7938"
	DefaultTimeout = 5 * time.Minute
)

// Config is the configuration for the Client
type Config struct {
	BaseURL string        // BaseURL is required
	Token   string        // Token is optional, sent as a bearer token
	Timeout time.Duration // Timeout is optional, syncs of large trees can be slow
	Retries int           // Retries on transport errors, not on API errors; Sync is never retried
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrNoServerURL
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidServerURL
	}

	if c.Timeout < 0 || c.Retries < 0 {
		return ErrInvalidConfig
	}

	return nil
}
