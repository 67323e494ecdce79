// Package sdk is the HTTP client for the file manager backend.
package sdk

import (
	"context"
	"strconv"
	"time"

	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/filemanager/filemanager/internal/utils"
	"github.com/filemanager/filemanager/internal/version"
	"github.com/imroc/req/v3"
)

// Client talks to the backend. It implements fsapi.Lister and fsapi.Syncer.
type Client struct {
	client  *req.Client
	baseURL string
}

var (
	_ fsapi.Lister = (*Client)(nil)
	_ fsapi.Syncer = (*Client)(nil)
)

// New creates a new Client
func New(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	client := req.C().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetUserAgent(UserAgent).
		SetCommonHeader(HeaderVersion, version.Version).
		SetCommonHeader(HeaderDeviceID, utils.HWID).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	if cfg.Retries > 0 {
		client.SetCommonRetryCount(cfg.Retries).
			SetCommonRetryFixedInterval(1 * time.Second).
			SetCommonRetryCondition(func(_ *req.Response, err error) bool {
				return err != nil
			})
	}

	if cfg.Token != "" {
		client.SetCommonBearerAuthToken(cfg.Token)
	}

	return &Client{
		client:  client,
		baseURL: cfg.BaseURL,
	}, nil
}

// List returns the entries directly under path. An empty path lists the server root.
func (c *Client) List(ctx context.Context, path string) ([]fsapi.DirectoryEntry, error) {
	var resp ListResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("path", path).
		SetSuccessResult(&resp).
		SetErrorResult(&fsapi.StatusError{}).
		Get(v1List)

	if err := handleAPIError(res, err, "list"); err != nil {
		return nil, err
	}

	return resp.Entries, nil
}

// Sync asks the backend to sync req.Source into req.Destination.
// An unlinked pair without Force comes back as a 409 matching fsapi.ErrConflict.
// Sync is never retried; a failed attempt is reported to the caller.
func (c *Client) Sync(ctx context.Context, syncReq fsapi.SyncRequest) (*fsapi.SyncReport, error) {
	var resp fsapi.SyncReport
	res, err := c.client.R().
		SetContext(ctx).
		SetRetryCount(0).
		SetBody(&syncReq).
		SetSuccessResult(&resp).
		SetErrorResult(&fsapi.StatusError{}).
		Post(v1Sync)

	if err := handleAPIError(res, err, "sync"); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Pairs lists every linked sync pair.
func (c *Client) Pairs(ctx context.Context) ([]fsapi.SyncPair, error) {
	var resp PairsResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetSuccessResult(&resp).
		SetErrorResult(&fsapi.StatusError{}).
		Get(v1Pairs)

	if err := handleAPIError(res, err, "pairs"); err != nil {
		return nil, err
	}

	return resp.Pairs, nil
}

// Jobs lists the runs of a sync pair, newest first.
func (c *Client) Jobs(ctx context.Context, pairID int64) ([]fsapi.SyncJob, error) {
	var resp JobsResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(pairID, 10)).
		SetSuccessResult(&resp).
		SetErrorResult(&fsapi.StatusError{}).
		Get(v1Jobs)

	if err := handleAPIError(res, err, "jobs"); err != nil {
		return nil, err
	}

	return resp.Jobs, nil
}

// Health checks the backend is up.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetSuccessResult(&resp).
		SetErrorResult(&fsapi.StatusError{}).
		Get(healthz)

	if err := handleAPIError(res, err, "health"); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}
