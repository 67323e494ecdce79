// Package syncflow runs the source/destination selection and the
// conflict-confirm-retry sync protocol.
package syncflow

import (
	"context"
	"log/slog"
	"strings"

	"github.com/filemanager/filemanager/internal/explorer"
	"github.com/filemanager/filemanager/internal/fsapi"
)

// ConfirmMessage is asked when the backend does not know the pair yet.
const ConfirmMessage = "This source and destination have never been synced together. Create the new sync pair?"

// SyncCmd performs a sync request issued by the controller.
type SyncCmd func(ctx context.Context) Result

// Result is the outcome of a SyncCmd.
type Result struct {
	Request fsapi.SyncRequest
	Report  *fsapi.SyncReport
	Err     error
}

// Controller holds the two endpoints and drives the sync protocol.
// It is owned by a single goroutine and is not safe for concurrent use.
type Controller struct {
	syncer  fsapi.Syncer
	browser *explorer.Browser

	state       State
	role        Role
	source      string
	destination string

	inflight *fsapi.SyncRequest
	pending  *fsapi.SyncRequest
	outcome  Outcome
}

func New(lister fsapi.Lister, syncer fsapi.Syncer) *Controller {
	return &Controller{
		syncer:  syncer,
		browser: explorer.NewBrowser(lister),
	}
}

// OpenModal opens the browser at the root to pick the endpoint for role.
func (c *Controller) OpenModal(role Role) (explorer.ListCmd, error) {
	if c.state != StateIdle {
		return nil, ErrInvalidState
	}
	if role != RoleSource && role != RoleDestination {
		return nil, ErrInvalidRole
	}

	c.state = StateBrowsing
	c.role = role
	return c.browser.Open(""), nil
}

// OnFolderSelected stores path under the active role and closes the browser.
func (c *Controller) OnFolderSelected(path string) error {
	if c.state != StateBrowsing {
		return ErrInvalidState
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrEmptyPath
	}

	c.setField(c.role, path)
	slog.Debug("syncflow path selected", "role", c.role, "path", path)
	c.closeBrowser()
	return nil
}

// CloseModal closes the browser without changing either path.
func (c *Controller) CloseModal() error {
	if c.state != StateBrowsing {
		return ErrInvalidState
	}
	c.closeBrowser()
	return nil
}

// HandleBrowserEvent routes a browser event to OnFolderSelected or CloseModal.
func (c *Controller) HandleBrowserEvent(ev explorer.Event) error {
	switch ev.Kind {
	case explorer.EventSelected:
		return c.OnFolderSelected(ev.Path)
	case explorer.EventCancelled:
		return c.CloseModal()
	default:
		return ErrInvalidState
	}
}

// SetPath sets an endpoint directly, as when the user types it in.
func (c *Controller) SetPath(role Role, path string) error {
	if c.state != StateIdle {
		return ErrInvalidState
	}
	if role != RoleSource && role != RoleDestination {
		return ErrInvalidRole
	}
	c.setField(role, strings.TrimSpace(path))
	return nil
}

// Missing lists the endpoints that are still unset.
func (c *Controller) Missing() []Role {
	var missing []Role
	if c.source == "" {
		missing = append(missing, RoleSource)
	}
	if c.destination == "" {
		missing = append(missing, RoleDestination)
	}
	return missing
}

// Sync issues an un-forced sync request for the current endpoints.
func (c *Controller) Sync() (SyncCmd, error) {
	switch c.state {
	case StateIdle:
	case StateRequesting, StateForcedRequesting:
		return nil, ErrSyncInFlight
	default:
		return nil, ErrInvalidState
	}

	if missing := c.Missing(); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	c.state = StateRequesting
	c.outcome = Outcome{}
	return c.request(fsapi.SyncRequest{Source: c.source, Destination: c.destination}), nil
}

// Resolve applies the result of the in-flight request. Results that do
// not belong to it are ignored.
func (c *Controller) Resolve(res Result) Outcome {
	if c.inflight == nil || res.Request != *c.inflight {
		slog.Debug("syncflow stale result", "source", res.Request.Source, "destination", res.Request.Destination, "state", c.state)
		return c.outcome
	}

	forced := c.state == StateForcedRequesting
	c.inflight = nil

	switch {
	case res.Err == nil:
		slog.Info("sync completed", "source", res.Request.Source, "destination", res.Request.Destination, "forced", forced)
		c.state = StateIdle
		c.outcome = Outcome{Kind: OutcomeSuccess, Forced: forced, Report: res.Report}

	case !forced && fsapi.IsConflict(res.Err):
		slog.Warn("sync pair not linked", "source", res.Request.Source, "destination", res.Request.Destination)
		retry := res.Request
		retry.Force = true
		c.pending = &retry
		c.state = StateConfirmPending
		c.outcome = Outcome{Kind: OutcomeConflictPending, Err: res.Err}

	default:
		slog.Error("sync failed", "source", res.Request.Source, "destination", res.Request.Destination, "forced", forced, "error", res.Err)
		c.state = StateIdle
		c.outcome = Outcome{Kind: OutcomeFailed, Err: res.Err, Forced: forced}
	}

	return c.outcome
}

// Confirm answers the pending conflict prompt. A yes re-issues the request
// with Force set; a no returns to idle without another request.
func (c *Controller) Confirm(yes bool) (SyncCmd, error) {
	if c.state != StateConfirmPending || c.pending == nil {
		return nil, ErrInvalidState
	}

	retry := *c.pending
	c.pending = nil

	if !yes {
		slog.Info("sync pair creation declined", "source", retry.Source, "destination", retry.Destination)
		c.state = StateIdle
		c.outcome = Outcome{Kind: OutcomeDeclined}
		return nil, nil
	}

	c.state = StateForcedRequesting
	return c.request(retry), nil
}

func (c *Controller) request(req fsapi.SyncRequest) SyncCmd {
	c.inflight = &req
	syncer := c.syncer
	return func(ctx context.Context) Result {
		report, err := syncer.Sync(ctx, req)
		return Result{Request: req, Report: report, Err: err}
	}
}

func (c *Controller) setField(role Role, path string) {
	switch role {
	case RoleSource:
		c.source = path
	case RoleDestination:
		c.destination = path
	}
}

func (c *Controller) closeBrowser() {
	c.browser.Close()
	c.state = StateIdle
	c.role = RoleNone
}

func (c *Controller) Browser() *explorer.Browser { return c.browser }

func (c *Controller) State() State { return c.state }

// ActiveRole is the role the open browser is populating, or RoleNone.
func (c *Controller) ActiveRole() Role { return c.role }

func (c *Controller) Source() string { return c.source }

func (c *Controller) Destination() string { return c.destination }

func (c *Controller) Outcome() Outcome { return c.outcome }
