package syncflow

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/filemanager/filemanager/internal/explorer"
	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	calls []fsapi.SyncRequest
	// respond picks the answer for a call; nil means success.
	respond func(req fsapi.SyncRequest) error
}

func (f *fakeSyncer) Sync(_ context.Context, req fsapi.SyncRequest) (*fsapi.SyncReport, error) {
	f.calls = append(f.calls, req)
	if f.respond != nil {
		if err := f.respond(req); err != nil {
			return nil, err
		}
	}
	return &fsapi.SyncReport{
		Pair:        fsapi.SyncPair{Source: req.Source, Destination: req.Destination},
		PairCreated: req.Force,
	}, nil
}

type fakeLister struct {
	listings map[string][]fsapi.DirectoryEntry
	calls    []string
}

func (f *fakeLister) List(_ context.Context, path string) ([]fsapi.DirectoryEntry, error) {
	f.calls = append(f.calls, path)
	return f.listings[path], nil
}

var conflictErr = &fsapi.StatusError{Status: http.StatusConflict, Code: fsapi.CodeSyncPairNotFound, Message: "pair not found"}

func conflictUnlessForced(req fsapi.SyncRequest) error {
	if !req.Force {
		return conflictErr
	}
	return nil
}

func newTestController(syncer *fakeSyncer) (*Controller, *fakeLister) {
	lister := &fakeLister{listings: map[string][]fsapi.DirectoryEntry{}}
	return New(lister, syncer), lister
}

func withPaths(t *testing.T, c *Controller, src, dst string) {
	t.Helper()
	require.NoError(t, c.SetPath(RoleSource, src))
	require.NoError(t, c.SetPath(RoleDestination, dst))
}

func TestSync_RejectsMissingPaths(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		dst     string
		missing []Role
	}{
		{"both missing", "", "", []Role{RoleSource, RoleDestination}},
		{"source missing", "", "/dst", []Role{RoleSource}},
		{"destination missing", "/src", "", []Role{RoleDestination}},
		{"whitespace only", "  ", "/dst", []Role{RoleSource}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			syncer := &fakeSyncer{}
			c, _ := newTestController(syncer)
			withPaths(t, c, tc.src, tc.dst)

			cmd, err := c.Sync()
			assert.Nil(t, cmd)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.missing, vErr.Missing)
			assert.Equal(t, tc.missing, c.Missing())
			assert.Equal(t, StateIdle, c.State())
			assert.Empty(t, syncer.calls)
		})
	}
}

func TestSync_RejectedWhileBrowsing(t *testing.T) {
	syncer := &fakeSyncer{}
	c, _ := newTestController(syncer)
	withPaths(t, c, "/src", "/dst")

	_, err := c.OpenModal(RoleSource)
	require.NoError(t, err)

	_, err = c.Sync()
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, syncer.calls)
}

func TestSync_Success(t *testing.T) {
	syncer := &fakeSyncer{}
	c, _ := newTestController(syncer)
	withPaths(t, c, "/src", "/dst")

	cmd, err := c.Sync()
	require.NoError(t, err)
	assert.Equal(t, StateRequesting, c.State())

	out := c.Resolve(cmd(context.Background()))
	assert.Equal(t, OutcomeSuccess, out.Kind)
	assert.False(t, out.Forced)
	require.NotNil(t, out.Report)
	assert.Equal(t, StateIdle, c.State())
	require.Len(t, syncer.calls, 1)
	assert.False(t, syncer.calls[0].Force)
}

func TestSync_SecondCallWhileInFlightIsRejected(t *testing.T) {
	syncer := &fakeSyncer{}
	c, _ := newTestController(syncer)
	withPaths(t, c, "/src", "/dst")

	cmd, err := c.Sync()
	require.NoError(t, err)

	again, err := c.Sync()
	assert.Nil(t, again)
	assert.ErrorIs(t, err, ErrSyncInFlight)

	c.Resolve(cmd(context.Background()))
	assert.Len(t, syncer.calls, 1)

	// reusable right after resolution
	_, err = c.Sync()
	assert.NoError(t, err)
}

func TestSync_ConflictConfirmedRetriesWithForce(t *testing.T) {
	syncer := &fakeSyncer{respond: conflictUnlessForced}
	c, _ := newTestController(syncer)
	withPaths(t, c, "/src", "/dst")

	cmd, err := c.Sync()
	require.NoError(t, err)

	out := c.Resolve(cmd(context.Background()))
	assert.Equal(t, OutcomeConflictPending, out.Kind)
	assert.Equal(t, StateConfirmPending, c.State())
	require.Len(t, syncer.calls, 1, "no retry before confirmation")

	_, err = c.Sync()
	assert.ErrorIs(t, err, ErrInvalidState)

	retry, err := c.Confirm(true)
	require.NoError(t, err)
	require.NotNil(t, retry)
	assert.Equal(t, StateForcedRequesting, c.State())

	out = c.Resolve(retry(context.Background()))
	assert.Equal(t, OutcomeSuccess, out.Kind)
	assert.True(t, out.Forced)
	assert.Equal(t, StateIdle, c.State())

	require.Len(t, syncer.calls, 2)
	assert.Equal(t, fsapi.SyncRequest{Source: "/src", Destination: "/dst"}, syncer.calls[0])
	assert.Equal(t, fsapi.SyncRequest{Source: "/src", Destination: "/dst", Force: true}, syncer.calls[1])
}

func TestSync_ConflictDeclined(t *testing.T) {
	syncer := &fakeSyncer{respond: conflictUnlessForced}
	c, _ := newTestController(syncer)
	withPaths(t, c, "/src", "/dst")

	cmd, _ := c.Sync()
	c.Resolve(cmd(context.Background()))

	retry, err := c.Confirm(false)
	require.NoError(t, err)
	assert.Nil(t, retry)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, OutcomeDeclined, c.Outcome().Kind)
	assert.Len(t, syncer.calls, 1)
	assert.Equal(t, "/src", c.Source())
	assert.Equal(t, "/dst", c.Destination())
}

func TestSync_GenericFailureIsTerminal(t *testing.T) {
	boom := &fsapi.StatusError{Status: http.StatusInternalServerError, Code: fsapi.CodeSyncFailed, Message: "disk full"}
	syncer := &fakeSyncer{respond: func(fsapi.SyncRequest) error { return boom }}
	c, _ := newTestController(syncer)
	withPaths(t, c, "/src", "/dst")

	cmd, _ := c.Sync()
	out := c.Resolve(cmd(context.Background()))

	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.ErrorIs(t, out.Err, boom)
	assert.False(t, out.Forced)
	assert.Equal(t, StateIdle, c.State())
	assert.Len(t, syncer.calls, 1)

	_, err := c.Confirm(true)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSync_ForcedRetryFailureIsDistinguishable(t *testing.T) {
	transport := errors.New("connection reset")
	syncer := &fakeSyncer{respond: func(req fsapi.SyncRequest) error {
		if !req.Force {
			return conflictErr
		}
		return transport
	}}
	c, _ := newTestController(syncer)
	withPaths(t, c, "/src", "/dst")

	cmd, _ := c.Sync()
	c.Resolve(cmd(context.Background()))
	retry, err := c.Confirm(true)
	require.NoError(t, err)

	out := c.Resolve(retry(context.Background()))
	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.True(t, out.Forced)
	assert.ErrorIs(t, out.Err, transport)
	assert.Len(t, syncer.calls, 2)
}

func TestResolve_IgnoresStaleResult(t *testing.T) {
	syncer := &fakeSyncer{}
	c, _ := newTestController(syncer)
	withPaths(t, c, "/src", "/dst")

	out := c.Resolve(Result{Request: fsapi.SyncRequest{Source: "/src", Destination: "/dst"}})
	assert.Equal(t, OutcomeNone, out.Kind)
	assert.Equal(t, StateIdle, c.State())

	_, err := c.Sync()
	require.NoError(t, err)
	out = c.Resolve(Result{Request: fsapi.SyncRequest{Source: "/other", Destination: "/dst"}})
	assert.Equal(t, OutcomeNone, out.Kind)
	assert.Equal(t, StateRequesting, c.State())
}

func TestOnFolderSelected_SetsActiveRoleOnly(t *testing.T) {
	c, _ := newTestController(&fakeSyncer{})
	require.NoError(t, c.SetPath(RoleSource, "/keep"))

	_, err := c.OpenModal(RoleDestination)
	require.NoError(t, err)
	assert.Equal(t, RoleDestination, c.ActiveRole())
	assert.True(t, c.Browser().IsOpen())

	require.NoError(t, c.OnFolderSelected("/picked"))
	assert.Equal(t, "/picked", c.Destination())
	assert.Equal(t, "/keep", c.Source())
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, RoleNone, c.ActiveRole())
	assert.False(t, c.Browser().IsOpen())
}

func TestCloseModal_KeepsPaths(t *testing.T) {
	c, _ := newTestController(&fakeSyncer{})
	withPaths(t, c, "/a", "/b")

	_, err := c.OpenModal(RoleSource)
	require.NoError(t, err)
	require.NoError(t, c.HandleBrowserEvent(c.Browser().Cancel()))

	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, "/a", c.Source())
	assert.Equal(t, "/b", c.Destination())
	assert.False(t, c.Browser().IsOpen())
}

func TestOpenModal_InvalidTransitions(t *testing.T) {
	c, _ := newTestController(&fakeSyncer{})

	_, err := c.OpenModal(RoleNone)
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = c.OpenModal(RoleSource)
	require.NoError(t, err)
	_, err = c.OpenModal(RoleDestination)
	assert.ErrorIs(t, err, ErrInvalidState)

	assert.ErrorIs(t, c.SetPath(RoleSource, "/x"), ErrInvalidState)
	assert.ErrorIs(t, c.OnFolderSelected("  "), ErrEmptyPath)

	require.NoError(t, c.CloseModal())
	assert.ErrorIs(t, c.CloseModal(), ErrInvalidState)
	assert.ErrorIs(t, c.OnFolderSelected("/x"), ErrInvalidState)
}

func TestEndToEnd_BrowseAndSelectSource(t *testing.T) {
	c, lister := newTestController(&fakeSyncer{})
	lister.listings[""] = []fsapi.DirectoryEntry{{Name: "data", IsDirectory: true}}
	ctx := context.Background()

	listCmd, err := c.OpenModal(RoleSource)
	require.NoError(t, err)
	browser := c.Browser()
	require.True(t, browser.Load(ctx, listCmd))
	require.Len(t, browser.Entries(), 1)

	require.True(t, browser.Load(ctx, browser.NavigateInto(browser.Entries()[0])))
	assert.Equal(t, []string{"", "data"}, lister.calls)
	assert.Equal(t, "data", browser.CurrentPath())

	require.NoError(t, c.HandleBrowserEvent(browser.Select(browser.CurrentPath())))
	assert.Equal(t, "data", c.Source())
	assert.False(t, browser.IsOpen())
	assert.Equal(t, StateIdle, c.State())
}

func TestLateListingAfterSelectIsIgnored(t *testing.T) {
	c, lister := newTestController(&fakeSyncer{})
	lister.listings["data"] = []fsapi.DirectoryEntry{{Name: "x"}}

	listCmd, err := c.OpenModal(RoleSource)
	require.NoError(t, err)
	require.NoError(t, c.OnFolderSelected("data"))

	assert.False(t, c.Browser().Apply(listCmd(context.Background())))
	assert.Empty(t, c.Browser().Entries())
}

func TestHandleBrowserEvent_Unknown(t *testing.T) {
	c, _ := newTestController(&fakeSyncer{})
	assert.ErrorIs(t, c.HandleBrowserEvent(explorer.Event{}), ErrInvalidState)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Missing: []Role{RoleSource, RoleDestination}}
	assert.Equal(t, "syncflow: missing source, destination", err.Error())
}
