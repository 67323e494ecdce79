package main

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/filemanager/filemanager/internal/syncflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and feeds back the message produced by the returned
// command, like the bubbletea runtime would.
func press(t *testing.T, m browseModel, msg tea.Msg) browseModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(browseModel)
	if cmd == nil {
		return m
	}
	switch res := cmd().(type) {
	case listingMsg, syncResultMsg:
		next, _ = m.Update(res)
		m = next.(browseModel)
	}
	return m
}

func newTestModel(srv *fakeServer) browseModel {
	return newBrowseModel(context.Background(), srv, srv, "http://test")
}

func TestBrowseTUI_PickAndSyncWithConfirm(t *testing.T) {
	srv := newFakeServer()
	m := newTestModel(srv)

	// source: open the browser, go into data, select the highlighted photos dir
	m = press(t, m, runes("s"))
	require.Equal(t, syncflow.StateBrowsing, m.ctrl.State())
	require.Len(t, m.ctrl.Browser().Entries(), 3)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "data", m.ctrl.Browser().CurrentPath())

	m = press(t, m, runes("s"))
	assert.Equal(t, syncflow.StateIdle, m.ctrl.State())
	assert.Equal(t, "data/photos", m.ctrl.Source())

	// destination: move to backup and select it
	m = press(t, m, runes("d"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, runes("s"))
	assert.Equal(t, "backup", m.ctrl.Destination())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, syncflow.StateConfirmPending, m.ctrl.State())
	assert.Contains(t, m.View(), syncflow.ConfirmMessage)

	m = press(t, m, runes("y"))
	assert.Equal(t, syncflow.StateIdle, m.ctrl.State())
	assert.Equal(t, "Synced 1 file(s), created pair #1", m.status)
	require.Len(t, srv.calls, 2)
	assert.Equal(t, fsapi.SyncRequest{Source: "data/photos", Destination: "backup", Force: true}, srv.calls[1])
}

func TestBrowseTUI_Decline(t *testing.T) {
	srv := newFakeServer()
	m := newTestModel(srv)
	require.NoError(t, m.ctrl.SetPath(syncflow.RoleSource, "data"))
	require.NoError(t, m.ctrl.SetPath(syncflow.RoleDestination, "backup"))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, runes("n"))

	assert.Equal(t, syncflow.StateIdle, m.ctrl.State())
	assert.Equal(t, txtDeclined, m.status)
	assert.Len(t, srv.calls, 1)
}

func TestBrowseTUI_SyncWithoutPathsShowsError(t *testing.T) {
	m := newTestModel(newFakeServer())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	var verr *syncflow.ValidationError
	require.ErrorAs(t, m.err, &verr)
	assert.Contains(t, m.View(), "missing source, destination")
}

func TestBrowseTUI_EscKeepsPaths(t *testing.T) {
	m := newTestModel(newFakeServer())
	require.NoError(t, m.ctrl.SetPath(syncflow.RoleSource, "data"))

	m = press(t, m, runes("s"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, syncflow.StateIdle, m.ctrl.State())
	assert.Equal(t, "data", m.ctrl.Source())
}

func TestBrowseTUI_MarkedSelection(t *testing.T) {
	m := newTestModel(newFakeServer())

	m = press(t, m, runes("d"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, []string{"data"}, m.marks.Items())
	assert.Contains(t, m.View(), "[1 marked]")

	// cursor moves away, the mark still wins
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, runes("s"))
	assert.Equal(t, "data", m.ctrl.Destination())
	assert.Zero(t, m.marks.Len())
}

func TestBrowseTUI_SelectRootRejected(t *testing.T) {
	m := newTestModel(newFakeServer())

	m = press(t, m, runes("s"))
	m = press(t, m, runes("."))
	assert.ErrorIs(t, m.err, syncflow.ErrEmptyPath)
	assert.Equal(t, syncflow.StateBrowsing, m.ctrl.State())
}

func TestBrowseTUI_NavigateUpAndRoot(t *testing.T) {
	m := newTestModel(newFakeServer())

	m = press(t, m, runes("s"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "data/photos", m.ctrl.Browser().CurrentPath())
	assert.Contains(t, m.View(), txtEmptyDir)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "data", m.ctrl.Browser().CurrentPath())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "", m.ctrl.Browser().CurrentPath())

	// already at the root: stays put
	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "", m.ctrl.Browser().CurrentPath())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotEqual(t, "", m.ctrl.Browser().CurrentPath())
	m = press(t, m, runes("~"))
	assert.Equal(t, "", m.ctrl.Browser().CurrentPath())
	assert.Len(t, m.ctrl.Browser().Entries(), 3)
}

func TestBrowseTUI_StaleListingDropped(t *testing.T) {
	m := newTestModel(newFakeServer())

	next, first := m.Update(runes("s"))
	m = next.(browseModel)
	// navigate elsewhere before the first listing lands
	next, second := m.Update(runes("~"))
	m = next.(browseModel)

	next, _ = m.Update(first())
	m = next.(browseModel)
	assert.True(t, m.ctrl.Browser().Loading())

	next, _ = m.Update(second())
	m = next.(browseModel)
	assert.False(t, m.ctrl.Browser().Loading())
}

func TestBrowseTUI_ListingErrorShown(t *testing.T) {
	srv := newFakeServer()
	delete(srv.tree, "")
	m := newTestModel(srv)

	m = press(t, m, runes("s"))
	require.Error(t, m.ctrl.Browser().Err())
	assert.Contains(t, m.View(), "path not found")
}

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		cursor, n, size int
		start, end      int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 10, 0, 10},
		{10, 20, 10, 5, 15},
		{19, 20, 10, 10, 20},
	}
	for _, tt := range tests {
		start, end := visibleWindow(tt.cursor, tt.n, tt.size)
		assert.Equal(t, tt.start, start)
		assert.Equal(t, tt.end, end)
	}
}
