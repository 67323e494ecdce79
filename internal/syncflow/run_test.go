package syncflow

import (
	"context"
	"errors"
	"testing"

	"github.com/filemanager/filemanager/internal/fsapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConfirmer struct {
	answer   bool
	err      error
	messages []string
}

func (r *recordingConfirmer) Confirm(_ context.Context, message string) (bool, error) {
	r.messages = append(r.messages, message)
	return r.answer, r.err
}

func TestRun_ConflictConfirmed(t *testing.T) {
	syncer := &fakeSyncer{respond: conflictUnlessForced}
	c, _ := newTestController(syncer)
	withPaths(t, c, "/src", "/dst")
	confirmer := &recordingConfirmer{answer: true}

	out, err := c.Run(context.Background(), confirmer)
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, out.Kind)
	assert.True(t, out.Forced)
	assert.Equal(t, []string{ConfirmMessage}, confirmer.messages)
	require.Len(t, syncer.calls, 2)
	assert.False(t, syncer.calls[0].Force)
	assert.True(t, syncer.calls[1].Force)
}

func TestRun_ConflictDeclined(t *testing.T) {
	syncer := &fakeSyncer{respond: conflictUnlessForced}
	c, _ := newTestController(syncer)
	withPaths(t, c, "/src", "/dst")

	out, err := c.Run(context.Background(), &recordingConfirmer{answer: false})
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeclined, out.Kind)
	assert.Len(t, syncer.calls, 1)
	assert.Equal(t, StateIdle, c.State())
}

func TestRun_NoPromptWhenPairExists(t *testing.T) {
	syncer := &fakeSyncer{}
	c, _ := newTestController(syncer)
	withPaths(t, c, "/src", "/dst")
	confirmer := &recordingConfirmer{answer: true}

	out, err := c.Run(context.Background(), confirmer)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, out.Kind)
	assert.Empty(t, confirmer.messages)
	assert.Len(t, syncer.calls, 1)
}

func TestRun_PromptErrorDeclines(t *testing.T) {
	syncer := &fakeSyncer{respond: conflictUnlessForced}
	c, _ := newTestController(syncer)
	withPaths(t, c, "/src", "/dst")
	promptErr := errors.New("stdin closed")

	out, err := c.Run(context.Background(), &recordingConfirmer{err: promptErr})
	assert.ErrorIs(t, err, promptErr)
	assert.Equal(t, OutcomeDeclined, out.Kind)
	assert.Len(t, syncer.calls, 1)
	assert.Equal(t, StateIdle, c.State())
}

func TestRun_ValidationError(t *testing.T) {
	syncer := &fakeSyncer{}
	c, _ := newTestController(syncer)

	_, err := c.Run(context.Background(), ConfirmFunc(func(context.Context, string) (bool, error) {
		t.Fatal("confirmer must not be called")
		return false, nil
	}))

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Empty(t, syncer.calls)
}

func TestRun_GenericFailure(t *testing.T) {
	syncer := &fakeSyncer{respond: func(fsapi.SyncRequest) error { return fsapi.ErrNotFound }}
	c, _ := newTestController(syncer)
	withPaths(t, c, "/src", "/dst")

	out, err := c.Run(context.Background(), &recordingConfirmer{answer: true})
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.ErrorIs(t, out.Err, fsapi.ErrNotFound)
	assert.Len(t, syncer.calls, 1)
}
