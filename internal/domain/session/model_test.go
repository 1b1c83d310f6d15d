package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewIntent(t *testing.T) {
	t.Run("valid goal", func(t *testing.T) {
		intent, err := NewIntent("inspect the warehouse roof", map[string]any{"time_limit": "1h"})
		require.NoError(t, err)
		require.Equal(t, "inspect the warehouse roof", intent.Goal)
		require.Equal(t, "1h", intent.Constraints["time_limit"])
	})

	t.Run("trims whitespace", func(t *testing.T) {
		intent, err := NewIntent("  check brakes  ", nil)
		require.NoError(t, err)
		require.Equal(t, "check brakes", intent.Goal)
	})

	t.Run("empty goal is invalid", func(t *testing.T) {
		_, err := NewIntent("   ", nil)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("too-short goal needs clarification", func(t *testing.T) {
		_, err := NewIntent("ab", nil)
		require.ErrorIs(t, err, ErrClarificationNeeded)
	})
}

func TestNewSession(t *testing.T) {
	now := time.Now().UTC()
	intent, err := NewIntent("inspect pump station 4", nil)
	require.NoError(t, err)

	t.Run("starts in created state", func(t *testing.T) {
		sess, err := NewSession("s1", "tenant1", "user1", intent, nil, now)
		require.NoError(t, err)
		require.Equal(t, StatusCreated, sess.Status)
		require.Equal(t, "tenant1", sess.TenantID)
		require.Equal(t, "user1", sess.CreatedBy)
		require.Nil(t, sess.CompletedAt)
		require.Nil(t, sess.RecordID)
	})

	t.Run("requires tenant and creator", func(t *testing.T) {
		_, err := NewSession("s1", "", "user1", intent, nil, now)
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = NewSession("s1", "tenant1", "", intent, nil, now)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestSessionTransitions(t *testing.T) {
	now := time.Now().UTC()
	intent, err := NewIntent("inspect pump station 4", nil)
	require.NoError(t, err)

	newSession := func(t *testing.T) *InspectionSession {
		t.Helper()
		sess, err := NewSession("s1", "tenant1", "user1", intent, nil, now)
		require.NoError(t, err)
		return sess
	}

	t.Run("created to in_progress", func(t *testing.T) {
		sess := newSession(t)
		require.NoError(t, sess.StartProgress(now))
		require.Equal(t, StatusInProgress, sess.Status)
	})

	t.Run("start is not repeatable", func(t *testing.T) {
		sess := newSession(t)
		require.NoError(t, sess.StartProgress(now))
		require.ErrorIs(t, sess.StartProgress(now), ErrInvalidTransition)
	})

	t.Run("complete sets terminal state", func(t *testing.T) {
		sess := newSession(t)
		require.NoError(t, sess.StartProgress(now))

		completedAt := now.Add(time.Minute)
		sess.Complete("record-s1", completedAt)
		require.Equal(t, StatusCompleted, sess.Status)
		require.NotNil(t, sess.CompletedAt)
		require.Equal(t, completedAt, *sess.CompletedAt)
		require.NotNil(t, sess.RecordID)
		require.Equal(t, "record-s1", *sess.RecordID)
	})

	t.Run("complete is idempotent", func(t *testing.T) {
		sess := newSession(t)
		require.NoError(t, sess.StartProgress(now))

		first := now.Add(time.Minute)
		sess.Complete("record-s1", first)

		// A retried completion must not move the timestamp or record id.
		sess.Complete("record-other", first.Add(time.Hour))
		require.Equal(t, first, *sess.CompletedAt)
		require.Equal(t, "record-s1", *sess.RecordID)
	})

	t.Run("complete without record id leaves it unset", func(t *testing.T) {
		sess := newSession(t)
		require.NoError(t, sess.StartProgress(now))
		sess.Complete("", now)
		require.Equal(t, StatusCompleted, sess.Status)
		require.Nil(t, sess.RecordID)
	})
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"created", "in_progress", "completed"} {
		status, err := ParseStatus(valid)
		require.NoError(t, err)
		require.Equal(t, Status(valid), status)
	}

	_, err := ParseStatus("archived")
	require.ErrorIs(t, err, ErrUnknownStatus)
}
