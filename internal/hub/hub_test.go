package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/simon-says-backend/internal/session"
)

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, session.Options{})
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateSession{Code: "ZED123", Reply: reply}
	s1 := <-reply

	h.Inbox() <- GetSession{Code: "ZED123", Reply: reply}
	s2 := <-reply

	if s1 == nil || s2 == nil || s1 != s2 {
		t.Fatalf("expected same session pointer")
	}
}

func TestHub_EnsureReusesExisting(t *testing.T) {
	h := NewHub(context.Background(), session.Options{})
	reply := make(chan *session.Session, 1)

	h.Inbox() <- EnsureSession{Code: "ABC123", Reply: reply}
	s1 := <-reply
	h.Inbox() <- EnsureSession{Code: "ABC123", Reply: reply}
	s2 := <-reply

	require.NotNil(t, s1)
	assert.Same(t, s1, s2)

	count := make(chan int, 1)
	h.Inbox() <- CountSessions{Reply: count}
	assert.Equal(t, 1, <-count)
}

func TestHub_LookupMissingIsNil(t *testing.T) {
	h := NewHub(context.Background(), session.Options{})
	s, err := h.Lookup(context.Background(), "NOPE00")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestHub_RemoveShutsSessionDown(t *testing.T) {
	h := NewHub(context.Background(), session.Options{})
	reply := make(chan *session.Session, 1)
	h.Inbox() <- CreateSession{Code: "GONE01", Reply: reply}
	s := <-reply

	h.Inbox() <- RemoveSession{Code: "GONE01"}

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatalf("removed session kept running")
	}

	got, err := h.Lookup(context.Background(), "GONE01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHub_ShutdownStopsSessions(t *testing.T) {
	h := NewHub(context.Background(), session.Options{})
	reply := make(chan *session.Session, 1)
	h.Inbox() <- CreateSession{Code: "BYE001", Reply: reply}
	s := <-reply

	h.Inbox() <- ShutdownHub{}

	for _, done := range []<-chan struct{}{h.Done(), s.Done()} {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("shutdown did not stop everything")
		}
	}

	_, err := h.Lookup(context.Background(), "BYE001")
	assert.ErrorIs(t, err, session.ErrClosed)
}

func TestHub_EnsureMethod(t *testing.T) {
	h := NewHub(context.Background(), session.Options{})
	ctx := context.Background()

	s1, err := h.Ensure(ctx, "ENS001")
	require.NoError(t, err)
	require.NotNil(t, s1)

	s2, err := h.Ensure(ctx, "ENS001")
	require.NoError(t, err)
	assert.Same(t, s1, s2)
}

func TestHub_EnsureAfterShutdownIsClosed(t *testing.T) {
	h := NewHub(context.Background(), session.Options{})
	h.Inbox() <- ShutdownHub{}
	<-h.Done()

	s, err := h.Ensure(context.Background(), "LATE01")
	assert.ErrorIs(t, err, session.ErrClosed)
	assert.Nil(t, s)
}

func TestHub_RemoveStoppedSessionWithFullInbox(t *testing.T) {
	h := NewHub(context.Background(), session.Options{InboxSize: 1})
	s, err := h.Ensure(context.Background(), "FULL01")
	require.NoError(t, err)

	s.Inbox() <- session.Shutdown{}
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatalf("session did not stop")
	}
	// Nobody drains the inbox any more.
	select {
	case s.Inbox() <- session.Acknowledge{}:
	default:
	}

	h.Inbox() <- RemoveSession{Code: "FULL01"}

	count := make(chan int, 1)
	h.Inbox() <- CountSessions{Reply: count}
	select {
	case n := <-count:
		assert.Equal(t, 0, n)
	case <-time.After(time.Second):
		t.Fatalf("hub blocked removing a stopped session")
	}
}
