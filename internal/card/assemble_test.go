package card

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youruser/cardapp/internal/avatar"
)

var testFallback = avatar.Fallback{Base: "https://fallback.example/png", Background: "ffd5dc"}

type stubResolver struct {
	mu    sync.Mutex
	urls  map[string]string
	calls []string
}

func (s *stubResolver) Resolve(_ context.Context, handle string) avatar.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, handle)
	u, ok := s.urls[handle]
	if !ok {
		return avatar.Result{}
	}
	return avatar.Result{AvatarURL: &u, DisplayName: &handle}
}

func TestAssembleWithoutHandlesUsesFallbacks(t *testing.T) {
	res := &stubResolver{}
	a := NewAssembler(res, testFallback)

	data, err := a.Assemble(context.Background(), Request{SenderName: "ann", ReceiverName: "bob", Message: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "Ann", data.SenderName)
	assert.Equal(t, "Bob", data.ReceiverName)
	assert.Equal(t, "bob", data.RawReceiverName)
	assert.Equal(t, testFallback.URL("ann"), data.SenderAvatarURL)
	assert.Equal(t, testFallback.URL("bob"), data.ReceiverAvatarURL)
	assert.True(t, data.SenderAvatarFallback)
	assert.True(t, data.ReceiverAvatarFallback)
	assert.Empty(t, res.calls)
	assert.Equal(t, "valentine_bob.jpg", Filename("valentine", data.RawReceiverName))
}

func TestAssembleResolvedAndMissedHandles(t *testing.T) {
	res := &stubResolver{urls: map[string]string{"annsmith": "https://cdn.example/ann.png"}}
	a := NewAssembler(res, testFallback)

	data, err := a.Assemble(context.Background(), Request{
		SenderHandle:   "annsmith",
		SenderName:     "ann smith",
		ReceiverHandle: "ghost",
		ReceiverName:   "bob",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/ann.png", data.SenderAvatarURL)
	assert.False(t, data.SenderAvatarFallback)
	assert.Equal(t, testFallback.URL("ghost"), data.ReceiverAvatarURL)
	assert.True(t, data.ReceiverAvatarFallback)
	assert.ElementsMatch(t, []string{"annsmith", "ghost"}, res.calls)
}

func TestAssembleAvatarsNeverEmpty(t *testing.T) {
	a := NewAssembler(&stubResolver{}, testFallback)
	names := []string{"a", "mary ann", " padded ", "♥", "x y z"}
	for _, s := range names {
		for _, r := range names {
			data, err := a.Assemble(context.Background(), Request{SenderName: s, ReceiverName: r, SenderHandle: r})
			require.NoError(t, err)
			assert.NotEmpty(t, data.SenderAvatarURL)
			assert.NotEmpty(t, data.ReceiverAvatarURL)
		}
	}
}

func TestAssembleNilResolver(t *testing.T) {
	a := NewAssembler(nil, testFallback)
	data, err := a.Assemble(context.Background(), Request{SenderName: "ann", SenderHandle: "annsmith", ReceiverName: "bob"})
	require.NoError(t, err)
	assert.Equal(t, testFallback.URL("annsmith"), data.SenderAvatarURL)
}

func TestAssembleRejectsMissingNames(t *testing.T) {
	res := &stubResolver{}
	a := NewAssembler(res, testFallback)

	_, err := a.Assemble(context.Background(), Request{SenderName: "ann", ReceiverName: "  ", ReceiverHandle: "bob"})
	assert.ErrorIs(t, err, ErrMissingName)
	assert.Empty(t, res.calls)
}

func TestAssembleTrimsMessageBeforeLimit(t *testing.T) {
	a := NewAssembler(&stubResolver{}, testFallback)
	msg := strings.Repeat("♥", MaxMessageLength)

	data, err := a.Assemble(context.Background(), Request{SenderName: "ann", ReceiverName: "bob", Message: "  " + msg + "\n"})
	require.NoError(t, err)
	assert.Equal(t, msg, data.Message)
}

func TestAssembleCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAssembler(&stubResolver{}, testFallback).Assemble(ctx, Request{SenderName: "ann", ReceiverName: "bob"})
	assert.ErrorIs(t, err, context.Canceled)
}
