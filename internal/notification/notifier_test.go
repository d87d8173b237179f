package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingProvider struct {
	mu    sync.Mutex
	sent  []string
	err   error
	block chan struct{}
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) Send(context.Context, []string, string, string) error { return nil }

func (p *recordingProvider) SendTemplate(_ context.Context, to []string, templateName string, _ map[string]any) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, to[0]+":"+templateName)
	return p.err
}

func (p *recordingProvider) Sent() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.sent...)
}

func TestDispatcherDeliversQueuedMessages(t *testing.T) {
	provider := &recordingProvider{}
	d := NewDispatcher(provider, zap.NewNop(), nil, Config{Workers: 1, QueueSize: 4})
	d.Start()

	d.Notify(context.Background(), Message{To: "a@example.com", Template: "booking_created"})
	d.Notify(context.Background(), Message{To: " ", Template: "booking_created"})
	d.Notify(context.Background(), Message{To: "b@example.com", Template: "booking_completed"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
	assert.Equal(t, []string{"a@example.com:booking_created", "b@example.com:booking_completed"}, provider.Sent())
}

func TestDispatcherSwallowsProviderErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	provider := &recordingProvider{err: errors.New("smtp down")}
	d := NewDispatcher(provider, zap.New(core), nil, Config{Workers: 1, QueueSize: 1})
	d.Start()

	d.Notify(context.Background(), Message{OrgID: "1", To: "a@example.com", Template: "booking_completed"})
	require.NoError(t, d.Close(context.Background()))

	entries := logs.FilterMessage("notification failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "booking_completed", entries[0].ContextMap()["template"])
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	provider := &recordingProvider{block: make(chan struct{})}
	d := NewDispatcher(provider, zap.New(core), nil, Config{Workers: 1, QueueSize: 1})
	d.Start()

	// first is picked up by the blocked worker, second fills the queue
	d.Notify(context.Background(), Message{To: "1@example.com", Template: "t"})
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, 5*time.Millisecond)
	d.Notify(context.Background(), Message{To: "2@example.com", Template: "t"})
	d.Notify(context.Background(), Message{To: "3@example.com", Template: "t"})

	close(provider.block)
	require.NoError(t, d.Close(context.Background()))

	assert.Len(t, provider.Sent(), 2)
	assert.Equal(t, 1, logs.FilterMessage("notification failed").Len())
}

func TestNotifyAfterCloseDoesNotPanic(t *testing.T) {
	d := NewDispatcher(&recordingProvider{}, zap.NewNop(), nil, Config{})
	d.Start()
	require.NoError(t, d.Close(context.Background()))
	assert.NotPanics(t, func() {
		d.Notify(context.Background(), Message{To: "a@example.com", Template: "t"})
	})
}
