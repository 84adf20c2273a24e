package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigboard/marketplace/internal/core/domain"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published []domain.ActivityEvent
	err       error
	closed    bool
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, e)
	return nil
}

func (p *recordingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func event(aggregate string, seq int) domain.ActivityEvent {
	return domain.ActivityEvent{
		Type:        domain.ActivityProposalSubmitted,
		AggregateID: aggregate,
		Attributes:  map[string]string{"seq": fmt.Sprint(seq)},
	}
}

func TestDispatcher_PreservesOrderPerAggregate(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(4, pub, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 20; i++ {
		d.Emit(event("job-a", i))
		d.Emit(event("job-b", i))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))

	require.Len(t, pub.published, 40)
	assert.True(t, pub.closed)

	next := map[string]int{}
	for _, e := range pub.published {
		assert.Equal(t, fmt.Sprint(next[e.AggregateID]), e.Attributes["seq"], "out of order for %s", e.AggregateID)
		next[e.AggregateID]++
	}
}

func TestDispatcher_DropsAfterShutdown(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(1, pub, zerolog.Nop())
	d.Start(context.Background())
	require.NoError(t, d.Shutdown(context.Background()))

	d.Emit(event("job-a", 0))
	assert.Empty(t, pub.published)
}

func TestDispatcher_PublishErrorsDoNotStopWorkers(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	d := NewDispatcher(2, pub, zerolog.Nop())
	d.Start(context.Background())

	d.Emit(event("job-a", 0))
	d.Emit(event("job-a", 1))

	require.NoError(t, d.Shutdown(context.Background()))
	assert.Empty(t, pub.published)
}

func TestDispatcher_DrainsQueueAfterStartContextCancelled(t *testing.T) {
	pub := &recordingPublisher{}
	d := NewDispatcher(1, pub, zerolog.Nop())

	for i := 0; i < 50; i++ {
		d.Emit(event("job-a", i))
	}

	runCtx, stop := context.WithCancel(context.Background())
	d.Start(runCtx)
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.published, 50)
	for i, e := range pub.published {
		assert.Equal(t, fmt.Sprint(i), e.Attributes["seq"])
	}
	assert.True(t, pub.closed)
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &recordingPublisher{}, zerolog.Nop())
	require.Len(t, d.workers, defaultWorkers)

	first := d.shardIndex("job-42")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("job-42"))
	}
}

func TestEncodeMessage(t *testing.T) {
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	msg, err := encodeMessage(domain.ActivityEvent{
		Type:        domain.ActivityJobPosted,
		AggregateID: "j1",
		ActorID:     "c1",
		OccurredAt:  at,
	})
	require.NoError(t, err)

	assert.Equal(t, "j1", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "job.posted", string(msg.Headers[0].Value))
	assert.JSONEq(t, `{"type":"job.posted","aggregate_id":"j1","actor_id":"c1","occurred_at":"2025-01-01T12:00:00Z"}`, string(msg.Value))
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, splitBrokers(" k1:9092, ,k2:9092 "))
	assert.Empty(t, splitBrokers(""))
}
