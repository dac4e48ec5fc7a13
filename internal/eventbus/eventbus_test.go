package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInOrder(t *testing.T) {
	b := New()
	defer b.Close()

	var mu sync.Mutex
	var seqs []uint64
	b.Subscribe(EventResultsRendered, func(e DomainEvent) {
		mu.Lock()
		seqs = append(seqs, e.(ResultsRenderedEvent).Seq)
		mu.Unlock()
	})

	for i := uint64(1); i <= 5; i++ {
		b.Publish(ResultsRenderedEvent{Seq: i})
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seqs) == 5
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, seqs)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	defer b.Close()

	kept := make(chan DomainEvent, 10)
	dropped := make(chan DomainEvent, 10)
	unsubscribe := b.Subscribe(EventSearchFailed, func(e DomainEvent) { dropped <- e })
	b.Subscribe(EventSearchFailed, func(e DomainEvent) { kept <- e })

	unsubscribe()
	b.Publish(SearchFailedEvent{Seq: 1})

	select {
	case <-kept:
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber did not receive the event")
	}
	assert.Len(t, dropped, 0)
}

func TestHandlerPanicDoesNotStopDispatch(t *testing.T) {
	b := New()
	defer b.Close()

	got := make(chan struct{}, 1)
	b.Subscribe(EventQuerySubmitted, func(DomainEvent) { panic("boom") })
	b.Subscribe(EventQuerySubmitted, func(DomainEvent) { got <- struct{}{} })

	b.Publish(QuerySubmittedEvent{})

	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("handler after a panicking one was not called")
	}
}

func TestPublishAfterClose(t *testing.T) {
	b := New()
	b.Close()
	b.Close()

	assert.NotPanics(t, func() {
		b.Publish(ConfigSavedEvent{})
	})
}

func TestCloseDeliversQueuedEvents(t *testing.T) {
	b := New()

	var count int
	b.Subscribe(EventResponseDiscarded, func(DomainEvent) { count++ })
	for i := 0; i < 50; i++ {
		b.Publish(ResponseDiscardedEvent{Seq: uint64(i)})
	}
	b.Close()

	assert.Equal(t, 50, count)
}
