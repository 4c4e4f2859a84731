package event

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewEventBusWithSize(2, 16)

	var mu sync.Mutex
	var got []interface{}
	var calls int32
	bus.Subscribe(ArticleSaved, func(payload interface{}) {
		mu.Lock()
		got = append(got, payload)
		mu.Unlock()
	})
	bus.Subscribe(ArticleSaved, func(payload interface{}) {
		atomic.AddInt32(&calls, 1)
	})
	bus.Subscribe(ArticleDeleted, func(payload interface{}) {
		t.Errorf("不应收到 %v", payload)
	})

	bus.Publish(ArticleSaved, ArticlePayload{ArticleID: 1, Slug: "a"})
	bus.Publish(ArticleSaved, ArticlePayload{ArticleID: 2, Slug: "b"})
	bus.Shutdown()

	assert.ElementsMatch(t, []interface{}{
		ArticlePayload{ArticleID: 1, Slug: "a"},
		ArticlePayload{ArticleID: 2, Slug: "b"},
	}, got)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHandlerPanicDoesNotStopWorker(t *testing.T) {
	bus := NewEventBusWithSize(1, 8)

	var calls int32
	bus.Subscribe(TaxonomyChanged, func(payload interface{}) {
		if payload.(TaxonomyPayload).ID == 1 {
			panic("boom")
		}
		atomic.AddInt32(&calls, 1)
	})

	bus.Publish(TaxonomyChanged, TaxonomyPayload{Kind: "tag", ID: 1})
	bus.Publish(TaxonomyChanged, TaxonomyPayload{Kind: "tag", ID: 2})
	bus.Shutdown()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPublishAfterShutdown(t *testing.T) {
	bus := NewEventBusWithSize(1, 1)
	bus.Shutdown()

	assert.NotPanics(t, func() {
		bus.Publish(ArticleSaved, ArticlePayload{ArticleID: 1})
		bus.Shutdown()
	})
}

func TestPublishDropsWhenFull(t *testing.T) {
	bus := NewEventBusWithSize(1, 1)

	block := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	var calls int32
	bus.Subscribe(ArticleSaved, func(payload interface{}) {
		once.Do(func() { close(started) })
		<-block
		atomic.AddInt32(&calls, 1)
	})

	bus.Publish(ArticleSaved, 1)
	<-started
	bus.Publish(ArticleSaved, 2)
	bus.Publish(ArticleSaved, 3)
	close(block)
	bus.Shutdown()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
