package memory

import (
	"context"
	"log"
	"sync"

	"github.com/techLii/chatobi/internal/live"
)

const subscriberBuffer = 256

// feed fans change notifications out to every open subscription.
type feed[T any] struct {
	name string
	mu   sync.Mutex
	subs map[chan live.Change[T]]struct{}
}

func newFeed[T any](name string) *feed[T] {
	return &feed[T]{name: name, subs: make(map[chan live.Change[T]]struct{})}
}

func (f *feed[T]) subscribe(ctx context.Context) <-chan live.Change[T] {
	ch := make(chan live.Change[T], subscriberBuffer)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, ch)
		close(ch)
		f.mu.Unlock()
	}()
	return ch
}

func (f *feed[T]) publish(kind live.Kind, doc T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- live.Change[T]{Kind: kind, Doc: doc}:
		default:
			log.Printf("[memory:%s] subscriber is full, dropping %s notification", f.name, kind)
		}
	}
}
