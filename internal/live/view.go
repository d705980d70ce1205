package live

import (
	"context"
	"log"
	"sort"
	"sync"
	"sync/atomic"
)

// Options tune a View.
type Options[T Item] struct {
	// Name is used in log lines.
	Name string
	// Match filters feed creates; documents of other scopes are dropped.
	Match func(T) bool
	// Less keeps the list sorted. Without it feed creates are appended.
	Less func(a, b T) bool
	// Cap keeps only the last Cap items when positive.
	Cap int
	// OnChange receives a copy of the list after every mutation. It is
	// called from the view goroutine and must not block.
	OnChange func([]T)
}

// View is an ordered list of documents scoped by a filter, seeded by a
// one-shot fetch and kept current by a change feed.
//
// All mutations run on the view's own goroutine one at a time, so fetch
// results, feed events and local replacements never interleave.
type View[T Item] struct {
	load      Loader[T]
	subscribe Subscriber[T]
	opts      Options[T]

	mu    sync.RWMutex
	items []T

	// ids deleted by the feed before the initial fetch was merged
	deleted map[string]bool
	merged  bool

	ops       chan func()
	started   atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

// NewView creates a view. Nothing happens until Start is called.
func NewView[T Item](load Loader[T], subscribe Subscriber[T], opts Options[T]) *View[T] {
	if opts.Name == "" {
		opts.Name = "view"
	}
	return &View[T]{
		load:      load,
		subscribe: subscribe,
		opts:      opts,
		deleted:   make(map[string]bool),
		ops:       make(chan func()),
		done:      make(chan struct{}),
	}
}

// Start fetches the initial items and opens the feed subscription
// concurrently. It returns immediately.
func (v *View[T]) Start(ctx context.Context) {
	v.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		v.cancel = cancel
		v.started.Store(true)
		go v.run(ctx)
	})
}

// Close unsubscribes from the feed and waits for the view goroutine to stop.
// The list is not mutated after Close returns.
func (v *View[T]) Close() {
	v.closeOnce.Do(func() {
		if !v.started.Load() {
			// Start can no longer launch the goroutine once done is closed.
			v.startOnce.Do(func() {})
			close(v.done)
			return
		}
		v.cancel()
		<-v.done
	})
}

// Done is closed once the view has stopped.
func (v *View[T]) Done() <-chan struct{} { return v.done }

// Snapshot returns a copy of the current list.
func (v *View[T]) Snapshot() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]T(nil), v.items...)
}

// Get returns the item with the given id.
func (v *View[T]) Get(id string) (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if i := indexOf(v.items, id); i >= 0 {
		return v.items[i], true
	}
	var zero T
	return zero, false
}

// Modify replaces the item with the given id by fn(item) on the view
// goroutine. It reports the item before and after the change and false when
// the item is not in the list or the view is not running.
func (v *View[T]) Modify(id string, fn func(T) T) (before, after T, ok bool) {
	if !v.started.Load() {
		return before, after, false
	}
	type result struct {
		before, after T
		ok            bool
	}
	res := make(chan result, 1)
	op := func() {
		var r result
		r.before, r.after, r.ok = v.modify(id, fn)
		res <- r
	}
	select {
	case v.ops <- op:
		r := <-res
		return r.before, r.after, r.ok
	case <-v.done:
		return before, after, false
	}
}

func (v *View[T]) run(ctx context.Context) {
	defer close(v.done)

	fetched := make(chan []T, 1)
	go func() {
		items, err := v.load(ctx)
		if err != nil {
			log.Printf("[live:%s] initial fetch failed: %v", v.opts.Name, err)
			items = nil
		}
		select {
		case fetched <- items:
		case <-ctx.Done():
		}
	}()

	feed, err := v.subscribe(ctx)
	if err != nil {
		log.Printf("[live:%s] subscribe failed, no live updates: %v", v.opts.Name, err)
		feed = nil
	}

	for {
		select {
		case <-ctx.Done():
			return
		case items := <-fetched:
			if ctx.Err() != nil {
				return
			}
			fetched = nil
			v.merge(items)
		case c, ok := <-feed:
			if ctx.Err() != nil {
				return
			}
			if !ok {
				log.Printf("[live:%s] feed closed, no live updates", v.opts.Name)
				feed = nil
				continue
			}
			v.apply(c)
		case op := <-v.ops:
			op()
		}
	}
}

// merge folds the initial fetch into whatever the feed delivered before it.
// Each id is kept once and ids the feed already deleted stay deleted.
func (v *View[T]) merge(fetched []T) {
	v.mu.Lock()
	seen := make(map[string]bool, len(fetched)+len(v.items))
	out := make([]T, 0, len(fetched)+len(v.items))
	for _, it := range fetched {
		id := it.DocID()
		if seen[id] || v.deleted[id] {
			continue
		}
		if v.opts.Match != nil && !v.opts.Match(it) {
			continue
		}
		if i := indexOf(v.items, id); i >= 0 {
			it = v.items[i]
		}
		seen[id] = true
		out = append(out, it)
	}
	for _, it := range v.items {
		if id := it.DocID(); !seen[id] {
			seen[id] = true
			out = append(out, it)
		}
	}
	v.merged = true
	v.deleted = nil
	v.items = out
	snapshot := v.normalize()
	v.mu.Unlock()
	v.notify(snapshot)
}

func (v *View[T]) apply(c Change[T]) {
	id := c.Doc.DocID()
	v.mu.Lock()
	changed := false
	switch c.Kind {
	case Create:
		if v.opts.Match != nil && !v.opts.Match(c.Doc) {
			break
		}
		if i := indexOf(v.items, id); i >= 0 {
			v.items[i] = c.Doc
		} else {
			v.items = append(v.items, c.Doc)
		}
		changed = true
	case Update:
		if i := indexOf(v.items, id); i >= 0 {
			v.items[i] = c.Doc
			changed = true
		}
	case Delete:
		if i := indexOf(v.items, id); i >= 0 {
			v.items = append(v.items[:i:i], v.items[i+1:]...)
			changed = true
		} else if !v.merged {
			v.deleted[id] = true
		}
	}
	var snapshot []T
	if changed {
		snapshot = v.normalize()
	}
	v.mu.Unlock()
	if changed {
		v.notify(snapshot)
	}
}

func (v *View[T]) modify(id string, fn func(T) T) (before, after T, ok bool) {
	v.mu.Lock()
	i := indexOf(v.items, id)
	if i < 0 {
		v.mu.Unlock()
		return before, after, false
	}
	before = v.items[i]
	after = fn(before)
	v.items[i] = after
	snapshot := v.normalize()
	v.mu.Unlock()
	v.notify(snapshot)
	return before, after, true
}

// normalize sorts and trims the list and returns a copy of it. Callers hold mu.
func (v *View[T]) normalize() []T {
	if v.opts.Less != nil {
		sort.SliceStable(v.items, func(i, j int) bool {
			return v.opts.Less(v.items[i], v.items[j])
		})
	}
	if v.opts.Cap > 0 && len(v.items) > v.opts.Cap {
		v.items = append([]T(nil), v.items[len(v.items)-v.opts.Cap:]...)
	}
	return append([]T(nil), v.items...)
}

func (v *View[T]) notify(items []T) {
	if v.opts.OnChange != nil {
		v.opts.OnChange(items)
	}
}

func indexOf[T Item](items []T, id string) int {
	for i, it := range items {
		if it.DocID() == id {
			return i
		}
	}
	return -1
}
