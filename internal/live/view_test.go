package live

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	id    string
	scope string
	body  string
	at    int
}

func (n note) DocID() string { return n.id }

func bodies(items []note) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.body)
	}
	return out
}

func staticLoader(items ...note) Loader[note] {
	return func(context.Context) ([]note, error) {
		return append([]note(nil), items...), nil
	}
}

func feedOf(ch chan Change[note]) Subscriber[note] {
	return func(context.Context) (<-chan Change[note], error) {
		return ch, nil
	}
}

func inScope(scope string) func(note) bool {
	return func(n note) bool { return n.scope == scope }
}

func waitFor(t *testing.T, v *View[note], want []string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(want, bodies(v.Snapshot()))
	}, time.Second, 5*time.Millisecond, "want %v, got %v", want, bodies(v.Snapshot()))
}

func TestViewAppendsCreatedMessage(t *testing.T) {
	feed := make(chan Change[note])
	v := NewView(staticLoader(), feedOf(feed), Options[note]{Match: inScope("westlands")})
	v.Start(context.Background())
	defer v.Close()

	feed <- Change[note]{Kind: Create, Doc: note{id: "1", scope: "westlands", body: "hello"}}
	waitFor(t, v, []string{"hello"})
}

func TestViewIgnoresOtherScopes(t *testing.T) {
	feed := make(chan Change[note])
	v := NewView(staticLoader(), feedOf(feed), Options[note]{Match: inScope("westlands")})
	v.Start(context.Background())
	defer v.Close()

	feed <- Change[note]{Kind: Create, Doc: note{id: "1", scope: "kasarani", body: "elsewhere"}}
	feed <- Change[note]{Kind: Create, Doc: note{id: "2", scope: "westlands", body: "here"}}
	waitFor(t, v, []string{"here"})
}

func TestViewRemovesDeletedItem(t *testing.T) {
	feed := make(chan Change[note])
	v := NewView(staticLoader(note{id: "a", body: "A"}, note{id: "b", body: "B"}), feedOf(feed), Options[note]{})
	v.Start(context.Background())
	defer v.Close()
	waitFor(t, v, []string{"A", "B"})

	feed <- Change[note]{Kind: Delete, Doc: note{id: "a"}}
	waitFor(t, v, []string{"B"})
}

func TestViewReplacesUpdatedItem(t *testing.T) {
	feed := make(chan Change[note])
	v := NewView(staticLoader(note{id: "a", body: "A"}, note{id: "b", body: "B"}), feedOf(feed), Options[note]{})
	v.Start(context.Background())
	defer v.Close()
	waitFor(t, v, []string{"A", "B"})

	feed <- Change[note]{Kind: Update, Doc: note{id: "missing", body: "X"}}
	feed <- Change[note]{Kind: Update, Doc: note{id: "a", body: "A2"}}
	waitFor(t, v, []string{"A2", "B"})
}

func TestViewDedupesCreateRacingInitialFetch(t *testing.T) {
	release := make(chan struct{})
	load := func(context.Context) ([]note, error) {
		<-release
		return []note{{id: "1", body: "first"}, {id: "2", body: "second"}}, nil
	}
	feed := make(chan Change[note])
	v := NewView(load, feedOf(feed), Options[note]{})
	v.Start(context.Background())
	defer v.Close()

	feed <- Change[note]{Kind: Create, Doc: note{id: "2", body: "second"}}
	feed <- Change[note]{Kind: Create, Doc: note{id: "3", body: "third"}}
	waitFor(t, v, []string{"second", "third"})

	close(release)
	waitFor(t, v, []string{"first", "second", "third"})

	// a late duplicate create for a known id replaces it in place
	feed <- Change[note]{Kind: Create, Doc: note{id: "1", body: "first"}}
	feed <- Change[note]{Kind: Create, Doc: note{id: "4", body: "fourth"}}
	waitFor(t, v, []string{"first", "second", "third", "fourth"})
}

func TestViewKeepsEarlyDeletesAcrossFetch(t *testing.T) {
	release := make(chan struct{})
	load := func(context.Context) ([]note, error) {
		<-release
		return []note{{id: "a", body: "A"}, {id: "b", body: "B"}}, nil
	}
	feed := make(chan Change[note])
	v := NewView(load, feedOf(feed), Options[note]{})
	v.Start(context.Background())
	defer v.Close()

	feed <- Change[note]{Kind: Delete, Doc: note{id: "a"}}
	close(release)
	waitFor(t, v, []string{"B"})
}

func TestViewFailedFetchLeavesEmptyList(t *testing.T) {
	feed := make(chan Change[note])
	load := func(context.Context) ([]note, error) { return nil, errors.New("store unavailable") }

	var mu sync.Mutex
	var renders int
	v := NewView(load, feedOf(feed), Options[note]{OnChange: func([]note) {
		mu.Lock()
		renders++
		mu.Unlock()
	}})
	v.Start(context.Background())
	defer v.Close()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return renders == 1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, v.Snapshot())

	// live updates still flow
	feed <- Change[note]{Kind: Create, Doc: note{id: "1", body: "later"}}
	waitFor(t, v, []string{"later"})
}

func TestViewFailedSubscribeIsDegraded(t *testing.T) {
	sub := func(context.Context) (<-chan Change[note], error) { return nil, errors.New("feed rejected") }
	v := NewView(staticLoader(note{id: "1", body: "only"}), sub, Options[note]{})
	v.Start(context.Background())
	defer v.Close()

	waitFor(t, v, []string{"only"})
}

func TestViewNoMutationAfterClose(t *testing.T) {
	release := make(chan struct{})
	load := func(context.Context) ([]note, error) {
		<-release
		return []note{{id: "stale", body: "stale"}}, nil
	}
	feed := make(chan Change[note], 1)
	v := NewView(load, feedOf(feed), Options[note]{})
	v.Start(context.Background())

	v.Close()
	close(release)
	feed <- Change[note]{Kind: Create, Doc: note{id: "1", body: "late"}}

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, v.Snapshot())

	_, _, ok := v.Modify("stale", func(n note) note { return n })
	assert.False(t, ok)
}

func TestViewSortsAndCaps(t *testing.T) {
	feed := make(chan Change[note])
	v := NewView(
		staticLoader(note{id: "b", body: "B", at: 2}, note{id: "c", body: "C", at: 3}),
		feedOf(feed),
		Options[note]{
			Less: func(a, b note) bool { return a.at < b.at },
			Cap:  2,
		},
	)
	v.Start(context.Background())
	defer v.Close()
	waitFor(t, v, []string{"B", "C"})

	feed <- Change[note]{Kind: Create, Doc: note{id: "d", body: "D", at: 4}}
	waitFor(t, v, []string{"C", "D"})
}

func TestViewModify(t *testing.T) {
	feed := make(chan Change[note])
	v := NewView(staticLoader(note{id: "a", body: "A"}), feedOf(feed), Options[note]{})
	v.Start(context.Background())
	defer v.Close()
	waitFor(t, v, []string{"A"})

	before, after, ok := v.Modify("a", func(n note) note {
		n.body = "A!"
		return n
	})
	require.True(t, ok)
	assert.Equal(t, "A", before.body)
	assert.Equal(t, "A!", after.body)
	assert.Equal(t, []string{"A!"}, bodies(v.Snapshot()))

	_, _, ok = v.Modify("missing", func(n note) note { return n })
	assert.False(t, ok)
}

func TestViewCloseWithoutStart(t *testing.T) {
	v := NewView(staticLoader(), feedOf(make(chan Change[note])), Options[note]{})
	v.Close()
	v.Start(context.Background())
	select {
	case <-v.Done():
	default:
		t.Fatal("view not done")
	}
	assert.Empty(t, v.Snapshot())
}

func TestReverse(t *testing.T) {
	assert.Equal(t, []int{3, 2, 1}, Reverse([]int{1, 2, 3}))
	assert.Empty(t, Reverse([]int{}))
}
