// Package live keeps an in-memory list of documents current by seeding it
// with a one-shot fetch and applying a change feed on top of it.
package live

import "context"

// Kind is the kind of a change feed notification.
type Kind int

const (
	Create Kind = iota + 1
	Update
	Delete
)

func (k Kind) String() string {
	switch k {
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	}
	return "unknown"
}

// Change is a single change feed notification.
type Change[T any] struct {
	Kind Kind
	Doc  T
}

// Item is a document with a store-assigned id.
type Item interface {
	DocID() string
}

// Loader returns the initial items of a view in display order.
type Loader[T Item] func(ctx context.Context) ([]T, error)

// Subscriber opens a change stream. The stream is closed when ctx is
// cancelled or the underlying feed disconnects; it is never restarted.
type Subscriber[T Item] func(ctx context.Context) (<-chan Change[T], error)

// Reverse reverses items in place and returns them. Stores hand back the most
// recent page newest-first while views display oldest-first.
func Reverse[T any](items []T) []T {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}
