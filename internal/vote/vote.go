// Package vote toggles a user's vote on a message with immediate local
// feedback and eventual persistence.
package vote

import (
	"context"
	"fmt"
	"log"

	"github.com/techLii/chatobi/internal/domain"
)

// Store persists the resulting vote of one voter on one message. Implementations
// must change only that voter's membership so concurrent voters are not lost.
type Store interface {
	SetVote(ctx context.Context, messageID, voterID string, dir domain.VoteDirection) error
}

// Cache is the locally held copy of the messages a view displays.
type Cache interface {
	Modify(id string, fn func(domain.Message) domain.Message) (before, after domain.Message, ok bool)
}

// Toggle returns m with voter's vote applied. Casting the same direction again
// retracts the vote; casting the opposite direction moves it. The voter ends
// up in at most one of the two sets.
func Toggle(m domain.Message, voterID string, dir domain.VoteDirection) domain.Message {
	next := dir
	if m.VoteOf(voterID) == dir {
		next = domain.VoteNone
	}
	return Set(m, voterID, next)
}

// Set returns m with voter's membership forced to dir.
func Set(m domain.Message, voterID string, dir domain.VoteDirection) domain.Message {
	out := m.Clone()
	out.Upvoters = without(out.Upvoters, voterID)
	out.Downvoters = without(out.Downvoters, voterID)
	switch dir {
	case domain.VoteUp:
		out.Upvoters = append(out.Upvoters, voterID)
	case domain.VoteDown:
		out.Downvoters = append(out.Downvoters, voterID)
	}
	return out
}

func without(set []string, v string) []string {
	out := set[:0]
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

// Mutator applies votes optimistically and rolls them back when the store
// rejects them.
type Mutator struct {
	store Store
}

// NewMutator creates a Mutator persisting to store.
func NewMutator(store Store) *Mutator {
	return &Mutator{store: store}
}

// CastVote toggles voter's vote on the cached message. The cache is updated
// before the store is called; if the store fails the voter's previous vote is
// restored on the cached copy and the error is returned. Nothing happens
// without a voter.
func (m *Mutator) CastVote(ctx context.Context, cache Cache, messageID string, voter *domain.User, dir domain.VoteDirection) (domain.Message, error) {
	if voter == nil {
		return domain.Message{}, domain.ErrAuthRequired
	}
	if dir != domain.VoteUp && dir != domain.VoteDown {
		return domain.Message{}, domain.Invalid("direction", "must be up or down")
	}
	voterID := voter.ID.String()

	before, after, ok := cache.Modify(messageID, func(msg domain.Message) domain.Message {
		return Toggle(msg, voterID, dir)
	})
	if !ok {
		return domain.Message{}, fmt.Errorf("message %s: %w", messageID, domain.ErrNotFound)
	}
	previous := before.VoteOf(voterID)

	if err := m.store.SetVote(ctx, messageID, voterID, after.VoteOf(voterID)); err != nil {
		log.Printf("[vote] persisting vote on %s by %s failed, rolling back: %v", messageID, voterID, err)
		// Feed updates may have landed in between, so only this voter's
		// membership is put back.
		_, reverted, _ := cache.Modify(messageID, func(msg domain.Message) domain.Message {
			return Set(msg, voterID, previous)
		})
		return reverted, domain.NetworkError("cast vote", err)
	}
	return after, nil
}
