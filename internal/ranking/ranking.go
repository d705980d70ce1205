// Package ranking orders messages by vote tally for the leaderboard, trending
// and ranked chat renders. Every function is pure and recomputed from a
// snapshot; inputs are bounded by the fetch page size.
package ranking

import (
	"sort"
	"time"

	"github.com/techLii/chatobi/internal/domain"
)

const (
	// TopLeaders is the size of the leaderboard.
	TopLeaders = 10
	// TopTrending is the number of trending messages shown.
	TopTrending = 20
)

// RankedMessage is a message with its score at ranking time.
type RankedMessage struct {
	domain.Message
	Score int `json:"score"`
}

// Leader is an author with the summed score of their positive messages.
type Leader struct {
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	Score      int    `json:"score"`
	Messages   int    `json:"messages"`
}

// Score is upvotes minus downvotes.
func Score(m domain.Message) int {
	return m.Score()
}

// Rank orders messages by score, most recent first on equal scores. Remaining
// ties are broken by id so the order does not depend on the input order.
func Rank(msgs []domain.Message) []RankedMessage {
	ranked := make([]RankedMessage, 0, len(msgs))
	for _, m := range msgs {
		ranked = append(ranked, RankedMessage{Message: m, Score: Score(m)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.Hex() < b.ID.Hex()
	})
	return ranked
}

// Trending returns at most n messages with a positive score in rank order.
func Trending(msgs []domain.Message, n int) []RankedMessage {
	positive := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		if Score(m) > 0 {
			positive = append(positive, m)
		}
	}
	return truncate(Rank(positive), n)
}

// Leaderboard sums the positive-score messages of each author and returns the
// best n authors. Messages scoring zero or less contribute nothing, so authors
// without a positive message never appear.
func Leaderboard(msgs []domain.Message, n int) []Leader {
	type tally struct {
		Leader
		latest time.Time
	}
	byAuthor := make(map[string]*tally)
	for _, m := range msgs {
		s := Score(m)
		if s <= 0 {
			continue
		}
		t, ok := byAuthor[m.AuthorID]
		if !ok {
			t = &tally{Leader: Leader{AuthorID: m.AuthorID}}
			byAuthor[m.AuthorID] = t
		}
		t.Score += s
		t.Messages++
		if !ok || m.CreatedAt.After(t.latest) {
			t.latest = m.CreatedAt
			t.AuthorName = m.AuthorName
		}
	}

	tallies := make([]*tally, 0, len(byAuthor))
	for _, t := range byAuthor {
		if t.AuthorName == "" {
			t.AuthorName = "Anonymous"
		}
		tallies = append(tallies, t)
	}
	sort.Slice(tallies, func(i, j int) bool {
		a, b := tallies[i], tallies[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.latest.Equal(b.latest) {
			return a.latest.After(b.latest)
		}
		return a.AuthorID < b.AuthorID
	})

	leaders := make([]Leader, 0, len(tallies))
	for _, t := range tallies {
		leaders = append(leaders, t.Leader)
	}
	return truncate(leaders, n)
}

func truncate[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
