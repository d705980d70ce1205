package console

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/ranking"
)

func TestRenderMessages(t *testing.T) {
	msgs := []domain.Message{
		{Body: "first", AuthorName: "Amina", Upvoters: []string{"me", "x"}},
		{Body: "second", Downvoters: []string{"x"}},
	}
	out := RenderMessages(msgs, "me")
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "1.")
	assert.Contains(t, lines[0], "Amina (+2 ▲): first")
	assert.Contains(t, lines[1], "Anonymous (-1): second")

	assert.Equal(t, "No messages yet. Say something!", RenderMessages(nil, "me"))
}

func TestRenderLeaderboardAndTrending(t *testing.T) {
	out := RenderLeaderboard([]ranking.Leader{{AuthorName: "Amina", Score: 7, Messages: 2}})
	assert.Contains(t, out, "Amina")
	assert.Contains(t, out, "7 points in 2 message(s)")
	assert.Equal(t, "No upvoted messages yet.", RenderLeaderboard(nil))

	out = RenderTrending([]ranking.RankedMessage{{Message: domain.Message{Body: "hot", AuthorName: "Otieno"}, Score: 4}})
	assert.Contains(t, out, "(+4) Otieno: hot")
}

func TestRenderEventsMarksPast(t *testing.T) {
	now := time.Now()
	out := RenderEvents([]domain.Event{
		{Title: "Done", Description: "was fun", StartTime: now.Add(-time.Hour)},
		{Title: "Soon", Description: "come", StartTime: now.Add(time.Hour), Location: "Hall"},
	}, now)
	assert.Contains(t, out, "(past)  Done")
	assert.Contains(t, out, "Soon @ Hall")
	assert.Equal(t, "No events scheduled.", RenderEvents(nil, now))
}

func TestRenderConversation(t *testing.T) {
	out := RenderConversation([]domain.DirectMessage{
		{FromUser: "me", Body: "hi"},
		{FromUser: "peer", Body: "hello"},
	}, "me", "Otieno")
	assert.Contains(t, out, "Me: hi")
	assert.Contains(t, out, "Otieno: hello")
}
