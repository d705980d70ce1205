package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/ranking"
)

const timeFormat = "15:04:05"

// RenderMessages numbers messages so they can be voted on with /up N.
func RenderMessages(msgs []domain.Message, me string) string {
	if len(msgs) == 0 {
		return "No messages yet. Say something!"
	}
	var b strings.Builder
	for i, m := range msgs {
		marker := ""
		switch m.VoteOf(me) {
		case domain.VoteUp:
			marker = " ▲"
		case domain.VoteDown:
			marker = " ▼"
		}
		fmt.Fprintf(&b, "%3d. [%s] %s (%+d%s): %s\n",
			i+1, m.CreatedAt.Local().Format(timeFormat), author(m.AuthorName), m.Score(), marker, m.Body)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderLeaderboard lists authors by summed score.
func RenderLeaderboard(leaders []ranking.Leader) string {
	if len(leaders) == 0 {
		return "No upvoted messages yet."
	}
	var b strings.Builder
	for i, l := range leaders {
		fmt.Fprintf(&b, "%2d. %-24s %4d points in %d message(s)\n", i+1, l.AuthorName, l.Score, l.Messages)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderTrending lists the best scoring messages, numbered for voting.
func RenderTrending(msgs []ranking.RankedMessage) string {
	if len(msgs) == 0 {
		return "Nothing is trending yet."
	}
	var b strings.Builder
	for i, m := range msgs {
		fmt.Fprintf(&b, "%2d. (%+d) %s: %s\n", i+1, m.Score, author(m.AuthorName), m.Body)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderEvents lists events, marking the ones that already started.
func RenderEvents(events []domain.Event, now time.Time) string {
	if len(events) == 0 {
		return "No events scheduled."
	}
	var b strings.Builder
	for _, e := range events {
		when := e.StartTime.Local().Format("Mon 2 Jan 15:04")
		if !e.IsUpcoming(now) {
			when += " (past)"
		}
		fmt.Fprintf(&b, "* %s  %s", when, e.Title)
		if e.Location != "" {
			fmt.Fprintf(&b, " @ %s", e.Location)
		}
		fmt.Fprintf(&b, "\n    %s\n", e.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderConversation shows direct messages from me's point of view.
func RenderConversation(msgs []domain.DirectMessage, me, peerName string) string {
	if len(msgs) == 0 {
		return "No messages yet."
	}
	var b strings.Builder
	for _, m := range msgs {
		from := peerName
		if m.FromUser == me {
			from = "Me"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", m.SentAt.Local().Format(timeFormat), from, m.Body)
	}
	return strings.TrimRight(b.String(), "\n")
}

func author(name string) string {
	if name == "" {
		return "Anonymous"
	}
	return name
}
