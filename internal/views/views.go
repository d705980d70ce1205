// Package views mounts live views of chat messages, rankings, events and
// conversations and renders their snapshots into view_update payloads.
package views

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/live"
	"github.com/techLii/chatobi/internal/ranking"
	"github.com/techLii/chatobi/internal/service"
)

// Mounted is a running view of one connection.
type Mounted struct {
	ID   string
	Kind string

	start func(context.Context)
	close func()

	// Messages is the message cache of chat, leaderboard and trending views.
	// It is nil for the other kinds.
	Messages *live.View[domain.Message]
}

// Start begins fetching and listening.
func (m *Mounted) Start(ctx context.Context) { m.start(ctx) }

// Close stops the view. No update is pushed after Close returns.
func (m *Mounted) Close() { m.close() }

// Factory builds views from the services and the change feeds.
type Factory struct {
	chat      service.IChatService
	events    service.IEventService
	dms       service.IDirectMessageService
	messages  service.IMessageRepository
	eventRepo service.IEventRepository
	dmRepo    service.IDirectMessageRepository
}

// NewFactory creates a new Factory.
func NewFactory(
	chat service.IChatService,
	events service.IEventService,
	dms service.IDirectMessageService,
	messages service.IMessageRepository,
	eventRepo service.IEventRepository,
	dmRepo service.IDirectMessageRepository,
) *Factory {
	return &Factory{
		chat:      chat,
		events:    events,
		dms:       dms,
		messages:  messages,
		eventRepo: eventRepo,
		dmRepo:    dmRepo,
	}
}

// Open builds the view requested by p for user me. Every change of the view
// is rendered and handed to push. The view is not started.
func (f *Factory) Open(ctx context.Context, me *domain.User, p domain.OpenViewPayload, push func(domain.ViewUpdatePayload)) (*Mounted, error) {
	if strings.TrimSpace(p.ViewID) == "" {
		return nil, domain.Invalid("view_id", "is required")
	}

	switch p.Kind {
	case domain.ViewChat, domain.ViewLeaderboard, domain.ViewTrending, domain.ViewEvents:
		c, ok := domain.LookupConstituency(p.Constituency)
		if !ok {
			return nil, fmt.Errorf("constituency %q: %w", p.Constituency, domain.ErrNotFound)
		}
		switch p.Kind {
		case domain.ViewChat:
			return f.chatView(p.ViewID, c, push), nil
		case domain.ViewLeaderboard, domain.ViewTrending:
			return f.rankedView(p.ViewID, p.Kind, c, push), nil
		default:
			return f.eventsView(p.ViewID, c, push), nil
		}
	case domain.ViewConversation:
		if me == nil {
			return nil, domain.ErrAuthRequired
		}
		peer := strings.TrimSpace(p.Peer)
		if peer == "" || peer == me.ID.String() {
			return nil, domain.Invalid("peer", "must be another user")
		}
		title := "Chat with " + f.chat.AuthorName(ctx, peer)
		return f.conversationView(p.ViewID, title, me, peer, push), nil
	}
	return nil, domain.Invalid("kind", fmt.Sprintf("unknown view %q", p.Kind))
}

func (f *Factory) chatView(id string, c domain.Constituency, push func(domain.ViewUpdatePayload)) *Mounted {
	title := c.Name + " chat"
	v := live.NewView(
		func(ctx context.Context) ([]domain.Message, error) {
			return f.chat.RecentMessages(ctx, c.ID)
		},
		f.messages.WatchMessages,
		live.Options[domain.Message]{
			Name:  domain.ViewChat + "/" + c.ID,
			Match: inScope(c.ID),
			OnChange: func(items []domain.Message) {
				push(render(id, domain.ViewChat, title, items))
			},
		},
	)
	return &Mounted{ID: id, Kind: domain.ViewChat, start: v.Start, close: v.Close, Messages: v}
}

// rankedView keeps a window of the most recent messages and recomputes the
// leaderboard or the trending list from it on every change.
func (f *Factory) rankedView(id, kind string, c domain.Constituency, push func(domain.ViewUpdatePayload)) *Mounted {
	var title string
	var rank func([]domain.Message) interface{}
	if kind == domain.ViewLeaderboard {
		title = c.Name + " leaderboard"
		rank = func(msgs []domain.Message) interface{} { return ranking.Leaderboard(msgs, ranking.TopLeaders) }
	} else {
		title = "Trending in " + c.Name
		rank = func(msgs []domain.Message) interface{} { return ranking.Trending(msgs, ranking.TopTrending) }
	}

	v := live.NewView(
		func(ctx context.Context) ([]domain.Message, error) {
			return f.chat.RankingSample(ctx, c.ID)
		},
		f.messages.WatchMessages,
		live.Options[domain.Message]{
			Name:  kind + "/" + c.ID,
			Match: inScope(c.ID),
			Cap:   service.RankingSampleSize,
			OnChange: func(items []domain.Message) {
				push(render(id, kind, title, rank(items)))
			},
		},
	)
	return &Mounted{ID: id, Kind: kind, start: v.Start, close: v.Close, Messages: v}
}

func (f *Factory) eventsView(id string, c domain.Constituency, push func(domain.ViewUpdatePayload)) *Mounted {
	title := "Events in " + c.Name
	v := live.NewView(
		func(ctx context.Context) ([]domain.Event, error) {
			return f.events.ListEvents(ctx, c.ID)
		},
		f.eventRepo.WatchEvents,
		live.Options[domain.Event]{
			Name:  domain.ViewEvents + "/" + c.ID,
			Match: func(e domain.Event) bool { return e.Scope == c.ID },
			Less:  func(a, b domain.Event) bool { return a.StartTime.Before(b.StartTime) },
			OnChange: func(items []domain.Event) {
				push(render(id, domain.ViewEvents, title, items))
			},
		},
	)
	return &Mounted{ID: id, Kind: domain.ViewEvents, start: v.Start, close: v.Close}
}

func (f *Factory) conversationView(id, title string, me *domain.User, peer string, push func(domain.ViewUpdatePayload)) *Mounted {
	conversation := domain.ConversationID(me.ID.String(), peer)
	v := live.NewView(
		func(ctx context.Context) ([]domain.DirectMessage, error) {
			return f.dms.Conversation(ctx, me, peer)
		},
		f.dmRepo.WatchDirectMessages,
		live.Options[domain.DirectMessage]{
			Name:  domain.ViewConversation + "/" + conversation,
			Match: func(m domain.DirectMessage) bool { return m.ConversationID == conversation },
			OnChange: func(items []domain.DirectMessage) {
				push(render(id, domain.ViewConversation, title, items))
			},
		},
	)
	return &Mounted{ID: id, Kind: domain.ViewConversation, start: v.Start, close: v.Close}
}

func inScope(scope string) func(domain.Message) bool {
	return func(m domain.Message) bool { return m.Scope == scope }
}

func render(id, kind, title string, items interface{}) domain.ViewUpdatePayload {
	raw, err := json.Marshal(items)
	if err != nil {
		log.Printf("[views] could not render %s: %v", id, err)
		raw = json.RawMessage("[]")
	}
	if string(raw) == "null" {
		raw = json.RawMessage("[]")
	}
	return domain.ViewUpdatePayload{ViewID: id, Kind: kind, Title: title, Items: raw}
}
