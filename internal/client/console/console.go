package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/techLii/chatobi/internal/client/network"
	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/ranking"
	"github.com/techLii/chatobi/internal/session"
)

// Requester sends requests to the server.
type Requester interface {
	Request(msgType string, payload interface{}) error
}

// Console shows one view and turns input lines into requests for it.
type Console struct {
	req     Requester
	session *session.Session
	view    domain.OpenViewPayload

	outMu sync.Mutex
	out   io.Writer

	mu     sync.Mutex
	listed []domain.Message // the last numbered list, for /up N and /down N
}

// New creates a console for view. The session is shared with whoever logs in.
func New(req Requester, sess *session.Session, out io.Writer, view domain.OpenViewPayload) *Console {
	return &Console{req: req, session: sess, out: out, view: view}
}

// Open asks the server to mount the view.
func (c *Console) Open() error {
	return c.req.Request(domain.TypeOpenView, c.view)
}

// Run handles server pushes and input lines until the user quits, the input
// ends or the connection closes.
func (c *Console) Run(ctx context.Context, incoming <-chan network.Envelope, lines <-chan string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.watchSession(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-incoming:
			if !ok {
				return network.ErrClosed
			}
			c.Handle(env)
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			more, err := c.Execute(line)
			if err != nil {
				c.printf("[ERROR] %v", err)
			}
			if !more {
				return nil
			}
		}
	}
}

// watchSession announces sign in and sign out.
func (c *Console) watchSession(ctx context.Context) {
	var last *domain.User
	for user := range c.session.Subscribe(ctx) {
		switch {
		case user != nil && (last == nil || last.ID != user.ID):
			c.printf("[SYSTEM] Signed in as %s (%s)", user.Name, user.ID)
		case user == nil && last != nil:
			c.printf("[SYSTEM] Signed out")
		}
		last = user
	}
}

// Handle applies one push from the server.
func (c *Console) Handle(env network.Envelope) {
	switch env.Type {
	case domain.TypeLoginSuccess:
		var p domain.LoginSuccessPayload
		if c.decode(env, &p) {
			id, err := uuid.Parse(p.UserID)
			if err != nil {
				c.printf("[ERROR] server sent a malformed user id")
				return
			}
			c.session.Set(&domain.User{ID: id, Name: p.Name}, p.Token)
		}
	case domain.TypeLogoutSuccess:
		c.session.Clear()
	case domain.TypeViewUpdate:
		var p domain.ViewUpdatePayload
		if c.decode(env, &p) && p.ViewID == c.view.ViewID {
			c.render(p)
		}
	case domain.TypeVoteApplied:
		var p domain.VoteAppliedPayload
		if c.decode(env, &p) {
			c.printf("[SYSTEM] Vote recorded, score is now %+d", p.Score)
		}
	case domain.TypeConstituencies:
		var p domain.ConstituenciesPayload
		if c.decode(env, &p) {
			for _, k := range p.Constituencies {
				c.printf("%-18s %s (%s)", k.ID, k.Name, k.County)
			}
		}
	case domain.TypeProfile:
		var p domain.ProfilePayload
		if c.decode(env, &p) {
			c.printf("%s", renderProfile(p))
		}
	case domain.TypeSystemMessage:
		var p domain.SystemPayload
		if c.decode(env, &p) {
			c.printf("[SYSTEM] %s", p.Content)
		}
	case domain.TypeErrorMessage:
		var p domain.SystemPayload
		if c.decode(env, &p) {
			if p.Op != "" {
				c.printf("[SERVER ERROR] %s: %s", p.Op, p.Content)
			} else {
				c.printf("[SERVER ERROR] %s", p.Content)
			}
		}
	default:
		c.printf("[UNKNOWN] %s", env.Type)
	}
}

// Execute runs one input line. It reports false when the user wants to leave.
func (c *Console) Execute(line string) (bool, error) {
	cmd, err := Parse(line)
	if err != nil {
		return true, err
	}
	switch cmd.Kind {
	case CommandQuit:
		return false, nil
	case CommandHelp:
		c.printf("%s", helpText)
	case CommandSend:
		return true, c.send(cmd.Text)
	case CommandVote:
		return true, c.vote(cmd)
	}
	return true, nil
}

func (c *Console) send(text string) error {
	if !c.session.Authenticated() {
		return domain.ErrAuthRequired
	}
	switch c.view.Kind {
	case domain.ViewChat:
		return c.req.Request(domain.TypePostMessage, domain.PostMessagePayload{Constituency: c.view.Constituency, Body: text})
	case domain.ViewConversation:
		return c.req.Request(domain.TypeSendDirectMessage, domain.SendDirectMessagePayload{Recipient: c.view.Peer, Content: text})
	}
	return domain.Invalid("input", "this view is read only")
}

func (c *Console) vote(cmd Command) error {
	if !c.session.Authenticated() {
		return domain.ErrAuthRequired
	}
	c.mu.Lock()
	listed := c.listed
	c.mu.Unlock()
	if c.view.Kind != domain.ViewChat && c.view.Kind != domain.ViewTrending {
		return domain.Invalid("command", "there is nothing to vote on here")
	}
	if cmd.Index > len(listed) {
		return domain.Invalid("command", fmt.Sprintf("there is no message %d", cmd.Index))
	}
	return c.req.Request(domain.TypeCastVote, domain.CastVotePayload{
		ViewID:    c.view.ViewID,
		MessageID: listed[cmd.Index-1].DocID(),
		Direction: string(cmd.Direction),
	})
}

func (c *Console) render(p domain.ViewUpdatePayload) {
	var me string
	if u := c.session.Current(); u != nil {
		me = u.ID.String()
	}

	var body string
	var err error
	switch p.Kind {
	case domain.ViewChat:
		var msgs []domain.Message
		if err = decodeItems(p, &msgs); err == nil {
			c.setListed(msgs)
			body = RenderMessages(msgs, me)
		}
	case domain.ViewTrending:
		var ranked []ranking.RankedMessage
		if err = decodeItems(p, &ranked); err == nil {
			msgs := make([]domain.Message, 0, len(ranked))
			for _, r := range ranked {
				msgs = append(msgs, r.Message)
			}
			c.setListed(msgs)
			body = RenderTrending(ranked)
		}
	case domain.ViewLeaderboard:
		var leaders []ranking.Leader
		if err = decodeItems(p, &leaders); err == nil {
			body = RenderLeaderboard(leaders)
		}
	case domain.ViewEvents:
		var events []domain.Event
		if err = decodeItems(p, &events); err == nil {
			body = RenderEvents(events, time.Now())
		}
	case domain.ViewConversation:
		var dms []domain.DirectMessage
		if err = decodeItems(p, &dms); err == nil {
			body = RenderConversation(dms, me, strings.TrimPrefix(p.Title, "Chat with "))
		}
	default:
		err = errors.New("unknown view kind " + p.Kind)
	}
	if err != nil {
		c.printf("[ERROR] could not show %s: %v", p.ViewID, err)
		return
	}
	c.printf("\n=== %s ===\n%s", p.Title, body)
}

func (c *Console) setListed(msgs []domain.Message) {
	c.mu.Lock()
	c.listed = msgs
	c.mu.Unlock()
}

func (c *Console) decode(env network.Envelope, v interface{}) bool {
	if err := env.Decode(v); err != nil {
		c.printf("[ERROR] malformed %s from server: %v", env.Type, err)
		return false
	}
	return true
}

func (c *Console) printf(format string, args ...interface{}) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, "\r"+format+"\n> ", args...)
}

func decodeItems(p domain.ViewUpdatePayload, v interface{}) error {
	return network.Envelope{Payload: p.Items}.Decode(v)
}

func renderProfile(p domain.ProfilePayload) string {
	if p.Profile == nil {
		return fmt.Sprintf("%s has no profile yet.", p.Name)
	}
	var parts []string
	if p.Profile.Age != nil {
		parts = append(parts, fmt.Sprintf("age %d", *p.Profile.Age))
	}
	if p.Profile.Sex != "" {
		parts = append(parts, p.Profile.Sex)
	}
	if p.Profile.Location != "" {
		parts = append(parts, "from "+p.Profile.Location)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s has an empty profile.", p.Name)
	}
	return fmt.Sprintf("%s: %s", p.Name, strings.Join(parts, ", "))
}
