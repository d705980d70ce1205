package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/service"
	"github.com/techLii/chatobi/internal/session"
	"github.com/techLii/chatobi/internal/views"
	"github.com/techLii/chatobi/internal/vote"
)

// Options tune every connection of a Hub.
type Options struct {
	// RateLimit is the number of requests per second a connection may send.
	RateLimit float64
	// RateBurst is the size of the request burst a connection may send.
	RateBurst int
}

// Hub maintains the set of active clients and dispatches their requests.
type Hub struct {
	connections map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	count       chan chan int
	quit        chan struct{}
	done        chan struct{}

	userService    service.IUserService
	chatService    service.IChatService
	eventService   service.IEventService
	dmService      service.IDirectMessageService
	profileService service.IProfileService
	views          *views.Factory
	votes          *vote.Mutator
	opts           Options
}

func NewHub(
	userService service.IUserService,
	chatService service.IChatService,
	eventService service.IEventService,
	dmService service.IDirectMessageService,
	profileService service.IProfileService,
	factory *views.Factory,
	votes *vote.Mutator,
	opts Options,
) *Hub {
	return &Hub{
		connections:    make(map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		count:          make(chan chan int),
		quit:           make(chan struct{}),
		done:           make(chan struct{}),
		userService:    userService,
		chatService:    chatService,
		eventService:   eventService,
		dmService:      dmService,
		profileService: profileService,
		views:          factory,
		votes:          votes,
		opts:           opts,
	}
}

// Run tracks connections until Stop is called. Requests are not handled here:
// each connection handles its own on its read goroutine.
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.connections[client] = true
		case client := <-h.unregister:
			if _, ok := h.connections[client]; ok {
				delete(h.connections, client)
				close(client.Send)
			}
		case reply := <-h.count:
			reply <- len(h.connections)
		case <-h.quit:
			for client := range h.connections {
				client.Conn.Close()
			}
			return
		}
	}
}

// Stop closes every connection and ends Run.
func (h *Hub) Stop() {
	select {
	case <-h.quit:
	default:
		close(h.quit)
	}
	<-h.done
}

// Connections returns the number of open connections.
func (h *Hub) Connections() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

func (h *Hub) ServeWs(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		ID:      uuid.NewString()[:8],
		Hub:     h,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Session: session.New(),
		views:   newViewSet(),
		limiter: rate.NewLimiter(rate.Limit(h.opts.RateLimit), h.opts.RateBurst),
		ctx:     ctx,
		cancel:  cancel,
	}
	select {
	case h.register <- client:
	case <-h.done:
		cancel()
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// requiresAuth lists the requests that change state on behalf of a user.
var requiresAuth = map[string]bool{
	domain.TypeLogout:            true,
	domain.TypePostMessage:       true,
	domain.TypeCastVote:          true,
	domain.TypeCreateEvent:       true,
	domain.TypeDeleteEvent:       true,
	domain.TypeSendDirectMessage: true,
	domain.TypeSaveProfile:       true,
}

func (h *Hub) handleMessage(c *Client, req domain.WebSocketMessage) {
	if requiresAuth[req.Type] && c.Session.Current() == nil {
		h.fail(c, req.Type, domain.ErrAuthRequired)
		return
	}

	var err error
	switch req.Type {
	case domain.TypeSignup:
		err = h.handleSignup(c, req)
	case domain.TypeLogin:
		err = h.handleLogin(c, req)
	case domain.TypeResume:
		err = h.handleResume(c, req)
	case domain.TypeLogout:
		err = h.handleLogout(c)
	case domain.TypeListConstituencies:
		c.send(domain.TypeConstituencies, domain.ConstituenciesPayload{Constituencies: domain.Constituencies()})
	case domain.TypeOpenView:
		err = h.handleOpenView(c, req)
	case domain.TypeCloseView:
		err = h.handleCloseView(c, req)
	case domain.TypePostMessage:
		err = h.handlePostMessage(c, req)
	case domain.TypeCastVote:
		err = h.handleCastVote(c, req)
	case domain.TypeCreateEvent:
		err = h.handleCreateEvent(c, req)
	case domain.TypeDeleteEvent:
		err = h.handleDeleteEvent(c, req)
	case domain.TypeSendDirectMessage:
		err = h.handleSendDirectMessage(c, req)
	case domain.TypeGetProfile:
		err = h.handleGetProfile(c, req)
	case domain.TypeSaveProfile:
		err = h.handleSaveProfile(c, req)
	default:
		c.sendSystemMessage(domain.TypeErrorMessage, req.Type, fmt.Sprintf("Unknown message type: %s", req.Type))
		return
	}
	if err != nil {
		h.fail(c, req.Type, err)
	}
}

// fail logs a failed request and reports it to the client.
func (h *Hub) fail(c *Client, op string, err error) {
	log.Printf("[hub] %s failed (client: %s): %v", op, c.name(), err)
	c.sendSystemMessage(domain.TypeErrorMessage, op, userMessage(err))
}

func userMessage(err error) string {
	var invalid *domain.ValidationError
	switch {
	case errors.As(err, &invalid):
		return "Invalid input: " + invalid.Error()
	case errors.Is(err, domain.ErrAuthRequired):
		return "Authentication required."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, domain.ErrConflict):
		return "Email is already registered."
	case errors.Is(err, domain.ErrNotFound):
		return "Not found: " + err.Error()
	case errors.Is(err, domain.ErrNetwork):
		return "Could not reach the server, please try again."
	}
	return err.Error()
}

// --- Auth handlers ---

func (h *Hub) handleSignup(c *Client, req domain.WebSocketMessage) error {
	var payload domain.SignupPayload
	if err := parsePayload(req.Payload, &payload); err != nil {
		return err
	}
	user, sess, err := h.userService.Signup(c.ctx, payload.Name, payload.Email, payload.Password)
	if err != nil {
		return err
	}
	h.authenticateClient(c, user, sess.Token, sess)
	return nil
}

func (h *Hub) handleLogin(c *Client, req domain.WebSocketMessage) error {
	var payload domain.LoginPayload
	if err := parsePayload(req.Payload, &payload); err != nil {
		return err
	}
	user, sess, err := h.userService.Login(c.ctx, payload.Email, payload.Password)
	if err != nil {
		return err
	}
	h.authenticateClient(c, user, sess.Token, sess)
	return nil
}

func (h *Hub) handleResume(c *Client, req domain.WebSocketMessage) error {
	var payload domain.ResumePayload
	if err := parsePayload(req.Payload, &payload); err != nil {
		return err
	}
	user, err := h.userService.CurrentUser(c.ctx, payload.Token)
	if err != nil {
		return err
	}
	h.authenticateClient(c, user, payload.Token, nil)
	return nil
}

func (h *Hub) authenticateClient(c *Client, user *domain.User, token string, sess *domain.Session) {
	if prev := c.Session.Current(); prev != nil && prev.ID != user.ID {
		c.views.closeKind(domain.ViewConversation)
	}
	c.Session.Set(user, token)
	payload := domain.LoginSuccessPayload{UserID: user.ID.String(), Name: user.Name, Token: token}
	if sess != nil {
		payload.ExpiresAt = sess.ExpiresAt
	}
	c.send(domain.TypeLoginSuccess, payload)
}

func (h *Hub) handleLogout(c *Client) error {
	if err := h.userService.Logout(c.ctx, c.Session.Token()); err != nil {
		return err
	}
	c.Session.Clear()
	c.views.closeKind(domain.ViewConversation)
	c.sendSystemMessage(domain.TypeLogoutSuccess, domain.TypeLogout, "Signed out.")
	return nil
}

// --- View handlers ---

func (h *Hub) handleOpenView(c *Client, req domain.WebSocketMessage) error {
	var payload domain.OpenViewPayload
	if err := parsePayload(req.Payload, &payload); err != nil {
		return err
	}
	v, err := h.views.Open(c.ctx, c.Session.Current(), payload, func(update domain.ViewUpdatePayload) {
		c.send(domain.TypeViewUpdate, update)
	})
	if err != nil {
		return err
	}
	c.views.add(v)
	v.Start(c.ctx)
	return nil
}

func (h *Hub) handleCloseView(c *Client, req domain.WebSocketMessage) error {
	var payload domain.CloseViewPayload
	if err := parsePayload(req.Payload, &payload); err != nil {
		return err
	}
	if !c.views.remove(payload.ViewID) {
		return fmt.Errorf("view %q: %w", payload.ViewID, domain.ErrNotFound)
	}
	return nil
}

// --- Message Handlers ---

func (h *Hub) handlePostMessage(c *Client, req domain.WebSocketMessage) error {
	var payload domain.PostMessagePayload
	if err := parsePayload(req.Payload, &payload); err != nil {
		return err
	}
	_, err := h.chatService.PostMessage(c.ctx, c.Session.Current(), payload.Constituency, payload.Body)
	return err
}

func (h *Hub) handleCastVote(c *Client, req domain.WebSocketMessage) error {
	var payload domain.CastVotePayload
	if err := parsePayload(req.Payload, &payload); err != nil {
		return err
	}
	dir, err := domain.ParseVoteDirection(payload.Direction)
	if err != nil {
		return err
	}
	v, ok := c.views.get(payload.ViewID)
	if !ok {
		return fmt.Errorf("view %q: %w", payload.ViewID, domain.ErrNotFound)
	}
	if v.Messages == nil {
		return domain.Invalid("view_id", "does not show messages")
	}

	voter := c.Session.Current()
	msg, err := h.votes.CastVote(c.ctx, v.Messages, payload.MessageID, voter, dir)
	if err != nil {
		return err
	}
	c.send(domain.TypeVoteApplied, domain.VoteAppliedPayload{
		MessageID: payload.MessageID,
		Direction: msg.VoteOf(voter.ID.String()),
		Score:     msg.Score(),
	})
	return nil
}

func (h *Hub) handleCreateEvent(c *Client, req domain.WebSocketMessage) error {
	var payload domain.CreateEventPayload
	if err := parsePayload(req.Payload, &payload); err != nil {
		return err
	}
	event, err := h.eventService.CreateEvent(c.ctx, c.Session.Current(), payload.Constituency, payload.EventInput)
	if err != nil {
		return err
	}
	c.sendSystemMessage(domain.TypeSystemMessage, req.Type, "Event created: "+event.DocID())
	return nil
}

func (h *Hub) handleDeleteEvent(c *Client, req domain.WebSocketMessage) error {
	var payload domain.DeleteEventPayload
	if err := parsePayload(req.Payload, &payload); err != nil {
		return err
	}
	if err := h.eventService.DeleteEvent(c.ctx, c.Session.Current(), payload.EventID); err != nil {
		return err
	}
	c.sendSystemMessage(domain.TypeSystemMessage, req.Type, "Event deleted.")
	return nil
}

func (h *Hub) handleSendDirectMessage(c *Client, req domain.WebSocketMessage) error {
	var payload domain.SendDirectMessagePayload
	if err := parsePayload(req.Payload, &payload); err != nil {
		return err
	}
	_, err := h.dmService.Send(c.ctx, c.Session.Current(), payload.Recipient, payload.Content)
	return err
}

// --- Profile handlers ---

func (h *Hub) handleGetProfile(c *Client, req domain.WebSocketMessage) error {
	var payload domain.GetProfilePayload
	if err := parsePayload(req.Payload, &payload); err != nil {
		return err
	}
	userID := strings.TrimSpace(payload.UserID)
	if userID == "" {
		me := c.Session.Current()
		if me == nil {
			return domain.ErrAuthRequired
		}
		userID = me.ID.String()
	}
	profile, err := h.profileService.GetProfile(c.ctx, userID)
	if err != nil {
		return err
	}
	c.send(domain.TypeProfile, domain.ProfilePayload{
		UserID:  userID,
		Name:    h.chatService.AuthorName(c.ctx, userID),
		Profile: profile,
	})
	return nil
}

func (h *Hub) handleSaveProfile(c *Client, req domain.WebSocketMessage) error {
	var payload domain.ProfileInput
	if err := parsePayload(req.Payload, &payload); err != nil {
		return err
	}
	me := c.Session.Current()
	profile, err := h.profileService.SaveProfile(c.ctx, me, payload)
	if err != nil {
		return err
	}
	c.send(domain.TypeProfile, domain.ProfilePayload{UserID: me.ID.String(), Name: me.Name, Profile: profile})
	return nil
}

// --- Helper Functions ---

func parsePayload(payload interface{}, result interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return domain.Invalid("payload", "cannot be encoded")
	}
	if err := json.Unmarshal(payloadBytes, result); err != nil {
		return domain.Invalid("payload", "is malformed")
	}
	return nil
}
