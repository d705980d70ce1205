package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techLii/chatobi/internal/cache"
	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/handler"
	"github.com/techLii/chatobi/internal/hub"
	"github.com/techLii/chatobi/internal/repository/memory"
	"github.com/techLii/chatobi/internal/service"
	"github.com/techLii/chatobi/internal/views"
	"github.com/techLii/chatobi/internal/vote"
)

func newRouter(t *testing.T) (http.Handler, *memory.Store, *service.ChatService) {
	t.Helper()
	store := memory.NewStore()
	users := service.NewUserService(store, store, time.Hour)
	chat := service.NewChatService(store, store, store, cache.NewLRU[string](16))
	events := service.NewEventService(store)
	dms := service.NewDirectMessageService(store, store)
	factory := views.NewFactory(chat, events, dms, store, store, store)
	h := hub.NewHub(users, chat, events, dms, service.NewProfileService(store), factory, vote.NewMutator(store), hub.Options{RateLimit: 10, RateBurst: 10})
	go h.Run()
	t.Cleanup(h.Stop)
	return handler.NewRouter(handler.NewWebsocketHandler(h), handler.NewAPIHandler(chat, events, h)), store, chat
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	router, _, _ := newRouter(t)
	rec := get(t, router, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","connections":0}`, rec.Body.String())
}

func TestConstituencies(t *testing.T) {
	router, _, _ := newRouter(t)

	rec := get(t, router, "/api/constituencies")
	require.Equal(t, http.StatusOK, rec.Code)
	var list domain.ConstituenciesPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Constituencies, len(domain.Constituencies()))

	rec = get(t, router, "/api/constituencies/kibra")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Kibra"`)

	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/constituencies/atlantis").Code)
}

func TestConstituencyViews(t *testing.T) {
	router, store, chat := newRouter(t)
	ctx := context.Background()
	author, err := domain.NewUser("Amina", "amina@example.com", "password1")
	require.NoError(t, err)
	msg, err := chat.PostMessage(ctx, author, "kibra", "Habari")
	require.NoError(t, err)
	require.NoError(t, store.SetVote(ctx, msg.DocID(), "someone", domain.VoteUp))

	for _, view := range []string{"messages", "leaderboard", "trending", "events"} {
		t.Run(view, func(t *testing.T) {
			rec := get(t, router, "/api/chat/kibra/"+view)
			require.Equal(t, http.StatusOK, rec.Code)
			var body struct {
				Constituency string            `json:"constituency"`
				Items        []json.RawMessage `json:"items"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "kibra", body.Constituency)
			if view == "events" {
				assert.Empty(t, body.Items)
			} else {
				assert.Len(t, body.Items, 1)
			}

			assert.Equal(t, http.StatusNotFound, get(t, router, "/api/chat/atlantis/"+view).Code)
		})
	}
}

func TestStoreFailureIsBadGateway(t *testing.T) {
	router, store, _ := newRouter(t)
	store.SetFailing(true)
	assert.Equal(t, http.StatusBadGateway, get(t, router, "/api/chat/kibra/messages").Code)
}
