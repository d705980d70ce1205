package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/hub"
	"github.com/techLii/chatobi/internal/service"
)

// APIHandler serves read-only JSON snapshots of the constituency views.
type APIHandler struct {
	chat   service.IChatService
	events service.IEventService
	hub    *hub.Hub
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(chat service.IChatService, events service.IEventService, h *hub.Hub) *APIHandler {
	return &APIHandler{chat: chat, events: events, hub: h}
}

// NewRouter registers every route of the server.
func NewRouter(ws *WebsocketHandler, api *APIHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", ws.HandleConnection).Methods(http.MethodGet)
	r.HandleFunc("/healthz", api.Health).Methods(http.MethodGet)

	v := r.PathPrefix("/api").Subrouter()
	v.HandleFunc("/constituencies", api.ListConstituencies).Methods(http.MethodGet)
	v.HandleFunc("/constituencies/{id}", api.GetConstituency).Methods(http.MethodGet)
	v.HandleFunc("/chat/{constituency}/messages", api.constituencyView(api.messages)).Methods(http.MethodGet)
	v.HandleFunc("/chat/{constituency}/leaderboard", api.constituencyView(api.leaderboard)).Methods(http.MethodGet)
	v.HandleFunc("/chat/{constituency}/trending", api.constituencyView(api.trending)).Methods(http.MethodGet)
	v.HandleFunc("/chat/{constituency}/events", api.constituencyView(api.upcoming)).Methods(http.MethodGet)
	return r
}

// Health reports liveness and the number of open connections.
func (a *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"connections": a.hub.Connections(),
	})
}

func (a *APIHandler) ListConstituencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.ConstituenciesPayload{Constituencies: domain.Constituencies()})
}

func (a *APIHandler) GetConstituency(w http.ResponseWriter, r *http.Request) {
	c, ok := domain.LookupConstituency(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "constituency not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type viewFunc func(ctx context.Context, constituency string) (interface{}, error)

// constituencyView resolves the {constituency} route variable and renders fn.
func (a *APIHandler) constituencyView(fn viewFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["constituency"]
		if _, ok := domain.LookupConstituency(id); !ok {
			writeError(w, http.StatusNotFound, "constituency not found")
			return
		}
		items, err := fn(r.Context(), id)
		if err != nil {
			log.Printf("[handler] %s failed: %v", r.URL.Path, err)
			status := http.StatusBadGateway
			if errors.Is(err, domain.ErrNotFound) {
				status = http.StatusNotFound
			}
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"constituency": id, "items": items})
	}
}

func (a *APIHandler) messages(ctx context.Context, id string) (interface{}, error) {
	return a.chat.RecentMessages(ctx, id)
}

func (a *APIHandler) leaderboard(ctx context.Context, id string) (interface{}, error) {
	return a.chat.Leaderboard(ctx, id)
}

func (a *APIHandler) trending(ctx context.Context, id string) (interface{}, error) {
	return a.chat.Trending(ctx, id)
}

func (a *APIHandler) upcoming(ctx context.Context, id string) (interface{}, error) {
	return a.events.ListEvents(ctx, id)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[handler] could not write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
