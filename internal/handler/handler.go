package handler

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/techLii/chatobi/internal/hub"
)

// WebSocket 업그레이더 설정
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 모든 오리진 허용 (터미널 클라이언트 전용)
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebsocketHandler WebSocket 연결 요청을 처리합니다.
type WebsocketHandler struct {
	hub *hub.Hub
}

// NewWebsocketHandler 새 WebsocketHandler를 생성합니다.
func NewWebsocketHandler(h *hub.Hub) *WebsocketHandler {
	return &WebsocketHandler{
		hub: h,
	}
}

// HandleConnection 핸들러 (GET /ws)
func (h *WebsocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	// Authentication happens over the socket with login, signup or resume.
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[handler] upgrade error: %v", err)
		return
	}

	h.hub.ServeWs(conn)
}
