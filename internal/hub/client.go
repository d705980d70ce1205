package hub

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/techLii/chatobi/internal/domain"
	"github.com/techLii/chatobi/internal/session"
)

// Client WebSocket 연결과 Hub 간의 중개자입니다.
type Client struct {
	ID      string
	Hub     *Hub // 중앙 Hub에 대한 참조
	Conn    *websocket.Conn
	Send    chan []byte // 메시지를 받는 채널
	Session *session.Session

	views   *viewSet
	limiter *rate.Limiter
	ctx     context.Context
	cancel  context.CancelFunc
}

// name identifies the client in log lines.
func (c *Client) name() string {
	if u := c.Session.Current(); u != nil {
		return c.ID + "/" + u.Name
	}
	return c.ID
}

// readPump reads requests from the WebSocket and handles them one at a time.
func (c *Client) readPump() {
	defer func() {
		c.views.closeAll()
		c.cancel()
		c.Hub.unregisterClient(c)
		c.Conn.Close()
	}()

	for {
		// JSON 메시지 읽기
		var req domain.WebSocketMessage
		err := c.Conn.ReadJSON(&req)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[hub] read error (client: %s): %v", c.name(), err)
			}
			break
		}

		if !c.limiter.Allow() {
			c.sendSystemMessage(domain.TypeErrorMessage, req.Type, "Too many requests, slow down.")
			continue
		}
		c.Hub.handleMessage(c, req)
	}
}

// writePump Send 채널의 메시지를 클라이언트의 WebSocket으로 보냅니다.
func (c *Client) writePump() {
	defer func() {
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if !ok {
				return
			}
			err := c.Conn.WriteMessage(websocket.TextMessage, message)
			if err != nil {
				log.Printf("[hub] write error (client: %s): %v", c.name(), err)
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// send queues a push. A client that stops reading loses pushes instead of
// stalling the views that produce them.
func (c *Client) send(msgType string, payload interface{}) {
	msg, err := json.Marshal(domain.WebSocketMessage{Type: msgType, Payload: payload})
	if err != nil {
		log.Printf("[hub] could not encode %s: %v", msgType, err)
		return
	}
	select {
	case c.Send <- msg:
	default:
		log.Printf("[hub] send buffer full, dropping %s for %s", msgType, c.name())
	}
}

// sendSystemMessage 특정 시스템 메시지를 클라이언트에게 전송합니다.
func (c *Client) sendSystemMessage(msgType, op, content string) {
	c.send(msgType, domain.SystemPayload{
		Op:        op,
		Content:   content,
		Timestamp: time.Now(),
	})
}
