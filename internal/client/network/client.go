package network

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/techLii/chatobi/internal/domain"
)

// ErrClosed is returned by Request after the connection is gone.
var ErrClosed = errors.New("connection closed")

// Client Client는 WebSocket 연결을 관리합니다.
type Client struct {
	Conn     *websocket.Conn
	Send     chan domain.WebSocketMessage // 메시지 전송 채널 (동시 쓰기 방지)
	incoming chan Envelope
	done     chan struct{}
	once     sync.Once
}

// NewClient NewClient는 새 네트워크 클라이언트를 생성합니다.
func NewClient() *Client {
	return &Client{
		Send:     make(chan domain.WebSocketMessage, 256),
		incoming: make(chan Envelope, 256),
		done:     make(chan struct{}),
	}
}

// Connect Connect는 서버에 WebSocket 연결을 시도합니다.
func (c *Client) Connect(serverURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		return err
	}
	c.Conn = conn

	// 메시지 수신 및 송신 고루틴 시작
	go c.readPump()
	go c.writePump()

	return nil
}

// Incoming delivers every push from the server. It is closed when the
// connection ends.
func (c *Client) Incoming() <-chan Envelope { return c.incoming }

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} { return c.done }

// Request queues a request for the server.
func (c *Client) Request(msgType string, payload interface{}) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.Send <- domain.WebSocketMessage{Type: msgType, Payload: payload}:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// Close ends the connection.
func (c *Client) Close() {
	c.shutdown()
	if c.Conn != nil {
		_ = c.Conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.Conn.Close()
	}
}

func (c *Client) shutdown() {
	c.once.Do(func() { close(c.done) })
}

// readPump 서버로부터 메시지를 읽어 Incoming 채널로 전달합니다.
func (c *Client) readPump() {
	defer func() {
		c.shutdown()
		close(c.incoming)
		c.Conn.Close()
	}()
	for {
		var msg Envelope
		err := c.Conn.ReadJSON(&msg)
		if err != nil {
			select {
			case <-c.done:
			default:
				log.Printf("Connection closed: %v", err)
			}
			return
		}
		select {
		case c.incoming <- msg:
		case <-c.done:
			return
		}
	}
}

// writePump Send 채널의 메시지를 서버로 전송합니다. (동시 쓰기 방지)
func (c *Client) writePump() {
	for {
		select {
		case msg := <-c.Send:
			if err := c.Conn.WriteJSON(msg); err != nil {
				log.Printf("Write error: %v", err)
				c.shutdown()
				return
			}
		case <-c.done:
			return
		}
	}
}
