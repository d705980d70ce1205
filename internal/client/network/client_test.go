package network

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techLii/chatobi/internal/domain"
)

// echoServer answers every request with a system_message naming its type and
// hangs up on logout.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var msg Envelope
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == domain.TypeLogout {
				return
			}
			reply := domain.WebSocketMessage{
				Type:    domain.TypeSystemMessage,
				Payload: domain.SystemPayload{Op: msg.Type, Content: string(msg.Payload)},
			}
			if err := conn.WriteJSON(reply); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestRequestRoundTrip(t *testing.T) {
	c := NewClient()
	require.NoError(t, c.Connect(wsURL(echoServer(t))))
	defer c.Close()

	require.NoError(t, c.Request(domain.TypeLogin, domain.LoginPayload{Email: "amina@example.com", Password: "secret1"}))

	select {
	case env := <-c.Incoming():
		assert.Equal(t, domain.TypeSystemMessage, env.Type)
		var p domain.SystemPayload
		require.NoError(t, env.Decode(&p))
		assert.Equal(t, domain.TypeLogin, p.Op)
		assert.JSONEq(t, `{"email":"amina@example.com","password":"secret1"}`, p.Content)
	case <-time.After(2 * time.Second):
		t.Fatal("no reply from server")
	}
}

func TestRequestAfterClose(t *testing.T) {
	c := NewClient()
	require.NoError(t, c.Connect(wsURL(echoServer(t))))
	c.Close()

	assert.ErrorIs(t, c.Request(domain.TypeLogout, nil), ErrClosed)
	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("Done not closed")
	}
}

func TestIncomingClosesWhenServerGoesAway(t *testing.T) {
	c := NewClient()
	require.NoError(t, c.Connect(wsURL(echoServer(t))))
	defer c.Close()

	require.NoError(t, c.Request(domain.TypeLogout, nil))
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-c.Incoming():
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDecodeEmptyPayload(t *testing.T) {
	var p domain.SystemPayload
	assert.NoError(t, Envelope{Type: domain.TypeLogoutSuccess}.Decode(&p))
	assert.Empty(t, p.Content)
}

func TestConnectFails(t *testing.T) {
	c := NewClient()
	assert.Error(t, c.Connect("ws://127.0.0.1:1/ws"))
}
