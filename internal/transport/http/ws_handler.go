package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"quiz-submission-service/internal/app"
	"quiz-submission-service/internal/domain"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// WSHandler streams newly created submissions of one variant to websocket clients.
type WSHandler struct {
	feed     *app.Feed
	upgrader websocket.Upgrader
}

func NewWSHandler(feed *app.Feed, allowedOrigin string) *WSHandler {
	return &WSHandler{
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin.
				return origin == "" || origin == allowedOrigin
			},
		},
	}
}

type inboundMessage struct {
	Type string `json:"type"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type subscribedPayload struct {
	Variant domain.Variant `json:"variant"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades GET /ws/submissions/:variant and forwards the variant's feed.
func (h *WSHandler) ServeWS(c *gin.Context) {
	variant, err := domain.ParseVariant(c.Param("variant"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	updates, cancel := h.feed.Subscribe(variant)
	client := &wsClient{
		conn:    conn,
		variant: variant,
		send:    make(chan outboundMessage, 16),
		done:    make(chan struct{}),
	}
	go client.writePump(updates)
	client.readPump()
	cancel()
	<-client.done
}

// wsClient owns one connection; only writePump writes to conn.
type wsClient struct {
	conn    *websocket.Conn
	variant domain.Variant
	send    chan outboundMessage
	done    chan struct{}
}

func (c *wsClient) readPump() {
	defer close(c.send)

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	c.queue(outboundMessage{Type: "subscribed", Payload: subscribedPayload{Variant: c.variant}})
	for {
		var inbound inboundMessage
		if err := c.conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error (variant %s): %v", c.variant, err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		switch inbound.Type {
		case "ping":
			c.queue(outboundMessage{Type: "pong", Payload: subscribedPayload{Variant: c.variant}})
		default:
			c.queue(outboundMessage{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}
}

// queue hands msg to the writer unless it has already stopped.
func (c *wsClient) queue(msg outboundMessage) {
	select {
	case c.send <- msg:
	case <-c.done:
	}
}

// writePump serialises replies, feed updates and keepalive pings onto the connection.
// It closes the connection on exit, which also unblocks readPump.
func (c *wsClient) writePump(updates <-chan domain.Submission) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if !c.write(msg) {
				return
			}
		case submission, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			if !c.write(outboundMessage{Type: "submission", Payload: submission}) {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) write(msg outboundMessage) bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Printf("ws write error (variant %s): %v", c.variant, err)
		return false
	}
	return true
}
