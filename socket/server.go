package socket

import (
	"context"
	"log"
	"net/url"

	"pawmatch_server/middleware"
	"pawmatch_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// Broadcaster adapts the Socket.IO server to the services.Broadcaster
// interface.
type Broadcaster struct {
	Server *socketio.Server
}

// Publish emits an event to every connection joined to the room
func (b *Broadcaster) Publish(room, event string, payload interface{}) {
	b.Server.BroadcastToRoom("/", room, event, payload)
}

// messageSender is the slice of the chat service the socket layer needs.
type messageSender interface {
	SendMessage(ctx context.Context, senderID, conversationID, text string) (*services.MessageWithSender, error)
}

// authenticateHandshake verifies the token the client passed in the
// handshake query and returns the actor it identifies.
func authenticateHandshake(auth *middleware.JWTManager, query url.Values) (middleware.Actor, error) {
	return auth.Parse(query.Get("token"))
}

// dispatchSend persists a socket message under the connection's
// authenticated identity. Any senderId in the payload is ignored.
func dispatchSend(ctx context.Context, chat messageSender, actor middleware.Actor, payload map[string]interface{}) error {
	conversationID, _ := payload["conversationId"].(string)
	text, _ := payload["text"].(string)
	_, err := chat.SendMessage(ctx, actor.ID, conversationID, text)
	return err
}

// NewSocketServer initializes the Socket.IO server and its event handlers.
// Connections must carry a valid bearer token in the handshake query;
// messages sent over the socket go through the chat service under that
// authenticated identity, so the same authorization and persistence rules
// apply as over HTTP.
func NewSocketServer(chatService *services.ChatService, auth *middleware.JWTManager) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		u := c.URL()
		actor, err := authenticateHandshake(auth, u.Query())
		if err != nil {
			log.Println("❌ Socket rejected, bad handshake token:", c.ID())
			return err
		}
		c.SetContext(actor)
		log.Printf("✅ Socket connected: %s (user %s)", c.ID(), actor.ID)
		return nil
	})

	server.OnEvent("/", "joinRoom", func(c socketio.Conn, conversationID string) {
		if conversationID == "" {
			log.Println("❌ joinRoom without a conversationId")
			return
		}
		log.Printf("👥 Socket %s joined %s", c.ID(), conversationID)
		c.Join(conversationID)
	})

	server.OnEvent("/", "leaveRoom", func(c socketio.Conn, conversationID string) {
		c.Leave(conversationID)
	})

	server.OnEvent("/", "sendMessage", func(c socketio.Conn, payload map[string]interface{}) {
		actor, ok := c.Context().(middleware.Actor)
		if !ok {
			c.Emit("messageError", map[string]string{"error": "not authenticated"})
			return
		}
		if err := dispatchSend(context.Background(), chatService, actor, payload); err != nil {
			log.Printf("❌ Socket message rejected for user %s: %v", actor.ID, err)
			c.Emit("messageError", map[string]string{"error": err.Error()})
			return
		}
		// Delivery to the room happens through the chat service's broadcaster.
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("❌ Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return server
}
