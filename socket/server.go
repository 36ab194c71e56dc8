package socket

import (
	"context"
	"log"
	"net/http"

	"swingfox_server/models"

	socketio "github.com/googollee/go-socket.io"
)

// TypingTracker records ephemeral typing state relayed over the socket.
type TypingTracker interface {
	SetTyping(ctx context.Context, conversationID, userID string) error
	ClearTyping(ctx context.Context, conversationID, userID string) error
}

// typingEvent is the wire payload of the typing relay.
type typingEvent struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	Typing         bool   `json:"typing"`
}

// Server is the live delivery sink: clients join rooms keyed by
// conversation id and receive persisted messages as they land. Delivery is
// at-most-once, best-effort.
type Server struct {
	io *socketio.Server
}

// NewServer initializes the Socket.IO server and its event handlers.
func NewServer(typing TypingTracker) *Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	io.OnEvent("/", "join", func(c socketio.Conn, conversationID string) {
		if conversationID == "" {
			log.Println("❌ Invalid conversationId in join request")
			return
		}
		c.Join(conversationID)
	})

	io.OnEvent("/", "leave", func(c socketio.Conn, conversationID string) {
		c.Leave(conversationID)
	})

	io.OnEvent("/", "typing", func(c socketio.Conn, ev typingEvent) {
		if ev.ConversationID == "" || ev.UserID == "" {
			return
		}
		if typing != nil {
			var err error
			if ev.Typing {
				err = typing.SetTyping(context.Background(), ev.ConversationID, ev.UserID)
			} else {
				err = typing.ClearTyping(context.Background(), ev.ConversationID, ev.UserID)
			}
			if err != nil {
				log.Printf("⚠️ Failed to track typing state: %v", err)
			}
		}
		io.BroadcastToRoom("/", ev.ConversationID, "typing", ev)
	})

	io.OnError("/", func(c socketio.Conn, err error) {
		log.Println("❌ Socket error:", err)
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", reason)
	})

	return &Server{io: io}
}

// Push broadcasts a persisted message to the conversation's room.
func (s *Server) Push(conversationID string, msg models.Message) error {
	s.io.BroadcastToRoom("/", conversationID, "newMessage", msg)
	return nil
}

// Handler exposes the engine.io endpoint for mounting on the router.
func (s *Server) Handler() http.Handler {
	return s.io
}

// Serve runs the socket server's event loop.
func (s *Server) Serve() error {
	return s.io.Serve()
}

// Close shuts the socket server down.
func (s *Server) Close() error {
	return s.io.Close()
}
