package relay

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Role identifies which side of the relay a connection speaks for.
// Controllers send commands; games execute them and report poses back.
type Role string

const (
	RoleController Role = "controller"
	RoleGame       Role = "game"
)

// ParseRole maps the ws query parameter to a role. Missing or unrecognized
// values join as a game.
func ParseRole(raw string) Role {
	if raw == string(RoleController) {
		return RoleController
	}
	return RoleGame
}

const (
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = (pongWait * 9) / 10
	maxFrameBytes = 64 * 1024
)

// session is one live connection. Writes are serialized because the hub
// fan-out and the ping loop both touch the socket.
type session struct {
	id   uint64
	role Role
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) write(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}
