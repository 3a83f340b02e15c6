// Package relay forwards control frames between controller and game
// connections. It validates envelopes and fans frames out to the opposite
// role; it never interprets command semantics.
package relay

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"ittybitycity/game/internal/proto"
)

// Hub owns every live session and the forwarding counters.
type Hub struct {
	mu       sync.Mutex
	sessions map[uint64]*session
	nextID   atomic.Uint64
	log      *logrus.Logger

	toGames       atomic.Uint64
	toControllers atomic.Uint64
	dropped       atomic.Uint64
}

// Snapshot summarizes live sessions and traffic for diagnostics.
type Snapshot struct {
	Controllers            int    `json:"controllers"`
	Games                  int    `json:"games"`
	ForwardedToGames       uint64 `json:"forwardedToGames"`
	ForwardedToControllers uint64 `json:"forwardedToControllers"`
	DroppedFrames          uint64 `json:"droppedFrames"`
}

// NewHub creates an empty hub.
func NewHub(log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		sessions: make(map[uint64]*session),
		log:      log,
	}
}

func (h *Hub) register(role Role, conn *websocket.Conn) *session {
	s := &session{id: h.nextID.Add(1), role: role, conn: conn}
	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
	h.log.WithFields(logrus.Fields{"session": s.id, "role": role}).Info("session connected")
	return s
}

func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	_, live := h.sessions[s.id]
	delete(h.sessions, s.id)
	h.mu.Unlock()
	if live {
		s.conn.Close()
		h.log.WithFields(logrus.Fields{"session": s.id, "role": s.role}).Info("session closed")
	}
}

// ServeConn owns the read side of a connection until it drops. Any inbound
// frame counts as liveness; sessions that miss the pong window are reaped
// here when the read deadline fires.
func (h *Hub) ServeConn(role Role, conn *websocket.Conn) {
	defer sentry.Recover()

	s := h.register(role, conn)
	defer h.unregister(s)

	conn.SetReadLimit(maxFrameBytes)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
		h.forward(s, payload)
	}
}

// forward relays one frame to every session of the opposite role. The frame
// only has to be a well-formed envelope; unknown types pass through verbatim.
func (h *Hub) forward(from *session, payload []byte) {
	cmd, err := proto.DecodeCommand(payload)
	if err != nil {
		h.dropped.Add(1)
		h.log.WithField("session", from.id).Warnf("discarding malformed frame: %v", err)
		return
	}

	target := RoleGame
	if from.role == RoleGame {
		target = RoleController
	}

	h.mu.Lock()
	peers := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		if s.role == target {
			peers = append(peers, s)
		}
	}
	h.mu.Unlock()

	delivered := uint64(0)
	for _, peer := range peers {
		if err := peer.write(websocket.TextMessage, payload); err != nil {
			h.log.WithField("session", peer.id).Warnf("evicting session after failed write: %v", err)
			h.unregister(peer)
			continue
		}
		delivered++
	}

	if target == RoleGame {
		h.toGames.Add(delivered)
	} else {
		h.toControllers.Add(delivered)
	}
	h.log.WithFields(logrus.Fields{
		"session": from.id,
		"type":    cmd.Type,
		"peers":   delivered,
	}).Debug("frame relayed")
}

// Run pings every session on a fixed cadence until ctx cancels, then closes
// whatever is still connected.
func (h *Hub) Run(ctx context.Context) {
	defer sentry.Recover()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			for _, s := range h.liveSessions() {
				if err := s.write(websocket.PingMessage, nil); err != nil {
					h.log.WithField("session", s.id).Warnf("evicting session after failed ping: %v", err)
					h.unregister(s)
				}
			}
		}
	}
}

func (h *Hub) liveSessions() []*session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	return out
}

func (h *Hub) closeAll() {
	for _, s := range h.liveSessions() {
		h.unregister(s)
	}
}

// Snapshot reports session counts and forwarding totals.
func (h *Hub) Snapshot() Snapshot {
	h.mu.Lock()
	controllers, games := 0, 0
	for _, s := range h.sessions {
		if s.role == RoleController {
			controllers++
		} else {
			games++
		}
	}
	h.mu.Unlock()

	return Snapshot{
		Controllers:            controllers,
		Games:                  games,
		ForwardedToGames:       h.toGames.Load(),
		ForwardedToControllers: h.toControllers.Load(),
		DroppedFrames:          h.dropped.Load(),
	}
}
