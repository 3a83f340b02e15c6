package relay

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"ittybitycity/game/internal/proto"
)

// HandlerConfig wires the HTTP surface around a hub.
type HandlerConfig struct {
	// StaticDir is served at the root; level documents live under its
	// levels/ subdirectory. Empty disables static serving.
	StaticDir string
	// Level identifies the default level for diagnostics.
	Level proto.LevelInfo
	// StartedAt anchors the uptime report.
	StartedAt time.Time
	Logger    *logrus.Logger
}

// NewHandler builds the relay's HTTP surface: the websocket endpoint, health
// and diagnostics probes, and the CORS-wrapped static client files.
func NewHandler(hub *Hub, cfg HandlerConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	startedAt := cfg.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Status        string          `json:"status"`
			ServerTime    int64           `json:"serverTime"`
			UptimeSeconds int64           `json:"uptimeSeconds"`
			Level         proto.LevelInfo `json:"level"`
			Sessions      Snapshot        `json:"sessions"`
		}{
			Status:        "ok",
			ServerTime:    time.Now().UnixMilli(),
			UptimeSeconds: int64(time.Since(startedAt).Seconds()),
			Level:         cfg.Level,
			Sessions:      hub.Snapshot(),
		}

		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		role := ParseRole(r.URL.Query().Get("role"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warnf("upgrade failed for %s: %v", r.RemoteAddr, err)
			return
		}
		hub.ServeConn(role, conn)
	})

	if cfg.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return cors.AllowAll().Handler(mux)
}
