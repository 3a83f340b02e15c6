// Package client runs the headless game process: a fixed-rate simulation
// loop fed by relay commands, reporting poses back over the same socket.
package client

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"ittybitycity/game"
	"ittybitycity/game/geom"
	"ittybitycity/game/internal/proto"
	"ittybitycity/game/world"
)

const (
	updateInterval   = 500 * time.Millisecond
	poseSaveInterval = 10 * time.Second
	reconnectDelay   = 2 * time.Second
	writeWait        = 10 * time.Second
	inboxCapacity    = 256
)

// gameSession is the live relay connection. Writes are serialized because
// the frame loop and pings race for the socket.
type gameSession struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *gameSession) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Client owns the simulation, the environment state, and the relay channel.
// The frame loop is the single mutator of both states; the network reader
// only stages commands into the inbox.
type Client struct {
	cfg    Config
	log    *logrus.Logger
	sim    *game.Simulation
	env    *world.State
	inbox  *Inbox
	wander *game.WanderInput
	store  *poseStore

	session atomic.Pointer[gameSession]

	level       geom.Level
	levelLoaded bool

	savedPose    SavedPose
	hasSavedPose bool
}

// New assembles a client from config. The simulation starts over the flat
// plane and swaps to the fetched level when it arrives.
func New(cfg Config, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	cfg = cfg.Normalized()

	var source game.InputSource
	var wander *game.WanderInput
	if cfg.Wander {
		wander = game.NewWanderInput(cfg.WanderSeed)
		source = wander
	} else {
		source = &game.StaticInput{}
	}

	env := world.NewState()
	env.DayRate = cfg.DayRate

	c := &Client{
		cfg:    cfg,
		log:    log,
		sim:    game.NewSimulation(game.DefaultParams(), source, geom.Plane{}),
		env:    env,
		inbox:  NewInbox(inboxCapacity),
		wander: wander,
		store:  newPoseStore(log),
	}
	c.savedPose, c.hasSavedPose = c.store.load()
	return c
}

// Run drives the frame loop until ctx cancels. The relay connection is
// maintained in the background; the simulation keeps stepping without one.
func (c *Client) Run(ctx context.Context) error {
	defer sentry.Recover()

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			c.log.Warnf("sentry init failed: %v", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	levelCh := make(chan levelResult, 1)
	go func() {
		defer sentry.Recover()
		levelCh <- fetchLevel(ctx, c.cfg.ServerURL, c.cfg.LevelName, c.cfg.LevelSeed)
	}()

	go c.maintainConnection(ctx)

	ticker := time.NewTicker(time.Second / time.Duration(c.cfg.FrameRate))
	defer ticker.Stop()

	lastFrame := time.Now()
	lastUpdate := time.Now()
	lastSave := time.Now()

	for {
		select {
		case <-ctx.Done():
			c.savePose()
			return nil
		case result := <-levelCh:
			c.installLevel(result)
		case now := <-ticker.C:
			dt := float32(now.Sub(lastFrame).Seconds())
			lastFrame = now
			c.stepFrame(dt)

			if now.Sub(lastUpdate) >= updateInterval {
				lastUpdate = now
				c.sendPlayerUpdate()
			}
			if now.Sub(lastSave) >= poseSaveInterval {
				lastSave = now
				c.savePose()
			}
		}
	}
}

// stepFrame applies staged commands, advances the simulation one frame, and
// steps the environment. Commands drain in arrival order so the last write
// to any piece of state wins.
func (c *Client) stepFrame(dt float32) {
	for _, cmd := range c.inbox.Drain() {
		c.applyCommand(cmd)
	}

	c.sim.Step(dt)
	if c.wander != nil && c.sim.WallContact() {
		c.wander.NotifyBlocked()
	}
	c.env.Advance(dt)
}

// installLevel swaps the fetched geometry in at a frame boundary and places
// the body: the saved pose when it matches this level, the spawn otherwise.
func (c *Client) installLevel(result levelResult) {
	c.level = result.level
	c.levelLoaded = true
	c.sim.SetWorld(result.level.World())

	if result.fallback {
		c.log.Warnf("level %q unavailable, using generated town %q", c.cfg.LevelName, result.level.Name)
	} else {
		c.log.Infof("level %q loaded with %d boxes", result.level.Name, len(result.level.Boxes))
	}

	checksum := proto.FormatChecksum(result.level.Checksum)
	if c.hasSavedPose && c.savedPose.LevelChecksum == checksum {
		c.sim.Teleport(mgl32.Vec3{c.savedPose.X, c.savedPose.Y, c.savedPose.Z})
		c.sim.SetFacing(c.savedPose.Yaw)
		c.sim.SetLook(c.savedPose.CameraPitch, c.savedPose.CameraYaw)
		c.sim.SetCameraDistance(c.savedPose.CameraDistance)
		c.log.Info("restored saved pose")
		return
	}
	c.sim.Teleport(result.level.Spawn.Vec3())
}

func (c *Client) applyCommand(cmd proto.Command) {
	if err := cmd.Validate(); err != nil {
		c.log.Warnf("ignoring %s command: %v", cmd.Type, err)
		return
	}

	switch cmd.Type {
	case proto.TypeTeleport:
		c.sim.Teleport(mgl32.Vec3{cmd.X, cmd.Y, cmd.Z})
	case proto.TypeLook:
		c.sim.SetLook(cmd.RX, cmd.RY)
	case proto.TypeRotate:
		c.sim.RotateCamera(cmd.Angle)
	case proto.TypeSpawn:
		c.env.SpawnProp(cmd.Object, cmd.X, cmd.Y, cmd.Z)
	case proto.TypeMessage:
		c.env.ShowMessage(cmd.Text, cmd.Duration)
	case proto.TypeTime:
		hours, err := cmd.TimeValue()
		if err != nil {
			c.log.Warnf("ignoring time command: %v", err)
			return
		}
		if err := c.env.SetTime(hours); err != nil {
			c.log.Warnf("ignoring time command: %v", err)
		}
	case proto.TypeWeather:
		raw, err := cmd.WeatherValue()
		if err != nil {
			c.log.Warnf("ignoring weather command: %v", err)
			return
		}
		weather, err := world.ParseWeather(raw)
		if err != nil {
			c.log.Warnf("ignoring weather command: %v", err)
			return
		}
		if err := c.env.SetWeather(weather); err != nil {
			c.log.Warnf("ignoring weather command: %v", err)
		}
	case proto.TypeEffect:
		c.env.PlayEffect(cmd.Name, cmd.Params)
	case proto.TypeGetState:
		c.sendState()
	default:
		c.log.Debugf("ignoring unknown command type %q", cmd.Type)
	}
}

func (c *Client) buildPlayerUpdate() proto.PlayerUpdate {
	player := c.sim.Player()
	cam := c.sim.Camera()
	return proto.PlayerUpdate{
		Tick:     c.sim.Tick(),
		Position: toWireVec(player.Position),
		Rotation: player.Yaw,
		OnGround: player.OnGround(),
		Camera: proto.CameraPose{
			Mode:     cam.Mode.String(),
			Yaw:      cam.Yaw,
			Pitch:    cam.Pitch,
			Distance: cam.Distance,
			Position: toWireVec(cam.Position),
		},
	}
}

func (c *Client) sendPlayerUpdate() {
	sess := c.session.Load()
	if sess == nil {
		return
	}
	data, err := proto.EncodePlayerUpdate(c.buildPlayerUpdate())
	if err != nil {
		c.log.Warnf("encode player update: %v", err)
		return
	}
	if err := sess.send(data); err != nil {
		c.log.Warnf("player update send failed: %v", err)
	}
}

// sendState answers getState with the full picture in the same frame.
func (c *Client) sendState() {
	sess := c.session.Load()
	if sess == nil {
		return
	}

	update := c.buildPlayerUpdate()
	msg := proto.StateMessage{
		Tick:     update.Tick,
		Position: update.Position,
		Rotation: update.Rotation,
		OnGround: update.OnGround,
		Camera:   update.Camera,
		World:    c.env.Snapshot(),
	}
	if c.levelLoaded {
		msg.Level = proto.LevelInfo{
			Name:     c.level.Name,
			Checksum: proto.FormatChecksum(c.level.Checksum),
		}
	}

	data, err := proto.EncodeStateMessage(msg)
	if err != nil {
		c.log.Warnf("encode state message: %v", err)
		return
	}
	if err := sess.send(data); err != nil {
		c.log.Warnf("state send failed: %v", err)
	}
}

func (c *Client) savePose() {
	if !c.levelLoaded {
		return
	}
	player := c.sim.Player()
	cam := c.sim.Camera()
	c.store.save(SavedPose{
		LevelChecksum:  proto.FormatChecksum(c.level.Checksum),
		X:              player.Position.X(),
		Y:              player.Position.Y() - c.sim.Params().BodyHeight,
		Z:              player.Position.Z(),
		Yaw:            player.Yaw,
		CameraYaw:      cam.Yaw,
		CameraPitch:    cam.Pitch,
		CameraDistance: cam.Distance,
	})
}

// maintainConnection dials the relay and rereads forever, waiting a fixed
// delay between attempts. Local simulation state survives every drop.
func (c *Client) maintainConnection(ctx context.Context) {
	defer sentry.Recover()

	for {
		if ctx.Err() != nil {
			return
		}
		if err := c.serveOnce(ctx); err != nil && ctx.Err() == nil {
			c.log.Warnf("relay connection lost: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *Client) serveOnce(ctx context.Context) error {
	wsURL, err := websocketURL(c.cfg.ServerURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial relay: %w", err)
	}

	sess := &gameSession{conn: conn}
	c.session.Store(sess)
	done := make(chan struct{})
	defer func() {
		close(done)
		c.session.CompareAndSwap(sess, nil)
		conn.Close()
	}()
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	c.log.Infof("connected to relay at %s", wsURL)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read relay frame: %w", err)
		}
		cmd, err := proto.DecodeCommand(payload)
		if err != nil {
			c.log.Warnf("discarding malformed command: %v", err)
			continue
		}
		if c.inbox.Push(cmd) {
			c.log.Debug("inbox full, evicted oldest command")
		}
	}
}

func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	u.RawQuery = "role=game"
	return u.String(), nil
}

func toWireVec(v mgl32.Vec3) proto.Vec3 {
	return proto.Vec3{X: v.X(), Y: v.Y(), Z: v.Z()}
}
