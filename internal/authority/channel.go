package authority

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"
)

var errChannelURLRequired = errors.New("channel url is required")

// DefaultReconnectDelay is the fixed backoff between a connection loss and
// the next connect attempt.
const DefaultReconnectDelay = 3 * time.Second

const defaultInboundBuffer = 16

// State is the connection state of the channel.
type State int

const (
	// StateDisconnected means no connection exists and no dial is running.
	StateDisconnected State = iota
	// StateConnecting means a dial is in flight.
	StateConnecting
	// StateOpen means frames can be sent and received.
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "disconnected"
	}
}

// Config defines the channel's connection target and retry behavior.
type Config struct {
	// URL is the authority WebSocket endpoint, typically from Endpoint.
	URL string
	// Origin is the HTTP origin presented during the upgrade. When empty it
	// is derived from URL.
	Origin string
	// ReconnectDelay is the backoff between connection losses and redials.
	// Zero means DefaultReconnectDelay.
	ReconnectDelay time.Duration
}

// Channel is the duplex connection to the remote authority. It owns the
// socket and the connect/reconnect state machine: any close or dial failure
// schedules a redial after the configured delay, forever, until the run
// context is cancelled. Cancelling the context is the deliberate-shutdown
// signal and suppresses further reconnection.
//
// Inbound frames are parsed one JSON document per frame and delivered on
// Inbound; malformed frames are logged and dropped without disturbing the
// connection. Send is lossy by design: frames offered while the channel is
// not open are silently discarded.
type Channel struct {
	cfg Config

	mu    sync.Mutex
	state State
	conn  *websocket.Conn

	inbound chan Message
}

// NewChannel builds a channel for the given target. Run must be called to
// start connecting.
func NewChannel(cfg Config) (*Channel, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errChannelURLRequired
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if strings.TrimSpace(cfg.Origin) == "" {
		cfg.Origin = originFromURL(cfg.URL)
	}
	return &Channel{
		cfg:     cfg,
		inbound: make(chan Message, defaultInboundBuffer),
	}, nil
}

// State returns the current connection state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Inbound returns the stream of parsed authority messages. The channel is
// closed when Run returns.
func (c *Channel) Inbound() <-chan Message {
	return c.inbound
}

// Run drives the connection until ctx is cancelled. It never gives up on
// transport faults: dial errors and closed connections re-enter the
// connecting state after the reconnect delay.
func (c *Channel) Run(ctx context.Context) error {
	defer close(c.inbound)
	defer c.setState(StateDisconnected)

	for {
		if ctx.Err() != nil {
			return nil
		}

		c.setState(StateConnecting)
		conn, err := websocket.Dial(c.cfg.URL, "", c.cfg.Origin)
		if err != nil {
			c.setState(StateDisconnected)
			log.Printf("authority: dial %s: %v", c.cfg.URL, err)
			if !waitReconnect(ctx, c.cfg.ReconnectDelay) {
				return nil
			}
			continue
		}

		c.setConn(conn)
		c.setState(StateOpen)
		log.Printf("authority: connected to %s", c.cfg.URL)

		c.readFrames(ctx, conn)

		c.setConn(nil)
		c.setState(StateDisconnected)
		_ = conn.Close()

		if ctx.Err() != nil {
			return nil
		}
		log.Printf("authority: connection lost, reconnecting in %s", c.cfg.ReconnectDelay)
		if !waitReconnect(ctx, c.cfg.ReconnectDelay) {
			return nil
		}
	}
}

// Send serializes and writes a message while the channel is open. Frames
// offered while connecting or disconnected are dropped: a stale frame has
// no value once a newer one exists, so there is no queue and no retry. The
// return value reports whether the frame was written.
func (c *Channel) Send(msg Message) bool {
	c.mu.Lock()
	conn := c.conn
	open := c.state == StateOpen
	c.mu.Unlock()

	if !open || conn == nil {
		return false
	}
	if err := websocket.JSON.Send(conn, msg); err != nil {
		log.Printf("authority: send %s: %v", msg.Type, err)
		return false
	}
	return true
}

// readFrames consumes frames until the connection fails or ctx ends. A
// goroutine closes the socket on cancellation so the blocking receive
// unwinds promptly.
func (c *Channel) readFrames(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var raw []byte
		if err := websocket.Message.Receive(conn, &raw); err != nil {
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("authority: drop malformed frame: %v", err)
			continue
		}
		if strings.TrimSpace(msg.Type) == "" {
			log.Printf("authority: drop frame without type")
			continue
		}

		select {
		case <-ctx.Done():
			return
		case c.inbound <- msg:
		}
	}
}

func (c *Channel) setState(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

func (c *Channel) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = conn
}

// waitReconnect sleeps for the backoff delay, returning false when the
// context ends first.
func waitReconnect(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		delay = DefaultReconnectDelay
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func originFromURL(wsURL string) string {
	origin := wsURL
	origin = strings.Replace(origin, "wss://", "https://", 1)
	origin = strings.Replace(origin, "ws://", "http://", 1)
	return origin
}
