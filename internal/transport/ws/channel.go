package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
)

// Config configures the backend link
type Config struct {
	URL              string
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	Header           http.Header
	Breaker          resilience.Settings
}

func (c *Config) applyDefaults() {
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
}

// Channel is a packet link to the backend
type Channel struct {
	conn    *websocket.Conn
	cfg     Config
	encoder *Encoder
	decoder *Decoder
	breaker *resilience.Breaker
	logger  *zap.Logger
	metrics *monitoring.Metrics

	onActivity atomic.Pointer[func()]

	writeMu sync.Mutex
	closed  atomic.Bool
	once    sync.Once
	done    chan struct{}
}

// Dial connects to cfg.URL
func Dial(ctx context.Context, cfg Config, logger *zap.Logger, metrics *monitoring.Metrics) (*Channel, error) {
	cfg.applyDefaults()

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, cfg.URL, cfg.Header)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.URL, err)
	}

	return NewChannel(conn, cfg, logger, metrics), nil
}

// NewChannel wraps an established connection
func NewChannel(conn *websocket.Conn, cfg Config, logger *zap.Logger, metrics *monitoring.Metrics) *Channel {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	breakerSettings := cfg.Breaker
	userHook := breakerSettings.OnStateChange
	breakerSettings.OnStateChange = func(name string, from, to resilience.State) {
		logger.Warn("Transport breaker state changed",
			zap.String("breaker", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to))
		if userHook != nil {
			userHook(name, from, to)
		}
	}

	c := &Channel{
		conn:    conn,
		cfg:     cfg,
		encoder: NewEncoder(),
		decoder: NewDecoder(),
		breaker: resilience.New("transport", breakerSettings),
		logger:  logger,
		metrics: metrics,
		done:    make(chan struct{}),
	}
	c.decoder.Handle(types.PacketPing, c.replyPong)

	if metrics != nil {
		metrics.IncWSConnections()
	}
	logger.Info("Transport connected", zap.String("remote", conn.RemoteAddr().String()))
	return c
}

// BindSession ties the link to a session. onActivity runs for every frame
// read from the backend, malformed ones included.
func (c *Channel) BindSession(sessionID id.SessionID, onActivity func()) {
	c.encoder.BindSession(sessionID)
	if onActivity == nil {
		c.onActivity.Store(nil)
		return
	}
	c.onActivity.Store(&onActivity)
}

// Handle registers a handler for inbound packets of type t
func (c *Channel) Handle(t types.PacketType, h Handler) {
	c.decoder.Handle(t, h)
}

// Send writes one packet. Writes are serialised and guarded by the breaker.
func (c *Channel) Send(ctx context.Context, packet *types.Packet) error {
	if c.closed.Load() {
		return ErrChannelClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := c.encoder.Encode(packet)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(c.cfg.WriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	err = c.breaker.Do(func() error {
		c.writeMu.Lock()
		defer c.writeMu.Unlock()

		if err := c.conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
		return c.conn.WriteMessage(websocket.TextMessage, data)
	})
	if err != nil {
		return fmt.Errorf("failed to send %s packet: %w", packet.Type, err)
	}

	if c.metrics != nil {
		c.metrics.RecordPacket("sent", string(packet.Type))
	}
	return nil
}

// Run reads and dispatches inbound packets until the connection ends or
// ctx is cancelled. A closed channel ends the loop without error.
func (c *Channel) Run(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-c.done:
		}
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("transport read failed: %w", err)
		}
		if fn := c.onActivity.Load(); fn != nil {
			(*fn)()
		}

		packet, err := c.decoder.Dispatch(ctx, data)
		if err != nil {
			if errors.Is(err, ErrInvalidPacket) {
				c.logger.Warn("Dropping malformed packet", zap.Error(err))
				continue
			}
			c.logger.Warn("Packet handler failed",
				zap.String("type", string(packet.Type)),
				zap.Error(err))
			continue
		}

		if c.metrics != nil {
			c.metrics.RecordPacket("received", string(packet.Type))
		}
	}
}

func (c *Channel) replyPong(ctx context.Context, ping *types.Packet) error {
	return c.Send(ctx, types.NewPacket(types.PacketPong, ping.Payload))
}

// Close sends a close frame and releases the connection
func (c *Channel) Close() error {
	var err error
	c.once.Do(func() {
		c.closed.Store(true)

		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()

		err = c.conn.Close()
		close(c.done)

		if c.metrics != nil {
			c.metrics.DecWSConnections()
		}
		c.logger.Info("Transport closed")
	})
	return err
}

// Done is closed once the channel has been closed
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// BreakerState reports the write breaker's state
func (c *Channel) BreakerState() resilience.State {
	return c.breaker.State()
}
