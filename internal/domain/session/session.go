package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/client/internal/domain/navigation"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/utils"
)

// Termination reasons
const (
	ReasonFinish      = "finish"
	ReasonIdleTimeout = types.LogoutIdleTimeout
)

// PacketChannel delivers packets to the server. Channels that also
// implement io.Closer are closed after the idle logout.
type PacketChannel interface {
	Send(ctx context.Context, packet *types.Packet) error
}

// Binder is implemented by channels whose codecs need the owning session:
// outbound packets are stamped with its id and inbound ones count as activity.
type Binder interface {
	BindSession(sessionID id.SessionID, onActivity func())
}

// Dependencies are the collaborators a session is built from
type Dependencies struct {
	Catalog   navigation.Catalog
	Presenter navigation.Presenter
	Channel   PacketChannel
	Logger    *zap.Logger
	Metrics   *monitoring.Metrics
}

type options struct {
	clock        Clock
	idleTimeout  time.Duration
	tickInterval time.Duration
	sendTimeout  time.Duration
}

// Option customises a session
type Option func(*options)

// WithClock replaces the wall clock
func WithClock(clock Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithIdleTimeout sets how long the session may stay idle
func WithIdleTimeout(d time.Duration) Option {
	return func(o *options) { o.idleTimeout = d }
}

// WithTickInterval sets how often idleness is checked
func WithTickInterval(d time.Duration) Option {
	return func(o *options) { o.tickInterval = d }
}

// WithSendTimeout bounds the logout send on expiry
func WithSendTimeout(d time.Duration) Option {
	return func(o *options) { o.sendTimeout = d }
}

// Session tracks the user, the views on screen and idleness
type Session struct {
	id        id.SessionID
	clock     Clock
	channel   PacketChannel
	navigator *navigation.Navigator
	watchdog  *Watchdog
	logger    *zap.Logger
	metrics   *monitoring.Metrics

	sendTimeout time.Duration
	createdAt   time.Time

	mu       sync.Mutex
	user     *types.User // Protected by mu
	state    State       // Protected by mu
	timedOut bool        // Protected by mu
	started  bool        // Protected by mu

	lastActivity atomic.Pointer[time.Time]
	terminal     atomic.Bool
	done         chan struct{}
}

// New creates a session. Without a user the login view becomes primary
// (not activated); a missing login view is logged and tolerated. The
// watchdog is not running until Start.
func New(deps Dependencies, user *types.User, opts ...Option) *Session {
	o := options{
		clock:        SystemClock(),
		idleTimeout:  DefaultIdleTimeout,
		tickInterval: DefaultTickInterval,
		sendTimeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sid := id.NewSessionID()
	logger = logger.With(zap.String("session_id", sid.String()))

	s := &Session{
		id:          sid,
		clock:       o.clock,
		channel:     deps.Channel,
		logger:      logger,
		metrics:     deps.Metrics,
		sendTimeout: o.sendTimeout,
		createdAt:   o.clock.Now(),
		user:        user,
		state:       StateUnauthenticated,
		done:        make(chan struct{}),
	}
	s.RecordActivity()

	s.navigator = navigation.NewNavigator(deps.Catalog, deps.Presenter, logger.Named("navigation")).
		WithMetrics(deps.Metrics)
	s.watchdog = NewWatchdog(WatchdogConfig{
		Interval:  o.tickInterval,
		Threshold: o.idleTimeout,
		Clock:     o.clock,
		Logger:    logger.Named("watchdog"),
		Metrics:   deps.Metrics,
	}, s.LastActivity, func() { s.Expire(context.Background()) })

	if b, ok := deps.Channel.(Binder); ok {
		b.BindSession(sid, s.RecordActivity)
	}

	if user != nil {
		s.state = StateAuthenticated
		logger.Info("Session created", zap.String("user", user.Username))
	} else {
		logger.Info("Session created without user")
		if err := s.navigator.SetPrimary(context.Background(), types.ViewLogin, false); err != nil {
			logger.Warn("Login view unavailable", zap.Error(err))
		}
	}

	return s
}

// ID returns the session identifier
func (s *Session) ID() id.SessionID {
	return s.id
}

// Start arms the idle watchdog. Calling it again is a no-op.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal.Load() {
		return ErrSessionTerminated
	}
	if s.started {
		s.logger.Debug("Session already started")
		return nil
	}

	if err := s.watchdog.Arm(); err != nil {
		return fmt.Errorf("failed to arm watchdog: %w", err)
	}
	s.started = true

	if s.metrics != nil {
		s.metrics.SessionStarted()
	}
	s.logger.Info("Session started")
	return nil
}

// Login authenticates an unauthenticated session
func (s *Session) Login(user *types.User) error {
	if user == nil {
		return ErrInvalidUser
	}
	if err := utils.ValidateUsername(user.Username); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUser, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal.Load() {
		return ErrSessionTerminated
	}
	if s.state != StateUnauthenticated {
		return ErrAlreadyAuthenticated
	}

	s.user = user
	s.state = StateAuthenticated
	s.RecordActivity()

	s.logger.Info("User logged in", zap.String("user", user.Username))
	return nil
}

// RecordActivity marks the session as active now. It never takes the
// session lock, so the watchdog and packet decoder can call it freely.
func (s *Session) RecordActivity() {
	now := s.clock.Now()
	s.lastActivity.Store(&now)
}

// LastActivity returns the time of the most recent activity
func (s *Session) LastActivity() time.Time {
	return *s.lastActivity.Load()
}

// NavigateTo makes viewID the primary view
func (s *Session) NavigateTo(ctx context.Context, viewID string, activate bool) error {
	if s.terminal.Load() {
		return ErrSessionTerminated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal.Load() {
		return ErrSessionTerminated
	}
	s.RecordActivity()
	return s.navigator.SetPrimary(ctx, viewID, activate)
}

// OpenAuxiliary replaces the auxiliary window with viewID
func (s *Session) OpenAuxiliary(ctx context.Context, viewID string) error {
	if s.terminal.Load() {
		return ErrSessionTerminated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal.Load() {
		return ErrSessionTerminated
	}
	s.RecordActivity()
	return s.navigator.OpenAuxiliary(ctx, viewID)
}

// CloseAuxiliary closes the auxiliary window if one is open
func (s *Session) CloseAuxiliary() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.RecordActivity()
	s.navigator.CloseAuxiliary()
}

// EmbedSubview renders viewID into container
func (s *Session) EmbedSubview(ctx context.Context, container navigation.Container, viewID string) (types.Rendered, error) {
	if s.terminal.Load() {
		return types.Rendered{}, ErrSessionTerminated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal.Load() {
		return types.Rendered{}, ErrSessionTerminated
	}
	s.RecordActivity()
	return s.navigator.EmbedSubview(ctx, container, viewID)
}

// Expire ends the session after the idle threshold: the watchdog is
// stopped, navigation state is released, one logout packet is sent and the
// channel is closed. Only the first of Expire and Finish has any effect;
// later callers return once that cleanup has completed.
func (s *Session) Expire(ctx context.Context) {
	if !s.terminal.CompareAndSwap(false, true) {
		<-s.done
		return
	}

	s.mu.Lock()
	s.timedOut = true
	s.state = StateTimedOut
	s.logger.Info("Session expired", zap.Duration("idle", s.clock.Now().Sub(s.LastActivity())))

	s.watchdog.Stop()
	s.navigator.Release()
	started := s.started
	s.mu.Unlock()

	// The session lock is not held across the network calls
	s.sendLogout(ctx)
	s.closeChannel()

	s.mu.Lock()
	s.state = StateTerminated
	s.mu.Unlock()

	s.terminated(ReasonIdleTimeout, started)
}

// Finish ends the session on request, such as the main window closing.
// No logout is sent.
func (s *Session) Finish() {
	if !s.terminal.CompareAndSwap(false, true) {
		<-s.done
		return
	}

	s.mu.Lock()
	s.watchdog.Stop()
	s.navigator.CloseAuxiliary()
	s.navigator.Release()

	s.state = StateTerminated
	started := s.started
	s.mu.Unlock()

	s.logger.Info("Session finished")
	s.terminated(ReasonFinish, started)
}

func (s *Session) sendLogout(ctx context.Context) {
	if s.channel == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	packet := types.NewLogoutPacket(s.id, types.LogoutIdleTimeout)
	if err := s.channel.Send(ctx, packet); err != nil {
		s.logger.Warn("Failed to send logout", zap.Error(fmt.Errorf("%w: %v", ErrChannelSend, err)))
		return
	}
	s.logger.Debug("Logout sent", zap.String("packet_id", packet.ID.String()))
}

func (s *Session) closeChannel() {
	closer, ok := s.channel.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		s.logger.Warn("Failed to close channel", zap.Error(err))
	}
}

func (s *Session) terminated(reason string, started bool) {
	if s.metrics != nil {
		s.metrics.SessionTerminated(reason, started)
	}
	close(s.done)
}

// Done is closed once the session has terminated
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// User returns the authenticated user, if any
func (s *Session) User() *types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// State returns the lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TimedOut reports whether the session ended through idle expiry
func (s *Session) TimedOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timedOut
}

// Navigator exposes the session's navigator for read access
func (s *Session) Navigator() *navigation.Navigator {
	return s.navigator
}
