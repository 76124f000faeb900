package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/client/internal/domain/catalog"
	"github.com/GriffinCanCode/AgentOS/client/internal/domain/session"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/server"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AgentOS/client/internal/presentation/web"
	"github.com/GriffinCanCode/AgentOS/client/internal/shared/types"
	"github.com/GriffinCanCode/AgentOS/client/internal/transport/ws"
)

// CLI flags override environment configuration when set
type CLI struct {
	Port      string `help:"Control API port"`
	Host      string `help:"Control API host"`
	Server    string `help:"Backend websocket URL" name:"server"`
	Views     string `help:"Directory of view definitions" type:"path"`
	RemoteURL string `help:"URL of additional view definitions" name:"remote-views"`
	Watch     bool   `help:"Reload view definitions when they change"`
	User      string `help:"Log in as this user at startup"`
	Dev       bool   `help:"Development logging"`
	LogLevel  string `help:"Log level (debug, info, warn, error)"`
}

func (c *CLI) apply(cfg *config.Config) {
	if c.Port != "" {
		cfg.Server.Port = c.Port
	}
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Server != "" {
		cfg.Transport.URL = c.Server
	}
	if c.Views != "" {
		cfg.Catalog.Dir = c.Views
	}
	if c.RemoteURL != "" {
		cfg.Catalog.RemoteURL = c.RemoteURL
	}
	if c.Watch {
		cfg.Catalog.Watch = true
	}
	if c.Dev {
		cfg.Logging.Development = true
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("client"),
		kong.Description("AgentOS session client"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cli.apply(cfg)

	if err := run(cfg, cli.User); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, username string) error {
	logger := logging.FromLevel(cfg.Logging.Level, cfg.Logging.Development)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("client", logger.Named("tracing"))
	defer tracer.Close()

	views := catalog.NewManager(logger.Named("catalog")).WithMetrics(metrics)
	watcher, err := loadCatalog(ctx, cfg.Catalog, views, logger.Logger)
	if err != nil {
		return err
	}
	if watcher != nil {
		defer watcher.Close()
	}

	presenter := web.NewPresenter(web.NewLoader(), logger.Named("web"))
	channel := dial(ctx, cfg.Transport, tracer, metrics, logger.Logger)

	deps := session.Dependencies{
		Catalog:   views,
		Presenter: presenter,
		Logger:    logger.Logger,
		Metrics:   metrics,
	}
	if channel != nil {
		deps.Channel = channel
	}

	var user *types.User
	if username != "" {
		user = &types.User{ID: username, Username: username}
	}

	sess := session.New(deps, user,
		session.WithIdleTimeout(cfg.Session.IdleTimeout),
		session.WithTickInterval(cfg.Session.TickInterval),
		session.WithSendTimeout(cfg.Transport.WriteTimeout),
	)
	if err := sess.Start(); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	if channel != nil {
		go func() {
			if err := channel.Run(ctx); err != nil {
				logger.Warn("Backend link ended", zap.Error(err))
			}
		}()
	}

	srvDeps := server.Dependencies{
		Session:   sess,
		Presenter: presenter,
		Catalog:   views,
		Metrics:   metrics,
		Tracer:    tracer,
	}
	if channel != nil {
		srvDeps.Link = channel
	}
	srv := server.NewServer(cfg, srvDeps, logger.Named("server"))

	srvCtx, cancelSrv := context.WithCancel(context.Background())
	defer cancelSrv()
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(srvCtx) }()

	logger.Info("Client running",
		zap.String("session_id", sess.ID().String()),
		zap.String("control_api", cfg.Server.Addr()),
		zap.Duration("idle_timeout", cfg.Session.IdleTimeout),
	)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully...")
		sess.Finish()
	case <-sess.Done():
		logger.Info("Session ended", zap.Stringer("state", sess.State()), zap.Bool("timed_out", sess.TimedOut()))
	case runErr = <-errCh:
		logger.Error("Control API failed", zap.Error(runErr))
		sess.Finish()
	}

	if channel != nil {
		if err := channel.Close(); err != nil && !errors.Is(err, ws.ErrChannelClosed) {
			logger.Warn("Failed to close backend link", zap.Error(err))
		}
	}

	if runErr == nil {
		cancelSrv()
		runErr = <-errCh
	}
	return runErr
}

// loadCatalog seeds views from disk and the optional remote source, and
// starts a watcher when configured
func loadCatalog(ctx context.Context, cfg config.CatalogConfig, views *catalog.Manager, logger *zap.Logger) (*catalog.Watcher, error) {
	seeder := catalog.NewSeeder(views, cfg.Dir, cfg.Pattern, logger.Named("seeder"))
	result, err := seeder.Seed(ctx)
	if err != nil {
		logger.Warn("Failed to seed views", zap.String("dir", cfg.Dir), zap.Error(err))
	} else {
		logger.Info("Views seeded",
			zap.Int("files", result.Files),
			zap.Int("views", result.Views),
			zap.Int("failed", result.Failed),
		)
	}

	if cfg.RemoteURL != "" {
		n, err := catalog.NewRemoteSource(views, cfg.RemoteURL, logger.Named("remote")).Fetch(ctx)
		if err != nil {
			logger.Warn("Failed to fetch remote views", zap.String("url", cfg.RemoteURL), zap.Error(err))
		} else {
			logger.Info("Remote views loaded", zap.Int("views", n))
		}
	}

	if !cfg.Watch {
		return nil, nil
	}
	watcher, err := catalog.NewWatcher(seeder, 0, logger.Named("watcher"))
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", cfg.Dir, err)
	}
	return watcher, nil
}

// dial opens the backend link. The client keeps running without one; the
// session then skips the logout notification.
func dial(ctx context.Context, cfg config.TransportConfig, tracer *tracing.Tracer, metrics *monitoring.Metrics, logger *zap.Logger) *ws.Channel {
	span, ctx := tracer.StartSpan(ctx, "transport.dial")
	span.SetTag("url", cfg.URL)
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

	header := http.Header{}
	tracing.InjectTraceContext(ctx, header)

	channel, err := ws.Dial(ctx, ws.Config{
		URL:              cfg.URL,
		HandshakeTimeout: cfg.HandshakeTimeout,
		WriteTimeout:     cfg.WriteTimeout,
		Header:           header,
	}, logger.Named("ws"), metrics)
	if err != nil {
		span.SetError(err)
		logger.Warn("Backend unavailable, running without a link", zap.Error(err))
		return nil
	}
	return channel
}
