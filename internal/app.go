package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"workspace-chat/auth"
	"workspace-chat/clock"
	"workspace-chat/contract"
	"workspace-chat/gateway"
	grpcserver "workspace-chat/infrastructure/grpc/server"
	"workspace-chat/infrastructure/websocket"
	"workspace-chat/moderation"
	"workspace-chat/observability"
	"workspace-chat/repositories"
	"workspace-chat/runtime"
	"workspace-chat/runtime/workers"
	"workspace-chat/services"

	"github.com/dgraph-io/badger/v4"
	sdkgrpc "github.com/mama165/sdk-go/grpc"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
)

// App is the assembled messaging core: components, workers and transports.
type App struct {
	Log        *slog.Logger
	Tokens     *auth.TokenManager
	Gateway    *gateway.Gateway
	Registry   *services.ChannelRegistry
	Presence   *runtime.PresenceTracker
	Hub        *runtime.Hub
	Supervisor *workers.Supervisor
	GRPC       *grpc.Server
	HTTP       http.Handler
}

// NewApp wires every component over db. reg receives the metrics and
// serves them on /metrics; a nil reg gets a fresh registry.
func NewApp(log *slog.Logger, config Config, db *badger.DB, reg *prometheus.Registry, clk clock.Clock) (*App, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := observability.NewMetrics(reg)
	tokens := auth.NewTokenManager(config.JWTSecret, config.TokenTTL)

	channels := repositories.NewChannelRepository(db, log)
	messages := repositories.NewMessageRepository(db, log)
	markers := repositories.NewReadMarkerRepository(db, log)
	authorizer := auth.NewMembershipAuthorizer(channels, config.Admins())

	var filter contract.ContentFilter
	if config.Moderation {
		censoredChar, err := CharacterRune(config.CharReplacement)
		if err != nil {
			return nil, err
		}
		f, err := moderation.NewDefaultFilter(censoredChar, log)
		if err != nil {
			return nil, err
		}
		filter = f
	}

	supervisor := workers.NewSupervisor(log)
	supervisor.OnRestart(metrics.WorkerRestarted)
	hub := runtime.NewHub(log, authorizer, supervisor, metrics, clk, config.GroupQueueSize, config.ReplayBufferSize)
	presence := runtime.NewPresenceTracker(log, hub, clk, metrics, config.HeartbeatTimeout)
	registry := services.NewChannelRegistry(log, channels, clk)

	gw := gateway.New(log, gateway.Components{
		Store:      services.NewMessageStore(log, channels, messages, authorizer, hub, filter, clk, config.PageSize),
		Registry:   registry,
		Receipts:   services.NewReadReceipts(log, markers, messages, authorizer, hub, clk),
		Presence:   presence,
		Hub:        hub,
		Authorizer: authorizer,
	}, metrics, clk, gateway.Config{
		OutboundQueue: config.OutboundQueue,
		RateLimit:     rate.Limit(config.RateLimit),
		RateBurst:     config.RateBurst,
		HistoryLimit:  config.HistoryLimit,
		Retry: gateway.RetryPolicy{
			Base:     config.RetryBase,
			Factor:   2,
			Attempts: config.RetryAttempts,
			Jitter:   0.2,
		},
	})

	supervisor.Add(
		hub,
		workers.NewPresenceSweeperWorker(log, presence, clk, config.HeartbeatTimeout),
	)
	if config.StatsInterval > 0 {
		supervisor.Add(workers.NewStatsReporterWorker(log, hub, metrics, config.StatsInterval))
	}

	grpcServer := grpcserver.NewGRPCServer(log, tokens, gw,
		grpc.ChainUnaryInterceptor(sdkgrpc.UnaryLoggingInterceptor(log)),
	)

	var inspect *badger.DB
	if config.DebugRoutes {
		inspect = db
	}
	router := NewRouter(log, websocket.NewHandler(log, gw, tokens, nil), reg, inspect)

	return &App{
		Log:        log,
		Tokens:     tokens,
		Gateway:    gw,
		Registry:   registry,
		Presence:   presence,
		Hub:        hub,
		Supervisor: supervisor,
		GRPC:       grpcServer,
		HTTP:       router,
	}, nil
}

// Run blocks until ctx is done, then closes every session and waits for
// the workers.
func (a *App) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		a.Supervisor.Run(ctx)
		close(done)
	}()
	<-ctx.Done()
	a.Log.Info("Closing sessions", "count", len(a.Gateway.Sessions()))
	a.Gateway.Shutdown()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		a.Log.Warn("Workers did not stop in time")
	}
}
