package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"testing"
	"time"

	"workspace-chat/auth"
	"workspace-chat/client"
	"workspace-chat/clock"
	"workspace-chat/domain/chat"
	"workspace-chat/gateway/wire"
	"workspace-chat/internal"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

type BaseGrpcSuite struct {
	suite.Suite
	Config Config
	tokens *auth.TokenManager
	cc     *grpc.ClientConn
	stop   func()
}

// SetupSuite loads the environment and starts an in-process server unless
// SERVER_ADDR points at one.
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	s.tokens = auth.NewTokenManager(s.Config.JWTSecret, time.Hour)

	if s.Config.ServerAddr != "" {
		s.cc, err = client.Dial(s.Config.ServerAddr)
		s.Require().NoError(err)
		s.stop = func() { _ = s.cc.Close() }
		return
	}

	dir := s.T().TempDir()
	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	app, err := internal.NewApp(logs.GetLoggerFromLevel(slog.LevelInfo), internal.Config{
		JWTSecret:        s.Config.JWTSecret,
		TokenTTL:         time.Hour,
		HeartbeatTimeout: s.Config.HeartbeatTimeout,
		RateLimit:        100,
		RateBurst:        100,
		RetryBase:        5 * time.Millisecond,
		RetryAttempts:    3,
		CharReplacement:  "*",
		Moderation:       true,
	}, db, prometheus.NewRegistry(), clock.Real())
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	appDone := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(appDone)
	}()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = app.GRPC.Serve(lis) }()

	s.cc, err = client.Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	s.Require().NoError(err)
	s.stop = func() {
		_ = s.cc.Close()
		app.GRPC.Stop()
		cancel()
		<-appDone
		_ = db.Close()
	}
}

func (s *BaseGrpcSuite) TearDownSuite() {
	if s.stop != nil {
		s.stop()
	}
}

// Step prints a colorized header for a scenario step.
func (s *BaseGrpcSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Connect opens a session for user on the shared connection.
func (s *BaseGrpcSuite) Connect(user chat.UserID) *client.Conn {
	token, err := s.tokens.Generate(auth.Identity{UserID: user, WorkspaceID: "e2e"})
	s.Require().NoError(err)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	conn, err := client.Connect(ctx, s.cc, token)
	s.Require().NoError(err, "failed to open a session for %s", user)
	return conn
}

// Await reads frames of conn until match accepts one.
func (s *BaseGrpcSuite) Await(t *testing.T, conn *client.Conn, timeout time.Duration, match func(wire.Frame) bool) wire.Frame {
	t.Helper()
	frames := make(chan wire.Frame, 1)
	errs := make(chan error, 1)
	go func() {
		for {
			frame, err := conn.Recv()
			if err != nil {
				errs <- err
				return
			}
			s.dump(t, frame)
			if match(frame) {
				frames <- frame
				return
			}
		}
	}()
	select {
	case frame := <-frames:
		return frame
	case err := <-errs:
		t.Fatalf("stream ended: %v", err)
	case <-time.After(timeout):
		t.Fatalf("no matching frame within %s", timeout)
	}
	return wire.Frame{}
}

// Result sends intent and waits for the frame answering it.
func (s *BaseGrpcSuite) Result(conn *client.Conn, intent wire.Intent) wire.Frame {
	ref, err := conn.Send(intent)
	s.Require().NoError(err)
	return s.Await(s.T(), conn, 5*time.Second, func(f wire.Frame) bool { return f.Ref == ref })
}

func (s *BaseGrpcSuite) dump(t *testing.T, frame wire.Frame) {
	if !s.Config.DebugJSON {
		return
	}
	data, err := json.MarshalIndent(frame, "", "  ")
	if err != nil {
		return
	}
	t.Logf("FRAME:\n%s", data)
}

func toUser(s string) chat.UserID { return chat.UserID(s) }
