package internal

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"workspace-chat/clock"
	"workspace-chat/domain/chat"
	"workspace-chat/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, debug bool) (*App, *badger.DB) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	app, err := NewApp(logs.GetLoggerFromLevel(slog.LevelDebug), Config{
		JWTSecret:       "secret",
		TokenTTL:        time.Hour,
		DebugRoutes:     debug,
		CharReplacement: "#",
		Moderation:      true,
	}, db, prometheus.NewRegistry(), clock.Real())
	require.NoError(t, err)
	return app, db
}

func get(t *testing.T, h http.Handler, url string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestRouter_Health_And_Metrics(t *testing.T) {
	app, _ := newTestApp(t, false)

	code, body := get(t, app.HTTP, "/healthz")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body)

	code, body = get(t, app.HTTP, "/metrics")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "chat_gateway_sessions_open")

	// The inspector is not mounted without debug routes
	code, _ = get(t, app.HTTP, "/debug/inspect")
	require.Equal(t, http.StatusNotFound, code)
}

func TestRouter_Inspect_Lists_Records(t *testing.T) {
	app, _ := newTestApp(t, true)

	// Given a stored channel
	c, err := app.Registry.Create(context.Background(), chat.CreateChannelCommand{
		WorkspaceID: "w1", Kind: chat.KindOpen, Name: "general", CreatedBy: "alice",
	})
	require.NoError(t, err)

	// When the channel prefix is inspected
	code, body := get(t, app.HTTP, "/debug/inspect?prefix=chan:")

	// Then the record is rendered in diagnostic notation
	require.Equal(t, http.StatusOK, code)
	var rows []InspectRow
	require.NoError(t, json.Unmarshal([]byte(body), &rows))
	require.Len(t, rows, 1)
	require.Equal(t, "CHAN", rows[0].Type)
	require.Equal(t, string(c.ID), rows[0].Entity)
	require.Contains(t, rows[0].Detail, `"general"`)
}

func TestDescribeEntry(t *testing.T) {
	row := DescribeEntry(repositories.Entry{Key: "seq:c1", Value: []byte{0, 0, 0, 0, 0, 0, 0, 7}})
	require.Equal(t, InspectRow{Key: "seq:c1", Type: "SEQ", Entity: "c1", Detail: "last id 7"}, row)

	row = DescribeEntry(repositories.Entry{Key: "reply:c1:1:2"})
	require.Equal(t, "REPLY", row.Type)
	require.Equal(t, "-", row.Detail)
}

func TestLoadConfig_Reads_Dotenv_Without_Overriding(t *testing.T) {
	// Given a .env file and one variable already exported
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("BADGER_FILEPATH=/tmp/chat\nJWT_SECRET=from-file\nGRPC_PORT=6000\nADMIN_USERS=alice, bob\n"), 0o600))
	t.Setenv("JWT_SECRET", "from-env")
	t.Cleanup(func() {
		for _, k := range []string{"BADGER_FILEPATH", "GRPC_PORT", "ADMIN_USERS"} {
			_ = os.Unsetenv(k)
		}
	})

	// When the config is loaded
	config, err := LoadConfig(file, filepath.Join(dir, "missing.env"))

	// Then the file fills the gaps and defaults apply
	require.NoError(t, err)
	require.Equal(t, "/tmp/chat", config.BadgerFilepath)
	require.Equal(t, "from-env", config.JWTSecret)
	require.Equal(t, 6000, config.GRPCPort)
	require.Equal(t, 8080, config.HTTPPort)
	require.Equal(t, 30*time.Second, config.HeartbeatTimeout)
	require.Equal(t, []chat.UserID{"alice", "bob"}, config.Admins())
	require.Equal(t, "0.0.0.0:6000", config.GRPCAddress())
}

func TestCharacterRune(t *testing.T) {
	r, err := CharacterRune("*")
	require.NoError(t, err)
	require.Equal(t, '*', r)

	_, err = CharacterRune("**")
	require.Error(t, err)
}
