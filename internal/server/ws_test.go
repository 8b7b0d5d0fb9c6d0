package server

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listmaker/pkg/config"
	"listmaker/pkg/pipeline"
	"listmaker/pkg/progress"
)

type staticVerifier struct {
	username string
	password string
}

func (v staticVerifier) Verify(username, password string) bool {
	return username == v.username && password == v.password
}

type stubRunner struct {
	notifier progress.Notifier
	messages []string
	err      error
}

func (r *stubRunner) Run(context.Context) (*pipeline.Summary, error) {
	for _, msg := range r.messages {
		r.notifier.Notify(msg)
	}
	if r.err != nil {
		return nil, r.err
	}
	return &pipeline.Summary{}, nil
}

func testServer(t *testing.T, factory RunnerFactory) (*httptest.Server, string) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Server.StaticDir = ""

	s := New(cfg, staticVerifier{username: "user", password: "pass"}, factory, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	return ts, wsURL
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	return string(msg)
}

func TestChannelDeniesBadCredentials(t *testing.T) {
	_, wsURL := testServer(t, nil)
	conn := dial(t, wsURL)

	require.NoError(t, conn.WriteJSON(loginRequest{Username: "user", Password: "wrong"}))
	assert.Equal(t, authDeniedMessage, readText(t, conn))

	// The connection stays open for another attempt
	require.NoError(t, conn.WriteJSON(loginRequest{Username: "user", Password: "pass"}))
	assert.Equal(t, authSuccessMessage, readText(t, conn))
}

func TestChannelDeniesMalformedLogin(t *testing.T) {
	_, wsURL := testServer(t, nil)
	conn := dial(t, wsURL)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	assert.Equal(t, authDeniedMessage, readText(t, conn))
}

func TestChannelRunsPipelineAfterLogin(t *testing.T) {
	factory := func(notifier progress.Notifier) (Runner, error) {
		return &stubRunner{
			notifier: notifier,
			messages: []string{"1. Authenticating google sheet."},
		}, nil
	}
	_, wsURL := testServer(t, factory)
	conn := dial(t, wsURL)

	require.NoError(t, conn.WriteJSON(loginRequest{Username: "user", Password: "pass"}))
	require.Equal(t, authSuccessMessage, readText(t, conn))

	// Any message after authorization starts the run
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("start")))

	assert.Equal(t, "1. Authenticating google sheet.", readText(t, conn))
	assert.Equal(t, pipeline.MsgCompleted, readText(t, conn))

	// The server closes the channel once the run is over
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestChannelReportsFactoryFailure(t *testing.T) {
	factory := func(progress.Notifier) (Runner, error) {
		return nil, errors.New("bad credentials file")
	}
	_, wsURL := testServer(t, factory)
	conn := dial(t, wsURL)

	require.NoError(t, conn.WriteJSON(loginRequest{Username: "user", Password: "pass"}))
	require.Equal(t, authSuccessMessage, readText(t, conn))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("start")))

	assert.Equal(t, sheetAuthFailedMessage, readText(t, conn))
}

func TestChannelReportsRunFailure(t *testing.T) {
	factory := func(notifier progress.Notifier) (Runner, error) {
		return &stubRunner{notifier: notifier, err: errors.New("sheet unreachable")}, nil
	}
	_, wsURL := testServer(t, factory)
	conn := dial(t, wsURL)

	require.NoError(t, conn.WriteJSON(loginRequest{Username: "user", Password: "pass"}))
	require.Equal(t, authSuccessMessage, readText(t, conn))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("start")))

	assert.Equal(t, pipeline.MsgInternalError, readText(t, conn))
}
