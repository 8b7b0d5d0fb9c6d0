package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"listmaker/pkg/pipeline"
)

// Replies the client keys its login form off
const (
	authSuccessMessage = "Authentication successful."
	authDeniedMessage  = "Authentication failed. User not allowed."

	sheetAuthFailedMessage = "Failed google sheet authentication - closing down. Please try again later."
)

// loginRequest is the payload an unauthorized client sends first
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// wsConn wraps a websocket connection behind a write lock so the
// pipeline can send progress from its own goroutine safely.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Notify sends a text message to the client. Send failures are dropped;
// a dead channel must never interrupt a run mid-reconciliation.
func (c *wsConn) Notify(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteMessage(websocket.TextMessage, []byte(message))
}

// handleWS runs the channel protocol: authenticate first, then the next
// message starts exactly one pipeline run. The connection closes once
// the run finishes.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	wc := &wsConn{conn: conn}
	defer conn.Close()

	log := s.log.WithField("remote", conn.RemoteAddr().String())
	log.Info("channel opened")

	authorized := false
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.WithError(err).Debug("channel closed")
			return
		}

		if !authorized {
			authorized = s.authenticate(wc, message)
			continue
		}

		s.runPipeline(wc)
		return
	}
}

// authenticate parses the login payload and replies with the verdict
func (s *Server) authenticate(wc *wsConn, message []byte) bool {
	var login loginRequest
	if err := json.Unmarshal(message, &login); err != nil {
		wc.Notify(authDeniedMessage)
		return false
	}

	if !s.creds.Verify(login.Username, login.Password) {
		s.log.WithField("username", login.Username).Warn("channel login denied")
		wc.Notify(authDeniedMessage)
		return false
	}

	s.log.WithField("username", login.Username).Info("channel login accepted")
	wc.Notify(authSuccessMessage)
	return true
}

// runPipeline drives one run over the connection, serialized with any
// other connection's run.
func (s *Server) runPipeline(wc *wsConn) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			s.log.WithField("panic", rec).Error("pipeline run panicked")
			wc.Notify(pipeline.MsgInternalError)
		}
	}()

	runner, err := s.runs(wc)
	if err != nil {
		s.log.WithError(err).Error("failed to build pipeline runner")
		wc.Notify(sheetAuthFailedMessage)
		return
	}

	if _, err := runner.Run(context.Background()); err != nil {
		s.log.WithError(err).Error("pipeline run failed")
		wc.Notify(pipeline.MsgInternalError)
		return
	}

	wc.Notify(pipeline.MsgCompleted)
}
