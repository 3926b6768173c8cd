package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tiles-cli/internal/model"

	"github.com/gorilla/websocket"
)

// wsInstances and wsTheme are the two message shapes of the /ws feed.
type wsInstances struct {
	Type      string           `json:"type"`
	Instances []model.Instance `json:"instances"`
}

type wsTheme struct {
	Type  string      `json:"type"`
	Theme model.Theme `json:"theme"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin: sameOrigin,
}

// sameOrigin accepts requests without an Origin header (non-browser clients) and browser requests
// whose Origin host matches the Host they were sent to.
func sameOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, strings.TrimSpace(r.Host))
}

const wsWriteTimeout = 5 * time.Second

// handleWS sends an instances and a theme snapshot on connect and after every change.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The feed is one-way; reading only detects the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch, unsubscribe := s.hub.subscribe()
	defer unsubscribe()

	send := func() error {
		sess := s.cfg.Session
		for _, snap := range []any{
			wsInstances{Type: "instances", Instances: sess.Instances.List()},
			wsTheme{Type: "theme", Theme: sess.Theme.Current()},
		} {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(snap); err != nil {
				return err
			}
		}
		return nil
	}
	if err := send(); err != nil {
		return
	}

	ping := time.NewTicker(keepAliveInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		case <-ch:
			if err := send(); err != nil {
				return
			}
		}
	}
}
