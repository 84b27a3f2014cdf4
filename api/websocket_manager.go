package api

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"menutheme/tenant"
	"menutheme/theme"
)

// connWithMutex wraps a WebSocket connection with its own mutex for thread-safe writes.
type connWithMutex struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// session is one live page: its own theme store and initializer. Loads
// started for it run under ctx, which ends with the connection.
type session struct {
	id    string
	ctx   context.Context
	cwm   *connWithMutex
	store *theme.Store
	init  *tenant.Initializer
}

// themeMessage is pushed to the page whenever its theme is applied.
type themeMessage struct {
	Type       string            `json:"type"`
	Session    string            `json:"session"`
	Properties map[string]string `json:"properties"`
}

// WSConnectionManager tracks live theme sessions.
type WSConnectionManager struct {
	mu       sync.RWMutex
	sessions map[*websocket.Conn]*session
	loader   tenant.Loader
	logger   zerolog.Logger
}

// NewWSConnectionManager creates a manager whose sessions load tenants through loader.
func NewWSConnectionManager(loader tenant.Loader, logger zerolog.Logger) *WSConnectionManager {
	return &WSConnectionManager{
		sessions: make(map[*websocket.Conn]*session),
		loader:   loader,
		logger:   logger,
	}
}

// add registers conn and builds its session bound to ctx. The session's store writes
// every applied theme to conn as a "theme" message.
func (m *WSConnectionManager) add(ctx context.Context, conn *websocket.Conn) *session {
	id := uuid.NewString()
	cwm := &connWithMutex{conn: conn}
	logger := m.logger.With().Str("session", id).Logger()

	sink := theme.SinkFunc(func(props []theme.Property) error {
		msg := themeMessage{
			Type:       "theme",
			Session:    id,
			Properties: make(map[string]string, len(props)),
		}
		for _, p := range props {
			msg.Properties[p.Name] = p.Value
		}
		cwm.mu.Lock()
		defer cwm.mu.Unlock()
		return cwm.conn.WriteJSON(msg)
	})

	store := theme.NewStore(sink, theme.WithLogger(logger))
	sess := &session{
		id:    id,
		ctx:   ctx,
		cwm:   cwm,
		store: store,
		init:  tenant.New(store, m.loader, logger),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[conn] = sess
	return sess
}

// remove removes a connection from the manager.
func (m *WSConnectionManager) remove(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, conn)
}

// Count returns the number of live sessions.
func (m *WSConnectionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *WSConnectionManager) snapshot() []*session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// RefreshAll reloads the current tenant of every session. Each load runs
// under its session's context; ctx only stops the sweep.
func (m *WSConnectionManager) RefreshAll(ctx context.Context) {
	for _, s := range m.snapshot() {
		if ctx.Err() != nil {
			return
		}
		s.init.Refresh(s.ctx)
	}
}

// RefreshSlug reloads sessions currently viewing slug and returns how many
// it started.
func (m *WSConnectionManager) RefreshSlug(slug string) int {
	n := 0
	for _, s := range m.snapshot() {
		if s.ctx.Err() == nil && s.init.Current().Slug == slug {
			s.init.Refresh(s.ctx)
			n++
		}
	}
	return n
}

// Broadcast sends a message to all connected clients.
func (m *WSConnectionManager) Broadcast(message map[string]interface{}) {
	for _, s := range m.snapshot() {
		if err := m.writeJSON(s, message); err != nil {
			// Connection is dead, remove it
			m.remove(s.cwm.conn)
		}
	}
}

// writeJSON safely writes JSON to a session's connection using its mutex.
func (m *WSConnectionManager) writeJSON(s *session, message interface{}) error {
	s.cwm.mu.Lock()
	defer s.cwm.mu.Unlock()
	return s.cwm.conn.WriteJSON(message)
}
