package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"menutheme/model"
	"menutheme/storage"
	"menutheme/theme"
)

// Server exposes location records, tenant stylesheets and live theme sessions.
type Server struct {
	store    *storage.Store
	themes   *theme.Handler
	sessions *WSConnectionManager
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewServer(store *storage.Store, themes *theme.Handler, logger zerolog.Logger) *Server {
	return &Server{
		store:    store,
		themes:   themes,
		sessions: NewWSConnectionManager(store, logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// Sessions returns the live session manager.
func (s *Server) Sessions() *WSConnectionManager {
	return s.sessions
}

func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/theme", s.themes.HandleTheme)
	mux.HandleFunc("/api/palette", s.themes.HandlePalette)
	mux.HandleFunc("/api/templates", s.themes.HandleTemplates)
	mux.HandleFunc("/api/locations", s.handleLocations)
	mux.HandleFunc("/api/locations/", s.handleLocationByID)
	mux.HandleFunc("/ws", s.handleWS)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

// ---------- locations ----------

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	locs, err := s.store.ListLocations()
	if err != nil {
		s.logger.Error().Err(err).Msg("list locations")
		http.Error(w, "failed to load locations", http.StatusInternalServerError)
		return
	}
	if locs == nil {
		locs = []model.Location{}
	}
	writeJSON(w, http.StatusOK, locs)
}

func (s *Server) handleLocationByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/locations/")
	slug, sub, _ := strings.Cut(rest, "/")
	if slug == "" {
		http.NotFound(w, r)
		return
	}

	switch sub {
	case "":
		s.handleLocation(w, r, slug)
	case "theme.css":
		s.handleLocationTheme(w, r, slug)
	case "palette":
		s.handleLocationPalette(w, r, slug)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request, slug string) {
	switch r.Method {
	case http.MethodGet:
		loc, ok := s.loadLocation(w, r, slug)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, loc)

	case http.MethodPut:
		var loc model.Location
		if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		loc.Slug = slug

		if err := s.store.SaveLocation(&loc); err != nil {
			if errors.Is(err, storage.ErrInvalidSlug) {
				http.Error(w, "invalid slug", http.StatusBadRequest)
				return
			}
			s.logger.Error().Err(err).Str("slug", slug).Msg("save location")
			http.Error(w, "failed to save location", http.StatusInternalServerError)
			return
		}

		n := s.sessions.RefreshSlug(slug)
		s.sessions.Broadcast(map[string]interface{}{"type": "location_updated", "slug": slug})
		s.logger.Info().Str("slug", slug).Str("brand_color", loc.Color()).Int("sessions", n).Msg("location updated")
		writeJSON(w, http.StatusOK, loc)

	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPut)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// tenantState derives the theme a location renders with.
func tenantState(loc *model.Location) theme.State {
	return theme.Derive(loc.Color())
}

func (s *Server) handleLocationTheme(w http.ResponseWriter, r *http.Request, slug string) {
	loc, ok := s.loadLocation(w, r, slug)
	if !ok {
		return
	}
	s.themes.WriteCSS(w, r.URL.Query().Get("template"), tenantState(loc))
}

func (s *Server) handleLocationPalette(w http.ResponseWriter, r *http.Request, slug string) {
	loc, ok := s.loadLocation(w, r, slug)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, theme.NewPaletteResponse(tenantState(loc)))
}

func (s *Server) loadLocation(w http.ResponseWriter, r *http.Request, slug string) (*model.Location, bool) {
	loc, err := s.store.Location(r.Context(), slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		s.logger.Error().Err(err).Str("slug", slug).Msg("load location")
		http.Error(w, "failed to load location", http.StatusInternalServerError)
		return nil, false
	}
	return loc, true
}

// ---------- live sessions ----------

// clientMessage is sent by the page on navigation and when it needs the
// current theme without waiting for a change.
type clientMessage struct {
	Type string `json:"type"`
	Slug string `json:"slug,omitempty"`
}

type snapshotMessage struct {
	Type        string            `json:"type"`
	Session     string            `json:"session"`
	Slug        string            `json:"slug"`
	BaseColor   string            `json:"baseColor"`
	Foreground  string            `json:"foreground"`
	Initialized bool              `json:"initialized"`
	Loading     bool              `json:"loading"`
	Scale       map[string]string `json:"scale"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	sess := s.sessions.add(ctx, conn)
	defer func() {
		s.sessions.remove(conn)
		cancel()
		sess.init.Wait()
	}()

	s.logger.Debug().Str("session", sess.id).Msg("theme session opened")

	sess.init.Mount()
	if slug := r.URL.Query().Get("slug"); slug != "" {
		sess.init.Track(ctx, slug)
	}

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug().Err(err).Str("session", sess.id).Msg("theme session read")
			}
			return
		}

		switch msg.Type {
		case "navigate":
			sess.init.Track(ctx, msg.Slug)
		case "refresh":
			sess.init.Refresh(ctx)
		case "snapshot":
			state := sess.store.Snapshot()
			cur := sess.init.Current()
			reply := snapshotMessage{
				Type:        "snapshot",
				Session:     sess.id,
				Slug:        cur.Slug,
				BaseColor:   state.BaseColor,
				Foreground:  state.Foreground,
				Initialized: state.Initialized,
				Loading:     sess.init.Loading(),
				Scale:       state.Scale.Map(),
			}
			if err := s.sessions.writeJSON(sess, reply); err != nil {
				return
			}
		default:
			if err := s.sessions.writeJSON(sess, map[string]string{"type": "error", "message": "unknown message type"}); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("writeJSON")
	}
}
