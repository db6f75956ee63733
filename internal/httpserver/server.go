// Package httpserver exposes peg solitaire sessions over a JSON HTTP API.
//
// Routes:
//   - GET  /health, GET /layouts
//   - POST /sessions {layout}, GET /sessions, GET|DELETE /sessions/{id}
//   - POST /sessions/{id}/remove|move|select|click|undo|redo|reset
//   - GET  /sessions/{id}/hints, GET /sessions/{id}/solvable
//
// Illegal moves are not errors: the response carries the unchanged view
// with "applied": false.
package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/game"
	"github.com/hailam/pegplay/internal/store"
)

// Server bundles the router and the session store.
type Server struct {
	r           *chi.Mux
	store       store.Store
	historySize int

	// Collapses concurrent cold searches for the same query.
	flight singleflight.Group
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, historySize int) *Server {
	s := &Server{r: chi.NewRouter(), store: st, historySize: historySize}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(30 * time.Second))
	s.r.Use(jsonContentType)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/layouts", s.handleLayouts)

	s.r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleNewSession)
		r.Get("/", s.handleListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.withEntry(s.handleView))
			r.Delete("/", s.handleDelete)
			r.Post("/remove", s.withEntry(s.handleRemove))
			r.Post("/move", s.withEntry(s.handleMove))
			r.Post("/select", s.withEntry(s.handleSelect))
			r.Post("/click", s.withEntry(s.handleClick))
			r.Post("/undo", s.withEntry(s.handleUndo))
			r.Post("/redo", s.withEntry(s.handleRedo))
			r.Post("/reset", s.withEntry(s.handleReset))
			r.Get("/hints", s.withEntry(s.handleHints))
			r.Get("/solvable", s.withEntry(s.handleSolvable))
		})
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// withEntry resolves {id} and hands the locked entry to h.
func (s *Server) withEntry(h func(w http.ResponseWriter, r *http.Request, e *store.Entry)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not_found")
				return
			}
			log.Error().Err(err).Msg("load session")
			writeError(w, http.StatusInternalServerError, "load_failed")
			return
		}
		h(w, r, e)
	}
}

// ------------------------------ helpers ------------------------------------

func writeError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched
// when allowEmpty is set.
func decodeBody(r *http.Request, v any, allowEmpty bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	return err
}

// ------------------------------ sessions -----------------------------------

type newSessionReq struct {
	Layout string `json:"layout"`
}

func (s *Server) handleLayouts(w http.ResponseWriter, r *http.Request) {
	type layoutInfo struct {
		Name  string   `json:"name"`
		Cells int      `json:"cells"`
		Goal  int      `json:"goal"`
		Rows  []string `json:"rows"`
	}
	out := []layoutInfo{}
	for _, name := range board.Layouts() {
		geo, err := board.Layout(name)
		if err != nil {
			continue
		}
		out = append(out, layoutInfo{
			Name:  name,
			Cells: geo.NumCells(),
			Goal:  int(geo.Goal()),
			Rows:  geo.Template(),
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if err := decodeBody(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Layout == "" {
		req.Layout = board.DefaultLayout
	}
	geo, err := board.Layout(req.Layout)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_layout")
		return
	}

	e := store.NewEntry(req.Layout, game.NewSession(geo, s.historySize))
	if err := s.store.Save(r.Context(), e); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Info().Str("session", e.ID).Str("layout", e.Layout).Msg("session created")

	e.Lock()
	v := newView(e)
	e.Unlock()
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, v)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed")
		return
	}
	writeJSON(w, map[string]any{"sessions": ids})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request, e *store.Entry) {
	e.Lock()
	defer e.Unlock()
	writeJSON(w, newView(e))
}
