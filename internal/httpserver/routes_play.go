package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/hailam/pegplay/internal/board"
	"github.com/hailam/pegplay/internal/hint"
	"github.com/hailam/pegplay/internal/solver"
	"github.com/hailam/pegplay/internal/store"
)

// sessionView is the JSON shape of a session.
type sessionView struct {
	ID       string       `json:"id"`
	Layout   string       `json:"layout"`
	State    uint64       `json:"state,string"`
	Pegs     []board.Cell `json:"pegs"`
	Phase    string       `json:"phase"`
	Status   string       `json:"status"`
	CanUndo  bool         `json:"canUndo"`
	CanRedo  bool         `json:"canRedo"`
	CanReset bool         `json:"canReset"`
	Goal     board.Cell   `json:"goal"`
	Active   board.Cell   `json:"active"`
	Targets  []board.Cell `json:"targets"`
	Board    string       `json:"board"`
	Applied  *bool        `json:"applied,omitempty"`
}

// newView snapshots an entry. The caller holds the entry lock.
func newView(e *store.Entry) sessionView {
	s := e.Session
	pegs := s.State().Cells()
	if pegs == nil {
		pegs = []board.Cell{}
	}
	targets := s.Targets().Cells()
	if targets == nil {
		targets = []board.Cell{}
	}
	marks := board.Empty
	if s.Active() != board.NoCell {
		marks = board.CellBB(s.Active())
	}
	return sessionView{
		ID:       e.ID,
		Layout:   e.Layout,
		State:    uint64(s.State()),
		Pegs:     pegs,
		Phase:    s.Phase().String(),
		Status:   s.Status().String(),
		CanUndo:  s.CanUndo(),
		CanRedo:  s.CanRedo(),
		CanReset: s.CanReset(),
		Goal:     s.Goal(),
		Active:   s.Active(),
		Targets:  targets,
		Board:    s.Geometry().Render(s.State(), marks|s.Targets()),
	}
}

// apply runs op under the entry lock and writes the resulting view.
func apply(w http.ResponseWriter, e *store.Entry, op func() bool) {
	e.Lock()
	applied := op()
	v := newView(e)
	e.Unlock()

	v.Applied = &applied
	writeJSON(w, v)
}

type cellReq struct {
	Cell *int `json:"cell"`
}

type moveReq struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

func (s *Server) decodeCell(w http.ResponseWriter, r *http.Request) (board.Cell, bool) {
	var req cellReq
	if err := decodeBody(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return board.NoCell, false
	}
	if req.Cell == nil {
		writeError(w, http.StatusBadRequest, "missing_cell")
		return board.NoCell, false
	}
	return board.Cell(*req.Cell), true
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request, e *store.Entry) {
	c, ok := s.decodeCell(w, r)
	if !ok {
		return
	}
	apply(w, e, func() bool { return e.Session.RemovePeg(c) })
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request, e *store.Entry) {
	var req moveReq
	if err := decodeBody(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.From == nil || req.To == nil {
		writeError(w, http.StatusBadRequest, "missing_cell")
		return
	}
	from, to := board.Cell(*req.From), board.Cell(*req.To)
	apply(w, e, func() bool { return e.Session.Move(from, to) })
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request, e *store.Entry) {
	c, ok := s.decodeCell(w, r)
	if !ok {
		return
	}
	apply(w, e, func() bool {
		if c == board.NoCell {
			e.Session.ClearActive()
			return true
		}
		return e.Session.SetActive(c)
	})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request, e *store.Entry) {
	c, ok := s.decodeCell(w, r)
	if !ok {
		return
	}
	apply(w, e, func() bool { return e.Session.Click(c) })
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request, e *store.Entry) {
	apply(w, e, e.Session.Undo)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request, e *store.Entry) {
	apply(w, e, e.Session.Redo)
}

// handleReset always resets; applied reports whether anything changed.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, e *store.Entry) {
	apply(w, e, e.Session.Reset)
}

// ------------------------------- hints -------------------------------------

type hintsRes struct {
	Show   bool         `json:"show"`
	Active board.Cell   `json:"active"`
	Hints  []board.Cell `json:"hints"`
}

// handleHints answers ?show=bool (default true) and ?active=cell (default
// the session's selection, -1 for source mode).
func (s *Server) handleHints(w http.ResponseWriter, r *http.Request, e *store.Entry) {
	show := true
	if v := r.URL.Query().Get("show"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_show")
			return
		}
		show = b
	}

	e.Lock()
	geo := e.Session.Geometry()
	state := e.Session.State()
	active := e.Session.Active()
	e.Unlock()

	if v := r.URL.Query().Get("active"); v != "" {
		c, err := board.ParseCell(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_active")
			return
		}
		active = c
	}

	res := hintsRes{Show: show, Active: active, Hints: []board.Cell{}}
	if show {
		key := fmt.Sprintf("hints:%016x:%x:%d", geo.Fingerprint(), uint64(state), active)
		v, _, _ := s.flight.Do(key, func() (any, error) {
			return hint.Compute(geo, solver.Shared(geo), state, active, true), nil
		})
		if cells := v.(board.Bitboard).Cells(); cells != nil {
			res.Hints = cells
		}
	}
	writeJSON(w, res)
}

func (s *Server) handleSolvable(w http.ResponseWriter, r *http.Request, e *store.Entry) {
	e.Lock()
	geo := e.Session.Geometry()
	state := e.Session.State()
	e.Unlock()

	key := fmt.Sprintf("solvable:%016x:%x", geo.Fingerprint(), uint64(state))
	v, _, shared := s.flight.Do(key, func() (any, error) {
		return solver.Shared(geo).IsSolvable(state), nil
	})
	if shared {
		log.Debug().Str("session", e.ID).Msg("shared solvability search")
	}
	writeJSON(w, map[string]any{"solvable": v.(bool), "pegs": state.PopCount()})
}
