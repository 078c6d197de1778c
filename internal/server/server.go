// Package server exposes render plans over HTTP and websocket for
// external dashboards.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/stridelab/stridex/internal/model"
	"github.com/stridelab/stridex/internal/state"
	"github.com/stridelab/stridex/internal/store"
	"github.com/stridelab/stridex/internal/view"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Local dashboard use.
	},
}

// Server serves subject summaries and render plans from the database.
type Server struct {
	store *store.Store
	addr  string
}

// New returns a Server bound to the given persistence store.
func New(st *store.Store, addr string) *Server {
	return &Server{store: st, addr: addr}
}

// Handler builds the HTTP route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/subjects", s.handleSubjects)
	mux.HandleFunc("/api/subjects/", s.handlePlan)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	log.Printf("listening on %s", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.ListSubjects(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"subjects": summaries})
}

// handlePlan serves /api/subjects/{id}/plan?day=N.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/subjects/")
	id, ok := strings.CutSuffix(rest, "/plan")
	if !ok || id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	day := 0
	if q := r.URL.Query().Get("day"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil {
			http.Error(w, "invalid day index", http.StatusBadRequest)
			return
		}
		day = parsed
	}
	plan, err := s.planFor(r.Context(), id, day)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, plan)
}

// planRequest is one websocket selection message.
type planRequest struct {
	Subject string `json:"subject"`
	Day     int    `json:"day"`
}

type planError struct {
	Error string `json:"error"`
}

// handleWS answers each selection message with the corresponding
// render plan, holding the connection open for the next request.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			// Best-effort close of the websocket.
			_ = cerr
		}
	}()

	for {
		var req planRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}
		plan, err := s.planFor(r.Context(), req.Subject, req.Day)
		if err != nil {
			if werr := conn.WriteJSON(planError{Error: err.Error()}); werr != nil {
				log.Printf("websocket write error: %v", werr)
				return
			}
			continue
		}
		if err := conn.WriteJSON(plan); err != nil {
			log.Printf("websocket write error: %v", err)
			return
		}
	}
}

// planFor loads one subject and projects it through a private
// selection store, so concurrent requests never share view state.
func (s *Server) planFor(ctx context.Context, id string, day int) (view.RenderPlan, error) {
	subject, err := s.store.LoadSubject(ctx, id)
	if err != nil {
		return view.RenderPlan{}, err
	}
	st := state.New()
	st.ReplaceAll(map[string]model.Subject{subject.ID: subject})
	st.Select(subject.ID)
	st.SelectDay(day)
	return view.Project(st), nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("json encode error: %v", err)
	}
}
