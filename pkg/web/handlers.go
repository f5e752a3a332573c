package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ritzau/circuit-workbench/pkg/catalog"
	"github.com/ritzau/circuit-workbench/pkg/circuitfile"
	"github.com/ritzau/circuit-workbench/pkg/export"
	"github.com/ritzau/circuit-workbench/pkg/logging"
	"github.com/ritzau/circuit-workbench/pkg/model"
	"github.com/ritzau/circuit-workbench/pkg/netlist"
	"github.com/ritzau/circuit-workbench/pkg/pubsub"
	"github.com/ritzau/circuit-workbench/pkg/session"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps the model's stable error kinds onto HTTP statuses. The
// kind string is the contract the frontend switches on.
func writeError(w http.ResponseWriter, err error) {
	var (
		status = http.StatusInternalServerError
		kind   = "internal"
	)
	switch {
	case errors.Is(err, catalog.ErrUnknownType):
		status, kind = http.StatusBadRequest, "unknown_component_type"
	case errors.Is(err, model.ErrSelfConnection):
		status, kind = http.StatusBadRequest, "self_connection"
	case errors.Is(err, model.ErrDuplicateConnection):
		status, kind = http.StatusConflict, "duplicate_connection"
	case errors.Is(err, model.ErrComponentNotFound):
		status, kind = http.StatusNotFound, "component_not_found"
	}
	writeJSON(w, status, errorResponse{Error: kind, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out; an encode failure only truncates the body.
	_ = json.NewEncoder(w).Encode(v)
}

// sessionFor resolves the request's session. A missing header means the
// default session; an unknown id is a client error.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	id := r.Header.Get(sessionHeader)
	sess := s.sessions.Get(id)
	if sess == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:   "session_not_found",
			Message: "no session with id " + id,
		})
	}
	return sess
}

type catalogEntry struct {
	Name   string            `json:"name"`
	Symbol string            `json:"symbol"`
	Params map[string]any    `json:"params"`
	Units  map[string]string `json:"units"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entries := make([]catalogEntry, 0, len(catalog.Types()))
	for _, typ := range catalog.Types() {
		def, err := catalog.Get(typ)
		if err != nil {
			writeError(w, err)
			return
		}
		entries = append(entries, catalogEntry{
			Name:   string(typ),
			Symbol: def.Symbol,
			Params: def.DefaultParams,
			Units:  def.Units,
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

type circuitResponse struct {
	Components  []model.Component  `json:"components"`
	Connections []model.Connection `json:"connections"`
}

func (s *Server) handleCircuit(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	components, connections := sess.Snapshot()
	if components == nil {
		components = []model.Component{}
	}
	if connections == nil {
		connections = []model.Connection{}
	}
	writeJSON(w, http.StatusOK, circuitResponse{Components: components, Connections: connections})
}

type netlistResponse struct {
	Edges    [][2]int           `json:"edges"`
	Groups   [][]int            `json:"groups"`
	Loops    []netlist.Loop     `json:"loops"`
	Dangling []model.Connection `json:"dangling"`
}

func (s *Server) handleNetlist(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	components, connections := sess.Snapshot()
	g := netlist.Build(model.Restore(components, connections, 0))
	writeJSON(w, http.StatusOK, netlistResponse{
		Edges:    g.Edges(),
		Groups:   g.Groups(),
		Loops:    g.Loops(),
		Dangling: g.Dangling(),
	})
}

type addComponentRequest struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (s *Server) handleAddComponent(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	var req addComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	comp, err := sess.AddComponent(catalog.Type(req.Type), req.X, req.Y)
	if err != nil {
		writeError(w, err)
		return
	}

	s.PublishCircuit(sess, "component_added")
	writeJSON(w, http.StatusCreated, comp)
}

func (s *Server) handleAddConnection(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	var conn model.Connection
	if err := json.NewDecoder(r.Body).Decode(&conn); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	if err := sess.AddConnection(conn.From, conn.To); err != nil {
		writeError(w, err)
		return
	}

	s.PublishCircuit(sess, "connection_added")
	writeJSON(w, http.StatusCreated, conn)
}

func (s *Server) handleUpdateParams(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid component id"})
		return
	}

	var params map[string]any
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return
	}

	if err := sess.UpdateParams(id, params); err != nil {
		writeError(w, err)
		return
	}

	s.PublishCircuit(sess, "params_updated")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	result := sess.Analyze()

	err := s.publisher.Publish(pubsub.TopicAnalysis, "complete", pubsub.AnalysisStatus{
		Components:     len(result.Components),
		VoltageSources: len(result.VoltageSources),
		HasAggregates:  result.CircuitCurrent != nil,
	})
	if err != nil {
		// The response still carries the result even if the live update fails.
		logging.Warn("publishing analysis event", "error", err)
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	result := sess.Result()
	if result == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:   "no_analysis",
			Message: "no analysis has been run for this session",
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSaveCircuit(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	if s.circuitFile == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "no_circuit_file",
			Message: "no circuit file configured; start with --circuit",
		})
		return
	}

	components, connections := sess.Snapshot()
	circuit := model.Restore(components, connections, 0)
	if err := circuitfile.Save(s.circuitFile, circuit); err != nil {
		writeError(w, err)
		return
	}

	logging.Info("circuit saved", "path", s.circuitFile, "components", len(components))
	writeJSON(w, http.StatusOK, map[string]string{"path": s.circuitFile})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	sess.Clear()
	s.PublishCircuit(sess, "cleared")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	components, _ := sess.Snapshot()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="circuit_report.csv"`)
	if err := export.WriteCSV(w, components, sess.Result()); err != nil {
		// Too late for a status change; the truncated body is the signal.
		return
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}
