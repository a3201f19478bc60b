package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hweiss/calcgraph/pkg/cache"
	"github.com/hweiss/calcgraph/pkg/calcgraph"
	apperrors "github.com/hweiss/calcgraph/pkg/errors"
	"github.com/hweiss/calcgraph/pkg/graphfile"
	"github.com/hweiss/calcgraph/pkg/store"
)

// EvalResult is the response body for evaluation endpoints.
type EvalResult struct {
	Name           string          `json:"name,omitempty"`
	Value          graphfile.Value `json:"value"`
	NodesEvaluated int             `json:"nodes_evaluated"`
	DurationMS     int64           `json:"duration_ms"`
	Cached         bool            `json:"cached"`
}

// errorBody is the response body for failed requests.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// countingHooks counts node invocations during an evaluation.
type countingHooks struct {
	calcgraph.NopHooks
	nodes int
}

func (h *countingHooks) OnNodeDone(string, time.Duration) { h.nodes++ }

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	desc, ok := s.decodeDescription(w, r)
	if !ok {
		return
	}
	s.evaluate(w, r, desc)
}

func (s *Server) handleEvaluateStored(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	desc, err := s.store.Get(r.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, apperrors.New(apperrors.ErrCodeGraphNotFound, "no graph named %q", name))
		return
	}
	if err != nil {
		s.respondError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "load graph %q", name))
		return
	}
	if desc.Name == "" {
		desc.Name = name
	}
	s.evaluate(w, r, desc)
}

// evaluate runs a description, consulting the result cache first.
func (s *Server) evaluate(w http.ResponseWriter, r *http.Request, desc graphfile.Description) {
	ctx := r.Context()

	canonical, err := graphfile.Marshal(desc)
	if err != nil {
		s.respondError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "canonicalize description"))
		return
	}
	key := cache.ResultKey(canonical)
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		var result EvalResult
		if err := json.Unmarshal(data, &result); err == nil {
			result.Cached = true
			s.respondJSON(w, http.StatusOK, result)
			return
		}
	}

	g, err := graphfile.Compile(desc)
	if err != nil {
		s.respondError(w, err)
		return
	}
	hooks := &countingHooks{}
	g.SetHooks(hooks)
	if s.logger != nil {
		g.SetLogger(s.logger)
	}

	start := time.Now()
	value, err := g.Compute(ctx)
	if err != nil {
		s.respondError(w, classifyComputeError(err, desc))
		return
	}

	result := EvalResult{
		Name:           desc.Name,
		Value:          value,
		NodesEvaluated: hooks.nodes,
		DurationMS:     time.Since(start).Milliseconds(),
	}
	if data, err := json.Marshal(result); err == nil {
		_ = s.cache.Set(ctx, key, data, s.ttl)
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	desc, ok := s.decodeDescription(w, r)
	if !ok {
		return
	}
	g, err := graphfile.Compile(desc)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = g.WriteDOT(w)
}

func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "list graphs"))
		return
	}
	if names == nil {
		names = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string][]string{"graphs": names})
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	desc, err := s.store.Get(r.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		s.respondError(w, apperrors.New(apperrors.ErrCodeGraphNotFound, "no graph named %q", name))
		return
	}
	if err != nil {
		s.respondError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "load graph %q", name))
		return
	}
	s.respondJSON(w, http.StatusOK, desc)
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	desc, ok := s.decodeDescription(w, r)
	if !ok {
		return
	}
	if err := desc.Validate(); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), name, desc); err != nil {
		s.respondError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "save graph %q", name))
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.store.Delete(r.Context(), name); err != nil {
		s.respondError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "delete graph %q", name))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeDescription reads a JSON description from the request body.
func (s *Server) decodeDescription(w http.ResponseWriter, r *http.Request) (graphfile.Description, bool) {
	desc, err := graphfile.Read(r.Body)
	if err != nil {
		s.respondError(w, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "parse request body"))
		return graphfile.Description{}, false
	}
	return desc, true
}

// classifyComputeError maps engine sentinels to structured error codes.
func classifyComputeError(err error, desc graphfile.Description) error {
	switch {
	case errors.Is(err, calcgraph.ErrCycle):
		return apperrors.Wrap(apperrors.ErrCodeGraphCycle, err, "graph %q", desc.Name)
	case errors.Is(err, calcgraph.ErrNoOutput):
		return apperrors.Wrap(apperrors.ErrCodeOutputMissing, err, "graph %q", desc.Name)
	default:
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "evaluate graph %q", desc.Name)
	}
}

// statusForCode maps error codes to HTTP status codes.
func statusForCode(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidGraph, apperrors.ErrCodeInvalidOp,
		apperrors.ErrCodeOutputMissing, apperrors.ErrCodeNodeNotFound,
		apperrors.ErrCodeGraphCycle:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeGraphNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = apperrors.UserMessage(err)
	s.respondJSON(w, statusForCode(code), body)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
