package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mattlianje/pipeviz-sub000/pkg/errors"
	"github.com/mattlianje/pipeviz-sub000/pkg/graph"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"snapshot": s.engine.SnapshotHash(),
	})
}

// graphNode is the wire form of one estate node.
type graphNode struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Implicit bool   `json:"implicit,omitempty"`
}

type graphPayload struct {
	Nodes []graphNode  `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, "graph", nil, func() (any, error) {
		m := s.engine.Model()
		payload := graphPayload{Edges: m.Edges()}
		for _, n := range m.Nodes() {
			payload.Nodes = append(payload.Nodes, graphNode{
				Name:     n.Name,
				Kind:     n.Kind.String(),
				Implicit: n.Implicit,
			})
		}
		return payload, nil
	})
}

// handleLineage serves the closure of one node. The direction query parameter
// defaults to downstream.
func (s *Server) handleLineage(w http.ResponseWriter, r *http.Request) {
	node := chi.URLParam(r, "node")
	dirParam := r.URL.Query().Get("direction")
	if dirParam == "" {
		dirParam = string(graph.Downstream)
	}
	dir, err := graph.ParseDirection(dirParam)
	if err != nil {
		writeError(w, err)
		return
	}
	s.cached(w, r, "lineage", []string{node, string(dir)}, func() (any, error) {
		closure, err := s.engine.Lineage(node, dir)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"node":      node,
			"direction": dir,
			"count":     len(closure),
			"lineage":   closure,
		}, nil
	})
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, "cycles", nil, func() (any, error) {
		cycles := s.engine.DetectCycles()
		return map[string]any{
			"count":  len(cycles),
			"cycles": cycles,
		}, nil
	})
}

// handleImpact serves the blast radius of a node or group. A node with
// nothing downstream yields a null body, per the degenerate-but-valid rule.
func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	node := chi.URLParam(r, "node")
	s.cached(w, r, "impact", []string{node}, func() (any, error) {
		return s.engine.BlastRadius(node)
	})
}

type backfillRequest struct {
	Pipelines []string `json:"pipelines"`
}

func (s *Server) decodeSelection(r *http.Request) ([]string, error) {
	var req backfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSelection, err, "request body must be JSON with a pipelines array")
	}
	return req.Pipelines, nil
}

// handleBackfill plans restart waves for a pipeline selection. A selection
// with nothing downstream yields a null body.
func (s *Server) handleBackfill(w http.ResponseWriter, r *http.Request) {
	selection, err := s.decodeSelection(r)
	if err != nil {
		writeError(w, err)
		return
	}
	plan, err := s.engine.PlanBackfill(selection)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleBackfillAirflow(w http.ResponseWriter, r *http.Request) {
	selection, err := s.decodeSelection(r)
	if err != nil {
		writeError(w, err)
		return
	}
	projected, err := s.engine.ProjectAirflow(selection)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projected)
}

// handleCriticalPath serves the longest-duration path, null when no pipeline
// declares a duration.
func (s *Server) handleCriticalPath(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, "paths/critical", nil, func() (any, error) {
		return s.engine.CriticalPath(), nil
	})
}

func (s *Server) handleCostliestPath(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, "paths/costliest", nil, func() (any, error) {
		return s.engine.CostliestPath(), nil
	})
}

func (s *Server) handleAttributes(w http.ResponseWriter, r *http.Request) {
	s.cached(w, r, "attributes", nil, func() (any, error) {
		nodes := s.engine.Attributes()
		return map[string]any{
			"count":      len(nodes),
			"attributes": nodes,
		}, nil
	})
}

func (s *Server) handleAttributeLineage(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidSelection, "the id query parameter is required"))
		return
	}
	s.cached(w, r, "attributes/lineage", []string{id}, func() (any, error) {
		return s.engine.AttributeLineage(id)
	})
}

func (s *Server) handleDataSourceLineage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.cached(w, r, "datasources/lineage", []string{name}, func() (any, error) {
		return s.engine.DataSourceLineage(name)
	})
}
