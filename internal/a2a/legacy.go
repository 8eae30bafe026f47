package a2a

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agentcal/internal/auth"
	"agentcal/internal/domain"
	"agentcal/internal/pipeline"
	"agentcal/internal/setup"
)

// MountLegacy registers the back-compat HTTP endpoints: plain
// GET/POST routes authenticated by the same per-request credential headers
// as tool.execute's UserContext.Credentials, kept alongside the JSON-RPC
// surface for callers that have not migrated.
func (s *Server) MountLegacy(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Get("/mcp/needs-setup", s.handleNeedsSetup)
	r.Get("/mcp/tools", s.handleListTools)
	r.Post("/mcp/tools/{name}", s.handleExecuteTool)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNeedsSetup(w http.ResponseWriter, r *http.Request) {
	creds := auth.ExtractCredentials(r)
	writeJSON(w, http.StatusOK, setup.Check(creds))
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, skillDescriptions)
}

// legacyToolRequest is the body POST /mcp/tools/{name} accepts: a free-text
// query plus the same user_context shape tool.execute takes, minus the
// credentials field (those travel as headers instead).
type legacyToolRequest struct {
	Query string `json:"query"`
	UserContext UserContextParams `json:"user_context"`
	Approved bool `json:"approved,omitempty"`
	ActionData json.RawMessage `json:"action_data,omitempty"`
}

func (s *Server) handleExecuteTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body legacyToolRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	body.UserContext.Credentials = auth.ExtractCredentials(r)

	uc, err := s.buildContext(body.UserContext)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	call := &pipeline.Call{Query: body.Query, Context: uc, Approved: body.Approved, RequestID: requestID("")}
	if len(body.ActionData) > 0 {
		var record domain.ActionRecord
		if err := json.Unmarshal(body.ActionData, &record); err == nil {
			call.ActionData = &record
		}
	}

	resp, perr := s.Dispatcher.Dispatch(r.Context(), name, call)
	result, rpcErr := toolResult(resp, perr)
	if rpcErr != nil {
		writeJSON(w, http.StatusOK, map[string]any{"error": rpcErr})
		return
	}
	writeJSON(w, http.StatusOK, result)
}
