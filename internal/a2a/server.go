package a2a

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"agentcal/internal/domain"
	"agentcal/internal/pipeline"
	"agentcal/internal/usercontext"
)

// Authenticator verifies a /a2a/rpc request and reports whether it is
// authorized.
type Authenticator interface {
	Authenticate(r *http.Request) bool
}

// Server mounts the single JSON-RPC 2.0 route at /a2a/rpc and serves
// agent.card/agent.handshake/tool.list/tool.execute/tool.approve by
// dispatching on the request's method field.
type Server struct {
	Dispatcher *pipeline.Dispatcher
	Auth Authenticator
	Card AgentCard
}

// Mount registers the RPC route and the public discovery endpoints on r.
func (s *Server) Mount(r chi.Router) {
	r.Post("/a2a/rpc", s.handleRPC)
	r.Get("/.well-known/a2a.json", s.handleAgentCard)
	r.Get("/.well-known/a2a-credentials.json", s.handleCredentialsManifest)
}

func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Card)
}

func (s *Server) handleCredentialsManifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"required_credentials": []map[string]string{
			{"key": "RECLAIM_API_KEY", "provider": "task", "acquire": "https://app.reclaim.ai/settings/api"},
			{"key": "NYLAS_API_KEY", "provider": "calendar", "acquire": "https://dashboard.nylas.com"},
			{"key": "NYLAS_GRANT_ID", "provider": "calendar", "acquire": "https://dashboard.nylas.com"},
		},
	})
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if s.Auth != nil && !s.Auth.Authenticate(r) {
		writeRPCError(w, nil, http.StatusUnauthorized, newError(ErrCodeUnauthorized, "missing or invalid credentials"))
		return
	}

	var req Request
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		writeRPCError(w, nil, http.StatusOK, newError(ErrCodeParseError, "malformed JSON-RPC request"))
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		writeRPCError(w, req.ID, http.StatusOK, newError(ErrCodeInvalidRequest, "jsonrpc must be \"2.0\" and method must be set"))
		return
	}

	var (
		result any
		rpcErr *Error
	)
	switch req.Method {
	case "agent.card":
		result = s.Card
	case "agent.handshake":
		result = HandshakeResult{Agent: s.Card.Name, Card: s.Card, ServerTime: time.Now().UTC().Format(time.RFC3339)}
	case "tool.list":
		result = skillDescriptions
	case "tool.execute":
		result, rpcErr = s.execute(r, req.Params)
	case "tool.approve":
		result, rpcErr = s.approve(r, req.Params)
	default:
		rpcErr = newError(ErrCodeMethodNotFound, "unknown method: "+req.Method)
	}

	if rpcErr != nil {
		writeRPCError(w, req.ID, http.StatusOK, rpcErr)
		return
	}
	writeJSON(w, http.StatusOK, Response{JSONRPC: "2.0", Result: result, ID: req.ID})
}

func (s *Server) execute(r *http.Request, raw json.RawMessage) (any, *Error) {
	var params ToolExecuteParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, newError(ErrCodeInvalidParams, "invalid tool.execute params: "+err.Error())
	}
	var args toolArguments
	if err := json.Unmarshal(params.Arguments, &args); err != nil {
		return nil, newError(ErrCodeInvalidParams, "invalid arguments: "+err.Error())
	}
	uc, err := s.buildContext(params.UserContext)
	if err != nil {
		return nil, newError(ErrCodeInvalidParams, err.Error())
	}

	call := &pipeline.Call{Query: args.Query, Context: uc, RequestID: requestID(params.RequestID)}
	resp, perr := s.Dispatcher.Dispatch(r.Context(), params.Tool, call)
	return toolResult(resp, perr)
}

func (s *Server) approve(r *http.Request, raw json.RawMessage) (any, *Error) {
	var params ToolApproveParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, newError(ErrCodeInvalidParams, "invalid tool.approve params: "+err.Error())
	}
	uc, err := s.buildContext(params.UserContext)
	if err != nil {
		return nil, newError(ErrCodeInvalidParams, err.Error())
	}
	var record domain.ActionRecord
	if err := json.Unmarshal(params.ActionData, &record); err != nil {
		return nil, newError(ErrCodeInvalidParams, "invalid action_data: "+err.Error())
	}

	var args toolArguments
	_ = json.Unmarshal(params.OriginalArguments, &args)

	call := &pipeline.Call{
		Query: args.Query,
		Context: uc,
		Approved: params.Approved,
		ActionData: &record,
		RequestID: requestID(params.RequestID),
	}
	resp, perr := s.Dispatcher.Dispatch(r.Context(), params.Tool, call)
	return toolResult(resp, perr)
}

func (s *Server) buildContext(p UserContextParams) (*usercontext.Context, error) {
	return usercontext.New(p.Timezone, p.CurrentDate, p.CurrentTime, p.UserName, p.UserEmail, p.Credentials)
}

// toolResult converts a pipeline.Dispatch outcome to the RPC result/error
// pair: SetupRequired/InterpretationFailed/NotFound/
// Ambiguous/ConflictUnresolvable/ProviderError/SyncFailure all surface as a
// Response variant (never fail the RPC itself); only Validation and Internal
// become JSON-RPC errors (−32602, −32603).
func toolResult(resp *domain.Response, err error) (any, *Error) {
	if err == nil {
		return resp, nil
	}
	var perr *pipeline.Error
	if !pipeline.As(err, &perr) {
		return nil, newError(ErrCodeInternal, err.Error())
	}
	switch perr.Kind {
	case pipeline.ErrorKindValidation:
		return nil, newError(ErrCodeInvalidParams, perr.Message)
	case pipeline.ErrorKindInternal:
		return nil, newError(ErrCodeInternal, perr.Error())
	case pipeline.ErrorKindSetupRequired:
		return domain.NeedsSetupResponse(perr.Message), nil
	case pipeline.ErrorKindNotFound, pipeline.ErrorKindAmbiguous:
		candidates := make([]map[string]string, 0, len(perr.Candidates))
		for _, c := range perr.Candidates {
			candidates = append(candidates, map[string]string{"id": c.ID, "title": c.Title})
		}
		resp := domain.ErrorResponse(domain.Provider(perr.Provider), perr.Message, perr.Kind.Code())
		resp.Data = map[string]any{"candidates": candidates}
		return resp, nil
	default: // InterpretationFailed, ConflictUnresolvable, ProviderError, SyncFailure
		return domain.ErrorResponse(domain.Provider(perr.Provider), perr.Message, perr.Kind.Code()), nil
	}
}

func requestID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRPCError(w http.ResponseWriter, id json.RawMessage, status int, rpcErr *Error) {
	writeJSON(w, status, Response{JSONRPC: "2.0", Error: rpcErr, ID: id})
}
