package a2a

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentcal/internal/domain"
	"agentcal/internal/pipeline"
)

func TestToolResultPassesThroughOnSuccess(t *testing.T) {
	resp := domain.SuccessResponse(domain.ProviderTask, "task_created", nil, "done")
	result, rpcErr := toolResult(resp, nil)
	assert.Nil(t, rpcErr)
	assert.Same(t, resp, result)
}

func TestToolResultNonPipelineErrorIsInternal(t *testing.T) {
	result, rpcErr := toolResult(nil, errors.New("boom"))
	assert.Nil(t, result)
	require.NotNil(t, rpcErr)
	assert.Equal(t, ErrCodeInternal, rpcErr.Code)
	assert.Equal(t, "boom", rpcErr.Message)
}

func TestToolResultValidationIsInvalidParams(t *testing.T) {
	result, rpcErr := toolResult(nil, pipeline.New(pipeline.ErrorKindValidation, "bad query"))
	assert.Nil(t, result)
	require.NotNil(t, rpcErr)
	assert.Equal(t, ErrCodeInvalidParams, rpcErr.Code)
	assert.Equal(t, "bad query", rpcErr.Message)
}

func TestToolResultInternalIsInternalRPCError(t *testing.T) {
	result, rpcErr := toolResult(nil, pipeline.New(pipeline.ErrorKindInternal, "unexpected state"))
	assert.Nil(t, result)
	require.NotNil(t, rpcErr)
	assert.Equal(t, ErrCodeInternal, rpcErr.Code)
	assert.True(t, strings.Contains(rpcErr.Message, "unexpected state"))
}

func TestToolResultSetupRequiredIsResponseNotRPCError(t *testing.T) {
	result, rpcErr := toolResult(nil, pipeline.New(pipeline.ErrorKindSetupRequired, "no calendar credentials"))
	assert.Nil(t, rpcErr)
	require.NotNil(t, result)
	resp, ok := result.(*domain.Response)
	require.True(t, ok)
	assert.True(t, resp.NeedsSetup)
	assert.Equal(t, "no calendar credentials", resp.Message)
}

func TestToolResultNotFoundCarriesCandidates(t *testing.T) {
	perr := pipeline.New(pipeline.ErrorKindNotFound, "no matching task")
	perr.Provider = string(domain.ProviderTask)
	perr.Candidates = []pipeline.Candidate{{ID: "t1", Title: "Write report"}}

	result, rpcErr := toolResult(nil, perr)
	assert.Nil(t, rpcErr)
	require.NotNil(t, result)
	resp, ok := result.(*domain.Response)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", resp.Code)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	candidates, ok := data["candidates"].([]map[string]string)
	require.True(t, ok)
	require.Len(t, candidates, 1)
	assert.Equal(t, "t1", candidates[0]["id"])
}

func TestToolResultAmbiguousCarriesCandidates(t *testing.T) {
	perr := pipeline.New(pipeline.ErrorKindAmbiguous, "multiple matches")
	perr.Candidates = []pipeline.Candidate{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}

	result, rpcErr := toolResult(nil, perr)
	assert.Nil(t, rpcErr)
	resp := result.(*domain.Response)
	assert.Equal(t, "AMBIGUOUS", resp.Code)
	data := resp.Data.(map[string]any)
	assert.Len(t, data["candidates"], 2)
}

func TestToolResultDefaultBucketIsErrorResponse(t *testing.T) {
	for _, kind := range []pipeline.ErrorKind{
		pipeline.ErrorKindInterpretationFailed,
		pipeline.ErrorKindConflictUnresolvable,
		pipeline.ErrorKindProviderError,
		pipeline.ErrorKindSyncFailure,
	} {
		result, rpcErr := toolResult(nil, pipeline.New(kind, "failure: "+string(kind)))
		assert.Nil(t, rpcErr)
		resp, ok := result.(*domain.Response)
		require.True(t, ok)
		assert.False(t, resp.Success)
		assert.Equal(t, kind.Code(), resp.Code)
	}
}

func TestRequestIDGeneratesWhenEmpty(t *testing.T) {
	id := requestID("")
	assert.NotEmpty(t, id)
	assert.NotEqual(t, "given-id", id)
}

func TestRequestIDEchoesWhenGiven(t *testing.T) {
	assert.Equal(t, "given-id", requestID("given-id"))
}

type stubAuthenticator struct {
	allow bool
}

func (s stubAuthenticator) Authenticate(r *http.Request) bool { return s.allow }

func newTestServer(auth Authenticator) (*Server, *httptest.Server) {
	s := &Server{
		Dispatcher: pipeline.New(nil, "", ""),
		Auth: auth,
		Card: BuildAgentCard("agentcal", "test", "http://example/a2a/rpc", false, false),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/a2a/rpc", s.handleRPC)
	return s, httptest.NewServer(mux)
}

func rpcPost(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeRPC(t *testing.T, resp *http.Response) Response {
	t.Helper()
	defer resp.Body.Close()
	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHandleRPCMalformedJSON(t *testing.T) {
	_, srv := newTestServer(nil)
	defer srv.Close()

	resp := rpcPost(t, srv.URL+"/a2a/rpc", "{not json")
	out := decodeRPC(t, resp)
	require.NotNil(t, out.Error)
	assert.Equal(t, ErrCodeParseError, out.Error.Code)
}

func TestHandleRPCMissingMethod(t *testing.T) {
	_, srv := newTestServer(nil)
	defer srv.Close()

	resp := rpcPost(t, srv.URL+"/a2a/rpc", `{"jsonrpc":"2.0","id":1}`)
	out := decodeRPC(t, resp)
	require.NotNil(t, out.Error)
	assert.Equal(t, ErrCodeInvalidRequest, out.Error.Code)
}

func TestHandleRPCUnknownMethod(t *testing.T) {
	_, srv := newTestServer(nil)
	defer srv.Close()

	resp := rpcPost(t, srv.URL+"/a2a/rpc", `{"jsonrpc":"2.0","method":"bogus.method","id":1}`)
	out := decodeRPC(t, resp)
	require.NotNil(t, out.Error)
	assert.Equal(t, ErrCodeMethodNotFound, out.Error.Code)
}

func TestHandleRPCAgentCard(t *testing.T) {
	_, srv := newTestServer(nil)
	defer srv.Close()

	resp := rpcPost(t, srv.URL+"/a2a/rpc", `{"jsonrpc":"2.0","method":"agent.card","id":"1"}`)
	out := decodeRPC(t, resp)
	assert.Nil(t, out.Error)
	assert.NotNil(t, out.Result)
}

func TestHandleRPCToolList(t *testing.T) {
	_, srv := newTestServer(nil)
	defer srv.Close()

	resp := rpcPost(t, srv.URL+"/a2a/rpc", `{"jsonrpc":"2.0","method":"tool.list","id":"1"}`)
	out := decodeRPC(t, resp)
	assert.Nil(t, out.Error)
	assert.NotNil(t, out.Result)
}

func TestHandleRPCUnauthorized(t *testing.T) {
	_, srv := newTestServer(stubAuthenticator{allow: false})
	defer srv.Close()

	resp := rpcPost(t, srv.URL+"/a2a/rpc", `{"jsonrpc":"2.0","method":"agent.card","id":"1"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	out := decodeRPC(t, resp)
	require.NotNil(t, out.Error)
	assert.Equal(t, ErrCodeUnauthorized, out.Error.Code)
}
