package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nareshsaladi2024/oicagentops/internal/catalog"
	"github.com/nareshsaladi2024/oicagentops/internal/oic"
)

func newTestServer(t *testing.T, upstreamURL string) (*httptest.Server, *Server) {
	t.Helper()
	tokens := &stubTokens{}
	client := oic.NewClient(tokens, nil)
	s := NewServer(testConfig(upstreamURL), catalog.New(), tokens, client, "test", nil)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv, s
}

func postStream(t *testing.T, srv *httptest.Server, sessionID string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/stream", bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("Mcp-Session-Id", sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestStream_SessionLifecycle(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[],"totalRecordsCount":0}`)
	}))
	defer upstream.Close()

	srv, _ := newTestServer(t, upstream.URL)

	// initialize creates the session and returns its id in the header.
	resp := postStream(t, srv, "", map[string]interface{}{
		"jsonrpc": "2.0", "id": 1, "method": "initialize",
		"params": map[string]interface{}{
			"protocolVersion": "2025-03-26",
			"clientInfo":      map[string]interface{}{"name": "test-client", "version": "1.0"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sessionID := resp.Header.Get("Mcp-Session-Id")
	require.NotEmpty(t, sessionID)

	var initBody struct {
		Result struct {
			ProtocolVersion string     `json:"protocolVersion"`
			ServerInfo      ServerInfo `json:"serverInfo"`
		} `json:"result"`
	}
	decodeResponse(t, resp, &initBody)
	assert.Equal(t, "2025-03-26", initBody.Result.ProtocolVersion)
	assert.Equal(t, ServerName, initBody.Result.ServerInfo.Name)

	// The initialized notification is acknowledged without a body.
	resp = postStream(t, srv, sessionID, map[string]interface{}{
		"jsonrpc": "2.0", "method": "notifications/initialized",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	// tools/list under the session.
	resp = postStream(t, srv, sessionID, map[string]interface{}{
		"jsonrpc": "2.0", "id": 2, "method": "tools/list",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listBody struct {
		Result struct {
			Tools []ToolDescriptor `json:"tools"`
		} `json:"result"`
	}
	decodeResponse(t, resp, &listBody)
	assert.Len(t, listBody.Result.Tools, 24)

	// tools/call end to end against the fake upstream.
	resp = postStream(t, srv, sessionID, map[string]interface{}{
		"jsonrpc": "2.0", "id": 3, "method": "tools/call",
		"params": map[string]interface{}{
			"name":      "monitoringInstances",
			"arguments": map[string]interface{}{"tenant": "dev"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var callBody struct {
		Result struct {
			Content []ToolContent `json:"content"`
			IsError bool          `json:"isError"`
		} `json:"result"`
	}
	decodeResponse(t, resp, &callBody)
	assert.False(t, callBody.Result.IsError)
	require.Len(t, callBody.Result.Content, 1)

	var page struct {
		Total     int `json:"total"`
		Retrieved int `json:"retrieved"`
	}
	require.NoError(t, json.Unmarshal([]byte(callBody.Result.Content[0].Text), &page))
	assert.Equal(t, 0, page.Total)

	// DELETE retires the session; further requests are rejected.
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Mcp-Session-Id", sessionID)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	resp = postStream(t, srv, sessionID, map[string]interface{}{
		"jsonrpc": "2.0", "id": 4, "method": "tools/list",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStream_SessionHeaderRequired(t *testing.T) {
	srv, _ := newTestServer(t, "http://unused")

	resp := postStream(t, srv, "", map[string]interface{}{
		"jsonrpc": "2.0", "id": 1, "method": "tools/list",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body JSONRPCError
	decodeResponse(t, resp, &body)
	require.NotNil(t, body.Error)
	assert.Equal(t, SessionRequired, body.Error.Code)
}

func TestStream_MalformedJSON(t *testing.T) {
	srv, _ := newTestServer(t, "http://unused")

	resp, err := http.Post(srv.URL+"/stream", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body JSONRPCError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.Error)
	assert.Equal(t, ParseError, body.Error.Code)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "http://unused")

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Version)
	assert.NotEmpty(t, body.Timestamp)
}

func TestRootEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, "http://unused")

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Name      string   `json:"name"`
		ToolCount int      `json:"toolCount"`
		Tools     []string `json:"tools"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, ServerName, body.Name)
	assert.Equal(t, 24, body.ToolCount)
	assert.Contains(t, body.Tools, "monitoringErroredInstances")
}
