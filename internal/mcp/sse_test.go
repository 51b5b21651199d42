package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseEvent reads one "event:"/"data:" pair from the stream, skipping
// comments and blank lines.
func sseEvent(t *testing.T, r *bufio.Reader) (event, data string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		require.True(t, time.Now().Before(deadline), "timed out waiting for SSE event")
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && event != "":
			return event, data
		}
	}
}

func TestSSE_EndpointHandshakeAndReply(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer upstream.Close()

	srv, _ := newTestServer(t, upstream.URL)

	stream, err := http.Get(srv.URL + "/sse")
	require.NoError(t, err)
	defer stream.Body.Close()
	require.Equal(t, http.StatusOK, stream.StatusCode)
	assert.Contains(t, stream.Header.Get("Content-Type"), "text/event-stream")

	reader := bufio.NewReader(stream.Body)

	// First event names the message intake with the session id baked in.
	event, data := sseEvent(t, reader)
	assert.Equal(t, "endpoint", event)
	require.True(t, strings.HasPrefix(data, "/messages?sessionId="), "got %q", data)
	sessionID := strings.TrimPrefix(data, "/messages?sessionId=")

	// Requests are POSTed to the intake; the reply arrives on the stream.
	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0", "id": 1, "method": "tools/list",
	})
	require.NoError(t, err)
	post, err := http.Post(srv.URL+"/messages?sessionId="+sessionID, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusAccepted, post.StatusCode)

	event, data = sseEvent(t, reader)
	assert.Equal(t, "message", event)

	var reply struct {
		ID     int `json:"id"`
		Result struct {
			Tools []ToolDescriptor `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(data), &reply))
	assert.Equal(t, 1, reply.ID)
	assert.Len(t, reply.Result.Tools, 24)
}

// SSE sessions exist before initialize arrives, so negotiation must come
// from the initialize request itself rather than from session creation.
func TestSSE_InitializeNegotiatesRequestedVersion(t *testing.T) {
	srv, _ := newTestServer(t, "http://unused")

	stream, err := http.Get(srv.URL + "/sse")
	require.NoError(t, err)
	defer stream.Body.Close()
	reader := bufio.NewReader(stream.Body)

	_, data := sseEvent(t, reader)
	sessionID := strings.TrimPrefix(data, "/messages?sessionId=")

	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0", "id": 1, "method": "initialize",
		"params": map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"clientInfo":      map[string]interface{}{"name": "legacy-client", "version": "0.9"},
		},
	})
	require.NoError(t, err)
	post, err := http.Post(srv.URL+"/messages?sessionId="+sessionID, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	post.Body.Close()
	require.Equal(t, http.StatusAccepted, post.StatusCode)

	event, data := sseEvent(t, reader)
	assert.Equal(t, "message", event)

	var reply struct {
		Result struct {
			ProtocolVersion string `json:"protocolVersion"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(data), &reply))
	assert.Equal(t, "2024-11-05", reply.Result.ProtocolVersion)
}

func TestSSE_MessageWithoutStream(t *testing.T) {
	srv, _ := newTestServer(t, "http://unused")

	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	resp, err := http.Post(srv.URL+"/messages", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var rpcErr JSONRPCError
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rpcErr))
	require.NotNil(t, rpcErr.Error)
	assert.Equal(t, InvalidRequest, rpcErr.Error.Code)
	assert.Contains(t, rpcErr.Error.Message, "open GET /sse first")
}

func TestSSE_UnknownSessionID(t *testing.T) {
	srv, _ := newTestServer(t, "http://unused")

	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	resp, err := http.Post(srv.URL+"/messages?sessionId=no-such-session", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
