package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// JSON-RPC error codes used on the HTTP path.
const (
	codeParseError    = -32700
	codeToolNotFound  = -32601
	codeInternalError = -32603
)

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type toolResult struct {
	Content []textContent `json:"content"`
}

func jsonRPCError(id json.RawMessage, code int, message string) rpcResponse {
	if id == nil {
		id = json.RawMessage("null")
	}

	return rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}

func jsonRPCText(id json.RawMessage, text string) rpcResponse {
	if id == nil {
		id = json.RawMessage("null")
	}

	return rpcResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  toolResult{Content: []textContent{{Type: "text", Text: text}}},
	}
}

// writeSSEMessage replies with a single server-push message and terminates the
// stream, which is how callers expect tools/call results to arrive.
func writeSSEMessage(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// httpGateway serves the single /mcp endpoint. tools/call is answered
// directly because the protocol library does not propagate call arguments on
// this path; every other method falls through to it.
type httpGateway struct {
	ans      answerer
	log      *slog.Logger
	fallback http.Handler
}

func (g *httpGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		g.writeJSONError(w, http.StatusBadRequest, jsonRPCError(nil, codeParseError, "Parse error: unreadable body"))
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		g.writeJSONError(w, http.StatusBadRequest, jsonRPCError(nil, codeParseError, "Parse error: Invalid JSON body"))
		return
	}

	if req.Method == "tools/call" {
		g.handleToolCall(w, req)
		return
	}

	// initialize, tools/list and the rest are handled by the protocol library.
	r.Body = io.NopCloser(bytes.NewReader(body))
	defer func() {
		if rec := recover(); rec != nil {
			g.log.Error("mcp handler panicked", "panic", rec)
			g.writeJSONError(w, http.StatusInternalServerError, jsonRPCError(nil, codeInternalError, "Internal server error"))
		}
	}()
	g.fallback.ServeHTTP(w, r)
}

func (g *httpGateway) handleToolCall(w http.ResponseWriter, req rpcRequest) {
	if req.Params.Name != toolName {
		writeSSEMessage(w, jsonRPCError(req.ID, codeToolNotFound, "Tool not found"))
		return
	}

	question, _ := req.Params.Arguments["question"].(string)
	answer := g.ans.Answer(question).Message()

	writeSSEMessage(w, jsonRPCText(req.ID, answer))
}

func (g *httpGateway) writeJSONError(w http.ResponseWriter, status int, resp rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		g.log.Error("failed to write error response", "error", err)
	}
}

func newHTTPMux(gw *httpGateway) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/mcp", gw)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "MCP KB Server is running")
	})

	return mux
}
