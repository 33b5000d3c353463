package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hnthap/kb-mcp/kb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnswerer struct {
	mu  sync.Mutex
	res kb.Result
	got []string
}

func (f *fakeAnswerer) Answer(question string) kb.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.got = append(f.got, question)
	return f.res
}

func (f *fakeAnswerer) questions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.got...)
}

func newTestMux(ans answerer, fallback http.Handler) *http.ServeMux {
	if fallback == nil {
		fallback = http.NotFoundHandler()
	}

	gw := &httpGateway{
		ans:      ans,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		fallback: fallback,
	}

	return newHTTPMux(gw)
}

// sseData extracts the JSON payload of the single SSE message in body.
func sseData(t *testing.T, body string) []byte {
	t.Helper()

	for _, line := range strings.Split(body, "\n") {
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			return []byte(data)
		}
	}

	t.Fatalf("no SSE data line in body: %q", body)
	return nil
}

func Test_HTTPGateway_ToolCall(t *testing.T) {
	ans := &fakeAnswerer{res: kb.Result{Outcome: kb.OutcomeMatched, Answer: "150.000đ"}}
	mux := newTestMux(ans, nil)

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/call",` +
		`"params":{"name":"kb_answer","arguments":{"question":"Tinh dầu bưởi giá bao nhiêu?"}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "event: message")
	assert.Equal(t, []string{"Tinh dầu bưởi giá bao nhiêu?"}, ans.questions())

	var resp struct {
		JSONRPC string `json:"jsonrpc"`
		ID      int    `json:"id"`
		Result  struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(sseData(t, rec.Body.String()), &resp))
	assert.Equal(t, "2.0", resp.JSONRPC)
	assert.Equal(t, 1, resp.ID)
	require.Len(t, resp.Result.Content, 1)
	assert.Equal(t, "text", resp.Result.Content[0].Type)
	assert.Equal(t, "150.000đ", resp.Result.Content[0].Text)
}

func Test_HTTPGateway_SentinelMessages(t *testing.T) {
	ans := &fakeAnswerer{res: kb.Result{Outcome: kb.OutcomeEmptyQuery}}
	mux := newTestMux(ans, nil)

	body := `{"jsonrpc":"2.0","id":2,"method":"tools/call",` +
		`"params":{"name":"kb_answer","arguments":{}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), kb.MsgEmptyQuestion)
}

func Test_HTTPGateway_ToolNotFound(t *testing.T) {
	mux := newTestMux(&fakeAnswerer{}, nil)

	body := `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"other_tool","arguments":{}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Error *rpcError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(sseData(t, rec.Body.String()), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeToolNotFound, resp.Error.Code)
}

func Test_HTTPGateway_ParseError(t *testing.T) {
	mux := newTestMux(&fakeAnswerer{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error *rpcError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeParseError, resp.Error.Code)
}

func Test_HTTPGateway_DelegatesOtherMethods(t *testing.T) {
	delegated := false
	fallback := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delegated = true
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "tools/list")
	})

	mux := newTestMux(&fakeAnswerer{}, fallback)

	body := `{"jsonrpc":"2.0","id":4,"method":"tools/list"}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.True(t, delegated)
}

func Test_HTTPGateway_MethodNotAllowed(t *testing.T) {
	mux := newTestMux(&fakeAnswerer{}, nil)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		req := httptest.NewRequest(method, "/mcp", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
	}
}

func Test_HealthCheck(t *testing.T) {
	mux := newTestMux(&fakeAnswerer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MCP KB Server is running", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
