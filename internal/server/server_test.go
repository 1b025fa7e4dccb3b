package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpsek/helpsek/internal/errors"
	"github.com/helpsek/helpsek/internal/search"
)

// fakeAsker returns a canned result or error.
type fakeAsker struct {
	result *search.AnswerResult
	err    error
	lastK  int
}

func (f *fakeAsker) Ask(_ context.Context, question string, k int) (*search.AnswerResult, error) {
	f.lastK = k
	if strings.TrimSpace(question) == "" {
		return nil, errors.InvalidInput("question must not be empty")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestServer(asker *fakeAsker) *Server {
	return New(asker, Options{Addr: "127.0.0.1:0"})
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleAsk_OK(t *testing.T) {
	asker := &fakeAsker{result: &search.AnswerResult{
		Question:     "formasi analis di BKN",
		DetectedType: "formasi",
		Answer:       "Ada 5 kebutuhan Analis di BKN.",
		RetrievedDocs: []search.RetrievedDoc{
			{Tipe: "formasi", Instansi: "BKN", Jabatan: "Analis", Penempatan: "Jakarta"},
		},
	}}
	srv := newTestServer(asker)

	rec := doRequest(t, srv.Routes(), http.MethodPost, "/ask",
		`{"question": "formasi analis di BKN", "k": 3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, 3, asker.lastK)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "question")
	assert.Contains(t, body, "detected_type")
	assert.Contains(t, body, "answer")
	assert.Contains(t, body, "retrieved_docs")
	assert.NotContains(t, rec.Body.String(), "Fallback")
}

func TestHandleAsk_EmptyQuestion(t *testing.T) {
	srv := newTestServer(&fakeAsker{})

	rec := doRequest(t, srv.Routes(), http.MethodPost, "/ask", `{"question": "   "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
	assert.Empty(t, body.Trace)
}

func TestHandleAsk_BadJSON(t *testing.T) {
	srv := newTestServer(&fakeAsker{})

	rec := doRequest(t, srv.Routes(), http.MethodPost, "/ask", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAsk_InternalError(t *testing.T) {
	asker := &fakeAsker{err: errors.GenerationFailure("model call failed",
		fmt.Errorf("rpc error: deadline exceeded"))}
	srv := newTestServer(asker)

	rec := doRequest(t, srv.Routes(), http.MethodPost, "/ask", `{"question": "apa itu cpns"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "model call failed")
	assert.Contains(t, body.Trace, "deadline exceeded")
}

func TestHandleAsk_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&fakeAsker{})
	rec := doRequest(t, srv.Routes(), http.MethodGet, "/ask", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&fakeAsker{})
	rec := doRequest(t, srv.Routes(), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, ServiceName, body["service"])
}

func TestHandleContact(t *testing.T) {
	srv := newTestServer(&fakeAsker{})
	rec := doRequest(t, srv.Routes(), http.MethodGet, "/contact", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "instansi")
	assert.Contains(t, body, "website")
}

func TestCORS(t *testing.T) {
	srv := newTestServer(&fakeAsker{})

	rec := doRequest(t, srv.Routes(), http.MethodGet, "/health", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	pre := doRequest(t, srv.Routes(), http.MethodOptions, "/ask", "")
	assert.Equal(t, http.StatusNoContent, pre.Code)
	assert.Contains(t, pre.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRun_GracefulShutdown(t *testing.T) {
	srv := newTestServer(&fakeAsker{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
