package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/archivist/internal/model"
	"github.com/ppiankov/archivist/internal/pipeline"
)

type fakeAnswerer struct {
	answer func(ctx context.Context, query string) (*model.Dossier, error)
	calls  []string
}

func (f *fakeAnswerer) Answer(ctx context.Context, query string) (*model.Dossier, error) {
	f.calls = append(f.calls, query)
	return f.answer(ctx, query)
}

type fakeProvider struct {
	fakeAnswerer
	available bool
}

func (f *fakeProvider) ProviderName() string { return "mock" }

func (f *fakeProvider) ProviderAvailable(context.Context) bool { return f.available }

func newTestServer(a Answerer, timeout time.Duration) *Server {
	return New(a, model.ServerConfig{Addr: "127.0.0.1:0", RequestTimeout: timeout}, nil)
}

func get(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func post(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ai", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestLookup_Success(t *testing.T) {
	answerer := &fakeAnswerer{answer: func(_ context.Context, query string) (*model.Dossier, error) {
		return &model.Dossier{
			Title:    "The Sculpture",
			Summary:  "Moves when unobserved.",
			Metadata: &model.Metadata{ID: "scp-173", ObjectClass: "Euclid"},
		}, nil
	}}
	s := newTestServer(answerer, time.Second)

	rec := post(t, s, `{"query":"173"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"173"}, answerer.calls)

	var got model.Dossier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "The Sculpture", got.Title)
	assert.Equal(t, "scp-173", got.Metadata.ID)
	assert.Equal(t, "Euclid", got.Metadata.ObjectClass)
}

func TestLookup_NoticeIsOK(t *testing.T) {
	answerer := &fakeAnswerer{answer: func(context.Context, string) (*model.Dossier, error) {
		return model.NoticeDossier("Invalid SCP designation format. Please enter numbers only."), nil
	}}
	s := newTestServer(answerer, time.Second)

	rec := post(t, s, `{"query":"abc"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"summary":"Invalid SCP designation format. Please enter numbers only."}`, rec.Body.String())
}

func TestLookup_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing query", `{}`},
		{"empty query", `{"query":""}`},
		{"malformed json", `{"query":`},
		{"wrong type", `{"query":173}`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answerer := &fakeAnswerer{answer: func(context.Context, string) (*model.Dossier, error) {
				t.Fatal("answerer must not be called")
				return nil, nil
			}}
			s := newTestServer(answerer, time.Second)

			rec := post(t, s, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, MsgQueryRequired, decodeError(t, rec))
		})
	}
}

func TestLookup_BlankQuery(t *testing.T) {
	s := newTestServer(pipeline.New(nil, nil), time.Second)

	rec := post(t, s, `{"query":"   "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Dossier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, pipeline.InvalidFormatNotice, got.Summary)
}

func TestLookup_UpstreamFailure(t *testing.T) {
	answerer := &fakeAnswerer{answer: func(context.Context, string) (*model.Dossier, error) {
		return nil, fmt.Errorf("scp-173: %w", errors.New("provider down"))
	}}
	s := newTestServer(answerer, time.Second)

	rec := post(t, s, `{"query":"173"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, MsgUpstream, decodeError(t, rec))
	assert.NotContains(t, rec.Body.String(), "provider down")
}

func TestLookup_Panic(t *testing.T) {
	answerer := &fakeAnswerer{answer: func(context.Context, string) (*model.Dossier, error) {
		panic("boom")
	}}
	s := newTestServer(answerer, time.Second)

	rec := post(t, s, `{"query":"173"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, MsgUpstream, decodeError(t, rec))
}

func TestLookup_RequestTimeout(t *testing.T) {
	answerer := &fakeAnswerer{answer: func(ctx context.Context, _ string) (*model.Dossier, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	s := newTestServer(answerer, 20*time.Millisecond)

	start := time.Now()
	rec := post(t, s, `{"query":"173"}`)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, MsgUpstream, decodeError(t, rec))
}

func TestLookup_MethodNotAllowed(t *testing.T) {
	rec := get(newTestServer(&fakeAnswerer{}, time.Second), "/api/ai")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	rec := get(newTestServer(&fakeAnswerer{}, time.Second), "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthz_Provider(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		available bool
		wantCode  int
		wantBody  string
	}{
		{"shallow", "/healthz", false, http.StatusOK, `{"status":"ok","provider":"mock"}`},
		{"deep available", "/healthz?deep=true", true, http.StatusOK, `{"status":"ok","provider":"mock","provider_available":true}`},
		{"deep unavailable", "/healthz?deep=true", false, http.StatusServiceUnavailable, `{"status":"degraded","provider":"mock","provider_available":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeProvider{available: tt.available}, time.Second)

			rec := get(s, tt.target)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(&fakeAnswerer{}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_ListenError(t *testing.T) {
	s := New(&fakeAnswerer{}, model.ServerConfig{Addr: "256.0.0.1:bad"}, nil)

	err := s.Run(context.Background())
	assert.Error(t, err)
}
