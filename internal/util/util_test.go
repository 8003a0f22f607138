package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRobotsChecker_Check(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		hits.Add(1)
		_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /admin\nCrawl-delay: 2\n")
	}))
	defer server.Close()

	checker := NewRobotsChecker("Archivist/test", 5*time.Second, nil)
	ctx := context.Background()

	delay, err := checker.Check(ctx, server.URL+"/scp-173")
	if err != nil {
		t.Fatalf("expected /scp-173 to be allowed, got %v", err)
	}
	if delay != 2*time.Second {
		t.Errorf("crawl delay = %v, want 2s", delay)
	}

	if _, err := checker.Check(ctx, server.URL+"/admin/panel"); !errors.Is(err, ErrDisallowed) {
		t.Errorf("expected ErrDisallowed, got %v", err)
	}

	if hits.Load() != 1 {
		t.Errorf("expected robots.txt to be fetched once, got %d", hits.Load())
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker("Archivist/test", 5*time.Second, nil)
	if !checker.IsAllowed(context.Background(), server.URL+"/anything") {
		t.Error("expected missing robots.txt to allow everything")
	}
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	checker := NewRobotsChecker("Archivist/test", time.Second, nil)
	if !checker.IsAllowed(context.Background(), "http://127.0.0.1:1/scp-173") {
		t.Error("expected unreachable robots.txt to allow the fetch")
	}
}

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:8080", "", "internal.example")

	req, _ := http.NewRequest(http.MethodGet, "https://scp-wiki.wikidot.com/scp-173", nil)
	u, err := proxy(req)
	if err != nil {
		t.Fatalf("proxy func failed: %v", err)
	}
	if u == nil || u.Host != "proxy.local:8080" {
		t.Errorf("expected https request to use the http proxy, got %v", u)
	}

	req, _ = http.NewRequest(http.MethodGet, "http://internal.example/x", nil)
	u, err = proxy(req)
	if err != nil {
		t.Fatalf("proxy func failed: %v", err)
	}
	if u != nil {
		t.Errorf("expected NO_PROXY host to bypass the proxy, got %v", u)
	}
}
