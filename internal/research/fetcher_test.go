package research

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchSetsUserAgentAndCleans(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html><head>
			<script>var tracking = true;</script>
			<style>body { color: red; }</style>
			</head><body><h1>Hexagonal   Architecture</h1>
			<p>Ports and adapters.</p></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher()
	content, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if gotUA != "Metapod-Agent/1.0 (Backend Refactoring Bot)" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if content != "Hexagonal Architecture Ports and adapters." {
		t.Errorf("cleaned content = %q", content)
	}
	if strings.Contains(content, "tracking") || strings.Contains(content, "color") {
		t.Errorf("script/style content leaked into %q", content)
	}
}

func TestFetchTruncatesLongContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 20000)))
	}))
	defer srv.Close()

	f := NewFetcher()
	content, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(content) != 10000 {
		t.Errorf("content length = %d, want 10000", len(content))
	}
}

func TestFetchRejectsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher()
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("Fetch() accepted a 404 response")
	}
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher()
	if _, err := f.Fetch(ctx, srv.URL); err == nil {
		t.Fatal("Fetch() succeeded with a cancelled context")
	}
}
