package surface

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPSurfaceLoadsTextPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Block Height</title>
<script>ignore()</script></head>
<body><h1>Latest block</h1><p>915000</p></body></html>`))
	}))
	defer srv.Close()

	s := NewHTTP(srv.Client())
	if err := s.Load(context.Background(), srv.URL); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Status() != StatusLoaded {
		t.Fatalf("status = %v, want StatusLoaded", s.Status())
	}

	out := s.Render(60, 20)
	if !strings.Contains(out, "Block Height") {
		t.Errorf("render missing title: %q", out)
	}
	if !strings.Contains(out, "915000") {
		t.Errorf("render missing body text: %q", out)
	}
	if strings.Contains(out, "ignore()") {
		t.Errorf("script content leaked into render: %q", out)
	}
}

func TestHTTPSurfaceReportsLoadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewHTTP(srv.Client())
	err := s.Load(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), srv.URL) {
		t.Errorf("error should name the failing URL: %v", err)
	}
	if s.Status() != StatusError {
		t.Errorf("status = %v, want StatusError", s.Status())
	}
}

func TestHTTPSurfaceKeepsStaleContentOnFailedReload(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		w.Write([]byte("<title>First</title>still here"))
	}))
	defer srv.Close()

	s := NewHTTP(srv.Client())
	if err := s.Load(context.Background(), srv.URL); err != nil {
		t.Fatalf("first load: %v", err)
	}
	fail = true
	if err := s.Load(context.Background(), srv.URL); err == nil {
		t.Fatal("expected reload failure")
	}
	if out := s.Render(40, 10); !strings.Contains(out, "still here") {
		t.Errorf("stale content should survive a failed reload, got %q", out)
	}
}

func TestPoolCreatesOneSurfacePerEntry(t *testing.T) {
	created := 0
	p := NewPool(3, func() Surface {
		created++
		return NewHTTP(nil)
	})
	if created != 3 {
		t.Fatalf("factory called %d times, want 3", created)
	}
	if p.Len() != 3 {
		t.Fatalf("pool length %d, want 3", p.Len())
	}
	if p.At(2) == nil {
		t.Error("At(2) returned nil")
	}
	if p.At(3) != nil || p.At(-1) != nil {
		t.Error("out-of-range At must return nil")
	}
}

func TestResolveScreensaverURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quotes alias", "quotes://satoshi", "file:///usr/share/signpost/quotes/satoshi.html"},
		{"quotes bare", "quotes://", "file:///usr/share/signpost/quotes/index.html"},
		{"quotes with extension", "quotes://genesis.html", "file:///usr/share/signpost/quotes/genesis.html"},
		{"network url verbatim", "https://example.com/saver", "https://example.com/saver"},
		{"file url verbatim", "file:///opt/saver.html", "file:///opt/saver.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveScreensaverURL(tt.in, "/usr/share/signpost/quotes")
			if got != tt.want {
				t.Errorf("ResolveScreensaverURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractTextDecodesEntities(t *testing.T) {
	_, lines := extractText("<p>fish &amp; chips</p>")
	if len(lines) == 0 || !strings.Contains(lines[0], "fish & chips") {
		t.Errorf("entities not decoded: %v", lines)
	}
}
