package webtui

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewServer_RequiresAddr(t *testing.T) {
	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Fatalf("expected error for missing addr")
	}
}

func TestRootRedirectsToTerminal(t *testing.T) {
	srv, err := NewServer(ServerConfig{Addr: "127.0.0.1:0"})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/terminal" {
		t.Fatalf("location: got %q", loc)
	}
}

func TestTerminalPageShowsRoom(t *testing.T) {
	srv, err := NewServer(ServerConfig{Addr: ":0", Cotonoma: "tea", Server: "https://coto.example"})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/terminal", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "#tea") {
		t.Fatalf("terminal page should name the room:\n%s", body)
	}
	if !strings.Contains(body, "https://coto.example") {
		t.Fatalf("terminal page should show the server URL")
	}
}
