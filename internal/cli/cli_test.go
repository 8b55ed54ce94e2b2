package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// runCoto executes the root command with args and returns decoded stdout.
func runCoto(t *testing.T, args ...string) (map[string]any, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()

	var env map[string]any
	if out.Len() > 0 {
		_ = json.Unmarshal(out.Bytes(), &env)
	}
	return env, errOut.String(), err
}

func mustData(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected JSON envelope with data object; got: %#v", env)
	}
	return data
}

// fakeServer serves the minimal Coto API surface the CLI hits.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cotos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":2,"postId":null,"content":"second"},{"id":1,"postId":null,"content":"first"}]`))
	})
	mux.HandleFunc("POST /api/cotos", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Coto struct {
				PostID  *int64 `json:"postId"`
				Content string `json:"content"`
			} `json:"coto"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{"id": 99, "postId": body.Coto.PostID, "content": body.Coto.Content}
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("GET /api/cotonomas", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"key":"tea","name":"Tea","cotoCount":4},{"id":2,"key":"go","name":"Go","cotoCount":9}]`))
	})
	mux.HandleFunc("GET /api/session", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"good-token","amishi":{"id":1,"email":"a@example.com","displayName":"A"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCotosList_FetchesAndFillsCache(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()

	env, stderr, err := runCoto(t, "--dir", dir, "--server", srv.URL, "cotos", "list")
	if err != nil {
		t.Fatalf("cotos list failed: %v\nstderr: %s", err, stderr)
	}
	data := mustData(t, env)
	cotos, ok := data["cotos"].([]any)
	if !ok || len(cotos) != 2 {
		t.Fatalf("expected 2 cotos; got %#v", data["cotos"])
	}
	first := cotos[0].(map[string]any)
	if first["content"] != "second" {
		t.Fatalf("expected newest-first server order preserved; got %#v", first)
	}
	if first["postId"] != nil {
		t.Fatalf("absent postId must decode as null; got %#v", first["postId"])
	}

	// Now offline: the cached listing still works without a server.
	env, stderr, err = runCoto(t, "--dir", dir, "cotos", "list", "--cached")
	if err != nil {
		t.Fatalf("cached cotos list failed: %v\nstderr: %s", err, stderr)
	}
	data = mustData(t, env)
	cotos, _ = data["cotos"].([]any)
	if len(cotos) != 2 {
		t.Fatalf("expected 2 cached cotos; got %#v", data["cotos"])
	}
	if data["cached"] != true {
		t.Fatalf("expected cached=true; got %#v", data["cached"])
	}
}

func TestCotosPost_ReturnsConfirmedCoto(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()

	env, stderr, err := runCoto(t, "--dir", dir, "--server", srv.URL, "cotos", "post", "Hello from test")
	if err != nil {
		t.Fatalf("cotos post failed: %v\nstderr: %s", err, stderr)
	}
	data := mustData(t, env)
	if data["id"] != float64(99) {
		t.Fatalf("expected server id 99; got %#v", data["id"])
	}
	if data["content"] != "Hello from test" {
		t.Fatalf("content echo: got %#v", data["content"])
	}
}

func TestCotosPost_RejectsEmptyContent(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader("   \n"))
	cmd.SetArgs([]string{"--dir", dir, "--server", srv.URL, "cotos", "post"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error posting empty content")
	}
}

func TestSessionLogin_ValidatesAndPersistsToken(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()

	env, stderr, err := runCoto(t, "--dir", dir, "session", "login", "--server", srv.URL, "--token", "good-token")
	if err != nil {
		t.Fatalf("session login failed: %v\nstderr: %s", err, stderr)
	}
	data := mustData(t, env)
	if data["signedIn"] != true {
		t.Fatalf("expected signedIn=true; got %#v", data)
	}

	// The saved config carries the session for later invocations.
	env, stderr, err = runCoto(t, "--dir", dir, "session", "show")
	if err != nil {
		t.Fatalf("session show failed: %v\nstderr: %s", err, stderr)
	}
	data = mustData(t, env)
	amishi, _ := data["amishi"].(map[string]any)
	if amishi == nil || amishi["displayName"] != "A" {
		t.Fatalf("expected stored session identity; got %#v", data)
	}
}

func TestSessionLogin_BadTokenNotSaved(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()

	_, _, err := runCoto(t, "--dir", dir, "session", "login", "--server", srv.URL, "--token", "bad-token")
	if err == nil {
		t.Fatalf("expected login with a bad token to fail")
	}

	// Nothing persisted: a later status shows no server configured.
	env, _, err := runCoto(t, "--dir", dir, "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	data := mustData(t, env)
	if data["server"] != "" {
		t.Fatalf("expected no persisted server; got %#v", data["server"])
	}
}

func TestCotonomasUse_UnknownRoomRejected(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()

	_, stderr, err := runCoto(t, "--dir", dir, "--server", srv.URL, "cotonomas", "use", "nope")
	if err == nil {
		t.Fatalf("expected unknown cotonoma to be rejected")
	}
	if !strings.Contains(stderr, "cotonoma not found") {
		t.Fatalf("expected not-found message; got %q", stderr)
	}
}

func TestCotonomasUse_SwitchesCurrentRoom(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()

	env, stderr, err := runCoto(t, "--dir", dir, "--server", srv.URL, "cotonomas", "use", "tea")
	if err != nil {
		t.Fatalf("cotonomas use failed: %v\nstderr: %s", err, stderr)
	}
	data := mustData(t, env)
	if data["currentCotonoma"] != "tea" {
		t.Fatalf("expected current cotonoma tea; got %#v", data)
	}

	env, _, err = runCoto(t, "--dir", dir, "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	data = mustData(t, env)
	if data["currentCotonoma"] != "tea" {
		t.Fatalf("expected persisted room; got %#v", data["currentCotonoma"])
	}
}

func TestCotonomasStats_BusiestFirst(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()

	env, stderr, err := runCoto(t, "--dir", dir, "--server", srv.URL, "cotonomas", "stats")
	if err != nil {
		t.Fatalf("cotonomas stats failed: %v\nstderr: %s", err, stderr)
	}
	data := mustData(t, env)
	rooms, _ := data["rooms"].([]any)
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms; got %#v", data["rooms"])
	}
	first := rooms[0].(map[string]any)
	if first["key"] != "go" {
		t.Fatalf("expected busiest room first; got %#v", first)
	}
	if data["totalCotos"] != float64(13) {
		t.Fatalf("expected total 13; got %#v", data["totalCotos"])
	}
}

func TestExport_WritesTimelineMarkdown(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()
	toDir := t.TempDir()

	env, stderr, err := runCoto(t, "--dir", dir, "--server", srv.URL, "export", "--to", toDir)
	if err != nil {
		t.Fatalf("export failed: %v\nstderr: %s", err, stderr)
	}
	data := mustData(t, env)
	written, _ := data["written"].([]any)
	if len(written) != 1 {
		t.Fatalf("expected one written file; got %#v", data["written"])
	}
	b, err := os.ReadFile(written[0].(string))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	md := string(b)
	first := strings.Index(md, "first")
	second := strings.Index(md, "second")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("export should render oldest first:\n%s", md)
	}

	// Running it again without --overwrite trips the guard.
	if _, _, err := runCoto(t, "--dir", dir, "--server", srv.URL, "export", "--to", toDir); err == nil {
		t.Fatalf("expected overwrite guard error on second export")
	}
}

func TestStatus_WorksOffline(t *testing.T) {
	dir := t.TempDir()

	env, stderr, err := runCoto(t, "--dir", dir, "status")
	if err != nil {
		t.Fatalf("status should not require a server: %v\nstderr: %s", err, stderr)
	}
	data := mustData(t, env)
	if data["signedIn"] != false {
		t.Fatalf("expected signedIn=false offline; got %#v", data)
	}
}

func TestDocs_ListsTopics(t *testing.T) {
	env, stderr, err := runCoto(t, "--dir", t.TempDir(), "docs")
	if err != nil {
		t.Fatalf("docs failed: %v\nstderr: %s", err, stderr)
	}
	data := mustData(t, env)
	topics, _ := data["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected at least one docs topic; got %#v", data)
	}
}
