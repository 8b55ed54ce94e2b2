// Package web serves a read-only browser view of a cotonoma timeline:
// server-rendered HTML refreshed live over a datastar SSE stream.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"coto-cli/internal/api"
	"coto-cli/internal/markdown"
	"coto-cli/internal/model"
	"coto-cli/internal/timeline"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

// pollInterval is how often the SSE stream re-checks the server for new
// cotos. The browser page itself never polls; it just receives patches.
const pollInterval = 3 * time.Second

type ServerConfig struct {
	Client   *api.Client
	Cotonoma string
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Client == nil {
		return nil, errors.New("web: missing api client")
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"renderContent": markdown.Render,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /stream", s.handleStream)
	mux.HandleFunc("GET /static/app.css", s.handleStatic("static/app.css", "text/css; charset=utf-8"))
	return mux
}

func (s *Server) handleStatic(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(path)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

type timelineVM struct {
	Cotonoma string
	Cotos    []model.Coto
}

// displayCotos fetches the room's timeline and projects it into display
// order (oldest top, newest bottom), same as the TUI.
func (s *Server) displayCotos(ctx context.Context) ([]model.Coto, error) {
	cotos, err := s.cfg.Client.FetchCotos(ctx, s.cfg.Cotonoma)
	if err != nil {
		return nil, err
	}
	st := timeline.Store{Cotos: cotos}
	return timeline.DisplayOrder(st), nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cotos, err := s.displayCotos(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	vm := timelineVM{Cotonoma: s.roomLabel(), Cotos: cotos}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", vm); err != nil {
		// Best-effort; if headers already sent, just write.
		_, _ = io.WriteString(w, err.Error())
	}
}

func (s *Server) roomLabel() string {
	if strings.TrimSpace(s.cfg.Cotonoma) == "" {
		return "timeline"
	}
	return s.cfg.Cotonoma
}

// handleStream patches the timeline fragment whenever the set of cotos
// changes. Fetch failures are skipped silently; the page keeps its last
// good render.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	lastFP := ""
	for {
		select {
		case <-sse.Context().Done():
			return
		case <-ticker.C:
			cotos, err := s.displayCotos(sse.Context())
			if err != nil {
				continue
			}
			fp := fingerprint(cotos)
			if fp == lastFP {
				continue
			}
			html, err := s.renderTimelineFragment(cotos)
			if err != nil {
				_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
				continue
			}
			if err := sse.PatchElements(html,
				datastar.WithSelector("#coto-timeline"),
				datastar.WithMode(datastar.ElementPatchModeOuter),
			); err != nil {
				return
			}
			_ = sse.ExecuteScript("cotoScrollToBottom()")
			lastFP = fp
		}
	}
}

func (s *Server) renderTimelineFragment(cotos []model.Coto) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, "timeline.html", timelineVM{Cotonoma: s.roomLabel(), Cotos: cotos}); err != nil {
		return "", err
	}
	return b.String(), nil
}

// fingerprint identifies a timeline render by its row keys, so the stream
// only patches when something actually changed.
func fingerprint(cotos []model.Coto) string {
	var b strings.Builder
	b.Grow(len(cotos) * 8)
	for _, c := range cotos {
		b.WriteString(c.RenderKey())
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(len(c.Content)))
		b.WriteByte(';')
	}
	return b.String()
}
