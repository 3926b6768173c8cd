package web

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"tiles-cli/internal/docs"
	"tiles-cli/internal/model"
	"tiles-cli/internal/session"
	"tiles-cli/internal/theme"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

// DefaultPollInterval is how often Watch picks up writes from other processes.
const DefaultPollInterval = 1 * time.Second

type ServerConfig struct {
	Session   *session.Session
	Workspace string

	// Root is the page's theme presenter; it must be the presenter Session.Theme was opened with.
	Root *theme.ClassList
}

type Server struct {
	cfg    ServerConfig
	tmpl   *template.Template
	hub    *resourceHub
	secret []byte
	unsub  []func()

	iconsOnce sync.Once
	iconsJSON []byte
	iconsETag string
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Workspace = strings.TrimSpace(cfg.Workspace)
	if cfg.Session == nil {
		return nil, errors.New("web: session is nil")
	}
	if cfg.Root == nil {
		return nil, errors.New("web: root is nil")
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	secret, err := loadOrInitSecret(context.Background(), cfg.Session.Backend)
	if err != nil {
		return nil, err
	}

	cfg.Session.Icons.Load()

	srv := &Server{cfg: cfg, tmpl: tmpl, hub: newResourceHub(), secret: secret}
	// Any registry or theme change (local or picked up by Watch) re-renders connected pages.
	srv.unsub = append(srv.unsub,
		cfg.Session.Instances.Subscribe(func([]model.Instance) { srv.hub.broadcast() }),
		cfg.Session.Theme.Subscribe(func(model.Theme) { srv.hub.broadcast() }),
	)
	return srv, nil
}

// Close detaches the server from the session's stores.
func (s *Server) Close() {
	for _, u := range s.unsub {
		u()
	}
	s.unsub = nil
}

// Watch reloads the session every interval until ctx is done.
func (s *Server) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		// Subscribers broadcast when something changed; read errors retry next tick.
		_, _ = s.cfg.Session.Sync()
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /icons.json", s.handleIconsJSON)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /docs/{topic}", s.handleDocs)
	mux.HandleFunc("POST /instances", s.handleInstanceCreate)
	mux.HandleFunc("POST /instances/{id}", s.handleInstanceUpdate)
	mux.HandleFunc("POST /instances/{id}/delete", s.handleInstanceDelete)
	mux.HandleFunc("POST /theme/toggle", s.handleThemeToggle)
	mux.HandleFunc("GET /{$}", s.handleHome)
	return mux
}

type tileVM struct {
	model.Instance
	Art     model.Icon
	HasIcon bool
	ViewBox string
	Initial string
}

type pageVM struct {
	Workspace string
	BodyClass string
	Theme     model.Theme
	CSRF      string
	Tiles     []tileVM
	IconNames []string
	Docs      []string
}

func (s *Server) pageVM() (pageVM, error) {
	token, err := newFormToken(s.secret, csrfTTL)
	if err != nil {
		return pageVM{}, err
	}
	sess := s.cfg.Session
	vm := pageVM{
		Workspace: s.cfg.Workspace,
		BodyClass: s.cfg.Root.String(),
		Theme:     sess.Theme.Current(),
		CSRF:      token,
		Docs:      docs.Topics(),
	}
	for _, inst := range sess.Instances.List() {
		t := tileVM{Instance: inst, Initial: initial(inst.Title)}
		if ic, ok := sess.Icons.Find(inst.Icon); ok && ic.SVGPath != "" && len(ic.ViewBox) == 4 {
			t.Art = ic
			t.HasIcon = true
			t.ViewBox = viewBox(ic.ViewBox)
		}
		vm.Tiles = append(vm.Tiles, t)
	}
	for _, ic := range sess.Icons.Icons() {
		vm.IconNames = append(vm.IconNames, ic.Name)
	}
	return vm, nil
}

func initial(title string) string {
	for _, r := range strings.TrimSpace(title) {
		return string(unicode.ToUpper(r))
	}
	return "•"
}

func viewBox(vb []float64) string {
	parts := make([]string, 0, len(vb))
	for _, f := range vb {
		parts = append(parts, strconv.FormatFloat(f, 'f', -1, 64))
	}
	return strings.Join(parts, " ")
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	vm, err := s.pageVM()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeHTMLTemplate(w, "page.html", vm)
}

type docsVM struct {
	Topic     string
	BodyClass string
	HTML      template.HTML
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	topic := r.PathValue("topic")
	body, ok := docs.Get(topic)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.writeHTMLTemplate(w, "docs.html", docsVM{
		Topic:     topic,
		BodyClass: s.cfg.Root.String(),
		HTML:      renderMarkdownHTML(body),
	})
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// handleIconsJSON serves the loaded catalog. It never changes for the life of the process, so it
// is encoded once and served with a strong ETag.
func (s *Server) handleIconsJSON(w http.ResponseWriter, r *http.Request) {
	s.iconsOnce.Do(func() {
		b, err := json.Marshal(s.cfg.Session.Icons.Icons())
		if err != nil {
			b = []byte("[]")
		}
		sum := sha256.Sum256(b)
		s.iconsJSON = b
		s.iconsETag = `"` + hex.EncodeToString(sum[:16]) + `"`
	})

	w.Header().Set("ETag", s.iconsETag)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if match := strings.TrimSpace(r.Header.Get("If-None-Match")); match != "" && match == s.iconsETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.iconsJSON)
}
