package web

import (
	"net/http"
	"strings"

	"tiles-cli/internal/model"

	"github.com/google/uuid"
)

// maxFormBytes bounds POST bodies; tile forms are a handful of short fields.
const maxFormBytes = 64 << 10

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return false
	}
	if err := verifyFormToken(s.secret, r.PostForm.Get("csrf")); err != nil {
		http.Error(w, "invalid or expired form token; reload the page", http.StatusForbidden)
		return false
	}
	return true
}

func formInstance(r *http.Request) model.Instance {
	return model.Instance{
		ID:    strings.TrimSpace(r.PostForm.Get("id")),
		Title: strings.TrimSpace(r.PostForm.Get("title")),
		Href:  strings.TrimSpace(r.PostForm.Get("href")),
		Icon:  strings.TrimSpace(r.PostForm.Get("icon")),
		Color: strings.TrimSpace(r.PostForm.Get("color")),
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleInstanceCreate(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	inst := formInstance(r)
	if inst.ID == "" {
		inst.ID = uuid.NewString()
	}
	if err := s.cfg.Session.Instances.Add(inst); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleInstanceUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	id := r.PathValue("id")
	cur, ok := s.cfg.Session.Instances.Find(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	// Only submitted fields change; an "id" field is ignored by the registry.
	next := cur
	for field, dst := range map[string]*string{
		"title": &next.Title,
		"href":  &next.Href,
		"icon":  &next.Icon,
		"color": &next.Color,
		"id":    &next.ID,
	} {
		if _, sent := r.PostForm[field]; sent {
			*dst = strings.TrimSpace(r.PostForm.Get(field))
		}
	}
	if err := s.cfg.Session.Instances.Update(id, next); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleInstanceDelete(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	if err := s.cfg.Session.Instances.Remove(r.PathValue("id")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	if _, err := s.cfg.Session.Theme.Toggle(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	redirectHome(w, r)
}
