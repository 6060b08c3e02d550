package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lox/partycards/internal/packs"
)

// PackSummary describes one pack of a collection
type PackSummary struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Official    bool   `json:"official"`
	White       int    `json:"white"`
	Black       int    `json:"black"`
}

// CollectionSummary describes a loaded collection
type CollectionSummary struct {
	Name     string        `json:"name"`
	LoadedAt time.Time     `json:"loadedAt"`
	White    int           `json:"white"`
	Black    int           `json:"black"`
	Packs    []PackSummary `json:"packs"`
}

// PackCards is the resolved content of a single pack
type PackCards struct {
	White []string          `json:"white"`
	Black []packs.BlackCard `json:"black"`
}

func summarize(e packs.Entry) CollectionSummary {
	c := e.Collection
	out := CollectionSummary{
		Name:     e.Name,
		LoadedAt: e.LoadedAt,
		White:    len(c.White),
		Black:    len(c.Black),
		Packs:    []PackSummary{},
	}
	for _, p := range packs.ListPacks(c) {
		out.Packs = append(out.Packs, PackSummary{
			Key:         p.Key,
			Name:        p.Pack.Name,
			Description: p.Pack.Description,
			Official:    p.Pack.Official,
			White:       len(p.Pack.White),
			Black:       len(p.Pack.Black),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) entry(name string) (packs.Entry, bool) {
	for _, e := range s.manager.Entries() {
		if e.Name == name {
			return e, true
		}
	}
	return packs.Entry{}, false
}

func (s *Server) handleListPacks(w http.ResponseWriter, r *http.Request) {
	entries := s.manager.Entries()
	out := make([]CollectionSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, summarize(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, ok := s.manager.Get(name)
	if !ok {
		writeError(w, fmt.Errorf("%w: '%s'", packs.ErrCollectionNotFound, name))
		return
	}
	data, err := packs.Encode(c)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleGetPack(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, ok := s.manager.Get(name)
	if !ok {
		writeError(w, fmt.Errorf("%w: '%s'", packs.ErrCollectionNotFound, name))
		return
	}
	whites, blacks, err := c.ResolvePack(chi.URLParam(r, "pack"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PackCards{White: nonNil(whites), Black: blacks})
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := s.manager.Get(name); !ok {
		writeError(w, fmt.Errorf("%w: '%s'", packs.ErrCollectionNotFound, name))
		return
	}
	if err := s.manager.Delete(r.Context(), name); err != nil {
		s.logger.Error("Failed to delete collection", "name", name, "error", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var src packs.Source
	found := false
	for _, candidate := range s.sources {
		if candidate.Name == name {
			src, found = candidate, true
			break
		}
	}
	if !found {
		writeError(w, fmt.Errorf("%w: no source named '%s'", packs.ErrCollectionNotFound, name))
		return
	}

	e, err := s.manager.Download(r.Context(), src)
	if err != nil {
		s.logger.Error("Failed to download collection", "name", name, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarize(e))
}

// handleDeal deals a session for the query parameters and returns its state
func (s *Server) handleDeal(w http.ResponseWriter, r *http.Request) {
	params, err := parseGameParams(r.URL.Query(), s.defaults)
	if err != nil {
		writeError(w, err)
		return
	}
	session, err := newSession(s.manager, params, s.clock)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot(params, session))
}
