package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/nao1215/stressband/internal/asset"
	"github.com/nao1215/stressband/internal/config"
	"github.com/nao1215/stressband/internal/model"
	"github.com/nao1215/stressband/internal/report"
)

// resolve applies the identifier policy to the raw {id} path segment.
func (s *Server) resolve(r *http.Request) (model.BandID, error) {
	raw := mux.Vars(r)["id"]
	if s.policy == config.PolicyStrict {
		return model.ResolveBandIDStrict(raw)
	}
	return model.ResolveBandID(raw), nil
}

// baseURL returns the configured base URL or the origin of r.
func (s *Server) baseURL(r *http.Request) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// withOwnLogo registers the served logo in the request context when baseURL
// points back at this server, so the generator reads it from memory instead
// of competing with report requests for a connection.
func (s *Server) withOwnLogo(r *http.Request, baseURL string) context.Context {
	ctx := r.Context()

	u, err := url.Parse(baseURL)
	if err != nil || !strings.EqualFold(u.Host, r.Host) {
		return ctx
	}
	logoURL, err := asset.ResolveURL(baseURL, s.logoPath)
	if err != nil {
		return ctx
	}
	return asset.WithLocalAsset(ctx, logoURL, s.logo)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := s.resolve(r)
	if err != nil {
		s.logger.DebugContext(r.Context(), "rejected report identifier", "error", err)
		http.Error(w, "Rapport introuvable", http.StatusNotFound)
		return
	}

	baseURL := s.baseURL(r)
	doc, err := s.generator.Generate(s.withOwnLogo(r, baseURL), id, baseURL)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			http.Error(w, "Rapport introuvable", http.StatusNotFound)
			return
		}
		s.logger.ErrorContext(r.Context(), "failed to generate the PDF report",
			"band", id.String(),
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		http.Error(w, "Erreur lors de la génération du compte-rendu", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id.ReportFilename()))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		s.logger.DebugContext(r.Context(), "client went away", "error", err)
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	id, err := s.resolve(r)
	if err != nil {
		http.Error(w, "Profil introuvable", http.StatusNotFound)
		return
	}

	profile, err := s.profiles.Lookup(r.Context(), id)
	if err != nil {
		http.Error(w, "Profil introuvable", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := report.NewJSONWriter(w).Write(model.NewSummary(profile)); err != nil {
		s.logger.DebugContext(r.Context(), "failed to write profile", "error", err)
	}
}

func (s *Server) handleLogo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(s.logo)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(s.logo)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintln(w, "OK")
}
