package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// newRouter registers the routes of s.
func (s *Server) newRouter() *mux.Router {
	r := mux.NewRouter()
	// Match on the escaped path so that {id} reaches the resolver undecoded.
	r.UseEncodedPath()

	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc(s.logoPath, s.handleLogo).Methods(http.MethodGet, http.MethodHead)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/report/{id}", s.handleReport).Methods(http.MethodGet)
	api.HandleFunc("/profiles/{id}", s.handleProfile).Methods(http.MethodGet)

	r.Use(requestIDMiddleware, accessLogMiddleware(s.logger))
	return r
}
