// Package server hosts the static dashboard site and its snapshot file.
package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// SiteServer serves a directory of static dashboard assets, including the
// stats.json snapshot the dashboard fetches at page load.
type SiteServer struct {
	dir    string
	logger *zap.SugaredLogger
}

// NewSiteServer returns a SiteServer rooted at dir.
func NewSiteServer(dir string, logger *zap.SugaredLogger) *SiteServer {
	return &SiteServer{
		dir:    dir,
		logger: logger,
	}
}

// Handler builds the router: every file under the site directory plus a
// health endpoint. CORS stays permissive for GETs so the dashboard can be
// developed against a snapshot hosted elsewhere.
func (s *SiteServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/*", http.FileServer(http.Dir(s.dir)))
	return r
}

// Run blocks serving the site on the provided port.
func (s *SiteServer) Run(port string) error {
	s.logger.Infof("serving %s on port %s", s.dir, port)
	return http.ListenAndServe(fmt.Sprintf(":%s", port), s.Handler())
}
