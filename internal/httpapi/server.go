package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/yomisub/yomisub/internal/jobs"
	"github.com/yomisub/yomisub/internal/service"
)

// Server exposes submission and read endpoints over HTTP.
type Server struct {
	svc      *service.Service
	jobStore jobs.Store

	mux    *http.ServeMux
	server *http.Server
}

func NewServer(svc *service.Service, jobStore jobs.Store) *Server {
	s := &Server{
		svc:      svc,
		jobStore: jobStore,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/process", s.handleProcess)
	s.mux.HandleFunc("/api/jobs", s.handleListJobs)
	s.mux.HandleFunc("/api/jobs/", s.handleGetJob)
	s.mux.HandleFunc("/api/transcripts/", s.handleGetTranscript)
	s.mux.HandleFunc("/api/videos", s.handleListVideos)
}
