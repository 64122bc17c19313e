package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/gorilla/mux"

	"dockhand/types"
)

// ContainerService is what the handlers need from the container manager.
type ContainerService interface {
	List(ctx context.Context, all bool) ([]container.Summary, error)
	CreateAndStart(ctx context.Context, req types.CreateRequest) (container.InspectResponse, error)
	Inspect(ctx context.Context, id string) (container.InspectResponse, error)
	Run(ctx context.Context, req types.RunRequest) (string, error)
	Delete(ctx context.Context, id string) (string, error)
}

// CodeRunner is what the handlers need from the ephemeral execution runner.
type CodeRunner interface {
	RunCode(ctx context.Context, lang, code string, cmd []string) (string, error)
}

// Server routes HTTP requests to the container manager and code runner.
type Server struct {
	router     *mux.Router
	containers ContainerService
	runner     CodeRunner
}

// NewServer creates a new API server.
func NewServer(containers ContainerService, runner CodeRunner) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		containers: containers,
		runner:     runner,
	}
	s.routes()
	return s
}

// routes sets up the API routes.
func (s *Server) routes() {
	s.router.HandleFunc("/", s.rootHandler).Methods("GET")
	s.router.HandleFunc("/container/list", s.listHandler).Methods("GET")
	s.router.HandleFunc("/container/create", s.createHandler).Methods("POST")
	s.router.HandleFunc("/container/run", s.runHandler).Methods("POST")
	s.router.HandleFunc("/container/run/{language}", s.runCodeHandler).Methods("POST")
	s.router.HandleFunc("/container/{id}", s.getHandler).Methods("GET")
	s.router.HandleFunc("/container/{id}", s.deleteHandler).Methods("DELETE")

	s.router.Use(s.loggingMiddleware)
}

// Handler returns the server's root handler for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// loggingMiddleware logs incoming requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.RequestURI, time.Since(start))
	})
}
