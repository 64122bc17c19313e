package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/docker/docker/client"
	"github.com/gorilla/mux"

	"dockhand/manager"
	"dockhand/types"
)

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"working": true})
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("all") == "true"

	containers, err := s.containers.List(r.Context(), all)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, containers)
}

func (s *Server) createHandler(w http.ResponseWriter, r *http.Request) {
	var req types.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid request payload: %v", err)})
		return
	}
	defer r.Body.Close()

	data, err := s.containers.CreateAndStart(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, data)
}

func (s *Server) runHandler(w http.ResponseWriter, r *http.Request) {
	var req types.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid request payload: %v", err)})
		return
	}
	defer r.Body.Close()

	output, err := s.containers.Run(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"output": output})
}

func (s *Server) runCodeHandler(w http.ResponseWriter, r *http.Request) {
	lang := mux.Vars(r)["language"]

	var req types.ExecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid request payload: %v", err)})
		return
	}
	defer r.Body.Close()

	output, err := s.runner.RunCode(r.Context(), lang, req.Code, req.Cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"output": output})
}

func (s *Server) getHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	data, err := s.containers.Inspect(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	message, err := s.containers.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

// writeError maps error kinds to status codes at the boundary only:
// unknown containers are 404, unsupported languages 400, everything
// else surfaces as 500 with the underlying message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case client.IsErrNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, manager.ErrUnsupportedLanguage):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already out; nothing left to do but log.
		log.Printf("failed to encode response: %v", err)
	}
}
