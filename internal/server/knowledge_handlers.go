package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inmo24x7/backoffice/internal/knowledge"
)

type addFileRequest struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// handleListFiles returns the knowledge-base inventory in insertion order.
// GET /api/knowledge/files
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"files": s.files.List()})
}

// handleAddFile registers a file by name and size, then immediately runs the
// ingestion step so the entry lands processed.
// POST /api/knowledge/files
func (s *Server) handleAddFile(w http.ResponseWriter, r *http.Request) {
	var req addFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if req.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "file name required")
		return
	}

	f, err := s.files.Add(req.Name, req.Size)
	if err != nil {
		if errors.Is(err, knowledge.ErrUnsupportedFile) {
			writeJSONError(w, http.StatusUnsupportedMediaType, "unsupported_file",
				"only .xlsx, .xls and .json files are accepted")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "intake_failed", "could not register the file")
		return
	}

	if err := s.files.Ingest(f.ID); err == nil {
		f.Status = knowledge.StatusProcessed
	}
	writeJSON(w, http.StatusCreated, f)
}

// handleRemoveFile drops a file from the inventory.
// DELETE /api/knowledge/files/{id}
func (s *Server) handleRemoveFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.files.Remove(id); err != nil {
		if errors.Is(err, knowledge.ErrFileNotFound) {
			writeJSONError(w, http.StatusNotFound, "not_found", "file not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "remove_failed", "could not remove the file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
