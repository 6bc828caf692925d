package cmd

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/habiliai/recallhub/entity"
	"github.com/habiliai/recallhub/errors"
	"github.com/habiliai/recallhub/memory"
)

const (
	apiTitle   = "RecallHub API"
	apiVersion = "2.0.0"
)

type (
	searchRequest struct {
		Query   string         `json:"query"`
		UserID  string         `json:"user_id"`
		Limit   int            `json:"limit"`
		Filters map[string]any `json:"filters"`
	}

	// typedSaveRequest accepts metadata as an object or as a JSON encoded
	// string.
	typedSaveRequest struct {
		Text        string          `json:"text"`
		UserID      string          `json:"user_id"`
		Source      string          `json:"source"`
		URL         string          `json:"url"`
		Title       string          `json:"title"`
		ContentType string          `json:"content_type"`
		Metadata    json.RawMessage `json:"metadata"`
	}

	contextRequest struct {
		UserID    string `json:"user_id"`
		MaxLength int    `json:"max_length"`
	}
)

var endpoints = map[string]string{
	"POST /store":                         "Save content (legacy alias of POST /api/memory)",
	"POST /api/memory":                    "Save content with classification and metadata extraction",
	"POST /api/memory/url":                "Fetch a page and save it",
	"POST /api/save":                      "Save content with a known content type (smart save)",
	"POST /api/search":                    "Semantic search",
	"POST /api/search/nl":                 "Natural language search with filters",
	"GET /api/stats":                      "Statistics by content type",
	"DELETE /api/delete/{memory_id}":      "Delete a memory (requires user_id)",
	"GET /get_all":                        "All memories of a user",
	"POST /generate_context":              "Summarise all memories into a context note",
	"GET /generate_context/{context_id}":  "Summarise one memory into a context note",
	"DELETE /clear":                       "Delete all data",
	"DELETE /clear/{user_id}":             "Delete the data of a user",
	"DELETE /delete_context/{context_id}": "Delete a memory (requires user_id)",
	"GET /health":                         "Health check",
}

type server struct {
	svc         *memory.Service
	storeDriver string
	logger      *slog.Logger
}

func newServerHandler(svc *memory.Service, storeDriver string, logger *slog.Logger) http.Handler {
	s := &server{svc: svc, storeDriver: storeDriver, logger: logger}

	router := mux.NewRouter()
	router.HandleFunc("/", s.root).Methods("GET")
	router.HandleFunc("/health", s.health).Methods("GET")

	router.HandleFunc("/store", s.saveMemory).Methods("POST")
	router.HandleFunc("/api/store", s.saveMemory).Methods("POST")
	router.HandleFunc("/api/memory", s.saveMemory).Methods("POST")
	router.HandleFunc("/api/memory/url", s.saveURL).Methods("POST")
	router.HandleFunc("/api/save", s.saveTyped).Methods("POST")

	router.HandleFunc("/api/search", s.search).Methods("POST")
	router.HandleFunc("/api/search/nl", s.searchNL).Methods("POST")

	router.HandleFunc("/api/stats", s.stats).Methods("GET")
	router.HandleFunc("/get_all", s.getAll).Methods("GET")
	router.HandleFunc("/api/delete/{id}", s.delete).Methods("DELETE")
	router.HandleFunc("/delete_context/{id}", s.delete).Methods("DELETE")
	router.HandleFunc("/clear/{user_id}", s.clearOwner).Methods("DELETE")
	router.HandleFunc("/clear", s.clearAll).Methods("DELETE")

	router.HandleFunc("/generate_context", s.generateContext).Methods("POST")
	router.HandleFunc("/generate_context/{id}", s.generateContextByID).Methods("GET")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	recovery := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true), handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)))

	return recovery(cors(router))
}

func (s *server) root(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"name":      apiTitle,
		"version":   apiVersion,
		"endpoints": endpoints,
	})
}

func (s *server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"store":       s.storeDriver,
		"api_version": apiVersion,
	})
}

func (s *server) saveMemory(w http.ResponseWriter, r *http.Request) {
	var req entity.MemoryCreate
	if !s.decode(w, r, &req) {
		return
	}

	saved, err := s.svc.Save(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"id":       saved.ID,
		"status":   saved.Status,
		"metadata": saved.Metadata,
		"message":  "Memory saved successfully",
	})
}

func (s *server) saveURL(w http.ResponseWriter, r *http.Request) {
	var req entity.URLSave
	if !s.decode(w, r, &req) {
		return
	}

	saved, err := s.svc.SaveURL(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"id":       saved.ID,
		"status":   saved.Status,
		"metadata": saved.Metadata,
		"message":  "Page saved successfully",
	})
}

func (s *server) saveTyped(w http.ResponseWriter, r *http.Request) {
	var req typedSaveRequest
	if !s.decode(w, r, &req) {
		return
	}

	saved, err := s.svc.SaveTyped(r.Context(), entity.TypedSave{
		Owner:       req.UserID,
		Text:        req.Text,
		Source:      req.Source,
		URL:         req.URL,
		Title:       req.Title,
		ContentType: req.ContentType,
		Metadata:    parseLooseMetadata(req.Metadata),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	label := req.ContentType
	if label == "" {
		label = "Content"
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"id":           saved.ID,
		"status":       saved.Status,
		"message":      label + " saved successfully",
		"content_type": saved.Metadata[entity.KeyContentType],
	})
}

func (s *server) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}

	results, err := s.svc.Search(r.Context(), req.Query, req.UserID, req.Limit, req.Filters)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, results)
}

func (s *server) searchNL(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}

	results, err := s.svc.SearchNL(r.Context(), req.Query, req.UserID, req.Limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, results)
}

func (s *server) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Stats(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *server) getAll(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.ListAll(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"memories": records,
		"count":    len(records),
	})
}

func (s *server) delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.svc.Delete(r.Context(), id, r.URL.Query().Get("user_id")); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"status":  "success",
		"message": "Memory deleted successfully",
	})
}

func (s *server) clearOwner(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.ClearOwner(r.Context(), mux.Vars(r)["user_id"])
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"status": "success", "deleted": n})
}

func (s *server) clearAll(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.ClearAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"status": "success", "deleted": n})
}

func (s *server) generateContext(w http.ResponseWriter, r *http.Request) {
	var req contextRequest
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.svc.GenerateContext(r.Context(), req.UserID, req.MaxLength)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *server) generateContextByID(w http.ResponseWriter, r *http.Request) {
	maxLength := memory.DefaultContextLength
	if v := r.URL.Query().Get("max_length"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, errors.Wrapf(errors.ErrValidation, "max_length must be an integer"))
			return
		}
		maxLength = n
	}

	out, err := s.svc.GenerateContextByID(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("user_id"), maxLength)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, errors.Mark(errors.ErrValidation, err, "invalid request body"))
		return false
	}
	return true
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrValidation):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]any{"detail": err.Error()})
}

// parseLooseMetadata reads an object or a JSON string holding an object.
// Anything else yields no metadata.
func parseLooseMetadata(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err == nil {
		return m
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}
