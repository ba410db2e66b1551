package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lehmann314159/wordbank/internal/logger"
	"github.com/lehmann314159/wordbank/internal/models"
	"github.com/lehmann314159/wordbank/internal/services"
)

// permissionHint is shown to clients when the store denies access
const permissionHint = "the dictionary store denied access; check that the database file and its directory are writable by the server"

// Handler contains all HTTP handlers
type Handler struct {
	dictionary *services.DictionaryService
}

// NewHandler creates a new handler
func NewHandler(dictionary *services.DictionaryService) *Handler {
	return &Handler{
		dictionary: dictionary,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

// DuplicateResponse is returned when a submitted headword already exists
type DuplicateResponse struct {
	Error string `json:"error"`
	Word  string `json:"word"`
	ID    string `json:"id"`
}

// IDResponse carries the identifier of a created or updated word
type IDResponse struct {
	ID string `json:"id"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps a service error onto a status code
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var dup *models.DuplicateEntryError
	switch {
	case errors.As(err, &dup):
		writeJSON(w, http.StatusConflict, DuplicateResponse{Error: dup.Error(), Word: dup.Word, ID: dup.ExistingID})
	case errors.Is(err, models.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "word not found")
	case errors.Is(err, models.ErrPermissionDenied):
		logger.Error(fallback, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: models.ErrPermissionDenied.Error(), Hint: permissionHint})
	default:
		logger.Error(fallback, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

// ListWords handles GET /api/v1/words
func (h *Handler) ListWords(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.BrowseFilter{
		Search:   query.Get("search"),
		Language: query.Get("language"),
		Category: query.Get("category"),
		Sort:     query.Get("sort"),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	words, err := h.dictionary.Browse(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err, "failed to list words")
		return
	}

	if words == nil {
		words = []*models.Word{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"words": words,
		"total": len(words),
	})
}

// GetWord handles GET /api/v1/words/{id}
func (h *Handler) GetWord(w http.ResponseWriter, r *http.Request) {
	word, err := h.dictionary.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "failed to get word")
		return
	}

	writeJSON(w, http.StatusOK, word)
}

// CheckWord handles GET /api/v1/words/check?word=
func (h *Handler) CheckWord(w http.ResponseWriter, r *http.Request) {
	candidate := r.URL.Query().Get("word")
	if strings.TrimSpace(candidate) == "" {
		writeError(w, http.StatusBadRequest, "word query parameter is required")
		return
	}

	existing, err := h.dictionary.CheckExists(r.Context(), candidate)
	if err != nil {
		writeServiceError(w, r, err, "failed to check word")
		return
	}

	response := map[string]interface{}{"exists": existing != nil}
	if existing != nil {
		response["word"] = existing
	}

	writeJSON(w, http.StatusOK, response)
}

// CreateWord handles POST /api/v1/words
func (h *Handler) CreateWord(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.dictionary.Add(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to add word")
		return
	}

	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// AddTranslation handles POST /api/v1/words/{id}/translations
func (h *Handler) AddTranslation(w http.ResponseWriter, r *http.Request) {
	var req models.TranslationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.dictionary.AddTranslation(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, r, err, "failed to add translation")
		return
	}

	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// ListLanguages handles GET /api/v1/languages
func (h *Handler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"languages": h.dictionary.AvailableLanguages(r.Context()),
		"suggested": models.SuggestedLanguages,
	})
}

// ListCategories handles GET /api/v1/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.dictionary.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to list categories")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"suggested":  models.SuggestedCategories,
	})
}

// ImportWords handles POST /api/v1/words/import
func (h *Handler) ImportWords(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form
	err := r.ParseMultipartForm(10 << 20) // 10 MB max
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	result, err := h.dictionary.ImportCSV(r.Context(), file)
	if err != nil {
		if result == nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeServiceError(w, r, err, "failed to import words")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ExportWords handles GET /api/v1/words/export
func (h *Handler) ExportWords(w http.ResponseWriter, r *http.Request) {
	// Render fully before writing so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.dictionary.ExportCSV(r.Context(), &buf); err != nil {
		writeServiceError(w, r, err, "failed to export words")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=dictionary.csv")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error("failed to write export", "path", r.URL.Path, "error", err)
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
