package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"

	"github.com/lehmann314159/wordbank/internal/database"
	"github.com/lehmann314159/wordbank/internal/models"
	"github.com/lehmann314159/wordbank/internal/repository"
	"github.com/lehmann314159/wordbank/internal/services"
)

func setupTestHandler(t *testing.T) (*Handler, *chi.Mux, func()) {
	t.Helper()

	db, err := database.OpenAndMigrate(filepath.Join(t.TempDir(), "wordbank.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	repo := repository.NewSQLiteRepository(db)
	dictSvc := services.NewDictionaryService(repo)
	handler := NewHandler(dictSvc)
	router := NewRouter(handler, "")

	cleanup := func() {
		db.Close()
	}

	return handler, router, cleanup
}

// deniedRepository refuses every call the way a locked-down store does
type deniedRepository struct{}

func (deniedRepository) Insert(context.Context, *models.Word) (string, error) {
	return "", models.ErrPermissionDenied
}
func (deniedRepository) GetByID(context.Context, string) (*models.Word, error) {
	return nil, models.ErrPermissionDenied
}
func (deniedRepository) FindByWord(context.Context, string) (*models.Word, error) {
	return nil, models.ErrPermissionDenied
}
func (deniedRepository) AppendTranslation(context.Context, string, models.Translation, time.Time) error {
	return models.ErrPermissionDenied
}
func (deniedRepository) RangeByWord(context.Context, string, string) ([]*models.Word, error) {
	return nil, models.ErrPermissionDenied
}
func (deniedRepository) All(context.Context) ([]*models.Word, error) {
	return nil, models.ErrPermissionDenied
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createWord(t *testing.T, router http.Handler, body string) string {
	t.Helper()
	rec := postJSON(t, router, "/api/v1/words", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create word status = %v, body: %s", rec.Code, rec.Body.String())
	}
	var created IDResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	return created.ID
}

func TestHandler_CreateWord(t *testing.T) {
	_, router, cleanup := setupTestHandler(t)
	defer cleanup()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid word",
			body:       `{"word":"Ubuntu","englishDefinition":"humanity towards others","englishExamples":["","I am because we are"]}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate word",
			body:       `{"word":"  UBUNTU ","englishDefinition":"again"}`,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "missing word",
			body:       `{"englishDefinition":"a definition"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing definition",
			body:       `{"word":"uber"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid JSON",
			body:       `{invalid}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, router, "/api/v1/words", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("CreateWord() status = %v, want %v, body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestHandler_CreateWord_DuplicateBody(t *testing.T) {
	_, router, cleanup := setupTestHandler(t)
	defer cleanup()

	id := createWord(t, router, `{"word":"ubuntu","englishDefinition":"humanity"}`)

	rec := postJSON(t, router, "/api/v1/words", `{"word":"Ubuntu","englishDefinition":"again"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("CreateWord() status = %v, want %v", rec.Code, http.StatusConflict)
	}

	var dup DuplicateResponse
	if err := json.NewDecoder(rec.Body).Decode(&dup); err != nil {
		t.Fatalf("failed to decode duplicate response: %v", err)
	}
	if dup.Word != "ubuntu" || dup.ID != id {
		t.Errorf("duplicate response = %+v, want word ubuntu id %s", dup, id)
	}
}

func TestHandler_GetWord(t *testing.T) {
	_, router, cleanup := setupTestHandler(t)
	defer cleanup()

	id := createWord(t, router, `{"word":"ubuntu","englishDefinition":"humanity","englishExamples":["",""]}`)

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{
			name:       "existing word",
			id:         id,
			wantStatus: http.StatusOK,
		},
		{
			name:       "non-existent word",
			id:         "9999",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(router, "/api/v1/words/"+tt.id)
			if rec.Code != tt.wantStatus {
				t.Errorf("GetWord() status = %v, want %v", rec.Code, tt.wantStatus)
			}
		})
	}

	rec := get(router, "/api/v1/words/"+id)
	var fields map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&fields); err != nil {
		t.Fatalf("failed to decode word: %v", err)
	}
	for _, key := range []string{"englishExamples", "englishPronunciation", "category", "contributor"} {
		if _, ok := fields[key]; ok {
			t.Errorf("GetWord() body contains absent field %q", key)
		}
	}
	if fields["word"] != "ubuntu" {
		t.Errorf("GetWord() word = %v, want ubuntu", fields["word"])
	}
}

func TestHandler_CheckWord(t *testing.T) {
	_, router, cleanup := setupTestHandler(t)
	defer cleanup()

	createWord(t, router, `{"word":"ubuntu","englishDefinition":"humanity"}`)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantExists bool
	}{
		{name: "existing", query: "?word=Ubuntu", wantStatus: http.StatusOK, wantExists: true},
		{name: "absent", query: "?word=uber", wantStatus: http.StatusOK, wantExists: false},
		{name: "missing parameter", query: "", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(router, "/api/v1/words/check"+tt.query)
			if rec.Code != tt.wantStatus {
				t.Fatalf("CheckWord() status = %v, want %v", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body struct {
				Exists bool         `json:"exists"`
				Word   *models.Word `json:"word"`
			}
			json.NewDecoder(rec.Body).Decode(&body)
			if body.Exists != tt.wantExists {
				t.Errorf("CheckWord() exists = %v, want %v", body.Exists, tt.wantExists)
			}
			if tt.wantExists && (body.Word == nil || body.Word.Word != "ubuntu") {
				t.Errorf("CheckWord() word = %+v, want ubuntu", body.Word)
			}
		})
	}
}

func TestHandler_AddTranslation(t *testing.T) {
	_, router, cleanup := setupTestHandler(t)
	defer cleanup()

	id := createWord(t, router, `{"word":"ubuntu","englishDefinition":"humanity","initialTranslations":[{"language":"Zulu","definition":"ubuntu"}]}`)

	tests := []struct {
		name       string
		id         string
		body       string
		wantStatus int
	}{
		{name: "valid", id: id, body: `{"language":"French","definition":"d"}`, wantStatus: http.StatusCreated},
		{name: "missing language", id: id, body: `{"definition":"d"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown word", id: "missing", body: `{"language":"French","definition":"d"}`, wantStatus: http.StatusNotFound},
		{name: "invalid JSON", id: id, body: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, router, "/api/v1/words/"+tt.id+"/translations", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("AddTranslation() status = %v, want %v, body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}

	var word models.Word
	json.NewDecoder(get(router, "/api/v1/words/"+id).Body).Decode(&word)

	var languages []string
	for _, tr := range word.Translations {
		languages = append(languages, tr.Language)
	}
	if diff := cmp.Diff([]string{"Zulu", "French"}, languages); diff != "" {
		t.Errorf("translations mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_ListWords(t *testing.T) {
	_, router, cleanup := setupTestHandler(t)
	defer cleanup()

	// Create test words
	words := []string{
		`{"word":"zulu","englishDefinition":"a language","category":"Culture"}`,
		`{"word":"ubuntu","englishDefinition":"humanity","category":"Culture","initialTranslations":[{"language":"Swahili","definition":"utu"}]}`,
		`{"word":"uber","englishDefinition":"ride","category":"Slang"}`,
	}
	for _, w := range words {
		createWord(t, router, w)
	}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		want       []string
	}{
		{name: "list all", query: "", wantStatus: http.StatusOK, want: []string{"uber", "ubuntu", "zulu"}},
		{name: "search", query: "?search=ubu", wantStatus: http.StatusOK, want: []string{"ubuntu"}},
		{name: "search with language", query: "?search=u&language=Swahili", wantStatus: http.StatusOK, want: []string{"ubuntu"}},
		{name: "filter by category", query: "?category=Culture", wantStatus: http.StatusOK, want: []string{"ubuntu", "zulu"}},
		{name: "newest first", query: "?sort=newest", wantStatus: http.StatusOK, want: []string{"uber", "ubuntu", "zulu"}},
		{name: "with limit", query: "?limit=1", wantStatus: http.StatusOK, want: []string{"uber"}},
		{name: "no matches", query: "?search=xyz", wantStatus: http.StatusOK, want: []string{}},
		{name: "invalid limit", query: "?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "invalid sort", query: "?sort=random", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(router, "/api/v1/words"+tt.query)
			if rec.Code != tt.wantStatus {
				t.Fatalf("ListWords() status = %v, want %v", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body struct {
				Words []models.Word `json:"words"`
				Total int           `json:"total"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			got := []string{}
			for _, w := range body.Words {
				got = append(got, w.Word)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ListWords() mismatch (-want +got):\n%s", diff)
			}
			if body.Total != len(tt.want) {
				t.Errorf("ListWords() total = %d, want %d", body.Total, len(tt.want))
			}
		})
	}
}

func TestHandler_ListLanguages(t *testing.T) {
	_, router, cleanup := setupTestHandler(t)
	defer cleanup()

	createWord(t, router, `{"word":"ubuntu","englishDefinition":"humanity","initialTranslations":[{"language":"Zulu","definition":"ubuntu"}]}`)

	rec := get(router, "/api/v1/languages")
	if rec.Code != http.StatusOK {
		t.Fatalf("ListLanguages() status = %v", rec.Code)
	}

	var body struct {
		Languages []string `json:"languages"`
		Suggested []string `json:"suggested"`
	}
	json.NewDecoder(rec.Body).Decode(&body)

	if diff := cmp.Diff([]string{"English", "Zulu"}, body.Languages); diff != "" {
		t.Errorf("languages mismatch (-want +got):\n%s", diff)
	}
	if len(body.Suggested) == 0 {
		t.Error("ListLanguages() returned no suggested languages")
	}
}

func TestHandler_ListCategories(t *testing.T) {
	_, router, cleanup := setupTestHandler(t)
	defer cleanup()

	createWord(t, router, `{"word":"uber","englishDefinition":"ride","category":"Slang"}`)

	rec := get(router, "/api/v1/categories")
	if rec.Code != http.StatusOK {
		t.Fatalf("ListCategories() status = %v", rec.Code)
	}

	var body struct {
		Categories []string `json:"categories"`
	}
	json.NewDecoder(rec.Body).Decode(&body)

	if diff := cmp.Diff([]string{"Slang"}, body.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
}

func TestHandler_PermissionDenied(t *testing.T) {
	handler := NewHandler(services.NewDictionaryService(deniedRepository{}))
	router := NewRouter(handler, "")

	rec := get(router, "/api/v1/words")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("ListWords() status = %v, want %v", rec.Code, http.StatusForbidden)
	}

	var body ErrorResponse
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Hint == "" {
		t.Error("permission denied response has no setup hint")
	}

	// Language listing degrades instead of failing
	rec = get(router, "/api/v1/languages")
	if rec.Code != http.StatusOK {
		t.Fatalf("ListLanguages() status = %v, want %v", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"languages":["English"]`) {
		t.Errorf("ListLanguages() body = %s, want English only", rec.Body.String())
	}
}

func TestHandler_ImportWords(t *testing.T) {
	_, router, cleanup := setupTestHandler(t)
	defer cleanup()

	csvContent := `word,english_definition,english_examples,category
ubuntu,humanity towards others,"I am because we are",Culture
uber,a ride,,Slang`

	// Create multipart form
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("file", "dictionary.csv")
	part.Write([]byte(csvContent))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/words/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("ImportWords() status = %v, want %v, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var result models.ImportResult
	json.NewDecoder(rec.Body).Decode(&result)

	if result.Imported != 2 {
		t.Errorf("ImportWords() imported = %v, want 2", result.Imported)
	}
}

func TestHandler_ImportWords_MissingFile(t *testing.T) {
	_, router, cleanup := setupTestHandler(t)
	defer cleanup()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/words/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("ImportWords() status = %v, want %v", rec.Code, http.StatusBadRequest)
	}
}

func TestHandler_ExportWords(t *testing.T) {
	_, router, cleanup := setupTestHandler(t)
	defer cleanup()

	createWord(t, router, `{"word":"ubuntu","englishDefinition":"humanity"}`)

	rec := get(router, "/api/v1/words/export")

	if rec.Code != http.StatusOK {
		t.Errorf("ExportWords() status = %v, want %v", rec.Code, http.StatusOK)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "text/csv" {
		t.Errorf("ExportWords() Content-Type = %v, want text/csv", contentType)
	}

	if !strings.Contains(rec.Body.String(), "ubuntu,humanity") {
		t.Errorf("ExportWords() body = %q, want ubuntu row", rec.Body.String())
	}
}

func TestHandler_ExportWords_Failure(t *testing.T) {
	handler := NewHandler(services.NewDictionaryService(deniedRepository{}))
	router := NewRouter(handler, "")

	rec := get(router, "/api/v1/words/export")

	if rec.Code != http.StatusForbidden {
		t.Errorf("ExportWords() status = %v, want %v", rec.Code, http.StatusForbidden)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("ExportWords() Content-Type = %v, want application/json", got)
	}
	if rec.Header().Get("Content-Disposition") != "" {
		t.Error("ExportWords() sent an attachment header on failure")
	}

	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body %q: %v", rec.Body.String(), err)
	}
	if body.Error == "" {
		t.Error("ExportWords() error body is empty")
	}
}

func TestHandler_HealthCheck(t *testing.T) {
	_, router, cleanup := setupTestHandler(t)
	defer cleanup()

	rec := get(router, "/health")

	if rec.Code != http.StatusOK {
		t.Errorf("HealthCheck() status = %v, want %v", rec.Code, http.StatusOK)
	}
}

func TestCORS_Preflight(t *testing.T) {
	_, router, cleanup := setupTestHandler(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/words", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("preflight status = %v, want %v", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
