package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/zizouhuweidi/trivia/internal/config"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/quiz"
	"github.com/zizouhuweidi/trivia/internal/repository/memory"
	"github.com/zizouhuweidi/trivia/internal/service"
)

func newTestServer(t *testing.T, store *memory.Store) *echo.Echo {
	t.Helper()

	e := NewServer(&config.Config{LogLevel: "off", CORSAllowOrigins: []string{"*"}})
	e.Logger.SetOutput(io.Discard)

	logger := log.New("test")
	logger.SetOutput(io.Discard)
	svc := service.NewTriviaService(store.Categories(), store.Questions(), quiz.NewPickerWithSource(rand.NewSource(1)), logger)

	NewCategoryHandler(svc).Register(e)
	NewQuestionHandler(svc).Register(e)
	NewQuizHandler(svc).Register(e)
	NewHealthHandler(svc).Register(e)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, code int, message string) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, code, rec.Body.String())
	}
	var body ErrorResponse
	decode(t, rec, &body)
	if body.Success || body.Error != code || body.Message != message {
		t.Fatalf("body = %+v, want error %d %q", body, code, message)
	}
}

type pageBody struct {
	Success         bool              `json:"success"`
	Questions       []domain.Question `json:"questions"`
	TotalQuestions  int               `json:"total_questions"`
	Categories      map[string]string `json:"categories"`
	CurrentCategory *string           `json:"current_category"`
}

func TestGetCategories(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())

	rec := do(e, http.MethodGet, "/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Success    bool              `json:"success"`
		Categories map[string]string `json:"categories"`
	}
	decode(t, rec, &body)
	if !body.Success || body.Categories["1"] != "Science" || len(body.Categories) != 6 {
		t.Fatalf("body = %+v", body)
	}
}

func TestGetCategoriesEmpty(t *testing.T) {
	e := newTestServer(t, memory.NewStore(nil, nil))
	assertError(t, do(e, http.MethodGet, "/categories", ""), http.StatusNotFound, "Resource not found")
}

func TestGetQuestions(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())

	rec := do(e, http.MethodGet, "/questions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"current_category":null`) {
		t.Errorf("body lacks null current_category: %s", rec.Body.String())
	}

	var body pageBody
	decode(t, rec, &body)
	if !body.Success || len(body.Questions) != 10 || body.TotalQuestions != 19 || len(body.Categories) != 6 {
		t.Fatalf("body = %+v", body)
	}
}

func TestGetQuestionsPages(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())

	tests := []struct {
		target string
		want   int
	}{
		{"/questions?page=1", 10},
		{"/questions?page=2", 9},
		{"/questions?page=abc", 10},
	}
	for _, tt := range tests {
		rec := do(e, http.MethodGet, tt.target, "")
		var body pageBody
		decode(t, rec, &body)
		if rec.Code != http.StatusOK || len(body.Questions) != tt.want {
			t.Errorf("%s: status %d, %d questions; want 200, %d", tt.target, rec.Code, len(body.Questions), tt.want)
		}
	}

	assertError(t, do(e, http.MethodGet, "/questions?page=1000", ""), http.StatusNotFound, "Resource not found")
	assertError(t, do(e, http.MethodGet, "/questions?page=0", ""), http.StatusNotFound, "Resource not found")
}

func TestGetQuestionsStoreDown(t *testing.T) {
	store := memory.NewSeededStore()
	store.Err = errors.New("down")
	e := newTestServer(t, store)

	assertError(t, do(e, http.MethodGet, "/questions", ""), http.StatusInternalServerError, "Internal server error")
	assertError(t, do(e, http.MethodGet, "/categories", ""), http.StatusInternalServerError, "Internal server error")
	assertError(t, do(e, http.MethodDelete, "/questions/5", ""), http.StatusNotFound, "Resource not found")
	assertError(t, do(e, http.MethodPost, "/searchQuestions", `{"searchTerm":"a"}`), http.StatusNotFound, "Resource not found")
}

func TestQuestionsByCategory(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())

	rec := do(e, http.MethodGet, "/categories/1/questions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body pageBody
	decode(t, rec, &body)
	if body.TotalQuestions != 3 || body.CurrentCategory == nil || *body.CurrentCategory != "Science" {
		t.Fatalf("body = %+v", body)
	}

	assertError(t, do(e, http.MethodGet, "/categories/1000/questions", ""), http.StatusNotFound, "Resource not found")
	assertError(t, do(e, http.MethodGet, "/categories/science/questions", ""), http.StatusNotFound, "Resource not found")
}

func TestCreateAndDeleteQuestion(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())

	rec := do(e, http.MethodPost, "/questions", `{"question":"test question","answer":"test answer","difficulty":2,"category":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d (%s)", rec.Code, rec.Body.String())
	}
	var created struct {
		Success bool `json:"success"`
		Created int  `json:"created"`
	}
	decode(t, rec, &created)
	if !created.Success || created.Created == 0 {
		t.Fatalf("create body = %+v", created)
	}

	rec = do(e, http.MethodGet, fmt.Sprintf("/questions/%d", created.Created), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = do(e, http.MethodDelete, fmt.Sprintf("/questions/%d", created.Created), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d (%s)", rec.Code, rec.Body.String())
	}
	var page pageBody
	decode(t, rec, &page)
	if !page.Success || page.TotalQuestions != 19 || len(page.Categories) != 6 {
		t.Fatalf("delete body = %+v", page)
	}

	assertError(t, do(e, http.MethodGet, fmt.Sprintf("/questions/%d", created.Created), ""), http.StatusNotFound, "Resource not found")
	assertError(t, do(e, http.MethodDelete, fmt.Sprintf("/questions/%d", created.Created), ""), http.StatusNotFound, "Resource not found")
}

func TestCreateQuestionUnprocessable(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())

	bodies := []string{
		`{"question":"test question","difficulty":2,"category":1}`,
		`{"question":"","answer":"a","difficulty":2,"category":1}`,
		`{"question":"q","answer":"a","category":1}`,
		`{"question":"q","answer":"a","difficulty":"hard","category":1}`,
		`{"question":`,
	}
	for _, body := range bodies {
		assertError(t, do(e, http.MethodPost, "/questions", body), http.StatusUnprocessableEntity, "Unprocessable request")
	}
}

func TestDeleteQuestionNotFound(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())

	assertError(t, do(e, http.MethodDelete, "/questions/100", ""), http.StatusNotFound, "Resource not found")
	assertError(t, do(e, http.MethodDelete, "/questions/abc", ""), http.StatusNotFound, "Resource not found")
}

func TestSearchQuestions(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())

	rec := do(e, http.MethodPost, "/searchQuestions", `{"searchTerm":"TiTlE"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), `"categories"`) {
		t.Errorf("search body carries categories: %s", rec.Body.String())
	}
	var body pageBody
	decode(t, rec, &body)
	if body.TotalQuestions != 2 || len(body.Questions) != 2 || body.CurrentCategory != nil {
		t.Fatalf("body = %+v", body)
	}

	assertError(t, do(e, http.MethodPost, "/searchQuestions", `{"searchTerm":"applejacks"}`), http.StatusNotFound, "Resource not found")
	assertError(t, do(e, http.MethodPost, "/searchQuestions", `{}`), http.StatusNotFound, "Resource not found")
	assertError(t, do(e, http.MethodPost, "/searchQuestions?page=3", `{"searchTerm":"the"}`), http.StatusNotFound, "Resource not found")
}

func TestPlayQuiz(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())

	rec := do(e, http.MethodPost, "/quizzes", `{"previous_questions":[20,21],"quiz_category":{"type":"Science","id":"1"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Success  bool             `json:"success"`
		Question *domain.Question `json:"question"`
	}
	decode(t, rec, &body)
	if !body.Success || body.Question == nil || body.Question.ID != 22 {
		t.Fatalf("body = %+v", body)
	}

	rec = do(e, http.MethodPost, "/quizzes", `{"previous_questions":[20,21,22],"quiz_category":{"type":"Science","id":1}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("exhausted status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"question":null`) {
		t.Fatalf("exhausted body = %s", rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/quizzes", `{"previous_questions":[],"quiz_category":{"type":"click","id":0}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("all categories status = %d", rec.Code)
	}
}

func TestPlayQuizUnprocessable(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())

	bodies := []string{
		`{"previous_questions":[]}`,
		`{"previous_questions":[],"quiz_category":{"type":"Science"}}`,
		`{"previous_questions":[],"quiz_category":{"id":"science"}}`,
		`{"previous_questions":[],"quiz_category":{"id":1000}}`,
		`not json`,
	}
	for _, body := range bodies {
		assertError(t, do(e, http.MethodPost, "/quizzes", body), http.StatusUnprocessableEntity, "Unprocessable request")
	}

	store := memory.NewSeededStore()
	store.Err = errors.New("down")
	e = newTestServer(t, store)
	assertError(t, do(e, http.MethodPost, "/quizzes", `{"quiz_category":{"id":0}}`), http.StatusUnprocessableEntity, "Unprocessable request")
}

func TestMethodNotAllowed(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())
	assertError(t, do(e, http.MethodPatch, "/questions", `{}`), http.StatusMethodNotAllowed, "Method not allowed")
}

func TestUnknownRoute(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())
	assertError(t, do(e, http.MethodGet, "/nope", ""), http.StatusNotFound, "Resource not found")
}

func TestCORSPreflight(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())

	req := httptest.NewRequest(http.MethodOptions, "/questions/1", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodDelete)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowMethods); !strings.Contains(got, http.MethodDelete) {
		t.Errorf("Allow-Methods = %q", got)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowHeaders); !strings.Contains(got, echo.HeaderAuthorization) {
		t.Errorf("Allow-Headers = %q", got)
	}
}

func TestRequestID(t *testing.T) {
	e := newTestServer(t, memory.NewSeededStore())

	rec := do(e, http.MethodGet, "/categories", "")
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("missing request id header")
	}
}

func TestHealth(t *testing.T) {
	store := memory.NewSeededStore()
	e := newTestServer(t, store)

	if rec := do(e, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	store.Err = errors.New("down")
	if rec := do(e, http.MethodGet, "/health", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status with store down = %d", rec.Code)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Lvl{
		"debug":   log.DEBUG,
		"INFO":    log.INFO,
		"warning": log.WARN,
		"error":   log.ERROR,
		"off":     log.OFF,
		"":        log.INFO,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
