package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanLimbu/todo-tracker/internal"
	"github.com/sanLimbu/todo-tracker/internal/memory"
	"github.com/sanLimbu/todo-tracker/internal/persistence"
	"github.com/sanLimbu/todo-tracker/internal/rest"
	"github.com/sanLimbu/todo-tracker/internal/service"
)

func newRouter(t *testing.T) (*chi.Mux, *service.Session) {
	t.Helper()

	adapter := persistence.NewAdapter(memory.NewBlobs(), zap.NewNop())
	store := service.NewTaskStore(zap.NewNop(), adapter,
		service.WithClock(func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }))
	session := service.NewSession(zap.NewNop(), adapter, store)

	sessionHandler := rest.NewSessionHandler(session)

	router := chi.NewRouter()
	rest.RegisterOpenAPI(router)
	sessionHandler.Register(router)
	router.Group(func(r chi.Router) {
		r.Use(sessionHandler.Middleware)
		rest.NewTaskHandler(store).Register(r)
	})

	return router, session
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(v))
}

func login(t *testing.T, session *service.Session) {
	t.Helper()

	require.NoError(t, session.Login(context.Background(), "Ada", "ada@example.com"))
}

func TestSessionHandler(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/session", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"anonymous_login"}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodPut, "/session/view", `{"view":"register"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"anonymous_register"}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodPut, "/session/view", `{"view":"other"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/session", `{"name":" ","email":"ada@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/session", `{"name":"Ada","email":"ada@example.com"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"state":"authenticated","user":{"name":"Ada","email":"ada@example.com"}}`, rec.Body.String())

	rec = doRequest(t, router, http.MethodPost, "/session", `{"name":"Bob","email":"bob@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/session", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"anonymous_login"}`, rec.Body.String())
}

func TestTaskHandler_Unauthenticated(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)

	for _, req := range []struct{ method, target string }{
		{http.MethodGet, "/tasks"},
		{http.MethodPost, "/tasks"},
		{http.MethodGet, "/tasks/1"},
		{http.MethodPut, "/tasks/1"},
		{http.MethodDelete, "/tasks/1"},
		{http.MethodPost, "/tasks/1/toggle"},
	} {
		rec := doRequest(t, router, req.method, req.target, `{}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, req.target)
		assert.JSONEq(t, `{"error":"login required"}`, rec.Body.String())
	}
}

func TestTaskHandler_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"OK", `{"title":"Buy milk","priority":2}`, http.StatusCreated},
		{"OK: default priority", `{"title":"Buy milk"}`, http.StatusCreated},
		{"ERR: blank title", `{"title":"   "}`, http.StatusBadRequest},
		{"ERR: invalid priority", `{"title":"Buy milk","priority":7}`, http.StatusBadRequest},
		{"ERR: invalid json", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router, session := newRouter(t)
			login(t, session)

			rec := doRequest(t, router, http.MethodPost, "/tasks", tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestTaskHandler_Lifecycle(t *testing.T) {
	t.Parallel()

	router, session := newRouter(t)
	login(t, session)

	rec := doRequest(t, router, http.MethodPost, "/tasks", `{"title":"Buy milk","priority":2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created rest.CreateTasksResponse
	decode(t, rec, &created)

	assert.NotEmpty(t, created.Task.ID)
	assert.Equal(t, "Buy milk", created.Task.Title)
	assert.False(t, created.Task.Completed)

	rec = doRequest(t, router, http.MethodPost, "/tasks", `{"title":"Walk dog"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var list rest.ListTasksResponse

	rec = doRequest(t, router, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, "Walk dog", list.Tasks[0].Title)

	rec = doRequest(t, router, http.MethodGet, "/tasks?priority=medium", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, "Buy milk", list.Tasks[0].Title)

	rec = doRequest(t, router, http.MethodGet, "/tasks?priority=9", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	id := created.Task.ID

	var read rest.ReadTasksResponse

	rec = doRequest(t, router, http.MethodPost, "/tasks/"+id+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &read)
	assert.True(t, read.Task.Completed)

	rec = doRequest(t, router, http.MethodPut, "/tasks/"+id, `{"title":"Buy oat milk","description":"2L"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &read)
	assert.Equal(t, "Buy oat milk", read.Task.Title)
	assert.Equal(t, "2L", read.Task.Description)
	assert.Equal(t, created.Task.Priority, read.Task.Priority)
	assert.Equal(t, created.Task.CreatedAt, read.Task.CreatedAt)
	assert.True(t, read.Task.Completed)

	rec = doRequest(t, router, http.MethodPut, "/tasks/"+id, `{"completed":false,"priority":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &read)
	assert.Equal(t, "Buy oat milk", read.Task.Title)
	assert.Equal(t, "2L", read.Task.Description)
	assert.Equal(t, internal.PriorityLow, read.Task.Priority)
	assert.False(t, read.Task.Completed)

	rec = doRequest(t, router, http.MethodPut, "/tasks/"+id, `{"description":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &read)
	assert.Equal(t, "Buy oat milk", read.Task.Title)
	assert.Empty(t, read.Task.Description)

	rec = doRequest(t, router, http.MethodPut, "/tasks/"+id, `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/tasks/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/tasks/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, req := range []struct{ method, target, body string }{
		{http.MethodGet, "/tasks/" + id, ""},
		{http.MethodPut, "/tasks/" + id, `{"title":"x"}`},
		{http.MethodPost, "/tasks/" + id + "/toggle", ""},
	} {
		rec = doRequest(t, router, req.method, req.target, req.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, req.method)
	}
}

func TestRegisterOpenAPI(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/openapi3.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]interface{}
	decode(t, rec, &doc)
	assert.Equal(t, "3.0.0", doc["openapi"])

	rec = doRequest(t, router, http.MethodGet, "/openapi3.yaml", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/tasks/{id}/toggle")
}
