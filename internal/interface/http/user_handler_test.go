package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/oksasatya/go-ddd-user-registry/internal/application"
	"github.com/oksasatya/go-ddd-user-registry/internal/domain/entity"
	"github.com/oksasatya/go-ddd-user-registry/internal/domain/repository"
	"github.com/oksasatya/go-ddd-user-registry/internal/infrastructure/memory"
	tu "github.com/oksasatya/go-ddd-user-registry/internal/testutil"
	"github.com/oksasatya/go-ddd-user-registry/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	m.Run()
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Count int `json:"count"`
		} `json:"pagination"`
	} `json:"meta"`
	Error struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type searcherFunc func(ctx context.Context, q string, size int) ([]string, error)

func (f searcherFunc) SearchIDs(ctx context.Context, q string, size int) ([]string, error) {
	return f(ctx, q, size)
}

// failingRepo fails every call with a store error.
type failingRepo struct {
	*memory.UserRepository
}

func (failingRepo) FindByID(context.Context, string) (*entity.User, error) {
	return nil, errors.New("connection reset")
}

type fixture struct {
	engine  *gin.Engine
	repo    *memory.UserRepository
	metrics *UserMetrics
}

func newFixture(t *testing.T, searcher userapp.UserSearcher) *fixture {
	t.Helper()
	repo := memory.NewUserRepository()
	return newFixtureWithRepo(t, repo, repo, searcher)
}

func newFixtureWithRepo(t *testing.T, repo *memory.UserRepository, svcRepo repository.UserRepository, searcher userapp.UserSearcher) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	metrics := NewUserMetrics(prometheus.NewRegistry(), "test")
	h := NewUserHandler(userapp.NewService(svcRepo, nil, searcher, logger), logger, metrics)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/users", h.Create)
	api.GET("/users", h.List)
	api.GET("/users/search", h.Search)
	api.GET("/users/:id", h.Get)
	api.PUT("/users/:id", h.Update)
	api.DELETE("/users/:id", h.Delete)
	return &fixture{engine: r, repo: repo, metrics: metrics}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func validBody() map[string]string {
	return map[string]string{
		"username":   "john_doe",
		"email":      "john@example.com",
		"type_doc":   "CPF",
		"number_doc": "111.444.777-35",
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t, nil)

	w, env := f.do(t, http.MethodPost, "/api/users", validBody())

	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	var out userapp.UserOutput
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "11144477735", out.NumberDoc)
	assert.Equal(t, 1, f.repo.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.operations.WithLabelValues("create", "ok")))
}

func TestCreate_Conflict(t *testing.T) {
	f := newFixture(t, nil)
	f.do(t, http.MethodPost, "/api/users", validBody())

	body := validBody()
	body["username"] = "another_one"
	w, env := f.do(t, http.MethodPost, "/api/users", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "conflict", env.Error.Code)
	assert.Equal(t, "email already exists", env.Message)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.operations.WithLabelValues("create", "conflict")))
}

func TestCreate_TakenEmailWithInvalidUsernameIsConflict(t *testing.T) {
	f := newFixture(t, nil)
	f.do(t, http.MethodPost, "/api/users", validBody())

	body := validBody()
	body["username"] = "ab"
	w, env := f.do(t, http.MethodPost, "/api/users", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email already exists", env.Message)
	assert.Equal(t, 1, f.repo.Len())
}

func TestCreate_BindingErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    any
		details map[string]string
	}{
		{
			name:    "missing fields",
			body:    map[string]string{},
			details: map[string]string{"username": "is required", "email": "is required", "type_doc": "is required", "number_doc": "is required"},
		},
		{
			name:    "bad values report the first failing field",
			body:    map[string]string{"username": "ab", "email": "invalid-email", "type_doc": "RG", "number_doc": "1"},
			details: map[string]string{"username": "must be between 3 and 50 characters"},
		},
		{
			name:    "bad document type",
			body:    map[string]string{"username": "john_doe", "email": "john@example.com", "type_doc": "RG", "number_doc": "1"},
			details: map[string]string{"type_doc": "must be one of: CPF, CNPJ"},
		},
		{
			name:    "malformed json",
			body:    `{"username":`,
			details: map[string]string{"payload": "invalid json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			w, env := f.do(t, http.MethodPost, "/api/users", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "validation_error", env.Error.Code)
			assert.Equal(t, tt.details, env.Error.Details)
			assert.Equal(t, 0, f.repo.Len())
		})
	}
}

func TestCreate_DocumentChecksum(t *testing.T) {
	f := newFixture(t, nil)
	body := validBody()
	body["number_doc"] = "11144477736"

	w, env := f.do(t, http.MethodPost, "/api/users", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "number_doc: invalid document number", env.Message)
	assert.Equal(t, map[string]string{"number_doc": "invalid document number"}, env.Error.Details)
}

func TestGet(t *testing.T) {
	f := newFixture(t, nil)
	u := tu.Users(t, 1)[0]
	require.NoError(t, f.repo.Save(context.Background(), u))

	w, env := f.do(t, http.MethodGet, "/api/users/"+u.ID(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out userapp.UserOutput
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, u.ID(), out.ID)

	w, env = f.do(t, http.MethodGet, "/api/users/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", env.Error.Code)
}

func TestGet_StoreFailureIs500(t *testing.T) {
	repo := memory.NewUserRepository()
	f := newFixtureWithRepo(t, repo, failingRepo{repo}, nil)

	w, env := f.do(t, http.MethodGet, "/api/users/any", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", env.Message)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestUpdate(t *testing.T) {
	f := newFixture(t, nil)
	users := tu.Users(t, 2)
	for _, u := range users {
		require.NoError(t, f.repo.Save(context.Background(), u))
	}

	w, env := f.do(t, http.MethodPut, "/api/users/"+users[0].ID(), map[string]string{"email": "new@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	var out userapp.UserOutput
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "new@example.com", out.Email)
	assert.Equal(t, users[0].Username().String(), out.Username)

	w, _ = f.do(t, http.MethodPut, "/api/users/"+users[0].ID(), map[string]string{"username": users[1].Username().String()})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, env = f.do(t, http.MethodPut, "/api/users/"+users[0].ID(), map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "must be between 3 and 50 characters", env.Error.Details["username"])

	w, _ = f.do(t, http.MethodPut, "/api/users/missing", map[string]string{"username": "valid_name"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate_EmptyBodyIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	u := tu.Users(t, 1)[0]
	require.NoError(t, f.repo.Save(context.Background(), u))

	w, env := f.do(t, http.MethodPut, "/api/users/"+u.ID(), map[string]string{})

	require.Equal(t, http.StatusOK, w.Code)
	var out userapp.UserOutput
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.True(t, u.UpdatedAt().Equal(out.UpdatedAt))
}

func TestDelete(t *testing.T) {
	f := newFixture(t, nil)
	u := tu.Users(t, 1)[0]
	require.NoError(t, f.repo.Save(context.Background(), u))

	w, _ := f.do(t, http.MethodDelete, "/api/users/"+u.ID(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, _ = f.do(t, http.MethodDelete, "/api/users/"+u.ID(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = f.do(t, http.MethodGet, "/api/users/"+u.ID(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestList_Pagination(t *testing.T) {
	f := newFixture(t, nil)
	users := tu.Users(t, 5)
	for _, u := range users {
		require.NoError(t, f.repo.Save(context.Background(), u))
	}

	w, env := f.do(t, http.MethodGet, "/api/users?page=2&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out []userapp.UserOutput
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out, 2)
	assert.Equal(t, users[2].ID(), out[0].ID)
	assert.Equal(t, users[1].ID(), out[1].ID)
	assert.Equal(t, 2, env.Meta.Pagination.Page)
	assert.Equal(t, 2, env.Meta.Pagination.Limit)
	assert.Equal(t, 2, env.Meta.Pagination.Count)
}

func TestList_Clamps(t *testing.T) {
	f := newFixture(t, nil)

	_, env := f.do(t, http.MethodGet, "/api/users?page=0&limit=500", nil)
	assert.Equal(t, 1, env.Meta.Pagination.Page)
	assert.Equal(t, 100, env.Meta.Pagination.Limit)

	_, env = f.do(t, http.MethodGet, "/api/users?limit=-3", nil)
	assert.Equal(t, 1, env.Meta.Pagination.Limit)

	_, env = f.do(t, http.MethodGet, "/api/users", nil)
	assert.Equal(t, 1, env.Meta.Pagination.Page)
	assert.Equal(t, 10, env.Meta.Pagination.Limit)
	assert.Equal(t, "[]", string(env.Data))

	w, _ := f.do(t, http.MethodGet, "/api/users?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch(t *testing.T) {
	users := tu.Users(t, 2)
	var gotQuery string
	f := newFixture(t, searcherFunc(func(_ context.Context, q string, size int) ([]string, error) {
		gotQuery = q
		return []string{users[1].ID()}, nil
	}))
	for _, u := range users {
		require.NoError(t, f.repo.Save(context.Background(), u))
	}

	w, env := f.do(t, http.MethodGet, "/api/users/search?q=user2", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user2", gotQuery)
	var out []userapp.UserOutput
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out, 1)
	assert.Equal(t, users[1].ID(), out[0].ID)

	w, env = f.do(t, http.MethodGet, "/api/users/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "is required", env.Error.Details["q"])
}
