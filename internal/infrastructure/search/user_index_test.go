package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-user-registry/internal/testutil"
	"github.com/oksasatya/go-ddd-user-registry/pkg/helpers"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

// fakeES answers like an Elasticsearch node and records every request.
type fakeES struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	reply    string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(b, &body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{method: r.Method, path: r.URL.Path, body: body})
	status, reply := f.status, f.reply
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if reply == "" {
		reply = `{}`
	}
	_, _ = io.WriteString(w, reply)
}

func (f *fakeES) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newIndex(t *testing.T, f *fakeES) *UserIndex {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	es, err := helpers.NewESClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	return NewUserIndex(es, "users")
}

func TestUserIndex_Index(t *testing.T) {
	f := &fakeES{status: http.StatusCreated, reply: `{"result":"created"}`}
	idx := newIndex(t, f)
	u := testutil.Users(t, 1)[0]

	require.NoError(t, idx.Index(context.Background(), u))

	req := f.last()
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/users/_doc/"+u.ID(), req.path)
	assert.Equal(t, "user1", req.body["username"])
	assert.Equal(t, testutil.ValidCPF, req.body["number_doc"])
}

func TestUserIndex_IndexErrorStatus(t *testing.T) {
	idx := newIndex(t, &fakeES{status: http.StatusBadRequest})
	err := idx.Index(context.Background(), testutil.Users(t, 1)[0])
	assert.Error(t, err)
}

func TestUserIndex_RemoveMissingIsFine(t *testing.T) {
	f := &fakeES{status: http.StatusNotFound, reply: `{"result":"not_found"}`}
	idx := newIndex(t, f)

	require.NoError(t, idx.Remove(context.Background(), "abc"))
	assert.Equal(t, http.MethodDelete, f.last().method)
	assert.Equal(t, "/users/_doc/abc", f.last().path)
}

func TestUserIndex_SearchIDs(t *testing.T) {
	f := &fakeES{reply: `{"hits":{"hits":[{"_id":"b","_score":2.1},{"_id":"a","_score":1.4}]}}`}
	idx := newIndex(t, f)

	ids, err := idx.SearchIDs(context.Background(), "john", 5)

	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids)
	req := f.last()
	assert.True(t, strings.HasSuffix(req.path, "/users/_search"))
	assert.EqualValues(t, 5, req.body["size"])
	mm := req.body["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "john", mm["query"])
	assert.ElementsMatch(t, []any{"username^2", "email", "number_doc"}, mm["fields"])
}

func TestUserIndex_SearchMissingIndex(t *testing.T) {
	idx := newIndex(t, &fakeES{status: http.StatusNotFound, reply: `{"error":"index_not_found_exception"}`})

	ids, err := idx.SearchIDs(context.Background(), "john", 5)

	require.NoError(t, err)
	assert.Empty(t, ids)
}
