package helpers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// fakeGCS accepts JSON API uploads and records the bodies it committed.
type fakeGCS struct {
	mu      sync.Mutex
	uploads []string
}

func (f *fakeGCS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/upload/storage/v1/b/") {
		http.NotFound(w, r)
		return
	}
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.uploads = append(f.uploads, string(body))
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"bucket":"exports-bucket","name":"exports/users.ndjson","size":"0"}`))
}

func (f *fakeGCS) committed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads...)
}

func newFakeGCS(t *testing.T) (*fakeGCS, *storage.Client) {
	t.Helper()
	fake := &fakeGCS{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := storage.NewClient(context.Background(),
		option.WithEndpoint(srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return fake, client
}

func TestUploadObject(t *testing.T) {
	fake, client := newFakeGCS(t)

	url, err := UploadObject(context.Background(), client, "exports-bucket", "exports/users.ndjson",
		"application/x-ndjson", bytes.NewBufferString("{\"id\":\"1\"}\n"))

	require.NoError(t, err)
	assert.Equal(t, "gs://exports-bucket/exports/users.ndjson", url)
	uploads := fake.committed()
	require.Len(t, uploads, 1)
	assert.Contains(t, uploads[0], `{"id":"1"}`)
}

func TestUploadObject_ReaderErrorCommitsNothing(t *testing.T) {
	fake, client := newFakeGCS(t)
	pr, pw := io.Pipe()
	go func() {
		_, _ = pw.Write([]byte("{\"id\":\"1\"}\n"))
		_ = pw.CloseWithError(errors.New("store went away"))
	}()

	url, err := UploadObject(context.Background(), client, "exports-bucket", "exports/users.ndjson", "application/x-ndjson", pr)

	assert.EqualError(t, err, "store went away")
	assert.Empty(t, url)
	assert.Empty(t, fake.committed())
}
