package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discochess/squash/internal/store"
	"github.com/discochess/squash/internal/store/memstore"
)

type closeTracker struct {
	*memstore.Store
	closed int
	err    error
}

func (c *closeTracker) Close() error {
	c.closed++
	return c.err
}

func TestRouter_PlainPathsGoLocal(t *testing.T) {
	local := memstore.New()
	local.Put("/data/in.txt", []byte("local"))
	r := New(local)

	obj, err := r.Open(context.Background(), "/data/in.txt")
	require.NoError(t, err)
	got, _ := io.ReadAll(obj.Body)
	assert.Equal(t, "local", string(got))
}

func TestRouter_LazyBackend(t *testing.T) {
	remote := memstore.New()
	remote.Put("gs://bucket/in.gz", []byte("remote"))

	calls := 0
	r := New(memstore.New()).Register("gs", func(ctx context.Context) (store.Store, error) {
		calls++
		return remote, nil
	})
	assert.Equal(t, 0, calls)

	_, err := r.Open(context.Background(), "gs://bucket/in.gz")
	require.NoError(t, err)
	w, err := r.Create(context.Background(), "gs://bucket/out.gz")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, remote.Created("gs://bucket/out.gz"))
}

func TestRouter_UnknownScheme(t *testing.T) {
	r := New(memstore.New())
	_, err := r.Open(context.Background(), "ftp://host/file")
	assert.ErrorContains(t, err, `unsupported storage scheme "ftp"`)
}

func TestRouter_FactoryError(t *testing.T) {
	boom := errors.New("no credentials")
	r := New(memstore.New()).Register("s3", func(ctx context.Context) (store.Store, error) {
		return nil, boom
	})

	_, err := r.Create(context.Background(), "s3://bucket/key")
	assert.True(t, errors.Is(err, boom))
}

func TestRouter_CloseAll(t *testing.T) {
	local := &closeTracker{Store: memstore.New()}
	remote := &closeTracker{Store: memstore.New(), err: errors.New("remote close failed")}
	remote.Put("gs://b/k", []byte("x"))

	r := New(local).Register("gs", func(ctx context.Context) (store.Store, error) {
		return remote, nil
	})
	_, err := r.Open(context.Background(), "gs://b/k")
	require.NoError(t, err)

	err = r.Close()
	assert.ErrorContains(t, err, "closing gs store")
	assert.Equal(t, 1, local.closed)
	assert.Equal(t, 1, remote.closed)
}

func TestDefault_LocalOnlyNeverCreatesRemotes(t *testing.T) {
	local := memstore.New()
	local.Put("plain.txt", []byte("x"))
	r := Default(local, t.TempDir())
	defer r.Close()

	_, err := r.Open(context.Background(), "plain.txt")
	require.NoError(t, err)
	assert.Empty(t, r.backends)

	_, err = r.Open(context.Background(), "ftp://host/file")
	assert.ErrorContains(t, err, `unsupported storage scheme "ftp"`)
}

func TestDefault_HTTPInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "downloaded")
	}))
	defer srv.Close()

	local := memstore.New()
	r := Default(local, t.TempDir())
	defer r.Close()

	obj, err := r.Open(context.Background(), srv.URL+"/file.txt")
	require.NoError(t, err)
	got, _ := io.ReadAll(obj.Body)
	obj.Body.Close()
	assert.Equal(t, "downloaded", string(got))

	_, err = r.Create(context.Background(), srv.URL+"/out.gz")
	assert.ErrorContains(t, err, "can only be read")
}
