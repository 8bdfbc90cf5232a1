package publish

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hupe1980/segstore"
	"github.com/hupe1980/segstore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type memUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  string
}

func newMemUploader() *memUploader {
	return &memUploader{objects: make(map[string][]byte)}
}

func (u *memUploader) Upload(_ context.Context, key string, r io.Reader, size int64) error {
	if key == u.failOn {
		return errors.New("upload refused")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return errors.New("size mismatch")
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = data
	return nil
}

func populate(t *testing.T, root string) *segstore.Store {
	t.Helper()
	s, err := segstore.Open(root, segstore.WithSizes(200, 200))
	require.NoError(t, err)

	recs := make([]model.Record, 0, 10)
	for i := range 10 {
		recs = append(recs, model.Record{Content: "line", Number: model.Marker(i)})
	}
	require.NoError(t, s.Process(func(yield func(string, model.Sequence) bool) {
		if !yield("messages", model.Records(recs...)) {
			return
		}
		yield("hostname", model.Records(model.Record{Content: "host-a"}))
	}))
	return s
}

func TestPublish(t *testing.T) {
	root := t.TempDir()
	s := populate(t, root)
	up := newMemUploader()

	res, err := Publish(context.Background(), s, up, func(o *Options) {
		o.Prefix = "run-1"
		o.Concurrency = 3
		o.Limiter = rate.NewLimiter(rate.Inf, 1)
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)

	var total int64
	nonEmpty := 0
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(root, e.Name()))
		require.NoError(t, err)
		if len(data) == 0 {
			assert.NotContains(t, up.objects, "run-1/"+e.Name())
			continue
		}
		nonEmpty++
		total += int64(len(data))
		assert.True(t, bytes.Equal(data, up.objects["run-1/"+e.Name()]), e.Name())
	}

	assert.Greater(t, nonEmpty, 2)
	assert.Equal(t, nonEmpty, res.Objects)
	assert.Equal(t, total, res.Bytes)
	assert.Len(t, up.objects, nonEmpty)
}

func TestPublish_Failure(t *testing.T) {
	s := populate(t, t.TempDir())
	up := newMemUploader()
	up.failOn = "hostname.json.00000"

	_, err := Publish(context.Background(), s, up, func(o *Options) {
		o.Concurrency = 1
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hostname.json.00000")
}

func TestPublish_Canceled(t *testing.T) {
	s := populate(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Publish(ctx, s, newMemUploader(), func(o *Options) {
		o.Limiter = rate.NewLimiter(rate.Limit(1), 1)
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestKey(t *testing.T) {
	s := populate(t, t.TempDir())
	w, err := s.Stream("hostname")
	require.NoError(t, err)

	seg := w.Segments()[0]
	assert.Equal(t, "hostname.json.00000", Key("", seg))
	assert.Equal(t, "a/b/hostname.json.00000", Key("a/b/", seg))
}
