package publish

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves single-part uploads; the multipart methods are never reached
// for bodies below the part size.
type fakeS3 struct {
	manager.UploadAPIClient

	mu   sync.Mutex
	puts map[string]string
	meta map[string]string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.puts[key] = string(data)
	f.meta[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader(t *testing.T) {
	client := &fakeS3{puts: map[string]string{}, meta: map[string]string{}}
	up := NewS3Uploader(client, "diag", func(c *S3Config) {
		c.Concurrency = 1
	})

	body := "{\"content\":\"a\"}\n"
	require.NoError(t, up.Upload(context.Background(), "run/foo.json.00000", strings.NewReader(body), int64(len(body))))

	assert.Equal(t, body, client.puts["diag/run/foo.json.00000"])
	assert.Equal(t, ContentType, client.meta["diag/run/foo.json.00000"])
}

func TestMinIOUploader(t *testing.T) {
	var (
		mu      sync.Mutex
		method  string
		path    string
		ctype   string
		touched bool
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		method, path, ctype, touched = r.Method, r.URL.Path, r.Header.Get("Content-Type"), true
		mu.Unlock()
		w.Header().Set("ETag", `"0123456789abcdef"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	client, err := minio.New(u.Host, &minio.Options{
		Creds:        credentials.NewStaticV4("access", "secret", ""),
		Secure:       false,
		Region:       "us-east-1",
		BucketLookup: minio.BucketLookupPath,
	})
	require.NoError(t, err)

	up := NewMinIOUploader(client, "diag")
	body := "{\"content\":\"a\"}\n"
	require.NoError(t, up.Upload(context.Background(), "foo.json.00000", strings.NewReader(body), int64(len(body))))

	mu.Lock()
	defer mu.Unlock()
	require.True(t, touched)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/diag/foo.json.00000", path)
	assert.Equal(t, ContentType, ctype)
}
