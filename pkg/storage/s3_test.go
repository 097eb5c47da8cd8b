package storage_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/httpx"
	"github.com/dmitrymomot/routekit/pkg/storage"
)

type object struct {
	contentType string
	data        []byte
}

// fakeS3 is an in-memory API implementation.
type fakeS3 struct {
	objects map[string]object
	putErr  error
	mu      sync.Mutex
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string]object)}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	modified := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(obj.data)),
		ContentLength: aws.Int64(int64(len(obj.data))),
		ContentType:   aws.String(obj.contentType),
		ETag:          aws.String(`"etag-1"`),
		LastModified:  &modified,
	}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = object{contentType: aws.ToString(in.ContentType), data: data}
	return &s3.PutObjectOutput{ETag: aws.String(`"etag-put"`)}, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if aws.ToString(in.Bucket) != "assets" {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func identity(s string) string { return s }

func uploadReq(contentType, body string) *internal.Request {
	head := internal.Head{Method: http.MethodPut, Path: "/", Header: http.Header{}}
	if contentType != "" {
		head.Header.Set("Content-Type", contentType)
	}
	return internal.NewRequest(head, internal.NewBody(io.NopCloser(strings.NewReader(body))))
}

func TestDownload(t *testing.T) {
	t.Parallel()

	api := newFakeS3()
	api.objects["docs/readme.txt"] = object{contentType: "text/plain", data: []byte("hello from s3")}
	svc := storage.Download[string](api, "assets", identity, storage.WithChunkSize(4), storage.WithCacheControl("max-age=60"))

	t.Run("streams object", func(t *testing.T) {
		t.Parallel()
		resp, err := svc.Serve(context.Background(), uploadReq("", ""), "docs/readme.txt")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.Status)
		require.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
		require.Equal(t, "13", resp.Header.Get("Content-Length"))
		require.Equal(t, `"etag-1"`, resp.Header.Get("ETag"))
		require.Equal(t, "Fri, 02 Jan 2026 03:04:05 GMT", resp.Header.Get("Last-Modified"))
		require.Equal(t, "max-age=60", resp.Header.Get("Cache-Control"))

		var frames int
		var body []byte
		for f, err := range resp.Frames() {
			require.NoError(t, err)
			require.LessOrEqual(t, len(f), 4)
			frames++
			body = append(body, f...)
		}
		require.Equal(t, "hello from s3", string(body))
		require.Equal(t, 4, frames)
	})

	t.Run("missing object", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Serve(context.Background(), uploadReq("", ""), "docs/none.txt")
		require.ErrorIs(t, err, storage.ErrNotFound)
		require.Equal(t, http.StatusNotFound, internal.StatusCode(err))
	})

	t.Run("invalid key", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Serve(context.Background(), uploadReq("", ""), "../")
		require.ErrorIs(t, err, storage.ErrInvalidKey)
		require.Equal(t, http.StatusBadRequest, internal.StatusCode(err))
	})
}

func TestDownload_MissingObjectOverHTTP(t *testing.T) {
	t.Parallel()

	files := internal.NewRoute[string](
		internal.RouterFunc[string](func(_ context.Context, r *internal.Request) (string, bool) {
			return strings.CutPrefix(r.Path, "/files/")
		}),
		storage.Download[string](newFakeS3(), "assets", identity),
	)
	chain := internal.NewChain(
		internal.WithRoutes(files.Homogenize()),
		internal.WithNotFound(internal.NotFound),
	)

	req := internal.NewRequest(internal.Head{Method: http.MethodGet, Path: "/files/docs/none.txt", Header: http.Header{}}, internal.NewBody(http.NoBody))
	_, err := chain.Handle(context.Background(), req)
	require.Error(t, err)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.Equal(t, http.StatusNotFound, internal.StatusCode(err))

	rec := httptest.NewRecorder()
	httpx.Handler(chain).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/docs/none.txt", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpload(t *testing.T) {
	t.Parallel()

	t.Run("stores body under key", func(t *testing.T) {
		t.Parallel()
		api := newFakeS3()
		svc := storage.Upload[string](api, "assets", identity, storage.WithKeyPrefix("uploads"))

		resp, err := svc.Serve(context.Background(), uploadReq("text/csv", "a,b\n1,2\n"), "report.csv")
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.Status)

		body, err := internal.CollectFrames(resp.Frames())
		require.NoError(t, err)
		var info storage.FileInfo
		require.NoError(t, json.Unmarshal(body, &info))
		require.Equal(t, storage.FileInfo{Key: "uploads/report.csv", ContentType: "text/csv", ETag: `"etag-put"`, Size: 8}, info)

		obj := api.objects["uploads/report.csv"]
		require.Equal(t, "a,b\n1,2\n", string(obj.data))
		require.Equal(t, "text/csv", obj.contentType)
	})

	t.Run("generates key", func(t *testing.T) {
		t.Parallel()
		api := newFakeS3()
		svc := storage.Upload[string](api, "assets", identity)

		resp, err := svc.Serve(context.Background(), uploadReq("", `{"a":1}`), "")
		require.NoError(t, err)
		body, err := internal.CollectFrames(resp.Frames())
		require.NoError(t, err)
		var info storage.FileInfo
		require.NoError(t, json.Unmarshal(body, &info))
		require.True(t, strings.HasSuffix(info.Key, ".txt"), info.Key)
		require.Len(t, api.objects, 1)
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		api := newFakeS3()
		svc := storage.Upload[string](api, "assets", identity, storage.WithMaxUploadSize(4))

		_, err := svc.Serve(context.Background(), uploadReq("text/plain", "0123456789"), "x.txt")
		var tooLarge *internal.RequestTooLargeError
		require.ErrorAs(t, err, &tooLarge)
		require.Equal(t, int64(10), tooLarge.Actual)
		require.Equal(t, http.StatusRequestEntityTooLarge, internal.StatusCode(err))
		require.Empty(t, api.objects)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		svc := storage.Upload[string](newFakeS3(), "assets", identity)
		_, err := svc.Serve(context.Background(), uploadReq("text/plain", ""), "x.txt")
		require.ErrorIs(t, err, storage.ErrEmptyFile)
		require.Equal(t, http.StatusBadRequest, internal.StatusCode(err))
	})

	t.Run("disallowed type", func(t *testing.T) {
		t.Parallel()
		svc := storage.Upload[string](newFakeS3(), "assets", identity, storage.WithAllowedTypes("image/*"))
		_, err := svc.Serve(context.Background(), uploadReq("", "plain words"), "x.txt")
		require.ErrorIs(t, err, storage.ErrInvalidMIME)
		require.Equal(t, http.StatusUnsupportedMediaType, internal.StatusCode(err))
	})

	t.Run("backend failure", func(t *testing.T) {
		t.Parallel()
		api := newFakeS3()
		api.putErr = errors.New("connection reset")
		svc := storage.Upload[string](api, "assets", identity)
		_, err := svc.Serve(context.Background(), uploadReq("text/plain", "data"), "x.txt")
		require.ErrorIs(t, err, storage.ErrUploadFailed)
		require.Equal(t, http.StatusBadGateway, internal.StatusCode(err))
	})
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	_, err := storage.NewClient(storage.Config{})
	require.ErrorIs(t, err, storage.ErrInvalidConfig)

	client, err := storage.NewClient(storage.Config{
		Bucket:    "assets",
		AccessKey: "key",
		SecretKey: "secret",
		Endpoint:  "http://localhost:9000",
		PathStyle: true,
	})
	require.NoError(t, err)
	require.Equal(t, storage.DefaultRegion, client.Options().Region)
	require.True(t, client.Options().UsePathStyle)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	api := newFakeS3()
	require.NoError(t, storage.Healthcheck(api, "assets")(context.Background()))
	require.ErrorIs(t, storage.Healthcheck(api, "missing")(context.Background()), storage.ErrNotFound)
}
