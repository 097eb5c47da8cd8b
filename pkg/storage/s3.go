package storage

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrymomot/routekit/internal"
)

// KeyFunc derives an object key from a route's match context.
type KeyFunc[C any] func(C) string

// FileInfo describes a stored object. Upload answers with it as JSON.
type FileInfo struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	ETag        string `json:"etag,omitempty"`
	Size        int64  `json:"size"`
}

// Download returns a Service that streams the object named by key(match)
// as response frames. The object body is read lazily while the transport
// writes, so memory use is bounded by the chunk size.
//
// Example:
//
//	files := routekit.NewRoute[pattern.Params](
//	    pattern.New(http.MethodGet, "/files/*"),
//	    storage.Download(client, "assets", func(p pattern.Params) string { return p.Get("*") }),
//	)
func Download[C any](client API, bucket string, key KeyFunc[C], opts ...Option) internal.Service[C] {
	o := newOptions(opts)

	return internal.ServiceFunc[C](func(ctx context.Context, _ *internal.Request, match C) (*internal.Response, error) {
		k, err := o.objectKey(key(match))
		if err != nil {
			return nil, httpError(err)
		}

		out, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(k),
		})
		if err != nil {
			err = wrapS3Error(err, ErrDownloadFailed)
			o.logger.WarnContext(ctx, "object download failed", slog.String("key", k), slog.Any("error", err))
			return nil, httpError(err)
		}

		contentType := aws.ToString(out.ContentType)
		if contentType == "" {
			contentType = MIMEOctetStream
		}
		resp := internal.Reader(http.StatusOK, contentType, out.Body, o.chunkSize)
		if out.ContentLength != nil {
			resp.SetHeader("Content-Length", strconv.FormatInt(*out.ContentLength, 10))
		}
		if out.ETag != nil {
			resp.SetHeader("ETag", *out.ETag)
		}
		if out.LastModified != nil {
			resp.SetHeader("Last-Modified", out.LastModified.UTC().Format(http.TimeFormat))
		}
		if o.cacheControl != "" {
			resp.SetHeader("Cache-Control", o.cacheControl)
		}
		return resp, nil
	})
}

// Upload returns a Service that stores the request body as one object.
// The body is collected up to the configured limit; larger bodies fail with
// a request-too-large error carrying the actual size. An empty key from
// key(match) gets a generated name with an extension derived from the
// content type. The service answers 201 with the FileInfo as JSON.
func Upload[C any](client API, bucket string, key KeyFunc[C], opts ...Option) internal.Service[C] {
	o := newOptions(opts)

	return internal.ServiceFunc[C](func(ctx context.Context, req *internal.Request, match C) (*internal.Response, error) {
		data, err := req.Body().CollectBytes(ctx, internal.WithMaxSize(o.maxSize))
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, httpError(ErrEmptyFile)
		}

		contentType := detectMIME(req.Header.Get("Content-Type"), data)
		if len(o.allowed) > 0 && !matchesMIME(contentType, o.allowed) {
			return nil, httpError(ErrInvalidMIME)
		}

		var k string
		if name := key(match); name != "" {
			if k, err = o.objectKey(name); err != nil {
				return nil, httpError(err)
			}
		} else {
			k = o.generatedKey(contentType)
		}

		out, err := client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(bucket),
			Key:           aws.String(k),
			Body:          bytes.NewReader(data),
			ContentLength: aws.Int64(int64(len(data))),
			ContentType:   aws.String(contentType),
		})
		if err != nil {
			err = wrapS3Error(err, ErrUploadFailed)
			o.logger.ErrorContext(ctx, "object upload failed", slog.String("key", k), slog.Any("error", err))
			return nil, httpError(err)
		}

		return internal.JSON(http.StatusCreated, FileInfo{
			Key:         k,
			ContentType: contentType,
			ETag:        aws.ToString(out.ETag),
			Size:        int64(len(data)),
		}), nil
	})
}

// objectKey sanitizes every segment of name and applies the key prefix.
func (o *options) objectKey(name string) (string, error) {
	var parts []string
	if o.prefix != "" {
		parts = append(parts, o.prefix)
	}
	n := len(parts)
	for seg := range strings.SplitSeq(name, "/") {
		if seg = sanitizePathSegment(seg); seg != "" {
			parts = append(parts, seg)
		}
	}
	if len(parts) == n {
		return "", ErrInvalidKey
	}
	return strings.Join(parts, "/"), nil
}

// generatedKey returns "{prefix}/{uuid}{ext}".
func (o *options) generatedKey(contentType string) string {
	ext := ExtFromMIME(contentType)
	if ext == "" {
		ext = ".bin"
	}
	name := uuid.Must(uuid.NewV7()).String() + ext
	if o.prefix == "" {
		return name
	}
	return o.prefix + "/" + name
}

var pathSegmentRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizePathSegment strips traversal sequences and replaces characters
// that are unsafe in object keys.
func sanitizePathSegment(segment string) string {
	segment = strings.Trim(segment, " /\\")
	segment = strings.ReplaceAll(segment, "..", "")
	segment = pathSegmentRegex.ReplaceAllString(segment, "_")
	return url.PathEscape(segment)
}
