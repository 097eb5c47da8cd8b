package internal

import (
	"encoding/json"
	"errors"
	"io"
	"iter"
	"net/http"
	"sync/atomic"
)

// Frames is a lazily produced sequence of response body frames.
// A non-nil error ends the stream; iteration stops at the first error.
type Frames = iter.Seq2[[]byte, error]

// Response is an outbound message: status, headers and a frame stream.
// The stream is produced once and handed to exactly one consumer.
type Response struct {
	Header http.Header
	frames Frames
	Status int
	taken  atomic.Bool
}

// NewResponse creates a response with the given status and frame stream.
// A nil stream means an empty body.
func NewResponse(status int, frames Frames) *Response {
	if frames == nil {
		frames = FramesOf()
	}
	return &Response{
		Status: status,
		Header: make(http.Header),
		frames: frames,
	}
}

// Frames hands out the body stream. Only the first call receives it; later
// calls receive a stream that yields ErrBodyConsumed.
func (r *Response) Frames() Frames {
	if !r.taken.CompareAndSwap(false, true) {
		return func(yield func([]byte, error) bool) {
			yield(nil, ErrBodyConsumed)
		}
	}
	return r.frames
}

// SetHeader sets a response header and returns the response for chaining.
func (r *Response) SetHeader(key, value string) *Response {
	r.Header.Set(key, value)
	return r
}

// Empty returns a response with no body.
func Empty(status int) *Response {
	return NewResponse(status, nil)
}

// Text returns a plain-text response.
func Text(status int, s string) *Response {
	return Bytes(status, "text/plain; charset=utf-8", []byte(s))
}

// Bytes returns a single-frame response with the given content type.
func Bytes(status int, contentType string, b []byte) *Response {
	resp := NewResponse(status, FramesOf(b))
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	return resp
}

// JSON encodes v and returns it as a single-frame response.
// Encoding failures surface when the frame is produced.
func JSON(status int, v any) *Response {
	resp := NewResponse(status, func(yield func([]byte, error) bool) {
		data, err := json.Marshal(v)
		if err != nil {
			yield(nil, err)
			return
		}
		yield(data, nil)
	})
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

// Stream returns a response backed by an arbitrary frame stream.
func Stream(status int, contentType string, frames Frames) *Response {
	resp := NewResponse(status, frames)
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	return resp
}

// Reader returns a response that streams r in frames of at most chunkSize
// bytes. r is closed when the stream ends if it implements io.Closer.
func Reader(status int, contentType string, r io.Reader, chunkSize int) *Response {
	return Stream(status, contentType, FramesFromReader(r, chunkSize))
}

// FramesOf returns a finite stream of the given frames. Empty frames are skipped.
func FramesOf(frames ...[]byte) Frames {
	return func(yield func([]byte, error) bool) {
		for _, f := range frames {
			if len(f) == 0 {
				continue
			}
			if !yield(f, nil) {
				return
			}
		}
	}
}

// FramesFromReader reads r in chunks of at most chunkSize bytes.
// Each yielded frame is a fresh slice owned by the consumer.
func FramesFromReader(r io.Reader, chunkSize int) Frames {
	if chunkSize <= 0 {
		chunkSize = readChunkSize
	}
	return func(yield func([]byte, error) bool) {
		if c, ok := r.(io.Closer); ok {
			defer c.Close()
		}
		for {
			buf := make([]byte, chunkSize)
			n, err := r.Read(buf)
			if n > 0 {
				if !yield(buf[:n], nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}

// CollectFrames drains a frame stream into one slice.
func CollectFrames(frames Frames) ([]byte, error) {
	var out []byte
	for f, err := range frames {
		if err != nil {
			return out, err
		}
		out = append(out, f...)
	}
	return out, nil
}
