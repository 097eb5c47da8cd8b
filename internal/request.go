package internal

import (
	"mime"
	"net/http"
	"net/url"
)

// Head is the metadata half of a request: everything but the body.
type Head struct {
	// Header holds the request headers. Keys are canonicalised, so lookups
	// are case-insensitive, and values keep their arrival order per key.
	Header     http.Header
	Method     string
	Path       string
	RawQuery   string
	Host       string
	RemoteAddr string
}

// Query parses RawQuery. Malformed pairs are dropped.
func (h Head) Query() url.Values {
	v, _ := url.ParseQuery(h.RawQuery)
	return v
}

// Request owns one Head and one Body.
// Services take ownership of the request they are handed, including the
// responsibility to consume or abandon its body.
type Request struct {
	Head
	body *Body
}

// NewRequest builds a request from transport data. A nil body is treated as empty.
func NewRequest(head Head, body *Body) *Request {
	if head.Header == nil {
		head.Header = make(http.Header)
	}
	if body == nil {
		body = NewBody(nil)
	}
	return &Request{Head: head, body: body}
}

// JoinRequest reassembles a request previously taken apart with Split.
func JoinRequest(head Head, body *Body) *Request {
	return NewRequest(head, body)
}

// Body returns the request body handle.
func (r *Request) Body() *Body {
	return r.body
}

// Split decomposes the request into its head and body.
// The request no longer owns a body afterwards; Body returns an already
// consumed handle.
func (r *Request) Split() (Head, *Body) {
	body := r.body
	r.body = consumedBody()
	return r.Head, body
}

// Charset returns the charset parameter of the Content-Type header, or "".
func (r *Request) Charset() string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return params["charset"]
}

func consumedBody() *Body {
	b := NewBody(nil)
	b.used.Store(true)
	return b
}
