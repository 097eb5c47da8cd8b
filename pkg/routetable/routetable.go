package routetable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/pattern"
)

var (
	ErrInvalidTable = errors.New("routetable: invalid route table")
	ErrNotFound     = errors.New("routetable: file not found")
)

// Table is a decoded route table file.
type Table struct {
	Routes []Entry `yaml:"routes"`
}

// Entry is one canned route. Exactly one of Body or Redirect is used;
// both may reference path parameters as {name}.
type Entry struct {
	Headers     map[string]string `yaml:"headers"`
	Name        string            `yaml:"name"`
	Method      string            `yaml:"method"`
	Path        string            `yaml:"path"`
	ContentType string            `yaml:"content_type"`
	Body        string            `yaml:"body"`
	Redirect    string            `yaml:"redirect"`
	Status      int               `yaml:"status"`
}

// Load decodes and validates a table. Unknown keys are rejected.
func Load(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var t Table
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidTable, err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFile reads a table from path.
func LoadFile(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return Load(bytes.NewReader(b))
}

// validate fills defaults and rejects malformed entries.
func (t *Table) validate() error {
	for i := range t.Routes {
		e := &t.Routes[i]
		e.Method = strings.ToUpper(strings.TrimSpace(e.Method))
		if !strings.HasPrefix(e.Path, "/") {
			return fmt.Errorf("%w: route %d: path must start with '/'", ErrInvalidTable, i)
		}
		if e.Body != "" && e.Redirect != "" {
			return fmt.Errorf("%w: route %d: body and redirect are exclusive", ErrInvalidTable, i)
		}
		if e.Status == 0 {
			e.Status = http.StatusOK
			if e.Redirect != "" {
				e.Status = http.StatusFound
			}
		}
		if e.Status < 100 || e.Status > 599 {
			return fmt.Errorf("%w: route %d: status %d out of range", ErrInvalidTable, i, e.Status)
		}
		if e.Redirect != "" && (e.Status < 300 || e.Status > 399) {
			return fmt.Errorf("%w: route %d: redirect needs a 3xx status", ErrInvalidTable, i)
		}
		if e.ContentType == "" && e.Body != "" {
			e.ContentType = "text/plain; charset=utf-8"
		}
		if e.Name == "" {
			e.Name = strings.TrimSpace(e.Method + " " + e.Path)
		}
	}
	return nil
}

// Homogenize turns every entry into a route, in file order.
// It panics if a path is not a valid chi pattern.
func (t *Table) Homogenize(opts ...internal.RouteOption) []internal.HomogeneousRoute {
	routes := make([]internal.HomogeneousRoute, 0, len(t.Routes))
	for _, e := range t.Routes {
		ro := append([]internal.RouteOption{internal.WithName(e.Name)}, opts...)
		routes = append(routes, internal.NewRoute[pattern.Params](
			pattern.New(e.Method, e.Path),
			e.service(),
			ro...,
		).Homogenize())
	}
	return routes
}

func (e Entry) service() internal.Service[pattern.Params] {
	return internal.ServiceFunc[pattern.Params](func(_ context.Context, _ *internal.Request, p pattern.Params) (*internal.Response, error) {
		expand := replacer(p)

		var resp *internal.Response
		if e.Redirect != "" {
			resp = internal.Empty(e.Status).SetHeader("Location", expand.Replace(e.Redirect))
		} else {
			resp = internal.Bytes(e.Status, e.ContentType, []byte(expand.Replace(e.Body)))
		}
		for k, v := range e.Headers {
			resp.SetHeader(k, expand.Replace(v))
		}
		return resp, nil
	})
}

func replacer(p pattern.Params) *strings.Replacer {
	m := p.Map()
	pairs := make([]string, 0, len(m)*2)
	for k, v := range m {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...)
}
