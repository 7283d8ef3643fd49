package listresource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/api"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/datatables"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/transport"
)

// Payload is the body of a store/update call. Files switch the request to
// multipart.
type Payload struct {
	Fields url.Values
	Files  []transport.File
}

// Source answers list and mutation calls for one resource with view records.
type Source[T any] interface {
	Name() string
	List(ctx context.Context, req datatables.Request) (datatables.Response[T], error)
	Show(ctx context.Context, pid string) (T, api.Envelope, error)
	Create(ctx context.Context, p Payload) (api.Envelope, error)
	Update(ctx context.Context, pid string, p Payload) (api.Envelope, error)
	Delete(ctx context.Context, pid string) (api.Envelope, error)
}

// Transport is the subset of *transport.Client used by HTTPSource.
type Transport interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
	PostForm(ctx context.Context, path string, form url.Values, out any) error
	PostMultipart(ctx context.Context, path string, fields url.Values, files []transport.File, out any) error
}

// Endpoint locates a resource on the backend.
type Endpoint struct {
	Name string
	Base string // e.g. "/api/bank-deposit"
	// PostList sends the DataTables request as a form body to Base+"/data"
	// instead of a GET query string.
	PostList bool
}

// HTTPSource is the generic Source over the REST backend: W is the wire
// record, T the view record produced by ToView.
type HTTPSource[W, T any] struct {
	Client   Transport
	Endpoint Endpoint
	ToView   func(W) T
}

func (s *HTTPSource[W, T]) Name() string { return s.Endpoint.Name }

func (s *HTTPSource[W, T]) List(ctx context.Context, req datatables.Request) (datatables.Response[T], error) {
	var raw json.RawMessage
	var err error
	if s.Endpoint.PostList {
		err = s.Client.PostForm(ctx, s.Endpoint.Base+"/data", req.Values(), &raw)
	} else {
		err = s.Client.GetJSON(ctx, s.Endpoint.Base, req.Values(), &raw)
	}
	if err != nil {
		return datatables.Response[T]{}, err
	}
	wire, err := decodeList[W](raw, req)
	if err != nil {
		return datatables.Response[T]{}, err
	}
	return datatables.Map(wire, s.ToView), nil
}

// decodeList accepts the DataTables envelope or, for endpoints that return a
// bare array, slices the array locally so pagination still works.
func decodeList[W any](raw json.RawMessage, req datatables.Request) (datatables.Response[W], error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var all []W
		if err := json.Unmarshal(trimmed, &all); err != nil {
			return datatables.Response[W]{}, fmt.Errorf("malformed list: %w", err)
		}
		n := int64(len(all))
		start := min(req.Start, len(all))
		end := min(start+req.Length, len(all))
		return datatables.Response[W]{Draw: req.Draw, RecordsTotal: n, RecordsFiltered: n, Data: all[start:end]}, nil
	}
	var out datatables.Response[W]
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, fmt.Errorf("malformed list: %w", err)
	}
	return out, nil
}

func (s *HTTPSource[W, T]) Show(ctx context.Context, pid string) (T, api.Envelope, error) {
	var zero T
	var env api.Envelope
	if err := s.Client.PostForm(ctx, s.Endpoint.Base+"/show", url.Values{"pid": {pid}}, &env); err != nil {
		return zero, env, err
	}
	if !env.OK() || len(env.Data) == 0 {
		return zero, env, nil
	}
	var w W
	if err := json.Unmarshal(env.Data, &w); err != nil {
		return zero, env, fmt.Errorf("malformed record: %w", err)
	}
	return s.ToView(w), env, nil
}

func (s *HTTPSource[W, T]) Create(ctx context.Context, p Payload) (api.Envelope, error) {
	return s.send(ctx, "/store", p)
}

func (s *HTTPSource[W, T]) Update(ctx context.Context, pid string, p Payload) (api.Envelope, error) {
	fields := url.Values{}
	for k, v := range p.Fields {
		fields[k] = v
	}
	fields.Set("pid", pid)
	return s.send(ctx, "/update", Payload{Fields: fields, Files: p.Files})
}

func (s *HTTPSource[W, T]) Delete(ctx context.Context, pid string) (api.Envelope, error) {
	return s.send(ctx, "/delete", Payload{Fields: url.Values{"pid": {pid}}})
}

func (s *HTTPSource[W, T]) send(ctx context.Context, suffix string, p Payload) (api.Envelope, error) {
	var env api.Envelope
	var err error
	if len(p.Files) > 0 {
		err = s.Client.PostMultipart(ctx, s.Endpoint.Base+suffix, p.Fields, p.Files, &env)
	} else {
		err = s.Client.PostForm(ctx, s.Endpoint.Base+suffix, p.Fields, &env)
	}
	return env, err
}

// Summary fetches the today/week/month aggregates of the resource under the
// given filters.
func (s *HTTPSource[W, T]) Summary(ctx context.Context, filters map[string]string) (api.Summary, error) {
	form := url.Values{}
	for k, v := range filters {
		if v != "" {
			form.Set(k, v)
		}
	}
	var env api.Envelope
	if err := s.Client.PostForm(ctx, s.Endpoint.Base+"/summary", form, &env); err != nil {
		return api.Summary{}, err
	}
	if !env.OK() {
		return api.Summary{}, errors.New(env.Message)
	}
	var out api.Summary
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return api.Summary{}, fmt.Errorf("malformed summary: %w", err)
	}
	return out, nil
}
