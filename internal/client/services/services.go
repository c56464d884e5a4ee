// Package services is the resource layer of the qacurator client: one
// service per server resource, each a thin typed facade over client.Client.
//
// Methods build the request from their arguments, send it through the
// gateway and decode the reply. Failures are returned as the gateway's
// *client.APIError without further wrapping.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
)

// ListOptions pages a listing. Zero values are left out of the query.
type ListOptions struct {
	Skip  int
	Limit int
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.Skip > 0 {
		q.Set("skip", strconv.Itoa(o.Skip))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	return q
}

// listEnvelope is the paginated shape some list endpoints use instead of a
// bare array.
type listEnvelope[T any] struct {
	Data  []T  `json:"data"`
	Items []T  `json:"items"`
	Total *int `json:"total"`
}

// unwrapList accepts a bare array, {data,total} or {items,total}. Without a
// total the number of items is returned.
func unwrapList[T any](raw []byte) ([]T, int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, 0, nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, 0, malformed(err)
		}
		return items, len(items), nil
	}

	var env listEnvelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, malformed(err)
	}
	items := env.Data
	if items == nil {
		items = env.Items
	}
	total := len(items)
	if env.Total != nil {
		total = *env.Total
	}
	return items, total, nil
}

// malformed reports a reply that does not decode as a list, in the same shape
// the gateway uses for undecodable bodies.
func malformed(err error) error {
	return &client.APIError{
		Status:  http.StatusOK,
		Message: "unexpected response from server",
		Err:     errors.Join(client.ErrMalformedResponse, err),
	}
}

// list fetches path and unwraps whatever list shape comes back.
func list[T any](ctx context.Context, c client.Client, path string, q url.Values) ([]T, int, error) {
	var raw []byte
	if err := c.Do(ctx, &client.Request{Method: http.MethodGet, Path: path, Query: q}, &raw); err != nil {
		return nil, 0, err
	}
	return unwrapList[T](raw)
}

func get(ctx context.Context, c client.Client, path string, out any) error {
	return c.Do(ctx, &client.Request{Method: http.MethodGet, Path: path}, out)
}

func post(ctx context.Context, c client.Client, path string, body, out any) error {
	return c.Do(ctx, &client.Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func put(ctx context.Context, c client.Client, path string, body, out any) error {
	return c.Do(ctx, &client.Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func del(ctx context.Context, c client.Client, path string, out any) error {
	return c.Do(ctx, &client.Request{Method: http.MethodDelete, Path: path}, out)
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
