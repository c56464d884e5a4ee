package services

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

// fakeClient answers requests from canned bodies keyed by "METHOD path" and
// records every request it sees.
type fakeClient struct {
	responses map[string]string
	errs      map[string]error
	reqs      []*client.Request
	pingErr   error
}

func newFakeClient() *fakeClient {
	return &fakeClient{responses: map[string]string{}, errs: map[string]error{}}
}

func key(method, path string) string {
	if method == "" {
		method = http.MethodGet
	}
	return method + " " + path
}

func (f *fakeClient) on(method, path, body string) *fakeClient {
	f.responses[key(method, path)] = body
	return f
}

func (f *fakeClient) fail(method, path string, err error) *fakeClient {
	f.errs[key(method, path)] = err
	return f
}

func (f *fakeClient) Do(_ context.Context, req *client.Request, out any) error {
	f.reqs = append(f.reqs, req)
	k := key(req.Method, req.Path)
	if err := f.errs[k]; err != nil {
		return err
	}
	body := f.responses[k]
	if out == nil {
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		*raw = []byte(body)
		return nil
	}
	if body == "" {
		return nil
	}
	return json.Unmarshal([]byte(body), out)
}

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeClient) last() *client.Request {
	if len(f.reqs) == 0 {
		return nil
	}
	return f.reqs[len(f.reqs)-1]
}

// fakeSession records the last identity written.
type fakeSession struct {
	identity *models.Identity
	token    string
	setErr   error
	cleared  int
}

func (s *fakeSession) SetIdentity(_ context.Context, identity models.Identity, token string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.identity = &identity
	s.token = token
	return nil
}

func (s *fakeSession) Clear(context.Context) error {
	s.cleared++
	s.identity, s.token = nil, ""
	return nil
}
