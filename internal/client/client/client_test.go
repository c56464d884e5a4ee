package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/dmitrijs2005/qacurator/internal/client/session"
	"github.com/dmitrijs2005/qacurator/internal/client/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCreds records how often the session was purged.
type fakeCreds struct {
	token    string
	tokenErr error
	clears   atomic.Int32
}

func (f *fakeCreds) CurrentToken(context.Context) (string, error) { return f.token, f.tokenErr }
func (f *fakeCreds) Clear(context.Context) error {
	f.clears.Add(1)
	f.token = ""
	return nil
}

func newTestClient(t *testing.T, h http.HandlerFunc, creds Credentials, opts ...Option) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, creds, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com", nil)
	require.Error(t, err)
	_, err = New("://bad", nil)
	require.Error(t, err)
}

func TestDo_InjectsBearerAndRequestID(t *testing.T) {
	var gotAuth, gotID, gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get("X-Request-ID")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"id":5,"username":"bob","role":"user"}`))
	}, &fakeCreds{token: "abc"})

	var u models.User
	err := c.Do(context.Background(), &Request{Path: "/api/auth/me", Query: url.Values{"x": {"1"}}}, &u)
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.NotEmpty(t, gotID)
	assert.Equal(t, "/api/auth/me", gotPath)
	assert.Equal(t, "x=1", gotQuery)
	assert.Equal(t, models.User{ID: 5, Username: "bob", Role: models.RoleUser}, u)
}

func TestDo_NoTokenSendsUnauthenticated(t *testing.T) {
	var hadAuth atomic.Bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hadAuth.Store(r.Header.Get("Authorization") != "")
		w.WriteHeader(http.StatusNoContent)
	}, &fakeCreds{})

	require.NoError(t, c.Do(context.Background(), &Request{Path: "/datasets/marketplace"}, nil))
	assert.False(t, hadAuth.Load())
}

func TestDo_RequireTokenFailsLocally(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, &fakeCreds{})

	err := c.Do(context.Background(), &Request{Path: "/api/auth/me", RequireToken: true}, nil)
	require.ErrorIs(t, err, ErrNoCredential)
	assert.Zero(t, calls.Load())
}

func TestDo_TokenOverride(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}, &fakeCreds{token: "stored"})

	require.NoError(t, c.Do(context.Background(), &Request{Path: "/x", Token: "fresh"}, nil))
	assert.Equal(t, "Bearer fresh", gotAuth)
}

func TestDo_TokenLookupFailureStillSends(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, &fakeCreds{tokenErr: errors.New("disk")})

	require.NoError(t, c.Do(context.Background(), &Request{Path: "/x"}, nil))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_401PurgesSessionOnceAndRejects(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}, nil)

	ctx := context.Background()
	mem := storage.NewMemory()
	sess := session.New(mem, session.UserKeys, nil)
	require.NoError(t, sess.SetIdentity(ctx, models.Identity{ID: 1, Username: "a", Role: models.RoleAdmin}, "tok"))

	counting := &countingCreds{Store: sess}
	c.creds = counting

	var out map[string]any
	err := c.Do(ctx, &Request{Path: "/datasets/my"}, &out)

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Could not validate credentials", Message(err))
	assert.Nil(t, out)
	assert.Equal(t, 1, counting.clears)

	all, err := mem.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.False(t, sess.IsAuthenticated())
}

type countingCreds struct {
	*session.Store
	clears int
}

func (c *countingCreds) Clear(ctx context.Context) error {
	c.clears++
	return c.Store.Clear(ctx)
}

func TestDo_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"detail string", 404, `{"detail":"Dataset not found"}`, ErrNotFound, "Dataset not found"},
		{"validation list", 422, `{"detail":[{"loc":["body","name"],"msg":"field required"},{"msg":"too short"}]}`, ErrValidation, "field required; too short"},
		{"detail object", 400, `{"detail":{"message":"bad code"}}`, ErrBadRequest, "bad code"},
		{"message field", 409, `{"message":"already exists"}`, ErrConflict, "already exists"},
		{"html body", 502, `<html>bad gateway</html>`, ErrServer, FallbackMessage},
		{"empty body", 403, ``, ErrForbidden, FallbackMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			err := c.Do(context.Background(), &Request{Path: "/x"}, nil)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.NotEmpty(t, apiErr.RequestID)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestDo_TransportErrorIsNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := New(base, nil)
	require.NoError(t, err)

	err = c.Do(context.Background(), &Request{Path: "/x"}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, "server unavailable", apiErr.Message)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_CancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Do(ctx, &Request{Path: "/x"}, nil)
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "request cancelled", Message(err))
}

func TestDo_JSONAndFormBodies(t *testing.T) {
	var gotType string
	var gotBody []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}, nil)
	ctx := context.Background()

	var msg models.Message
	require.NoError(t, c.Do(ctx, &Request{Method: http.MethodPost, Path: "/a", Body: map[string]int{"n": 1}}, &msg))
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"n":1}`, string(gotBody))
	assert.Equal(t, "ok", msg.Message)

	require.NoError(t, c.Do(ctx, &Request{Method: http.MethodPost, Path: "/b", Form: url.Values{"description": {"d s"}}}, nil))
	assert.Equal(t, "application/x-www-form-urlencoded", gotType)
	assert.Equal(t, "description=d+s", string(gotBody))
}

func TestDo_RawAndMalformedBodies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}, nil)
	ctx := context.Background()

	var raw []byte
	require.NoError(t, c.Do(ctx, &Request{Path: "/file"}, &raw))
	assert.Equal(t, "not json", string(raw))

	var v map[string]any
	err := c.Do(ctx, &Request{Path: "/file"}, &v)
	require.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, "unexpected response from server", Message(err))
}

func TestDo_PreservesTrailingSlash(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode([]int{})
	}, nil)
	require.NoError(t, c.Do(context.Background(), &Request{Path: "/api/raw_questions/"}, nil))
	assert.Equal(t, "/api/raw_questions/", gotPath)
}

func TestDo_RateLimitHonorsContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, nil, WithRateLimit(0.001, 1))
	ctx := context.Background()
	require.NoError(t, c.Do(ctx, &Request{Path: "/x"}, nil))

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := c.Do(short, &Request{Path: "/x"}, nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestPing(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusNotFound)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
	}, nil)

	require.NoError(t, c.Ping(context.Background()))

	status.Store(http.StatusServiceUnavailable)
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "plain", Message(errors.New("plain")))
	assert.Equal(t, "x", Message(&APIError{Status: 400, Message: "x"}))
}
