// Package session holds the authenticated identity and bearer token of one
// principal (a user or an expert) and keeps them in durable storage.
//
// The identity and the token are written and removed together: a session is
// either complete or absent.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/dmitrijs2005/qacurator/internal/client/storage"
	"github.com/dmitrijs2005/qacurator/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// ErrPartialSession is returned when an identity would be stored without a token.
var ErrPartialSession = errors.New("identity without token")

// Keys names the durable records of one session.
type Keys struct {
	Token    string
	Identity string
}

var (
	UserKeys   = Keys{Token: storage.KeyToken, Identity: storage.KeyIdentity}
	ExpertKeys = Keys{Token: storage.KeyExpertToken, Identity: storage.KeyExpertIdentity}
)

// State is a snapshot of the persisted session.
type State struct {
	Identity *models.Identity
	Token    string
}

// Complete reports whether both the identity and the token are present.
func (s State) Complete() bool {
	return s.Identity != nil && s.Token != ""
}

// Empty reports whether neither record is present.
func (s State) Empty() bool {
	return s.Identity == nil && s.Token == ""
}

// Store is a session bound to one pair of durable keys.
type Store struct {
	st   storage.Store
	keys Keys
	log  logging.Logger

	mu       sync.RWMutex
	identity *models.Identity
	token    string
}

// New returns an empty store. Call LoadFromStorage to pick up a persisted session.
func New(st storage.Store, keys Keys, log logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{st: st, keys: keys, log: log.With("session", keys.Identity)}
}

// Keys returns the durable keys the store owns.
func (s *Store) Keys() Keys { return s.keys }

// SetIdentity replaces the current identity. A non-empty token replaces the
// current token too; both are written in one storage transaction. Passing no
// token while none is held fails with ErrPartialSession and writes nothing.
func (s *Store) SetIdentity(ctx context.Context, identity models.Identity, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" && s.token == "" {
		return ErrPartialSession
	}

	rawIdentity, err := marshal(identity)
	if err != nil {
		return err
	}
	values := map[string][]byte{s.keys.Identity: rawIdentity}
	if token != "" {
		rawToken, err := marshal(token)
		if err != nil {
			return err
		}
		values[s.keys.Token] = rawToken
	}
	if err := s.st.SetMany(ctx, values); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.identity = &identity
	if token != "" {
		s.token = token
	}
	return nil
}

// Clear removes the identity and the token from memory and durable storage.
// Clearing an empty session is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx)
}

func (s *Store) clearLocked(ctx context.Context) error {
	s.identity = nil
	s.token = ""
	if err := s.st.Delete(ctx, s.keys.Token, s.keys.Identity); err != nil {
		return fmt.Errorf("purge session: %w", err)
	}
	return nil
}

// Read returns the session as currently persisted, bypassing the in-memory
// copy. A record that cannot be decoded, or an identity without id or role,
// is treated as absent and both records are purged; this never surfaces as
// an error. The error is reserved for storage failures.
func (s *Store) Read(ctx context.Context) (State, error) {
	var (
		state    State
		identity models.Identity
		token    string
	)

	found, err := storage.GetJSON(ctx, s.st, s.keys.Identity, &identity)
	if err == nil && found {
		if identity.ID == 0 || identity.Role == "" {
			err = fmt.Errorf("%w: identity without id or role", storage.ErrCorrupted)
		} else {
			state.Identity = &identity
		}
	}
	if err == nil {
		_, err = storage.GetJSON(ctx, s.st, s.keys.Token, &token)
		state.Token = token
	}

	if errors.Is(err, storage.ErrCorrupted) {
		s.log.Warn(ctx, "corrupted session record purged", "error", err)
		if perr := s.st.Delete(ctx, s.keys.Token, s.keys.Identity); perr != nil {
			return State{}, fmt.Errorf("purge corrupted session: %w", perr)
		}
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}
	return state, nil
}

// LoadFromStorage replaces the in-memory session with the persisted one.
// It never fails: an unreadable or partial session leaves the store cleared.
func (s *Store) LoadFromStorage(ctx context.Context) {
	state, err := s.Read(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.log.Error(ctx, "session load failed", "error", err)
		s.identity, s.token = nil, ""
		return
	}
	if !state.Complete() {
		if !state.Empty() {
			s.log.Warn(ctx, "partial session purged")
			if err := s.clearLocked(ctx); err != nil {
				s.log.Error(ctx, "session purge failed", "error", err)
			}
		}
		s.identity, s.token = nil, ""
		return
	}
	s.identity = state.Identity
	s.token = state.Token
}

// CurrentToken returns the persisted bearer token, or "" when there is none.
func (s *Store) CurrentToken(ctx context.Context) (string, error) {
	state, err := s.Read(ctx)
	if err != nil {
		return "", err
	}
	return state.Token, nil
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the in-memory bearer token.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Identity returns a copy of the in-memory identity.
func (s *Store) Identity() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

func (s *Store) field(get func(models.Identity) string) string {
	id, ok := s.Identity()
	if !ok {
		return ""
	}
	return get(id)
}

func (s *Store) Name() string {
	return s.field(func(i models.Identity) string { return i.DisplayName() })
}

func (s *Store) Email() string {
	return s.field(func(i models.Identity) string { return i.Email })
}

func (s *Store) Username() string {
	return s.field(func(i models.Identity) string { return i.Username })
}

func (s *Store) Role() models.Role {
	return models.Role(s.field(func(i models.Identity) string { return string(i.Role) }))
}

// Claims is what the client can tell about its token without the server key.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// TokenClaims decodes the held token without verifying its signature.
// Tokens that are not JWTs yield an error.
func (s *Store) TokenClaims() (Claims, error) {
	token := s.Token()
	if token == "" {
		return Claims{}, ErrNoToken
	}
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}
	var c Claims
	c.Subject = rc.Subject
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}

// ErrNoToken is returned by TokenClaims on an unauthenticated store.
var ErrNoToken = errors.New("no token held")

func marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return raw, nil
}
