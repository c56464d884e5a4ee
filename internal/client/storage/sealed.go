package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/qacurator/internal/cryptox"
)

// SaltKey holds the argon2 salt of a Sealed store. It is stored in clear.
const SaltKey = "storage-salt"

// Sealed encrypts the values of selected keys before they reach the inner
// store. A sealed value that fails authentication reads as ErrCorrupted,
// which the session stores treat like malformed JSON.
type Sealed struct {
	inner  Store
	sealer *cryptox.Sealer
	salt   []byte
	keys   map[string]bool
}

// NewSealed derives the sealing key from passphrase and the salt kept in
// inner, creating the salt on first use. Only the listed keys are sealed;
// with none listed, CredentialKeys are used.
func NewSealed(ctx context.Context, inner Store, passphrase []byte, keys ...string) (*Sealed, error) {
	salt, err := inner.Get(ctx, SaltKey)
	if err != nil {
		return nil, err
	}
	if len(salt) != cryptox.SaltSize {
		salt = cryptox.NewSalt()
		if err := inner.Set(ctx, SaltKey, salt); err != nil {
			return nil, fmt.Errorf("store salt: %w", err)
		}
	}

	sealer, err := cryptox.NewSealer(cryptox.DeriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		keys = CredentialKeys
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return &Sealed{inner: inner, sealer: sealer, salt: salt, keys: set}, nil
}

func (s *Sealed) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.inner.Get(ctx, key)
	if err != nil || raw == nil || !s.keys[key] {
		return raw, err
	}
	plain, err := s.sealer.Open(raw, []byte(key))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupted, key, err)
	}
	return plain, nil
}

func (s *Sealed) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, key, s.seal(key, value))
}

func (s *Sealed) SetMany(ctx context.Context, values map[string][]byte) error {
	sealed := make(map[string][]byte, len(values))
	for k, v := range values {
		sealed[k] = s.seal(k, v)
	}
	return s.inner.SetMany(ctx, sealed)
}

func (s *Sealed) Delete(ctx context.Context, keys ...string) error {
	return s.inner.Delete(ctx, keys...)
}

// List returns opened values; sealed entries that fail to open are left out.
func (s *Sealed) List(ctx context.Context) (map[string][]byte, error) {
	all, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	delete(all, SaltKey)
	for k, v := range all {
		if !s.keys[k] {
			continue
		}
		plain, err := s.sealer.Open(v, []byte(k))
		if err != nil {
			delete(all, k)
			continue
		}
		all[k] = plain
	}
	return all, nil
}

// Clear removes everything but keeps the salt so the derived key stays valid.
func (s *Sealed) Clear(ctx context.Context) error {
	if err := s.inner.Clear(ctx); err != nil {
		return err
	}
	return s.inner.Set(ctx, SaltKey, s.salt)
}

func (s *Sealed) seal(key string, value []byte) []byte {
	if !s.keys[key] {
		return value
	}
	return s.sealer.Seal(value, []byte(key))
}
