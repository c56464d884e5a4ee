// Package storage is the durable on-device key/value store shared by the
// session stores and the working sets. Values are opaque bytes; the JSON
// helpers below are what callers normally use.
//
// Writes are last-write-wins across stores. Each store owns its keys.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Well-known keys.
const (
	KeyToken          = "token"
	KeyIdentity       = "session-identity"
	KeyExpertToken    = "expert-token"
	KeyExpertIdentity = "expert-identity"

	workingSetPrefix = "working-set:"
)

// CredentialKeys are the keys holding bearer tokens and identities.
var CredentialKeys = []string{KeyToken, KeyIdentity, KeyExpertToken, KeyExpertIdentity}

// ErrCorrupted marks a stored value that exists but cannot be decoded.
var ErrCorrupted = errors.New("stored value is corrupted")

// WorkingSetKey returns the key a working set of the given resource persists under.
func WorkingSetKey(resource string) string {
	return workingSetPrefix + resource
}

// Store is a durable key/value store.
//
// Get returns (nil, nil) for a missing key. Delete of a missing key is not an
// error. SetMany and Delete with several keys are atomic.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// GetJSON loads key into v. found is false when the key is absent. A value
// that is not valid JSON for v yields an error wrapping ErrCorrupted.
func GetJSON(ctx context.Context, st Store, key string, v any) (found bool, err error) {
	raw, err := st.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupted, key, err)
	}
	return true, nil
}

// SetJSON stores v under key as JSON.
func SetJSON(ctx context.Context, st Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return st.Set(ctx, key, raw)
}
