package workingset

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/dmitrijs2005/qacurator/internal/client/services"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNoParent      = errors.New("owning question is not in the working set")
)

// Remote is the server side of the raw question pool.
// services.RawDataService satisfies it.
type Remote interface {
	Questions(ctx context.Context, opts services.ListOptions) ([]models.RawQuestion, int, error)
	Delete(ctx context.Context, kind models.ItemKind, itemID int64) error
	Restore(ctx context.Context, kind models.ItemKind, itemID int64) error
	ForceDelete(ctx context.Context, kind models.ItemKind, itemID int64) error
	DeleteMany(ctx context.Context, kind models.ItemKind, ids []int64) error
	RestoreMany(ctx context.Context, kind models.ItemKind, ids []int64) error
}

// Synced applies pool mutations to the server first. A local change is made
// only after the server accepted it; a server error is returned unchanged
// and leaves the pool as it was.
type Synced struct {
	pool   *Pool
	remote Remote
}

func NewSynced(pool *Pool, remote Remote) *Synced {
	return &Synced{pool: pool, remote: remote}
}

func (s *Synced) Pool() *Pool { return s.pool }

// Fetch replaces the pool with a page of questions from the server and
// returns the server's total.
func (s *Synced) Fetch(ctx context.Context, opts services.ListOptions) (int, error) {
	qs, total, err := s.remote.Questions(ctx, opts)
	if err != nil {
		return 0, err
	}
	s.pool.Replace(ctx, qs)
	return total, nil
}

// Delete soft-deletes an item on the server, then locally. An item that is
// not in the pool is skipped without a server call.
func (s *Synced) Delete(ctx context.Context, kind models.ItemKind, id int64) error {
	if !s.pool.Contains(kind, id) {
		return nil
	}
	if err := s.remote.Delete(ctx, kind, id); err != nil {
		return err
	}
	s.pool.Delete(ctx, kind, id)
	return nil
}

// DeleteSelected deletes the selection with one bulk call per kind, each
// followed by one local pass. On a server error the kinds already done stay
// deleted and the rest stay selected.
func (s *Synced) DeleteSelected(ctx context.Context) (int, error) {
	n := 0
	for _, kind := range models.ItemKinds {
		ids := s.pool.presentSelected(kind)
		if len(ids) == 0 {
			continue
		}
		if err := s.remote.DeleteMany(ctx, kind, ids); err != nil {
			return n, err
		}
		n += s.pool.deleteIDs(ctx, kind, ids)
	}
	s.pool.ClearSelections()
	return n, nil
}

// Restore restores an item on the server, then locally. An answer whose
// question is not in the pool fails with ErrNoParent before any server call.
func (s *Synced) Restore(ctx context.Context, e Entry) error {
	if !s.pool.canRestore(e) {
		return ErrNoParent
	}
	if err := s.remote.Restore(ctx, e.Kind, e.ID); err != nil {
		return err
	}
	s.pool.Restore(ctx, e)
	return nil
}

// UndoLast restores the most recent deletion.
func (s *Synced) UndoLast(ctx context.Context) (Entry, error) {
	deleted := s.pool.RecentlyDeleted()
	if len(deleted) == 0 {
		return Entry{}, ErrNothingToUndo
	}
	return deleted[0], s.Restore(ctx, deleted[0])
}

// RestoreAll restores the undo buffer with one bulk call per kind.
func (s *Synced) RestoreAll(ctx context.Context) (int, error) {
	n := 0
	for _, kind := range models.ItemKinds {
		s.pool.mu.Lock()
		entries := s.pool.restorable(kind)
		s.pool.mu.Unlock()
		if len(entries) == 0 {
			continue
		}
		ids := make([]int64, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		if err := s.remote.RestoreMany(ctx, kind, ids); err != nil {
			return n, err
		}
		n += s.pool.restoreEntries(ctx, entries)
	}
	return n, nil
}

// Purge deletes a buffered item permanently on the server and drops it from
// the undo buffer.
func (s *Synced) Purge(ctx context.Context, e Entry) error {
	if err := s.remote.ForceDelete(ctx, e.Kind, e.ID); err != nil {
		return err
	}
	s.pool.Forget(ctx, e)
	return nil
}
