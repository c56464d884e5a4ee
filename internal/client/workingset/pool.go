// Package workingset holds the local working copy of the raw question pool:
// questions with their nested raw and expert answers, per-kind selection
// sets and a bounded undo buffer of deleted items.
//
// Pool methods only touch local state and never fail; storage problems are
// logged. Synced layers the remote service calls on top of a Pool.
package workingset

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/dmitrijs2005/qacurator/internal/client/storage"
	"github.com/dmitrijs2005/qacurator/internal/logging"
)

// DefaultResource names the raw question pool in durable storage.
const DefaultResource = "raw-questions"

// snapshot is the persisted form of a pool.
type snapshot struct {
	Questions       []models.RawQuestion `json:"questions"`
	RecentlyDeleted []Entry              `json:"recently_deleted"`
	SavedAt         time.Time            `json:"saved_at"`
}

type Option func(*Pool)

// WithResource changes the storage key suffix.
func WithResource(name string) Option {
	return func(p *Pool) { p.key = storage.WorkingSetKey(name) }
}

// WithClock overrides the time source used for saved_at.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) { p.now = now }
}

// Pool is the working set. It is safe for concurrent use, but callers must
// still serialize a delete and a restore of the same item.
type Pool struct {
	st  storage.Store
	key string
	log logging.Logger
	now func() time.Time

	mu        sync.Mutex
	questions []models.RawQuestion
	selected  map[models.ItemKind]map[int64]struct{}
	deleted   []Entry
	savedAt   time.Time
}

// Open creates a pool and rehydrates it from st. A missing snapshot yields an
// empty pool; a corrupted one is removed and also yields an empty pool. Other
// storage errors are returned. st may be nil for a pool that is never saved.
func Open(ctx context.Context, st storage.Store, log logging.Logger, opts ...Option) (*Pool, error) {
	if log == nil {
		log = logging.Discard()
	}
	p := &Pool{
		st:       st,
		key:      storage.WorkingSetKey(DefaultResource),
		log:      log.With("component", "workingset"),
		now:      time.Now,
		selected: newSelection(),
	}
	for _, o := range opts {
		o(p)
	}
	if st == nil {
		return p, nil
	}

	var snap snapshot
	found, err := storage.GetJSON(ctx, st, p.key, &snap)
	switch {
	case errors.Is(err, storage.ErrCorrupted):
		p.log.Warn(ctx, "discarding corrupted working set", "key", p.key, "error", err)
		if derr := st.Delete(ctx, p.key); derr != nil {
			return nil, derr
		}
		return p, nil
	case err != nil:
		return nil, err
	case !found:
		return p, nil
	}

	p.questions = snap.Questions
	for _, e := range snap.RecentlyDeleted {
		if e.valid() && len(p.deleted) < UndoCapacity {
			p.deleted = append(p.deleted, e)
		}
	}
	p.savedAt = snap.SavedAt
	p.log.Debug(ctx, "working set restored", "questions", len(p.questions), "deleted", len(p.deleted))
	return p, nil
}

func newSelection() map[models.ItemKind]map[int64]struct{} {
	s := make(map[models.ItemKind]map[int64]struct{}, len(models.ItemKinds))
	for _, k := range models.ItemKinds {
		s[k] = map[int64]struct{}{}
	}
	return s
}

// save mirrors the pool to durable storage. Caller holds mu.
func (p *Pool) save(ctx context.Context) {
	if p.st == nil {
		return
	}
	snap := snapshot{Questions: p.questions, RecentlyDeleted: p.deleted, SavedAt: p.now().UTC()}
	if snap.Questions == nil {
		snap.Questions = []models.RawQuestion{}
	}
	if snap.RecentlyDeleted == nil {
		snap.RecentlyDeleted = []Entry{}
	}
	if err := storage.SetJSON(ctx, p.st, p.key, snap); err != nil {
		p.log.Error(ctx, "failed to save working set", "key", p.key, "error", err)
		return
	}
	p.savedAt = snap.SavedAt
}

// Questions returns a deep copy of the collection in display order.
func (p *Pool) Questions() []models.RawQuestion {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.RawQuestion, len(p.questions))
	for i, q := range p.questions {
		out[i] = q.Clone()
	}
	return out
}

// Question returns a copy of the question with the given id.
func (p *Pool) Question(id int64) (models.RawQuestion, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.questionIndex(id); i >= 0 {
		return p.questions[i].Clone(), true
	}
	return models.RawQuestion{}, false
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.questions)
}

// RecentlyDeleted returns the undo buffer, most recent first.
func (p *Pool) RecentlyDeleted() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Entry, len(p.deleted))
	for i, e := range p.deleted {
		out[i] = e.Clone()
	}
	return out
}

// SavedAt is when the pool was last written to storage.
func (p *Pool) SavedAt() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.savedAt
}

func (p *Pool) questionIndex(id int64) int {
	return slices.IndexFunc(p.questions, func(q models.RawQuestion) bool { return q.ID == id })
}

// locate finds the item of kind with the given id. For answers qi is the
// index of the owning question and ai the index within its list.
func (p *Pool) locate(kind models.ItemKind, id int64) (qi, ai int, ok bool) {
	switch kind {
	case models.KindQuestion:
		qi = p.questionIndex(id)
		return qi, -1, qi >= 0
	case models.KindRawAnswer:
		for i, q := range p.questions {
			if j := slices.IndexFunc(q.RawAnswers, func(a models.RawAnswer) bool { return a.ID == id }); j >= 0 {
				return i, j, true
			}
		}
	case models.KindExpertAnswer:
		for i, q := range p.questions {
			if j := slices.IndexFunc(q.ExpertAnswers, func(a models.ExpertAnswer) bool { return a.ID == id }); j >= 0 {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}

// Contains reports whether an item of kind with the given id is in the pool.
func (p *Pool) Contains(kind models.ItemKind, id int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _, ok := p.locate(kind, id)
	return ok
}
