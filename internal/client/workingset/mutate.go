package workingset

import (
	"context"
	"maps"
	"slices"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

// push puts e at the head of the undo buffer, evicting the oldest entry past
// UndoCapacity.
func (p *Pool) push(e Entry) {
	p.deleted = slices.Insert(p.deleted, 0, e)
	if len(p.deleted) > UndoCapacity {
		clear(p.deleted[UndoCapacity:])
		p.deleted = p.deleted[:UndoCapacity]
	}
}

// removeMany drops every item of kind whose id is in ids with one pass over
// the collection and buffers a snapshot of each. Missing ids are skipped.
func (p *Pool) removeMany(kind models.ItemKind, ids map[int64]struct{}) int {
	if len(ids) == 0 {
		return 0
	}
	n := 0
	switch kind {
	case models.KindQuestion:
		p.questions = slices.DeleteFunc(p.questions, func(q models.RawQuestion) bool {
			if _, ok := ids[q.ID]; !ok {
				return false
			}
			p.push(questionEntry(q))
			n++
			return true
		})
	case models.KindRawAnswer:
		for i := range p.questions {
			q := &p.questions[i]
			q.RawAnswers = slices.DeleteFunc(q.RawAnswers, func(a models.RawAnswer) bool {
				if _, ok := ids[a.ID]; !ok {
					return false
				}
				p.push(rawAnswerEntry(a, q.ID))
				n++
				return true
			})
		}
	case models.KindExpertAnswer:
		for i := range p.questions {
			q := &p.questions[i]
			q.ExpertAnswers = slices.DeleteFunc(q.ExpertAnswers, func(a models.ExpertAnswer) bool {
				if _, ok := ids[a.ID]; !ok {
					return false
				}
				p.push(expertAnswerEntry(a, q.ID))
				n++
				return true
			})
		}
	}
	for id := range ids {
		delete(p.selected[kind], id)
	}
	p.pruneSelection()
	return n
}

// pruneSelection drops selected ids whose item left the pool.
func (p *Pool) pruneSelection() {
	for kind, set := range p.selected {
		for id := range set {
			if _, _, ok := p.locate(kind, id); !ok {
				delete(set, id)
			}
		}
	}
}

// Delete removes an item and keeps a snapshot of it for undo. Deleting a
// question removes its answers with it. It reports false, changing nothing,
// when the item is not in the pool.
func (p *Pool) Delete(ctx context.Context, kind models.ItemKind, id int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, _, ok := p.locate(kind, id); !ok {
		return false
	}
	p.removeMany(kind, map[int64]struct{}{id: {}})
	p.save(ctx)
	return true
}

// DeleteSelected deletes every selected item, questions first, and clears the
// selection. Ids whose item is already gone are skipped. It returns the
// number of items deleted.
func (p *Pool) DeleteSelected(ctx context.Context) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, kind := range models.ItemKinds {
		n += p.removeMany(kind, maps.Clone(p.selected[kind]))
	}
	p.selected = newSelection()
	if n > 0 {
		p.save(ctx)
	}
	return n
}

// restore puts the snapshot of e back. A question goes to the head of the
// list, an answer to the end of its question's list; an item with the same
// id already there is overwritten in place. It reports false when the owning
// question of an answer is not in the pool.
func (p *Pool) restore(e Entry) bool {
	e = e.Clone()
	switch e.Kind {
	case models.KindQuestion:
		if e.Question == nil {
			return false
		}
		if i := p.questionIndex(e.ID); i >= 0 {
			p.questions[i] = *e.Question
			p.pruneSelection()
		} else {
			p.questions = slices.Insert(p.questions, 0, *e.Question)
		}
	case models.KindRawAnswer:
		qi := p.questionIndex(e.ParentID)
		if qi < 0 || e.RawAnswer == nil {
			return false
		}
		q := &p.questions[qi]
		if j := slices.IndexFunc(q.RawAnswers, func(a models.RawAnswer) bool { return a.ID == e.ID }); j >= 0 {
			q.RawAnswers[j] = *e.RawAnswer
		} else {
			q.RawAnswers = append(q.RawAnswers, *e.RawAnswer)
		}
	case models.KindExpertAnswer:
		qi := p.questionIndex(e.ParentID)
		if qi < 0 || e.ExpertAnswer == nil {
			return false
		}
		q := &p.questions[qi]
		if j := slices.IndexFunc(q.ExpertAnswers, func(a models.ExpertAnswer) bool { return a.ID == e.ID }); j >= 0 {
			q.ExpertAnswers[j] = *e.ExpertAnswer
		} else {
			q.ExpertAnswers = append(q.ExpertAnswers, *e.ExpertAnswer)
		}
	default:
		return false
	}

	if i := slices.IndexFunc(p.deleted, e.same); i >= 0 {
		p.deleted = slices.Delete(p.deleted, i, i+1)
	}
	return true
}

// Restore puts a deleted item back and removes its entry from the undo
// buffer. It reports false, changing nothing, when an answer's question is no
// longer in the pool; the entry then stays in the buffer.
func (p *Pool) Restore(ctx context.Context, e Entry) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.restore(e) {
		return false
	}
	p.save(ctx)
	return true
}

// UndoLast restores the most recent deletion.
func (p *Pool) UndoLast(ctx context.Context) (Entry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.deleted) == 0 {
		return Entry{}, false
	}
	e := p.deleted[0].Clone()
	if !p.restore(e) {
		return e, false
	}
	p.save(ctx)
	return e, true
}

// ClearRecentlyDeleted empties the undo buffer. Buffered items become
// unrecoverable.
func (p *Pool) ClearRecentlyDeleted(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = nil
	p.save(ctx)
}

// AddQuestion puts q at the head of the pool, or overwrites the question
// with the same id.
func (p *Pool) AddQuestion(ctx context.Context, q models.RawQuestion) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q = q.Clone()
	if i := p.questionIndex(q.ID); i >= 0 {
		p.questions[i] = q
		p.pruneSelection()
	} else {
		p.questions = slices.Insert(p.questions, 0, q)
	}
	p.save(ctx)
}

// UpdateQuestion overwrites an existing question. It reports false when no
// question has q's id.
func (p *Pool) UpdateQuestion(ctx context.Context, q models.RawQuestion) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.questionIndex(q.ID)
	if i < 0 {
		return false
	}
	p.questions[i] = q.Clone()
	p.pruneSelection()
	p.save(ctx)
	return true
}

// AddRawAnswer appends a to the question named by a.QuestionID. An answer
// with the same id is overwritten.
func (p *Pool) AddRawAnswer(ctx context.Context, a models.RawAnswer) bool {
	return p.putRawAnswer(ctx, a, true)
}

// UpdateRawAnswer overwrites an existing raw answer.
func (p *Pool) UpdateRawAnswer(ctx context.Context, a models.RawAnswer) bool {
	return p.putRawAnswer(ctx, a, false)
}

func (p *Pool) putRawAnswer(ctx context.Context, a models.RawAnswer, add bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	qi := p.questionIndex(a.QuestionID)
	if qi < 0 {
		return false
	}
	q := &p.questions[qi]
	j := slices.IndexFunc(q.RawAnswers, func(x models.RawAnswer) bool { return x.ID == a.ID })
	switch {
	case j >= 0:
		q.RawAnswers[j] = a
	case add:
		q.RawAnswers = append(q.RawAnswers, a)
	default:
		return false
	}
	p.save(ctx)
	return true
}

// AddExpertAnswer appends a to the question named by a.QuestionID. An
// answer with the same id is overwritten.
func (p *Pool) AddExpertAnswer(ctx context.Context, a models.ExpertAnswer) bool {
	return p.putExpertAnswer(ctx, a, true)
}

func (p *Pool) UpdateExpertAnswer(ctx context.Context, a models.ExpertAnswer) bool {
	return p.putExpertAnswer(ctx, a, false)
}

func (p *Pool) putExpertAnswer(ctx context.Context, a models.ExpertAnswer, add bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	qi := p.questionIndex(a.QuestionID)
	if qi < 0 {
		return false
	}
	q := &p.questions[qi]
	j := slices.IndexFunc(q.ExpertAnswers, func(x models.ExpertAnswer) bool { return x.ID == a.ID })
	switch {
	case j >= 0:
		q.ExpertAnswers[j] = a
	case add:
		q.ExpertAnswers = append(q.ExpertAnswers, a)
	default:
		return false
	}
	p.save(ctx)
	return true
}

// Replace swaps the collection for qs, as fetched from the server. The undo
// buffer is kept; selected ids that are no longer present are dropped.
func (p *Pool) Replace(ctx context.Context, qs []models.RawQuestion) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.questions = make([]models.RawQuestion, len(qs))
	for i, q := range qs {
		p.questions[i] = q.Clone()
	}
	p.pruneSelection()
	p.save(ctx)
}

// RestoreAll restores every buffered item it can, questions first so that
// answers find their owner. It returns the number restored.
func (p *Pool) RestoreAll(ctx context.Context) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, kind := range models.ItemKinds {
		for _, e := range p.restorable(kind) {
			if p.restore(e) {
				n++
			}
		}
	}
	if n > 0 {
		p.save(ctx)
	}
	return n
}

// restorable returns the buffered entries of kind whose owner is present.
func (p *Pool) restorable(kind models.ItemKind) []Entry {
	var out []Entry
	for _, e := range p.deleted {
		if e.Kind != kind {
			continue
		}
		if kind != models.KindQuestion && p.questionIndex(e.ParentID) < 0 {
			continue
		}
		out = append(out, e.Clone())
	}
	return out
}

// Forget drops an entry from the undo buffer without restoring it.
func (p *Pool) Forget(ctx context.Context, e Entry) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := slices.IndexFunc(p.deleted, e.same)
	if i < 0 {
		return false
	}
	p.deleted = slices.Delete(p.deleted, i, i+1)
	p.save(ctx)
	return true
}

func (p *Pool) canRestore(e Entry) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return e.Kind == models.KindQuestion || p.questionIndex(e.ParentID) >= 0
}

// presentSelected returns the selected ids of kind whose item is in the pool.
func (p *Pool) presentSelected(kind models.ItemKind) []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	var ids []int64
	for id := range p.selected[kind] {
		if _, _, ok := p.locate(kind, id); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (p *Pool) deleteIDs(ctx context.Context, kind models.ItemKind, ids []int64) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	n := p.removeMany(kind, set)
	if n > 0 {
		p.save(ctx)
	}
	return n
}

func (p *Pool) restoreEntries(ctx context.Context, entries []Entry) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range entries {
		if p.restore(e) {
			n++
		}
	}
	if n > 0 {
		p.save(ctx)
	}
	return n
}
