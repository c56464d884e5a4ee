package workingset

import (
	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

// UndoCapacity is the number of deletions kept for undo. The oldest entry is
// dropped when a deletion would exceed it.
const UndoCapacity = 10

// Entry is a deleted item kept for undo. Exactly one of the snapshot fields
// is set, matching Kind. ParentID is the owning question of an answer.
type Entry struct {
	Kind         models.ItemKind      `json:"type"`
	ID           int64                `json:"id"`
	ParentID     int64                `json:"question_id,omitempty"`
	Question     *models.RawQuestion  `json:"question,omitempty"`
	RawAnswer    *models.RawAnswer    `json:"raw_answer,omitempty"`
	ExpertAnswer *models.ExpertAnswer `json:"expert_answer,omitempty"`
}

func questionEntry(q models.RawQuestion) Entry {
	c := q.Clone()
	return Entry{Kind: models.KindQuestion, ID: q.ID, Question: &c}
}

func rawAnswerEntry(a models.RawAnswer, parentID int64) Entry {
	c := a
	return Entry{Kind: models.KindRawAnswer, ID: a.ID, ParentID: parentID, RawAnswer: &c}
}

func expertAnswerEntry(a models.ExpertAnswer, parentID int64) Entry {
	c := a
	return Entry{Kind: models.KindExpertAnswer, ID: a.ID, ParentID: parentID, ExpertAnswer: &c}
}

// Clone returns a copy of e that shares no memory with it.
func (e Entry) Clone() Entry {
	c := e
	if e.Question != nil {
		q := e.Question.Clone()
		c.Question = &q
	}
	if e.RawAnswer != nil {
		a := *e.RawAnswer
		c.RawAnswer = &a
	}
	if e.ExpertAnswer != nil {
		a := *e.ExpertAnswer
		c.ExpertAnswer = &a
	}
	return c
}

// valid reports whether the snapshot matches the kind. Entries read back
// from storage are checked with it.
func (e Entry) valid() bool {
	switch e.Kind {
	case models.KindQuestion:
		return e.Question != nil && e.Question.ID == e.ID
	case models.KindRawAnswer:
		return e.RawAnswer != nil && e.RawAnswer.ID == e.ID && e.ParentID != 0
	case models.KindExpertAnswer:
		return e.ExpertAnswer != nil && e.ExpertAnswer.ID == e.ID && e.ParentID != 0
	}
	return false
}

func (e Entry) same(o Entry) bool {
	return e.Kind == o.Kind && e.ID == o.ID
}
