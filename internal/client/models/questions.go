package models

import "slices"

// ItemKind tags the three kinds of working-set items.
type ItemKind string

const (
	KindQuestion     ItemKind = "question"
	KindRawAnswer    ItemKind = "raw-answer"
	KindExpertAnswer ItemKind = "expert-answer"
)

// ItemKinds lists every kind in a stable order.
var ItemKinds = []ItemKind{KindQuestion, KindRawAnswer, KindExpertAnswer}

// Valid reports whether k is a known kind.
func (k ItemKind) Valid() bool {
	return slices.Contains(ItemKinds, k)
}

// Timestamps in these types are kept as the server's strings, so a struct
// copy never shares a pointer with the original. Clone only has to copy
// slices.

// RawQuestion is a scraped question that owns its raw and expert answers.
type RawQuestion struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	URL           string         `json:"url,omitempty"`
	Body          string         `json:"body,omitempty"`
	VoteCount     int            `json:"vote_count,omitempty"`
	ViewCount     int            `json:"view_count,omitempty"`
	Author        string         `json:"author,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	IssuedAt      string         `json:"issued_at,omitempty"`
	IsDeleted     bool           `json:"is_deleted"`
	RawAnswers    []RawAnswer    `json:"raw_answers"`
	ExpertAnswers []ExpertAnswer `json:"expert_answers"`
}

// Clone returns a deep copy sharing no mutable state with q.
func (q RawQuestion) Clone() RawQuestion {
	c := q
	c.Tags = slices.Clone(q.Tags)
	c.RawAnswers = slices.Clone(q.RawAnswers)
	c.ExpertAnswers = slices.Clone(q.ExpertAnswers)
	return c
}

// RawAnswer is a scraped answer to a RawQuestion.
type RawAnswer struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Content    string `json:"content"`
	VoteCount  int    `json:"vote_count,omitempty"`
	Author     string `json:"author,omitempty"`
	AnsweredAt string `json:"answered_at,omitempty"`
	IsDeleted  bool   `json:"is_deleted"`
}

// ExpertAnswer is an answer written by an expert for a RawQuestion.
type ExpertAnswer struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Content    string `json:"content"`
	Source     string `json:"source"`
	VoteCount  int    `json:"vote_count,omitempty"`
	Author     string `json:"author,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	IsDeleted  bool   `json:"is_deleted"`
}

// ExpertAnswerCreate is the body of POST /api/expert/answers.
type ExpertAnswerCreate struct {
	QuestionID int64  `json:"question_id"`
	TaskID     int64  `json:"task_id,omitempty"`
	Content    string `json:"content"`
	Source     string `json:"source,omitempty"`
}

// ExpertTask binds an expert to an admin's question pool.
type ExpertTask struct {
	ID            int64  `json:"id"`
	ExpertID      int64  `json:"expert_id"`
	AdminID       int64  `json:"admin_id"`
	InviteCode    string `json:"invite_code,omitempty"`
	Status        string `json:"status,omitempty"`
	Name          string `json:"task_name,omitempty"`
	Description   string `json:"description,omitempty"`
	ExpertName    string `json:"expert_username,omitempty"`
	AdminName     string `json:"admin_username,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	QuestionCount int    `json:"question_count,omitempty"`
}

type ExpertTaskUpdate struct {
	Name        *string `json:"task_name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}
