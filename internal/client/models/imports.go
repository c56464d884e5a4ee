package models

// ImportKind declares the shape of records in an import batch.
type ImportKind string

const (
	ImportRawQA         ImportKind = "raw-qa"
	ImportExpertAnswers ImportKind = "expert-answers"
	ImportStdQA         ImportKind = "std-qa"
)

// RawQARecord is one question of a raw-qa import.
type RawQARecord struct {
	Title    string           `json:"title" validate:"required"`
	Body     string           `json:"body,omitempty"`
	URL      string           `json:"url,omitempty" validate:"omitempty,url"`
	Votes    any              `json:"votes,omitempty"`
	Views    any              `json:"views,omitempty"`
	Author   string           `json:"author,omitempty"`
	Tags     []string         `json:"tags,omitempty"`
	IssuedAt string           `json:"issued_at,omitempty"`
	Answers  []RawAnswerInput `json:"answers,omitempty" validate:"dive"`
}

type RawAnswerInput struct {
	Answer     string `json:"answer" validate:"required"`
	Upvotes    any    `json:"upvotes,omitempty"`
	AnsweredBy string `json:"answered_by,omitempty"`
	AnsweredAt string `json:"answered_at,omitempty"`
}

// ExpertAnswerRecord attaches an expert answer to a question by id or title.
type ExpertAnswerRecord struct {
	QuestionID int64  `json:"question_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Content    string `json:"content" validate:"required"`
	Source     string `json:"source,omitempty"`
	ExpertID   int64  `json:"expert_id,omitempty"`
}

// StdQARecord is one standard question with an optional reference answer.
type StdQARecord struct {
	Body           string         `json:"body" validate:"required"`
	QuestionType   string         `json:"question_type,omitempty"`
	Answer         string         `json:"answer,omitempty"`
	AnsweredBy     string         `json:"answered_by,omitempty"`
	ScoringPoints  []ScoringPoint `json:"scoring_points,omitempty" validate:"dive"`
	RawQuestionIDs []int64        `json:"raw_question_ids,omitempty"`
	RawAnswerIDs   []int64        `json:"raw_answer_ids,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
}

// ImportResult is the server's summary of an import.
type ImportResult struct {
	Message               string `json:"message"`
	ImportedQuestions     int    `json:"imported_questions"`
	ImportedAnswers       int    `json:"imported_answers"`
	ImportedExpertAnswers int    `json:"imported_expert_answers,omitempty"`
	ImportedScoringPoints int    `json:"imported_scoring_points,omitempty"`
	ImportedRelationships int    `json:"imported_relationships,omitempty"`
}

// ImportDataset is a dataset as listed by the import endpoints.
type ImportDataset struct {
	ID          int64  `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description"`
	CreateTime  string `json:"create_time"`
}

// ImportDatasetCreated acknowledges a dataset created for an import.
type ImportDatasetCreated struct {
	DatasetID   int64  `json:"dataset_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
