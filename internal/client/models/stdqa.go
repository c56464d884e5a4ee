package models

type ScoringPoint struct {
	ID         int64   `json:"id,omitempty"`
	Answer     string  `json:"answer" validate:"required"`
	PointOrder int     `json:"point_order,omitempty"`
	Score      float64 `json:"score,omitempty"`
}

type StdQuestion struct {
	ID              int64    `json:"id,omitempty"`
	DatasetID       int64    `json:"dataset_id"`
	QuestionText    string   `json:"question_text"`
	DifficultyLevel string   `json:"difficulty_level,omitempty"`
	KnowledgePoints []string `json:"knowledge_points,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	QuestionType    string   `json:"question_type,omitempty"`
	IsValid         bool     `json:"is_valid,omitempty"`
	Version         int      `json:"version,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
}

type StdAnswer struct {
	ID            int64          `json:"id,omitempty"`
	StdQuestionID int64          `json:"std_question_id,omitempty"`
	AnswerText    string         `json:"answer_text"`
	AnswerType    string         `json:"answer_type,omitempty"`
	ScoringPoints []ScoringPoint `json:"scoring_points,omitempty"`
	TotalScore    float64        `json:"total_score,omitempty"`
	Explanation   string         `json:"explanation,omitempty"`
	IsValid       bool           `json:"is_valid,omitempty"`
	Version       int            `json:"version,omitempty"`
	CreatedAt     string         `json:"created_at,omitempty"`
}

// RelationKind names a relationship-records collection.
type RelationKind string

const (
	RelationStdAnswerRawAnswer     RelationKind = "std-answer-raw-answer"
	RelationStdAnswerExpertAnswer  RelationKind = "std-answer-expert-answer"
	RelationStdQuestionRawQuestion RelationKind = "std-question-raw-question"
)

// Relation links a standard item to the raw or expert item it was derived from.
type Relation struct {
	ID             int64  `json:"id,omitempty"`
	StdQuestionID  int64  `json:"std_question_id,omitempty"`
	StdAnswerID    int64  `json:"std_answer_id,omitempty"`
	RawQuestionID  int64  `json:"raw_question_id,omitempty"`
	RawAnswerID    int64  `json:"raw_answer_id,omitempty"`
	ExpertAnswerID int64  `json:"expert_answer_id,omitempty"`
	Notes          string `json:"notes,omitempty"`
	CreatedBy      string `json:"created_by,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

type StdQAWithRelations struct {
	StdQuestion           StdQuestion `json:"std_question"`
	StdAnswer             StdAnswer   `json:"std_answer"`
	RawQuestionRelations  []Relation  `json:"raw_question_relations,omitempty"`
	RawAnswerRelations    []Relation  `json:"raw_answer_relations,omitempty"`
	ExpertAnswerRelations []Relation  `json:"expert_answer_relations,omitempty"`
}

type CreateStdQARequest struct {
	DatasetID             int64          `json:"dataset_id"`
	QuestionText          string         `json:"question_text"`
	DifficultyLevel       string         `json:"difficulty_level,omitempty"`
	KnowledgePoints       []string       `json:"knowledge_points,omitempty"`
	Tags                  []string       `json:"tags,omitempty"`
	Notes                 string         `json:"notes,omitempty"`
	CreatedBy             int64          `json:"created_by,omitempty"`
	AnswerText            string         `json:"answer_text"`
	AnswerType            string         `json:"answer_type,omitempty"`
	ScoringPoints         []ScoringPoint `json:"scoring_points,omitempty"`
	TotalScore            float64        `json:"total_score,omitempty"`
	Explanation           string         `json:"explanation,omitempty"`
	AnsweredBy            int64          `json:"answered_by,omitempty"`
	RawQuestionRelations  []Relation     `json:"raw_question_relations,omitempty"`
	RawAnswerRelations    []Relation     `json:"raw_answer_relations,omitempty"`
	ExpertAnswerRelations []Relation     `json:"expert_answer_relations,omitempty"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page,omitempty"`
	PerPage int `json:"per_page,omitempty"`
	Pages   int `json:"pages,omitempty"`
}
