package models

type Dataset struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedBy   int64  `json:"created_by"`
	IsPublic    bool   `json:"is_public"`
	Version     int    `json:"version,omitempty"`
	CreateTime  string `json:"create_time"`
}

// DatasetWithStats is a marketplace entry.
type DatasetWithStats struct {
	Dataset
	StdQuestionsCount int    `json:"std_questions_count"`
	StdAnswersCount   int    `json:"std_answers_count"`
	RawQuestionsCount int    `json:"raw_questions_count"`
	CreatorUsername   string `json:"creator_username,omitempty"`
}

type DatasetCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// DatasetUpdate carries only the fields to change.
type DatasetUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

type DatasetStats struct {
	DatasetID         int64  `json:"dataset_id"`
	Description       string `json:"description"`
	CreateTime        string `json:"create_time"`
	StdQuestionsCount int    `json:"std_questions_count"`
	StdAnswersCount   int    `json:"std_answers_count"`
}

// DatasetVersion is a committed snapshot of a dataset.
type DatasetVersion struct {
	ID          int64  `json:"id"`
	DatasetID   int64  `json:"dataset_id"`
	Version     int    `json:"version"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsPublic    bool   `json:"is_public"`
	IsCommitted bool   `json:"is_committed"`
	CreatedBy   int64  `json:"created_by,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type VersionCreate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type VersionPublish struct {
	IsPublic bool `json:"is_public"`
}

type VersionAnswerInput struct {
	Answer        string         `json:"answer"`
	AnsweredBy    string         `json:"answered_by,omitempty"`
	ScoringPoints []ScoringPoint `json:"scoring_points,omitempty"`
}

type VersionQuestionUpdate struct {
	Body         *string              `json:"body,omitempty"`
	QuestionType *string              `json:"question_type,omitempty"`
	Tags         []string             `json:"tags,omitempty"`
	StdAnswers   []VersionAnswerInput `json:"std_answers,omitempty"`
}

type VersionQuestionInput struct {
	Body         string   `json:"body"`
	QuestionType string   `json:"question_type"`
	Tags         []string `json:"tags,omitempty"`
}

type VersionQACreate struct {
	Question VersionQuestionInput `json:"question"`
	Answer   VersionAnswerInput   `json:"answer"`
}

// VersionWork is an in-progress edit session that ends in a new version.
type VersionWork struct {
	ID            int64  `json:"id"`
	DatasetID     int64  `json:"dataset_id"`
	TargetVersion int    `json:"target_version,omitempty"`
	WorkName      string `json:"work_name"`
	Description   string `json:"work_description,omitempty"`
	Status        string `json:"status"`
	CreatedBy     int64  `json:"created_by,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

type VersionWorkCreate struct {
	DatasetID     int64  `json:"dataset_id"`
	TargetVersion int    `json:"target_version,omitempty"`
	WorkName      string `json:"work_name"`
	Description   string `json:"work_description,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

type VersionWorkStatistics struct {
	TotalQuestions    int `json:"total_questions"`
	TotalAnswers      int `json:"total_answers"`
	ModifiedQuestions int `json:"modified_questions"`
	NewQuestions      int `json:"new_questions"`
	DeletedQuestions  int `json:"deleted_questions"`
}

// CreateVersionResult is returned when a version work is turned into a version.
type CreateVersionResult struct {
	Message    string `json:"message"`
	DatasetID  int64  `json:"dataset_id"`
	NewVersion int    `json:"new_version"`
}
