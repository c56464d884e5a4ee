package models

import "encoding/json"

// TaskStatus is the lifecycle state of an evaluation task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
	TaskCancelled TaskStatus = "cancelled"
)

// Terminal reports whether the task will not change any more.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskCompleted, TaskFailed, TaskCancelled:
		return true
	}
	return false
}

// ModelConfig carries the model settings of a new evaluation task.
type ModelConfig struct {
	ModelID         int64   `json:"model_id"`
	APIKey          string  `json:"api_key,omitempty"`
	SystemPrompt    string  `json:"system_prompt,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
	MaxTokens       int     `json:"max_tokens,omitempty"`
	TopK            int     `json:"top_k,omitempty"`
	EnableReasoning bool    `json:"enable_reasoning,omitempty"`
}

// EvaluationTaskCreate starts an evaluation of a dataset against a model.
type EvaluationTaskCreate struct {
	DatasetID        int64          `json:"dataset_id"`
	TaskName         string         `json:"task_name"`
	ModelConfig      ModelConfig    `json:"model_config"`
	EvaluationConfig map[string]any `json:"evaluation_config,omitempty"`
	IsAutoScore      bool           `json:"is_auto_score"`
	QuestionLimit    int            `json:"question_limit,omitempty"`
}

type EvaluationTask struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	DatasetID          int64      `json:"dataset_id"`
	ModelID            int64      `json:"model_id"`
	CreatedBy          int64      `json:"created_by"`
	CreatedAt          string     `json:"created_at,omitempty"`
	Status             TaskStatus `json:"status"`
	Progress           int        `json:"progress"`
	Score              float64    `json:"score,omitempty"`
	TotalQuestions     int        `json:"total_questions"`
	CompletedQuestions int        `json:"completed_questions"`
	FailedQuestions    int        `json:"failed_questions"`
	StartedAt          string     `json:"started_at,omitempty"`
	CompletedAt        string     `json:"completed_at,omitempty"`
	ErrorMessage       string     `json:"error_message,omitempty"`
}

// TaskProgress is one progress sample of a running task.
type TaskProgress struct {
	TaskID             int64      `json:"task_id"`
	Status             TaskStatus `json:"status"`
	Progress           int        `json:"progress"`
	TotalQuestions     int        `json:"total_questions"`
	CompletedQuestions int        `json:"completed_questions"`
	FailedQuestions    int        `json:"failed_questions"`
	RemainingSeconds   int        `json:"estimated_remaining_time,omitempty"`
	ErrorMessage       string     `json:"error_message,omitempty"`
}

// ManualEvaluation scores one LLM answer by hand.
type ManualEvaluation struct {
	LLMAnswerID int64   `json:"llm_answer_id"`
	Score       float64 `json:"score"`
	Feedback    string  `json:"feedback,omitempty"`
}

type EvaluationResult struct {
	ID             int64   `json:"id"`
	LLMAnswerID    int64   `json:"llm_answer_id,omitempty"`
	Score          float64 `json:"score"`
	EvaluatorType  string  `json:"evaluator_type"`
	Feedback       string  `json:"feedback,omitempty"`
	EvaluationTime string  `json:"evaluation_time"`
}

// LLMAnswer is an answer a model gave to a standard question.
type LLMAnswer struct {
	ID            int64  `json:"id"`
	LLMID         int64  `json:"llm_id,omitempty"`
	QuestionID    int64  `json:"question_id,omitempty"`
	StdQuestionID int64  `json:"std_question_id,omitempty"`
	Answer        string `json:"answer"`
	AnsweredAt    string `json:"answered_at,omitempty"`
	IsValid       bool   `json:"is_valid,omitempty"`
}

// EvaluationReport is the downloadable result set of one LLM answer.
type EvaluationReport struct {
	LLMAnswer    LLMAnswer          `json:"llm_answer"`
	Evaluations  []EvaluationResult `json:"evaluations"`
	AverageScore float64            `json:"average_score"`
}

type LLMModel struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Affiliation string `json:"affiliation,omitempty"`
}

type MarketplaceDataset struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Version       int    `json:"version"`
	QuestionCount int    `json:"question_count"`
	IsPublic      bool   `json:"is_public"`
	CreatedBy     int64  `json:"created_by"`
	CreateTime    string `json:"create_time"`
}

// Download is a raw document fetched for export; the body is kept verbatim.
type Download struct {
	Name string
	Body json.RawMessage
}
