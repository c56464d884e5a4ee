package services

import (
	"context"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

// EvaluationService runs LLM evaluations against marketplace datasets.
type EvaluationService interface {
	MarketplaceDatasets(ctx context.Context, opts ListOptions, search string) ([]models.MarketplaceDataset, error)
	// DownloadDataset returns the dataset document exactly as served.
	DownloadDataset(ctx context.Context, datasetID int64) ([]byte, error)
	Models(ctx context.Context) ([]models.LLMModel, error)
	CreateTask(ctx context.Context, in models.EvaluationTaskCreate) (*models.EvaluationTask, error)
	Tasks(ctx context.Context, opts ListOptions) ([]models.EvaluationTask, error)
	Progress(ctx context.Context, taskID int64) (*models.TaskProgress, error)
	Cancel(ctx context.Context, taskID int64) error
	Evaluate(ctx context.Context, in models.ManualEvaluation) (*models.EvaluationResult, error)
	MyAnswers(ctx context.Context, opts ListOptions) ([]models.LLMAnswer, error)
	// DownloadResults returns the result document of one LLM answer as served.
	DownloadResults(ctx context.Context, answerID int64) ([]byte, error)
}

type evaluationService struct {
	client client.Client
}

func NewEvaluationService(c client.Client) EvaluationService {
	return &evaluationService{client: c}
}

const evaluationBase = "/api/llm-evaluation"

func (s *evaluationService) MarketplaceDatasets(ctx context.Context, opts ListOptions, search string) ([]models.MarketplaceDataset, error) {
	q := opts.values()
	if search != "" {
		q.Set("search", search)
	}
	items, _, err := list[models.MarketplaceDataset](ctx, s.client, evaluationBase+"/marketplace/datasets", q)
	return items, err
}

func (s *evaluationService) DownloadDataset(ctx context.Context, datasetID int64) ([]byte, error) {
	var raw []byte
	if err := get(ctx, s.client, evaluationBase+"/marketplace/datasets/"+itoa(datasetID)+"/download", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *evaluationService) Models(ctx context.Context) ([]models.LLMModel, error) {
	items, _, err := list[models.LLMModel](ctx, s.client, evaluationBase+"/models", nil)
	return items, err
}

func (s *evaluationService) CreateTask(ctx context.Context, in models.EvaluationTaskCreate) (*models.EvaluationTask, error) {
	var task models.EvaluationTask
	if err := post(ctx, s.client, evaluationBase+"/tasks", in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *evaluationService) Tasks(ctx context.Context, opts ListOptions) ([]models.EvaluationTask, error) {
	items, _, err := list[models.EvaluationTask](ctx, s.client, evaluationBase+"/tasks", opts.values())
	return items, err
}

func (s *evaluationService) Progress(ctx context.Context, taskID int64) (*models.TaskProgress, error) {
	var p models.TaskProgress
	if err := get(ctx, s.client, evaluationBase+"/tasks/"+itoa(taskID)+"/progress", &p); err != nil {
		return nil, err
	}
	if p.TaskID == 0 {
		p.TaskID = taskID
	}
	return &p, nil
}

func (s *evaluationService) Cancel(ctx context.Context, taskID int64) error {
	return post(ctx, s.client, evaluationBase+"/tasks/"+itoa(taskID)+"/cancel", nil, nil)
}

func (s *evaluationService) Evaluate(ctx context.Context, in models.ManualEvaluation) (*models.EvaluationResult, error) {
	var out models.EvaluationResult
	if err := post(ctx, s.client, evaluationBase+"/evaluation/manual", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *evaluationService) MyAnswers(ctx context.Context, opts ListOptions) ([]models.LLMAnswer, error) {
	items, _, err := list[models.LLMAnswer](ctx, s.client, evaluationBase+"/evaluation/answers", opts.values())
	return items, err
}

func (s *evaluationService) DownloadResults(ctx context.Context, answerID int64) ([]byte, error) {
	var raw []byte
	if err := get(ctx, s.client, evaluationBase+"/evaluation/results/"+itoa(answerID)+"/download", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
