package services

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

// VersionWorkService drives a version work: an editable copy of a dataset
// that is completed into a new version.
type VersionWorkService interface {
	Create(ctx context.Context, in models.VersionWorkCreate) (*models.VersionWork, error)
	Mine(ctx context.Context, opts ListOptions) ([]models.VersionWork, error)
	Get(ctx context.Context, workID int64) (*models.VersionWork, error)
	Update(ctx context.Context, workID int64, in models.VersionWorkCreate) (*models.VersionWork, error)
	Delete(ctx context.Context, workID int64) error
	Complete(ctx context.Context, workID int64) (*models.VersionWork, error)
	CreateVersion(ctx context.Context, workID int64) (*models.CreateVersionResult, error)
	Cancel(ctx context.Context, workID int64) (*models.VersionWork, error)
	Questions(ctx context.Context, workID int64) ([]models.StdQuestion, error)
	CreateQuestion(ctx context.Context, workID int64, q models.VersionQuestionInput) (*models.StdQuestion, error)
	CreateAnswer(ctx context.Context, workID int64, a models.VersionAnswerInput) (*models.StdAnswer, error)
	LoadDataset(ctx context.Context, workID, datasetID int64, version int) error
	Statistics(ctx context.Context, workID int64) (*models.VersionWorkStatistics, error)
	// Preview returns the server's change preview as sent.
	Preview(ctx context.Context, workID int64) (json.RawMessage, error)
}

type versionWorkService struct {
	client client.Client
}

func NewVersionWorkService(c client.Client) VersionWorkService {
	return &versionWorkService{client: c}
}

func workPath(workID int64) string {
	return "/api/dataset-version-work/" + itoa(workID)
}

func (s *versionWorkService) Create(ctx context.Context, in models.VersionWorkCreate) (*models.VersionWork, error) {
	var w models.VersionWork
	if err := post(ctx, s.client, "/api/dataset-version-work/", in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *versionWorkService) Mine(ctx context.Context, opts ListOptions) ([]models.VersionWork, error) {
	items, _, err := list[models.VersionWork](ctx, s.client, "/api/dataset-version-work/", opts.values())
	return items, err
}

func (s *versionWorkService) Get(ctx context.Context, workID int64) (*models.VersionWork, error) {
	var w models.VersionWork
	if err := get(ctx, s.client, workPath(workID), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *versionWorkService) Update(ctx context.Context, workID int64, in models.VersionWorkCreate) (*models.VersionWork, error) {
	var w models.VersionWork
	if err := put(ctx, s.client, workPath(workID), in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *versionWorkService) Delete(ctx context.Context, workID int64) error {
	return del(ctx, s.client, workPath(workID), nil)
}

func (s *versionWorkService) transition(ctx context.Context, workID int64, action string) (*models.VersionWork, error) {
	var w models.VersionWork
	if err := post(ctx, s.client, workPath(workID)+"/"+action, nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *versionWorkService) Complete(ctx context.Context, workID int64) (*models.VersionWork, error) {
	return s.transition(ctx, workID, "complete")
}

func (s *versionWorkService) Cancel(ctx context.Context, workID int64) (*models.VersionWork, error) {
	return s.transition(ctx, workID, "cancel")
}

func (s *versionWorkService) CreateVersion(ctx context.Context, workID int64) (*models.CreateVersionResult, error) {
	var out models.CreateVersionResult
	if err := post(ctx, s.client, workPath(workID)+"/create-version", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *versionWorkService) Questions(ctx context.Context, workID int64) ([]models.StdQuestion, error) {
	items, _, err := list[models.StdQuestion](ctx, s.client, workPath(workID)+"/questions", nil)
	return items, err
}

func (s *versionWorkService) CreateQuestion(ctx context.Context, workID int64, q models.VersionQuestionInput) (*models.StdQuestion, error) {
	var out models.StdQuestion
	if err := post(ctx, s.client, workPath(workID)+"/questions", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *versionWorkService) CreateAnswer(ctx context.Context, workID int64, a models.VersionAnswerInput) (*models.StdAnswer, error) {
	var out models.StdAnswer
	if err := post(ctx, s.client, workPath(workID)+"/answers", a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *versionWorkService) LoadDataset(ctx context.Context, workID, datasetID int64, version int) error {
	body := map[string]any{"dataset_id": datasetID, "version": version}
	return post(ctx, s.client, workPath(workID)+"/load-dataset", body, nil)
}

func (s *versionWorkService) Statistics(ctx context.Context, workID int64) (*models.VersionWorkStatistics, error) {
	var st models.VersionWorkStatistics
	if err := get(ctx, s.client, workPath(workID)+"/statistics", &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *versionWorkService) Preview(ctx context.Context, workID int64) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := get(ctx, s.client, workPath(workID)+"/preview", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
