package services

import (
	"context"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

// VersionService manages committed dataset versions and their QA pairs.
type VersionService interface {
	Create(ctx context.Context, datasetID int64, in models.VersionCreate) (*models.DatasetVersion, error)
	Get(ctx context.Context, versionID int64) (*models.DatasetVersion, error)
	QA(ctx context.Context, versionID int64) ([]models.StdQAWithRelations, error)
	CreateQA(ctx context.Context, versionID int64, in models.VersionQACreate) (*models.StdQAWithRelations, error)
	UpdateQuestion(ctx context.Context, versionID, questionID int64, upd models.VersionQuestionUpdate) (*models.StdQuestion, error)
	DeleteQuestion(ctx context.Context, versionID, questionID int64) error
	Commit(ctx context.Context, versionID int64, publish models.VersionPublish) (*models.DatasetVersion, error)
	// Import validates batch locally before sending it.
	Import(ctx context.Context, versionID int64, batch ImportBatch) (*models.ImportResult, error)
}

type versionService struct {
	client client.Client
}

func NewVersionService(c client.Client) VersionService {
	return &versionService{client: c}
}

func versionPath(versionID int64) string {
	return "/api/versions/" + itoa(versionID)
}

func (s *versionService) Create(ctx context.Context, datasetID int64, in models.VersionCreate) (*models.DatasetVersion, error) {
	var v models.DatasetVersion
	if err := post(ctx, s.client, "/api/datasets/"+itoa(datasetID)+"/versions", in, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *versionService) Get(ctx context.Context, versionID int64) (*models.DatasetVersion, error) {
	var v models.DatasetVersion
	if err := get(ctx, s.client, versionPath(versionID), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *versionService) QA(ctx context.Context, versionID int64) ([]models.StdQAWithRelations, error) {
	items, _, err := list[models.StdQAWithRelations](ctx, s.client, versionPath(versionID)+"/std-qa", nil)
	return items, err
}

func (s *versionService) CreateQA(ctx context.Context, versionID int64, in models.VersionQACreate) (*models.StdQAWithRelations, error) {
	var out models.StdQAWithRelations
	if err := post(ctx, s.client, versionPath(versionID)+"/std-qa", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *versionService) UpdateQuestion(ctx context.Context, versionID, questionID int64, upd models.VersionQuestionUpdate) (*models.StdQuestion, error) {
	var q models.StdQuestion
	if err := put(ctx, s.client, versionPath(versionID)+"/std-questions/"+itoa(questionID), upd, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *versionService) DeleteQuestion(ctx context.Context, versionID, questionID int64) error {
	return del(ctx, s.client, versionPath(versionID)+"/std-questions/"+itoa(questionID), nil)
}

func (s *versionService) Commit(ctx context.Context, versionID int64, publish models.VersionPublish) (*models.DatasetVersion, error) {
	var v models.DatasetVersion
	if err := post(ctx, s.client, versionPath(versionID)+"/commit", publish, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *versionService) Import(ctx context.Context, versionID int64, batch ImportBatch) (*models.ImportResult, error) {
	if res := batch.Validate(); !res.IsValid {
		return nil, &ValidationError{Kind: batch.Kind(), Errors: res.Errors}
	}
	var out models.ImportResult
	if err := post(ctx, s.client, versionPath(versionID)+"/import", map[string]any{"data": batch.Records()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
