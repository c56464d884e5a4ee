package services

import (
	"context"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

type DatasetService interface {
	// Marketplace lists public datasets. currentUser, when set, also
	// includes that user's private ones.
	Marketplace(ctx context.Context, opts ListOptions, currentUser string) ([]models.DatasetWithStats, error)
	Mine(ctx context.Context, opts ListOptions) ([]models.Dataset, error)
	Create(ctx context.Context, in models.DatasetCreate) (*models.Dataset, error)
	Get(ctx context.Context, datasetID int64) (*models.Dataset, error)
	Update(ctx context.Context, datasetID int64, upd models.DatasetUpdate) (*models.Dataset, error)
	Delete(ctx context.Context, datasetID int64) error
	Stats(ctx context.Context, datasetID int64) (*models.DatasetStats, error)
}

type datasetService struct {
	client client.Client
}

func NewDatasetService(c client.Client) DatasetService {
	return &datasetService{client: c}
}

func (s *datasetService) Marketplace(ctx context.Context, opts ListOptions, currentUser string) ([]models.DatasetWithStats, error) {
	q := opts.values()
	if currentUser != "" {
		q.Set("current_user", currentUser)
	}
	items, _, err := list[models.DatasetWithStats](ctx, s.client, "/api/datasets/marketplace", q)
	return items, err
}

func (s *datasetService) Mine(ctx context.Context, opts ListOptions) ([]models.Dataset, error) {
	items, _, err := list[models.Dataset](ctx, s.client, "/api/datasets/my", opts.values())
	return items, err
}

func (s *datasetService) Create(ctx context.Context, in models.DatasetCreate) (*models.Dataset, error) {
	var ds models.Dataset
	if err := post(ctx, s.client, "/api/datasets/", in, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (s *datasetService) Get(ctx context.Context, datasetID int64) (*models.Dataset, error) {
	var ds models.Dataset
	if err := get(ctx, s.client, "/api/datasets/"+itoa(datasetID), &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (s *datasetService) Update(ctx context.Context, datasetID int64, upd models.DatasetUpdate) (*models.Dataset, error) {
	var ds models.Dataset
	if err := put(ctx, s.client, "/api/datasets/"+itoa(datasetID), upd, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (s *datasetService) Delete(ctx context.Context, datasetID int64) error {
	return del(ctx, s.client, "/api/datasets/"+itoa(datasetID), nil)
}

func (s *datasetService) Stats(ctx context.Context, datasetID int64) (*models.DatasetStats, error) {
	var st models.DatasetStats
	if err := get(ctx, s.client, "/api/datasets/"+itoa(datasetID)+"/stats", &st); err != nil {
		return nil, err
	}
	return &st, nil
}
