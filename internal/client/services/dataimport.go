package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

// ImportService uploads validated import batches.
type ImportService interface {
	CreateDataset(ctx context.Context, in models.DatasetCreate) (*models.ImportDatasetCreated, error)
	Datasets(ctx context.Context) ([]models.ImportDataset, error)
	// Upload validates batch and sends it. Raw QA goes to the caller's raw
	// pool and ignores datasetID; the other kinds need a dataset.
	Upload(ctx context.Context, batch ImportBatch, datasetID int64) (*models.ImportResult, error)
}

type importService struct {
	client client.Client
}

func NewImportService(c client.Client) ImportService {
	return &importService{client: c}
}

const importBase = "/api/data-import"

func (s *importService) CreateDataset(ctx context.Context, in models.DatasetCreate) (*models.ImportDatasetCreated, error) {
	form := url.Values{
		"name":        {in.Name},
		"description": {in.Description},
		"is_public":   {strconv.FormatBool(in.IsPublic)},
	}
	var out models.ImportDatasetCreated
	if err := s.client.Do(ctx, &client.Request{Method: http.MethodPost, Path: importBase + "/dataset", Form: form}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *importService) Datasets(ctx context.Context) ([]models.ImportDataset, error) {
	items, _, err := list[models.ImportDataset](ctx, s.client, importBase+"/datasets", nil)
	return items, err
}

func (s *importService) Upload(ctx context.Context, batch ImportBatch, datasetID int64) (*models.ImportResult, error) {
	if res := batch.Validate(); !res.IsValid {
		return nil, &ValidationError{Kind: batch.Kind(), Errors: res.Errors}
	}

	var path string
	switch batch.Kind() {
	case models.ImportRawQA:
		path = importBase + "/raw-qa"
	case models.ImportExpertAnswers, models.ImportStdQA:
		if datasetID <= 0 {
			return nil, &ValidationError{Kind: batch.Kind(), Errors: []string{"a target dataset is required"}}
		}
		path = fmt.Sprintf("%s/%s/%d", importBase, batch.Kind(), datasetID)
	default:
		return nil, &ValidationError{Kind: batch.Kind(), Errors: []string{"unsupported data kind"}}
	}

	var out models.ImportResult
	if err := post(ctx, s.client, path, map[string]any{"data": batch.Records()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
