package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

// RawDataService manages scraped questions and their raw and expert
// answers. Delete is a soft delete the server can undo with Restore;
// ForceDelete is final.
type RawDataService interface {
	Questions(ctx context.Context, opts ListOptions) ([]models.RawQuestion, int, error)
	Delete(ctx context.Context, kind models.ItemKind, itemID int64) error
	Restore(ctx context.Context, kind models.ItemKind, itemID int64) error
	ForceDelete(ctx context.Context, kind models.ItemKind, itemID int64) error
	DeleteMany(ctx context.Context, kind models.ItemKind, ids []int64) error
	RestoreMany(ctx context.Context, kind models.ItemKind, ids []int64) error
}

type rawDataService struct {
	client client.Client
}

func NewRawDataService(c client.Client) RawDataService {
	return &rawDataService{client: c}
}

func collection(kind models.ItemKind) (string, error) {
	switch kind {
	case models.KindQuestion:
		return "/api/raw_questions/", nil
	case models.KindRawAnswer:
		return "/api/raw_answers/", nil
	case models.KindExpertAnswer:
		return "/api/expert_answers/", nil
	}
	return "", fmt.Errorf("unknown item kind %q", kind)
}

func (s *rawDataService) Questions(ctx context.Context, opts ListOptions) ([]models.RawQuestion, int, error) {
	return list[models.RawQuestion](ctx, s.client, "/api/raw_questions/", opts.values())
}

func (s *rawDataService) item(kind models.ItemKind, itemID int64, suffix string) (string, error) {
	base, err := collection(kind)
	if err != nil {
		return "", err
	}
	return base + itoa(itemID) + "/" + suffix, nil
}

func (s *rawDataService) Delete(ctx context.Context, kind models.ItemKind, itemID int64) error {
	path, err := s.item(kind, itemID, "")
	if err != nil {
		return err
	}
	return del(ctx, s.client, path, nil)
}

func (s *rawDataService) Restore(ctx context.Context, kind models.ItemKind, itemID int64) error {
	path, err := s.item(kind, itemID, "restore/")
	if err != nil {
		return err
	}
	return post(ctx, s.client, path, nil, nil)
}

func (s *rawDataService) ForceDelete(ctx context.Context, kind models.ItemKind, itemID int64) error {
	path, err := s.item(kind, itemID, "force-delete/")
	if err != nil {
		return err
	}
	return del(ctx, s.client, path, nil)
}

func (s *rawDataService) DeleteMany(ctx context.Context, kind models.ItemKind, ids []int64) error {
	return s.bulk(ctx, kind, "delete-multiple/", ids)
}

func (s *rawDataService) RestoreMany(ctx context.Context, kind models.ItemKind, ids []int64) error {
	return s.bulk(ctx, kind, "restore-multiple/", ids)
}

// bulk sends the id list as a bare JSON array. An empty list sends nothing.
func (s *rawDataService) bulk(ctx context.Context, kind models.ItemKind, action string, ids []int64) error {
	base, err := collection(kind)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return post(ctx, s.client, base+action, ids, nil)
}
