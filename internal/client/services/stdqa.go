package services

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

// StdQAQuery filters standard question and answer listings. Zero values
// are omitted.
type StdQAQuery struct {
	Page      int
	PerPage   int
	DatasetID int64
	Search    string
}

func (q StdQAQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.DatasetID > 0 {
		v.Set("dataset_id", itoa(q.DatasetID))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

type StdQAService interface {
	Questions(ctx context.Context, q StdQAQuery) (*models.Page[models.StdQuestion], error)
	Answers(ctx context.Context, q StdQAQuery) (*models.Page[models.StdAnswer], error)
	AnswersByQuestion(ctx context.Context, questionID int64) ([]models.StdAnswer, error)
	UpdateQuestion(ctx context.Context, questionID int64, q models.StdQuestion) (*models.StdQuestion, error)
	UpdateAnswer(ctx context.Context, answerID int64, a models.StdAnswer) (*models.StdAnswer, error)
	DeleteQuestion(ctx context.Context, questionID int64) error
	RestoreQuestion(ctx context.Context, questionID int64) (*models.StdQuestion, error)
	DeleteAnswer(ctx context.Context, answerID int64) error
	RestoreAnswer(ctx context.Context, answerID int64) (*models.StdAnswer, error)
	CreateWithRelations(ctx context.Context, req models.CreateStdQARequest) (*models.StdQAWithRelations, error)
	WithRelations(ctx context.Context, questionID int64) (*models.StdQAWithRelations, error)
	DeleteWithRelations(ctx context.Context, questionID int64) error
	CreateRelation(ctx context.Context, kind models.RelationKind, rel models.Relation) (*models.Relation, error)
	DeleteRelation(ctx context.Context, kind models.RelationKind, recordID int64) error
}

type stdQAService struct {
	client client.Client
}

func NewStdQAService(c client.Client) StdQAService {
	return &stdQAService{client: c}
}

type pageCounters struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Pages   int `json:"pages"`
}

func page[T any](ctx context.Context, c client.Client, path string, q StdQAQuery) (*models.Page[T], error) {
	var raw []byte
	if err := c.Do(ctx, &client.Request{Path: path, Query: q.values()}, &raw); err != nil {
		return nil, err
	}
	items, total, err := unwrapList[T](raw)
	if err != nil {
		return nil, err
	}

	p := &models.Page[T]{Items: items, Total: total, Page: q.Page, PerPage: q.PerPage}
	var pc pageCounters
	if json.Unmarshal(raw, &pc) == nil {
		if pc.Page > 0 {
			p.Page = pc.Page
		}
		if pc.PerPage > 0 {
			p.PerPage = pc.PerPage
		}
		p.Pages = pc.Pages
	}
	return p, nil
}

func (s *stdQAService) Questions(ctx context.Context, q StdQAQuery) (*models.Page[models.StdQuestion], error) {
	return page[models.StdQuestion](ctx, s.client, "/api/std-questions/", q)
}

func (s *stdQAService) Answers(ctx context.Context, q StdQAQuery) (*models.Page[models.StdAnswer], error) {
	return page[models.StdAnswer](ctx, s.client, "/api/std-answers/", q)
}

func (s *stdQAService) AnswersByQuestion(ctx context.Context, questionID int64) ([]models.StdAnswer, error) {
	items, _, err := list[models.StdAnswer](ctx, s.client, "/api/std-answers/by-question/"+itoa(questionID), nil)
	return items, err
}

func (s *stdQAService) UpdateQuestion(ctx context.Context, questionID int64, q models.StdQuestion) (*models.StdQuestion, error) {
	var out models.StdQuestion
	if err := put(ctx, s.client, "/api/std-questions/"+itoa(questionID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *stdQAService) UpdateAnswer(ctx context.Context, answerID int64, a models.StdAnswer) (*models.StdAnswer, error) {
	var out models.StdAnswer
	if err := put(ctx, s.client, "/api/std-answers/"+itoa(answerID), a, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *stdQAService) DeleteQuestion(ctx context.Context, questionID int64) error {
	return del(ctx, s.client, "/api/std-questions/"+itoa(questionID)+"/", nil)
}

func (s *stdQAService) RestoreQuestion(ctx context.Context, questionID int64) (*models.StdQuestion, error) {
	var out models.StdQuestion
	if err := post(ctx, s.client, "/api/std-questions/"+itoa(questionID)+"/restore/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *stdQAService) DeleteAnswer(ctx context.Context, answerID int64) error {
	return del(ctx, s.client, "/api/std-answers/"+itoa(answerID)+"/", nil)
}

func (s *stdQAService) RestoreAnswer(ctx context.Context, answerID int64) (*models.StdAnswer, error) {
	var out models.StdAnswer
	if err := post(ctx, s.client, "/api/std-answers/"+itoa(answerID)+"/restore/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *stdQAService) CreateWithRelations(ctx context.Context, req models.CreateStdQARequest) (*models.StdQAWithRelations, error) {
	var out models.StdQAWithRelations
	if err := post(ctx, s.client, "/api/std-qa-management/create-with-relations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *stdQAService) WithRelations(ctx context.Context, questionID int64) (*models.StdQAWithRelations, error) {
	var out models.StdQAWithRelations
	if err := get(ctx, s.client, "/api/std-qa-management/"+itoa(questionID)+"/with-relations", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *stdQAService) DeleteWithRelations(ctx context.Context, questionID int64) error {
	return del(ctx, s.client, "/api/std-qa-management/"+itoa(questionID)+"/with-relations", nil)
}

func (s *stdQAService) CreateRelation(ctx context.Context, kind models.RelationKind, rel models.Relation) (*models.Relation, error) {
	var out models.Relation
	if err := post(ctx, s.client, "/api/relationship-records/"+string(kind), rel, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *stdQAService) DeleteRelation(ctx context.Context, kind models.RelationKind, recordID int64) error {
	return del(ctx, s.client, "/api/relationship-records/"+string(kind)+"/"+itoa(recordID), nil)
}
