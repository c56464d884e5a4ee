package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

// ExpertService covers the expert side: login into the expert session,
// joining an admin's pool with an invite code, and answering questions.
// It is meant to run over a gateway bound to the expert session.
type ExpertService interface {
	Login(ctx context.Context, email, password string) (*models.Expert, error)
	Logout(ctx context.Context) error
	InviteCodeInfo(ctx context.Context, code string) (*models.InviteCodeInfo, error)
	JoinTask(ctx context.Context, inviteCode string) (*models.ExpertTask, error)
	Tasks(ctx context.Context) ([]models.ExpertTask, error)
	Task(ctx context.Context, taskID int64) (*models.ExpertTask, error)
	UpdateTask(ctx context.Context, taskID int64, upd models.ExpertTaskUpdate) (*models.ExpertTask, error)
	DeleteTask(ctx context.Context, taskID int64) error
	TaskQuestions(ctx context.Context, taskID int64) ([]models.RawQuestion, error)
	SubmitAnswer(ctx context.Context, answer models.ExpertAnswerCreate) (*models.ExpertAnswer, error)
	Answers(ctx context.Context) ([]models.ExpertAnswer, error)
}

type expertService struct {
	client  client.Client
	session SessionWriter
}

func NewExpertService(c client.Client, session SessionWriter) ExpertService {
	return &expertService{client: c, session: session}
}

func (s *expertService) Login(ctx context.Context, email, password string) (*models.Expert, error) {
	var resp models.ExpertLoginResponse
	if err := post(ctx, s.client, "/api/experts/login", models.ExpertLogin{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &client.APIError{Status: http.StatusOK, Message: "server issued no token", Err: client.ErrMalformedResponse}
	}
	if err := s.session.SetIdentity(ctx, resp.Expert.Identity(), resp.AccessToken); err != nil {
		return nil, err
	}
	return &resp.Expert, nil
}

func (s *expertService) Logout(ctx context.Context) error {
	return s.session.Clear(ctx)
}

func (s *expertService) InviteCodeInfo(ctx context.Context, code string) (*models.InviteCodeInfo, error) {
	var info models.InviteCodeInfo
	req := &client.Request{
		Method: http.MethodGet,
		Path:   "/api/expert/invite-code/info",
		Query:  url.Values{"invite_code": {code}},
	}
	if err := s.client.Do(ctx, req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *expertService) JoinTask(ctx context.Context, inviteCode string) (*models.ExpertTask, error) {
	var task models.ExpertTask
	body := map[string]string{"invite_code": inviteCode}
	req := &client.Request{Method: http.MethodPost, Path: "/api/expert/tasks", Body: body, RequireToken: true}
	if err := s.client.Do(ctx, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *expertService) Tasks(ctx context.Context) ([]models.ExpertTask, error) {
	tasks, _, err := list[models.ExpertTask](ctx, s.client, "/api/expert/tasks", nil)
	return tasks, err
}

func (s *expertService) Task(ctx context.Context, taskID int64) (*models.ExpertTask, error) {
	var task models.ExpertTask
	if err := get(ctx, s.client, "/api/expert/tasks/"+itoa(taskID), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *expertService) UpdateTask(ctx context.Context, taskID int64, upd models.ExpertTaskUpdate) (*models.ExpertTask, error) {
	var task models.ExpertTask
	if err := put(ctx, s.client, "/api/expert/tasks/"+itoa(taskID), upd, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *expertService) DeleteTask(ctx context.Context, taskID int64) error {
	return del(ctx, s.client, "/api/expert/tasks/"+itoa(taskID), nil)
}

func (s *expertService) TaskQuestions(ctx context.Context, taskID int64) ([]models.RawQuestion, error) {
	qs, _, err := list[models.RawQuestion](ctx, s.client, "/api/expert/tasks/"+itoa(taskID)+"/questions", nil)
	return qs, err
}

func (s *expertService) SubmitAnswer(ctx context.Context, answer models.ExpertAnswerCreate) (*models.ExpertAnswer, error) {
	var out models.ExpertAnswer
	if err := post(ctx, s.client, "/api/expert/answers", answer, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *expertService) Answers(ctx context.Context) ([]models.ExpertAnswer, error) {
	answers, _, err := list[models.ExpertAnswer](ctx, s.client, "/api/expert/answers", nil)
	return answers, err
}
