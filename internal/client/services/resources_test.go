package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasets_MarketplaceQuery(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient().on(http.MethodGet, "/api/datasets/marketplace",
		`[{"id":1,"name":"ds","std_questions_count":4,"creator_username":"ann"}]`)
	svc := NewDatasetService(fc)

	items, err := svc.Marketplace(ctx, ListOptions{Limit: 50}, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ds", items[0].Name)
	assert.Equal(t, 4, items[0].StdQuestionsCount)
	assert.False(t, fc.last().Query.Has("current_user"))

	_, err = svc.Marketplace(ctx, ListOptions{}, "ann")
	require.NoError(t, err)
	assert.Equal(t, "ann", fc.last().Query.Get("current_user"))
	assert.False(t, fc.last().Query.Has("skip"))
}

func TestDatasets_CRUDPaths(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient().
		on(http.MethodPost, "/api/datasets/", `{"id":7,"name":"n"}`).
		on(http.MethodGet, "/api/datasets/7/stats", `{"dataset_id":7,"std_questions_count":3}`)
	svc := NewDatasetService(fc)

	ds, err := svc.Create(ctx, models.DatasetCreate{Name: "n"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), ds.ID)

	name := "renamed"
	_, err = svc.Update(ctx, 7, models.DatasetUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, fc.last().Method)
	assert.Equal(t, "/api/datasets/7", fc.last().Path)

	st, err := svc.Stats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, st.StdQuestionsCount)

	require.NoError(t, svc.Delete(ctx, 7))
	assert.Equal(t, http.MethodDelete, fc.last().Method)
}

func TestRawData_Paths(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient()
	svc := NewRawDataService(fc)

	tests := []struct {
		call   func() error
		method string
		path   string
	}{
		{func() error { return svc.Delete(ctx, models.KindQuestion, 5) }, http.MethodDelete, "/api/raw_questions/5/"},
		{func() error { return svc.Restore(ctx, models.KindRawAnswer, 3) }, http.MethodPost, "/api/raw_answers/3/restore/"},
		{func() error { return svc.ForceDelete(ctx, models.KindExpertAnswer, 8) }, http.MethodDelete, "/api/expert_answers/8/force-delete/"},
		{func() error { return svc.DeleteMany(ctx, models.KindQuestion, []int64{1, 2}) }, http.MethodPost, "/api/raw_questions/delete-multiple/"},
		{func() error { return svc.RestoreMany(ctx, models.KindExpertAnswer, []int64{4}) }, http.MethodPost, "/api/expert_answers/restore-multiple/"},
	}
	for _, tt := range tests {
		require.NoError(t, tt.call())
		assert.Equal(t, tt.method, fc.last().Method)
		assert.Equal(t, tt.path, fc.last().Path)
	}
	assert.Equal(t, []int64{4}, fc.last().Body)
}

func TestRawData_EmptyBulkAndUnknownKind(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient()
	svc := NewRawDataService(fc)

	require.NoError(t, svc.DeleteMany(ctx, models.KindQuestion, nil))
	assert.Empty(t, fc.reqs)

	require.Error(t, svc.Delete(ctx, "tag", 1))
	assert.Empty(t, fc.reqs)
}

func TestRawData_QuestionsEnvelope(t *testing.T) {
	fc := newFakeClient().on(http.MethodGet, "/api/raw_questions/",
		`{"data":[{"id":1,"title":"a","raw_answers":[],"expert_answers":[]}],"total":120}`)

	qs, total, err := NewRawDataService(fc).Questions(context.Background(), ListOptions{Skip: 0, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, qs, 1)
	assert.Equal(t, 120, total)
	assert.Equal(t, "1", fc.last().Query.Get("limit"))
}

func TestStdQA_PagedListing(t *testing.T) {
	fc := newFakeClient().on(http.MethodGet, "/api/std-questions/",
		`{"items":[{"id":1,"dataset_id":2,"question_text":"q"}],"total":31,"page":2,"per_page":10,"pages":4}`)

	p, err := NewStdQAService(fc).Questions(context.Background(), StdQAQuery{Page: 2, PerPage: 10, DatasetID: 2})
	require.NoError(t, err)
	assert.Equal(t, 31, p.Total)
	assert.Equal(t, 4, p.Pages)
	assert.Equal(t, 2, p.Page)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "q", p.Items[0].QuestionText)
	assert.Equal(t, "2", fc.last().Query.Get("dataset_id"))
	assert.False(t, fc.last().Query.Has("search"))
}

func TestStdQA_RelationsPaths(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient()
	svc := NewStdQAService(fc)

	_, err := svc.CreateRelation(ctx, models.RelationStdAnswerExpertAnswer, models.Relation{StdAnswerID: 1, ExpertAnswerID: 2})
	require.NoError(t, err)
	assert.Equal(t, "/api/relationship-records/std-answer-expert-answer", fc.last().Path)

	require.NoError(t, svc.DeleteRelation(ctx, models.RelationStdQuestionRawQuestion, 9))
	assert.Equal(t, "/api/relationship-records/std-question-raw-question/9", fc.last().Path)

	require.NoError(t, svc.DeleteQuestion(ctx, 4))
	assert.Equal(t, "/api/std-questions/4/", fc.last().Path)
}

func TestEvaluation_ProgressAndDownloads(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient().
		on(http.MethodGet, "/api/llm-evaluation/tasks/5/progress", `{"status":"running","progress":40}`).
		on(http.MethodGet, "/api/llm-evaluation/marketplace/datasets/2/download", `{"dataset":{"id":2},"questions":[]}`)
	svc := NewEvaluationService(fc)

	p, err := svc.Progress(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.TaskID)
	assert.Equal(t, models.TaskRunning, p.Status)

	raw, err := svc.DownloadDataset(ctx, 2)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dataset":{"id":2},"questions":[]}`, string(raw))

	require.NoError(t, svc.Cancel(ctx, 5))
	assert.Equal(t, "/api/llm-evaluation/tasks/5/cancel", fc.last().Path)

	_, err = svc.MarketplaceDatasets(ctx, ListOptions{}, "math")
	require.NoError(t, err)
	assert.Equal(t, "math", fc.last().Query.Get("search"))
}

func TestVersions_ImportRejectsInvalidBatchLocally(t *testing.T) {
	fc := newFakeClient()
	_, err := NewVersionService(fc).Import(context.Background(), 3, StdQABatch{{Body: ""}})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, fc.reqs)
}

func TestVersionWork_Transitions(t *testing.T) {
	ctx := context.Background()
	fc := newFakeClient().
		on(http.MethodPost, "/api/dataset-version-work/2/create-version", `{"message":"ok","dataset_id":1,"new_version":3}`).
		on(http.MethodGet, "/api/dataset-version-work/2/preview", `{"changes":[]}`)
	svc := NewVersionWorkService(fc)

	_, err := svc.Complete(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "/api/dataset-version-work/2/complete", fc.last().Path)

	res, err := svc.CreateVersion(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, res.NewVersion)

	require.NoError(t, svc.LoadDataset(ctx, 2, 1, 2))
	assert.Equal(t, map[string]any{"dataset_id": int64(1), "version": 2}, fc.last().Body)

	raw, err := svc.Preview(ctx, 2)
	require.NoError(t, err)
	assert.JSONEq(t, `{"changes":[]}`, string(raw))
}
