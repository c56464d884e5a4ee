package workingset

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/dmitrijs2005/qacurator/internal/client/storage"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(id int64, rawIDs ...int64) models.RawQuestion {
	q := models.RawQuestion{ID: id, Title: "q", Tags: []string{"go"}}
	for _, a := range rawIDs {
		q.RawAnswers = append(q.RawAnswers, models.RawAnswer{ID: a, QuestionID: id, Content: "raw"})
	}
	return q
}

func newPool(t *testing.T, qs ...models.RawQuestion) *Pool {
	t.Helper()
	p, err := Open(context.Background(), nil, nil)
	require.NoError(t, err)
	p.Replace(context.Background(), qs)
	return p
}

func ids(qs []models.RawQuestion) []int64 {
	out := make([]int64, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestPool_DeleteQuestionAndRestoreFromSnapshot(t *testing.T) {
	ctx := context.Background()
	q := question(1, 11, 12)
	p := newPool(t, q, question(2))

	require.True(t, p.Delete(ctx, models.KindQuestion, 1))

	assert.False(t, p.Contains(models.KindQuestion, 1))
	assert.False(t, p.Contains(models.KindRawAnswer, 11))
	head := p.RecentlyDeleted()[0]
	assert.Equal(t, models.KindQuestion, head.Kind)
	assert.Equal(t, int64(1), head.ID)

	require.True(t, p.Restore(ctx, head))

	got, ok := p.Question(1)
	require.True(t, ok)
	if diff := cmp.Diff(q, got); diff != "" {
		t.Errorf("restored question (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int64{1, 2}, ids(p.Questions()))
	assert.Empty(t, p.RecentlyDeleted())
}

func TestPool_SnapshotsShareNothing(t *testing.T) {
	ctx := context.Background()
	p := newPool(t, question(1, 11))

	live := p.Questions()
	live[0].RawAnswers[0].Content = "changed"
	live[0].Tags[0] = "changed"

	require.True(t, p.Delete(ctx, models.KindQuestion, 1))
	e := p.RecentlyDeleted()[0]
	e.Question.Title = "changed"

	require.True(t, p.Restore(ctx, p.RecentlyDeleted()[0]))
	got, _ := p.Question(1)
	assert.Equal(t, "raw", got.RawAnswers[0].Content)
	assert.Equal(t, []string{"go"}, got.Tags)
	assert.Equal(t, "q", got.Title)
}

func TestPool_UndoBufferIsCapped(t *testing.T) {
	ctx := context.Background()
	var qs []models.RawQuestion
	for i := int64(1); i <= 6; i++ {
		qs = append(qs, question(i, 100+i))
	}
	p := newPool(t, qs...)

	// Mix kinds: six raw answers then five questions.
	for i := int64(1); i <= 6; i++ {
		require.True(t, p.Delete(ctx, models.KindRawAnswer, 100+i))
	}
	for i := int64(1); i <= 5; i++ {
		require.True(t, p.Delete(ctx, models.KindQuestion, i))
	}

	buf := p.RecentlyDeleted()
	require.Len(t, buf, UndoCapacity)
	assert.Equal(t, models.KindQuestion, buf[0].Kind)
	assert.Equal(t, int64(5), buf[0].ID)
	last := buf[len(buf)-1]
	assert.Equal(t, models.KindRawAnswer, last.Kind)
	assert.Equal(t, int64(102), last.ID, "the first deletion is evicted")
}

func TestPool_RestoreOverwritesRecreatedItem(t *testing.T) {
	ctx := context.Background()
	p := newPool(t, question(5), question(6, 5))

	require.True(t, p.Delete(ctx, models.KindRawAnswer, 5))
	require.True(t, p.Delete(ctx, models.KindQuestion, 5))
	qEntry := p.RecentlyDeleted()[0]

	recreated := question(5)
	recreated.Title = "recreated"
	p.AddQuestion(ctx, recreated)
	p.AddQuestion(ctx, question(7))

	require.True(t, p.Restore(ctx, qEntry))

	assert.Equal(t, []int64{7, 5, 6}, ids(p.Questions()), "overwritten in place")
	got, _ := p.Question(5)
	assert.Equal(t, "q", got.Title)

	buf := p.RecentlyDeleted()
	require.Len(t, buf, 1)
	assert.Equal(t, models.KindRawAnswer, buf[0].Kind)
	assert.Equal(t, int64(5), buf[0].ID)
}

func TestPool_RestoreOverwriteDropsStaleSelection(t *testing.T) {
	ctx := context.Background()
	p := newPool(t, question(1, 10))

	require.True(t, p.Delete(ctx, models.KindQuestion, 1))
	entry := p.RecentlyDeleted()[0]

	p.AddQuestion(ctx, question(1, 20))
	require.True(t, p.ToggleSelection(models.KindRawAnswer, 20))

	require.True(t, p.Restore(ctx, entry))

	assert.True(t, p.Contains(models.KindRawAnswer, 10))
	assert.False(t, p.Contains(models.KindRawAnswer, 20))
	assert.False(t, p.IsSelected(models.KindRawAnswer, 20))
	assert.False(t, p.HasSelection())
}

func TestPool_RestoreAnswerAppendsToParent(t *testing.T) {
	ctx := context.Background()
	p := newPool(t, question(1, 11, 12, 13))

	require.True(t, p.Delete(ctx, models.KindRawAnswer, 11))
	_, ok := p.UndoLast(ctx)
	require.True(t, ok)

	got, _ := p.Question(1)
	var answerIDs []int64
	for _, a := range got.RawAnswers {
		answerIDs = append(answerIDs, a.ID)
	}
	assert.Equal(t, []int64{12, 13, 11}, answerIDs)
}

func TestPool_RestoreWithoutParentIsNoop(t *testing.T) {
	ctx := context.Background()
	p := newPool(t, question(1, 11))

	require.True(t, p.Delete(ctx, models.KindRawAnswer, 11))
	answer := p.RecentlyDeleted()[0]
	require.True(t, p.Delete(ctx, models.KindQuestion, 1))

	assert.False(t, p.Restore(ctx, answer))
	assert.Len(t, p.RecentlyDeleted(), 2)
	assert.Zero(t, p.Len())

	// Once the question is back the answer can follow.
	_, ok := p.UndoLast(ctx)
	require.True(t, ok)
	assert.True(t, p.Restore(ctx, answer))
	assert.True(t, p.Contains(models.KindRawAnswer, 11))
}

func TestPool_DeleteMissingItem(t *testing.T) {
	p := newPool(t, question(1))
	assert.False(t, p.Delete(context.Background(), models.KindExpertAnswer, 99))
	assert.False(t, p.Delete(context.Background(), "tag", 1))
	assert.Empty(t, p.RecentlyDeleted())
}

func TestPool_ToggleSelection(t *testing.T) {
	p := newPool(t, question(1, 11))

	assert.True(t, p.ToggleSelection(models.KindQuestion, 1))
	assert.True(t, p.IsSelected(models.KindQuestion, 1))
	assert.False(t, p.ToggleSelection(models.KindQuestion, 1))
	assert.False(t, p.IsSelected(models.KindQuestion, 1))

	assert.False(t, p.ToggleSelection(models.KindQuestion, 42), "absent items cannot be selected")
	assert.False(t, p.ToggleSelection(models.KindQuestion, 42))
	assert.False(t, p.HasSelection())

	p.ToggleSelection(models.KindQuestion, 1)
	p.ToggleSelection(models.KindRawAnswer, 11)
	assert.True(t, p.HasSelection())
	p.ClearSelections()
	for _, k := range models.ItemKinds {
		assert.Empty(t, p.Selected(k))
	}
}

func TestPool_DeleteSelected(t *testing.T) {
	ctx := context.Background()
	q2 := question(2, 21, 22)
	q2.ExpertAnswers = []models.ExpertAnswer{{ID: 31, QuestionID: 2, Content: "e"}}
	p := newPool(t, question(1, 11), q2, question(3))

	p.ToggleSelection(models.KindQuestion, 1)
	p.ToggleSelection(models.KindQuestion, 3)
	p.ToggleSelection(models.KindRawAnswer, 22)
	p.ToggleSelection(models.KindExpertAnswer, 31)

	n := p.DeleteSelected(ctx)

	assert.Equal(t, 4, n)
	assert.Equal(t, []int64{2}, ids(p.Questions()))
	got, _ := p.Question(2)
	assert.Len(t, got.RawAnswers, 1)
	assert.Empty(t, got.ExpertAnswers)
	assert.False(t, p.HasSelection())
	assert.Len(t, p.RecentlyDeleted(), 4)
}

func TestPool_DeleteSelectedSkipsItemsAlreadyGone(t *testing.T) {
	ctx := context.Background()
	p := newPool(t, question(1, 11), question(2))

	p.ToggleSelection(models.KindRawAnswer, 11)
	p.ToggleSelection(models.KindQuestion, 2)
	require.True(t, p.Delete(ctx, models.KindQuestion, 1))

	assert.False(t, p.IsSelected(models.KindRawAnswer, 11), "selection follows membership")
	assert.Equal(t, 1, p.DeleteSelected(ctx))
	assert.Zero(t, p.Len())
}

func TestPool_AddAndUpdateAnswers(t *testing.T) {
	ctx := context.Background()
	p := newPool(t, question(1))

	assert.True(t, p.AddRawAnswer(ctx, models.RawAnswer{ID: 11, QuestionID: 1, Content: "a"}))
	assert.False(t, p.AddRawAnswer(ctx, models.RawAnswer{ID: 12, QuestionID: 9}))
	assert.True(t, p.UpdateRawAnswer(ctx, models.RawAnswer{ID: 11, QuestionID: 1, Content: "b"}))
	assert.False(t, p.UpdateRawAnswer(ctx, models.RawAnswer{ID: 13, QuestionID: 1}))

	assert.True(t, p.AddExpertAnswer(ctx, models.ExpertAnswer{ID: 21, QuestionID: 1, Content: "e"}))
	assert.True(t, p.UpdateExpertAnswer(ctx, models.ExpertAnswer{ID: 21, QuestionID: 1, Content: "f"}))

	got, _ := p.Question(1)
	assert.Equal(t, "b", got.RawAnswers[0].Content)
	assert.Equal(t, "f", got.ExpertAnswers[0].Content)

	upd := got
	upd.Title = "new"
	upd.RawAnswers = nil
	p.ToggleSelection(models.KindRawAnswer, 11)
	assert.True(t, p.UpdateQuestion(ctx, upd))
	assert.False(t, p.IsSelected(models.KindRawAnswer, 11))
	assert.False(t, p.UpdateQuestion(ctx, question(9)))
}

func TestPool_ClearRecentlyDeleted(t *testing.T) {
	ctx := context.Background()
	p := newPool(t, question(1))
	p.Delete(ctx, models.KindQuestion, 1)

	p.ClearRecentlyDeleted(ctx)

	assert.Empty(t, p.RecentlyDeleted())
	_, ok := p.UndoLast(ctx)
	assert.False(t, ok)
}

func TestPool_RestoreAll(t *testing.T) {
	ctx := context.Background()
	p := newPool(t, question(1, 11), question(2))

	p.Delete(ctx, models.KindRawAnswer, 11)
	p.Delete(ctx, models.KindQuestion, 1)
	p.Delete(ctx, models.KindQuestion, 2)

	assert.Equal(t, 3, p.RestoreAll(ctx))
	assert.ElementsMatch(t, []int64{1, 2}, ids(p.Questions()))
	assert.True(t, p.Contains(models.KindRawAnswer, 11))
	assert.Empty(t, p.RecentlyDeleted())
}

func TestPool_PersistsAndRehydrates(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	p, err := Open(ctx, st, nil, WithClock(func() time.Time { return at }))
	require.NoError(t, err)
	p.Replace(ctx, []models.RawQuestion{question(1, 11), question(2)})
	p.Delete(ctx, models.KindRawAnswer, 11)
	assert.Equal(t, at, p.SavedAt())

	reopened, err := Open(ctx, st, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(reopened.Questions()))
	require.Len(t, reopened.RecentlyDeleted(), 1)
	assert.Equal(t, int64(1), reopened.RecentlyDeleted()[0].ParentID)
	assert.True(t, at.Equal(reopened.SavedAt()))

	_, ok := reopened.UndoLast(ctx)
	assert.True(t, ok)
	assert.True(t, reopened.Contains(models.KindRawAnswer, 11))
}

func TestPool_CorruptedSnapshotIsDiscarded(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	key := storage.WorkingSetKey(DefaultResource)
	require.NoError(t, st.Set(ctx, key, []byte("{not json")))

	p, err := Open(ctx, st, nil)
	require.NoError(t, err)
	assert.Zero(t, p.Len())

	raw, err := st.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestPool_InvalidBufferedEntriesAreDropped(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	key := storage.WorkingSetKey("custom")
	require.NoError(t, st.Set(ctx, key, []byte(`{"questions":[{"id":1,"title":"q","raw_answers":[],"expert_answers":[]}],
		"recently_deleted":[{"type":"question","id":2},{"type":"question","id":3,"question":{"id":3,"title":"x"}}]}`)))

	p, err := Open(ctx, st, nil, WithResource("custom"))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Len())
	buf := p.RecentlyDeleted()
	require.Len(t, buf, 1)
	assert.Equal(t, int64(3), buf[0].ID)
}
