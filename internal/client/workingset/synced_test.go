package workingset

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/dmitrijs2005/qacurator/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	op   string
	kind models.ItemKind
	ids  []int64
}

// fakeRemote records every call and fails the operations named in errs.
type fakeRemote struct {
	calls     []call
	errs      map[string]error
	questions []models.RawQuestion
}

func (f *fakeRemote) record(op string, kind models.ItemKind, ids ...int64) error {
	f.calls = append(f.calls, call{op: op, kind: kind, ids: ids})
	return f.errs[op]
}

func (f *fakeRemote) Questions(context.Context, services.ListOptions) ([]models.RawQuestion, int, error) {
	if err := f.record("list", ""); err != nil {
		return nil, 0, err
	}
	return f.questions, 50, nil
}

func (f *fakeRemote) Delete(_ context.Context, kind models.ItemKind, id int64) error {
	return f.record("delete", kind, id)
}

func (f *fakeRemote) Restore(_ context.Context, kind models.ItemKind, id int64) error {
	return f.record("restore", kind, id)
}

func (f *fakeRemote) ForceDelete(_ context.Context, kind models.ItemKind, id int64) error {
	return f.record("force-delete", kind, id)
}

func (f *fakeRemote) DeleteMany(_ context.Context, kind models.ItemKind, ids []int64) error {
	return f.record("delete-many", kind, ids...)
}

func (f *fakeRemote) RestoreMany(_ context.Context, kind models.ItemKind, ids []int64) error {
	return f.record("restore-many", kind, ids...)
}

var _ Remote = services.NewRawDataService(nil)

func TestSynced_RemoteFailureLeavesPoolUntouched(t *testing.T) {
	ctx := context.Background()
	denied := &client.APIError{Status: 403, Message: "not allowed", Err: client.ErrForbidden}
	remote := &fakeRemote{errs: map[string]error{"delete": denied, "restore": denied}}
	p := newPool(t, question(1, 11))
	s := NewSynced(p, remote)

	err := s.Delete(ctx, models.KindQuestion, 1)
	assert.Same(t, denied, err)
	assert.True(t, p.Contains(models.KindQuestion, 1))
	assert.Empty(t, p.RecentlyDeleted())

	require.True(t, p.Delete(ctx, models.KindRawAnswer, 11))
	_, err = s.UndoLast(ctx)
	assert.Same(t, denied, err)
	assert.False(t, p.Contains(models.KindRawAnswer, 11))
	assert.Len(t, p.RecentlyDeleted(), 1)
}

func TestSynced_DeleteAndUndo(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	p := newPool(t, question(1, 11))
	s := NewSynced(p, remote)

	require.NoError(t, s.Delete(ctx, models.KindRawAnswer, 11))
	require.NoError(t, s.Delete(ctx, models.KindRawAnswer, 99), "absent items are skipped")

	e, err := s.UndoLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(11), e.ID)
	assert.True(t, p.Contains(models.KindRawAnswer, 11))

	assert.Equal(t, []call{
		{op: "delete", kind: models.KindRawAnswer, ids: []int64{11}},
		{op: "restore", kind: models.KindRawAnswer, ids: []int64{11}},
	}, remote.calls)

	_, err = s.UndoLast(ctx)
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestSynced_DeleteSelectedOneCallPerKind(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	p := newPool(t, question(1, 11, 12), question(2), question(3))
	s := NewSynced(p, remote)

	p.ToggleSelection(models.KindQuestion, 3)
	p.ToggleSelection(models.KindQuestion, 2)
	p.ToggleSelection(models.KindRawAnswer, 12)

	n, err := s.DeleteSelected(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, []call{
		{op: "delete-many", kind: models.KindQuestion, ids: []int64{2, 3}},
		{op: "delete-many", kind: models.KindRawAnswer, ids: []int64{12}},
	}, remote.calls)
	assert.Equal(t, []int64{1}, ids(p.Questions()))
	assert.False(t, p.HasSelection())
}

func TestSynced_DeleteSelectedStopsAtFailedKind(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	p := newPool(t, question(1, 11), question(2))
	// Fail only the second bulk call.
	s := NewSynced(p, &failAfter{fakeRemote: &fakeRemote{}, n: 1, err: boom})

	p.ToggleSelection(models.KindQuestion, 2)
	p.ToggleSelection(models.KindRawAnswer, 11)

	n, err := s.DeleteSelected(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n)
	assert.False(t, p.Contains(models.KindQuestion, 2))
	assert.True(t, p.Contains(models.KindRawAnswer, 11))
	assert.True(t, p.IsSelected(models.KindRawAnswer, 11))
}

// failAfter lets n bulk deletes through and fails the rest.
type failAfter struct {
	*fakeRemote
	n   int
	err error
}

func (f *failAfter) DeleteMany(ctx context.Context, kind models.ItemKind, ids []int64) error {
	if f.n == 0 {
		return f.err
	}
	f.n--
	return f.fakeRemote.DeleteMany(ctx, kind, ids)
}

func TestSynced_RestoreWithoutParentMakesNoCall(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	p := newPool(t, question(1, 11))
	s := NewSynced(p, remote)

	p.Delete(ctx, models.KindRawAnswer, 11)
	answer := p.RecentlyDeleted()[0]
	p.Delete(ctx, models.KindQuestion, 1)

	assert.ErrorIs(t, s.Restore(ctx, answer), ErrNoParent)
	assert.Empty(t, remote.calls)
}

func TestSynced_RestoreAllAndPurge(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	p := newPool(t, question(1, 11), question(2))
	s := NewSynced(p, remote)

	p.Delete(ctx, models.KindRawAnswer, 11)
	p.Delete(ctx, models.KindQuestion, 1)

	n, err := s.RestoreAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []call{
		{op: "restore-many", kind: models.KindQuestion, ids: []int64{1}},
		{op: "restore-many", kind: models.KindRawAnswer, ids: []int64{11}},
	}, remote.calls)

	p.Delete(ctx, models.KindQuestion, 2)
	require.NoError(t, s.Purge(ctx, p.RecentlyDeleted()[0]))
	assert.Empty(t, p.RecentlyDeleted())
	assert.Equal(t, "force-delete", remote.calls[len(remote.calls)-1].op)
}

func TestSynced_Fetch(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{questions: []models.RawQuestion{question(7), question(8)}}
	p := newPool(t, question(1))
	p.ToggleSelection(models.KindQuestion, 1)
	s := NewSynced(p, remote)

	total, err := s.Fetch(ctx, services.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 50, total)
	assert.Equal(t, []int64{7, 8}, ids(p.Questions()))
	assert.False(t, p.HasSelection())
	assert.Same(t, p, s.Pool())
}
