package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/dmitrijs2005/qacurator/internal/client/notify"
	"github.com/dmitrijs2005/qacurator/internal/client/routes"
	"github.com/dmitrijs2005/qacurator/internal/client/services"
	"github.com/dmitrijs2005/qacurator/internal/client/session"
	"github.com/dmitrijs2005/qacurator/internal/client/storage"
	"github.com/dmitrijs2005/qacurator/internal/client/workingset"
	"github.com/dmitrijs2005/qacurator/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuth signs the session in the way the real service does.
type fakeAuth struct {
	services.AuthService
	sess *session.Store

	user      models.User
	loginErr  error
	pingErr   error
	gotUser   string
	gotPass   string
	registers []models.RegisterRequest
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	f.gotUser, f.gotPass = username, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if err := f.sess.SetIdentity(ctx, f.user.Identity(), "tok"); err != nil {
		return nil, err
	}
	return &models.AuthResult{Token: "tok", User: f.user}, nil
}

func (f *fakeAuth) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	f.registers = append(f.registers, req)
	f.user.Username, f.user.Role = req.Username, req.Role
	return f.Login(ctx, req.Username, req.Password)
}

func (f *fakeAuth) Logout(ctx context.Context) error { return f.sess.Clear(ctx) }
func (f *fakeAuth) Ping(context.Context) error       { return f.pingErr }

// poolRemote is a minimal server side of the working set.
type poolRemote struct {
	questions []models.RawQuestion
	calls     []string
	err       error
}

func (r *poolRemote) rec(op string) error {
	r.calls = append(r.calls, op)
	return r.err
}

func (r *poolRemote) Questions(context.Context, services.ListOptions) ([]models.RawQuestion, int, error) {
	if err := r.rec("list"); err != nil {
		return nil, 0, err
	}
	return r.questions, 40, nil
}
func (r *poolRemote) Delete(context.Context, models.ItemKind, int64) error  { return r.rec("delete") }
func (r *poolRemote) Restore(context.Context, models.ItemKind, int64) error { return r.rec("restore") }
func (r *poolRemote) ForceDelete(context.Context, models.ItemKind, int64) error {
	return r.rec("force-delete")
}
func (r *poolRemote) DeleteMany(context.Context, models.ItemKind, []int64) error {
	return r.rec("delete-many")
}
func (r *poolRemote) RestoreMany(context.Context, models.ItemKind, []int64) error {
	return r.rec("restore-many")
}

type testApp struct {
	*App
	out    *bytes.Buffer
	auth   *fakeAuth
	remote *poolRemote
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	st := storage.NewMemory()
	userSession := session.New(st, session.UserKeys, nil)
	expertSession := session.New(st, session.ExpertKeys, nil)

	guard, err := routes.NewGuard(routes.DefaultTable(), userSession, nil)
	require.NoError(t, err)
	pool, err := workingset.Open(ctx, st, nil)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	auth := &fakeAuth{sess: userSession, user: models.User{ID: 1, Username: "alice", Role: models.RoleAdmin}}
	remote := &poolRemote{}

	a := &App{
		log:           logging.Discard(),
		userSession:   userSession,
		expertSession: expertSession,
		auth:          auth,
		guard:         guard,
		pool:          pool,
		synced:        workingset.NewSynced(pool, remote),
		reader:        bufio.NewReader(strings.NewReader("")),
		out:           out,
		mode:          ModeOnline,
		location:      "/",
	}
	a.notes = notify.NewCenter(time.Minute, notify.WithWriter(out))
	return &testApp{App: a, out: out, auth: auth, remote: remote}
}

func (ta *testApp) signIn(t *testing.T, role models.Role) {
	t.Helper()
	id := models.Identity{ID: 1, Username: "alice", Role: role}
	require.NoError(t, ta.userSession.SetIdentity(context.Background(), id, "tok"))
}

func TestCheckOnline_SwitchesMode(t *testing.T) {
	ta := newTestApp(t)

	ta.auth.pingErr = &client.APIError{Message: "down", Err: client.ErrUnavailable}
	ta.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, ta.Mode())

	ta.auth.pingErr = nil
	ta.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, ta.Mode())
}

func TestStartOnlineStatusWatcher_StopsWithContext(t *testing.T) {
	ta := newTestApp(t)
	ta.auth.pingErr = errors.New("no route")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ta.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return ta.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestGetStatus(t *testing.T) {
	ta := newTestApp(t)
	assert.Equal(t, "(online) /", ta.getStatus())

	ta.signIn(t, models.RoleAdmin)
	assert.Equal(t, "(alice admin online) /", ta.getStatus())

	ta.notes.Warning("careful")
	assert.Equal(t, "(alice admin online) / [warning]", ta.getStatus())
}

func TestEnter_RedirectIsReported(t *testing.T) {
	ta := newTestApp(t)
	ta.signIn(t, models.RoleUser)

	assert.False(t, ta.enter(context.Background(), "/admin/raw-questions"))
	assert.Equal(t, "/marketplace", ta.location)
	assert.Contains(t, ta.out.String(), "[warning] route requires role admin, redirected to /marketplace")

	assert.True(t, ta.enter(context.Background(), "/evaluation"))
	assert.Equal(t, "/evaluation", ta.location)
}

func TestGo_UnknownPathLandsOnEntry(t *testing.T) {
	ta := newTestApp(t)
	ta.signIn(t, models.RoleAdmin)
	ta.location = "/admin"

	require.NoError(t, ta.Go(context.Background(), []string{"/nowhere"}))
	assert.Equal(t, "/", ta.location)

	err := ta.Go(context.Background(), nil)
	assert.ErrorIs(t, err, errUsage)
}

func TestRoutes_MarksOpenRoutes(t *testing.T) {
	ta := newTestApp(t)
	ta.signIn(t, models.RoleUser)

	require.NoError(t, ta.Routes(context.Background(), nil))

	out := ta.out.String()
	assert.Contains(t, out, "* evaluation")
	assert.Contains(t, out, "  admin-home")
}
