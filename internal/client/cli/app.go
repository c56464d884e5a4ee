package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/config"
	"github.com/dmitrijs2005/qacurator/internal/client/export"
	"github.com/dmitrijs2005/qacurator/internal/client/notify"
	"github.com/dmitrijs2005/qacurator/internal/client/routes"
	"github.com/dmitrijs2005/qacurator/internal/client/services"
	"github.com/dmitrijs2005/qacurator/internal/client/session"
	"github.com/dmitrijs2005/qacurator/internal/client/storage"
	"github.com/dmitrijs2005/qacurator/internal/client/tasks"
	"github.com/dmitrijs2005/qacurator/internal/client/workingset"
	"github.com/dmitrijs2005/qacurator/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds one connectivity probe.
const pingTimeout = 3 * time.Second

// App is the interactive client. It owns every store and service and is
// driven by the REPL.
type App struct {
	cfg    *config.Config
	log    logging.Logger
	closer io.Closer

	userSession   *session.Store
	expertSession *session.Store

	auth       services.AuthService
	experts    services.ExpertService
	datasets   services.DatasetService
	rawData    services.RawDataService
	imports    services.ImportService
	evaluation services.EvaluationService

	guard    *routes.Guard
	pool     *workingset.Pool
	synced   *workingset.Synced
	monitor  *tasks.Monitor
	notes    *notify.Center
	exporter export.Exporter

	reader *bufio.Reader
	out    io.Writer

	mu       sync.RWMutex
	mode     Mode
	location string
}

// NewApp opens local storage and wires the sessions, gateways and services
// described by c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}

	db, err := storage.OpenSQLite(ctx, c.StoragePath)
	if err != nil {
		log.Error(ctx, "error initializing storage", "path", c.StoragePath, "error", err)
		return nil, err
	}

	var st storage.Store = db
	if c.StorageSecret != "" {
		sealed, err := storage.NewSealed(ctx, db, []byte(c.StorageSecret), storage.CredentialKeys...)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		st = sealed
	}

	a, err := newApp(ctx, c, st, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.closer = db
	return a, nil
}

func newApp(ctx context.Context, c *config.Config, st storage.Store, log logging.Logger) (*App, error) {
	userSession := session.New(st, session.UserKeys, log)
	userSession.LoadFromStorage(ctx)
	expertSession := session.New(st, session.ExpertKeys, log)
	expertSession.LoadFromStorage(ctx)

	opts := []client.Option{
		client.WithTimeout(c.RequestTimeout),
		client.WithRateLimit(c.RequestsPerSecond, max(1, int(c.RequestsPerSecond))),
		client.WithLogger(log),
	}
	userGW, err := client.New(c.ServerURL, userSession, opts...)
	if err != nil {
		return nil, err
	}
	expertGW, err := client.New(c.ServerURL, expertSession, opts...)
	if err != nil {
		return nil, err
	}

	guard, err := routes.NewGuard(routes.DefaultTable(), userSession, log)
	if err != nil {
		return nil, err
	}

	pool, err := workingset.Open(ctx, st, log)
	if err != nil {
		return nil, err
	}

	exporter, err := export.New(ctx, c.ExportDir, export.S3Options{
		Endpoint:  c.S3Endpoint,
		Region:    c.S3Region,
		Bucket:    c.S3Bucket,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	})
	if err != nil {
		return nil, err
	}

	rawData := services.NewRawDataService(userGW)
	evaluation := services.NewEvaluationService(userGW)

	a := &App{
		cfg:           c,
		log:           log,
		userSession:   userSession,
		expertSession: expertSession,
		auth:          services.NewAuthService(userGW, userSession),
		experts:       services.NewExpertService(expertGW, expertSession),
		datasets:      services.NewDatasetService(userGW),
		rawData:       rawData,
		imports:       services.NewImportService(userGW),
		evaluation:    evaluation,
		guard:         guard,
		pool:          pool,
		synced:        workingset.NewSynced(pool, rawData),
		exporter:      exporter,
		reader:        bufio.NewReader(os.Stdin),
		out:           os.Stdout,
		location:      "/",
	}
	a.notes = notify.NewCenter(c.NotificationTTL, notify.WithWriter(a.out))
	a.monitor = tasks.NewMonitor(evaluation, c.PollInterval, log, tasks.WithOnUpdate(a.printProgress))
	return a, nil
}

// Close releases local storage.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Run checks connectivity, starts the watcher and blocks in the REPL until
// the user exits or ctx ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.cfg.OnlineCheckInterval)

	printlnFn("qacurator CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) online() bool { return a.Mode() == ModeOnline }

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := a.auth.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval and switches
// between online and offline mode. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.userSession.IsAuthenticated()
}

func (a *App) getStatus() string {
	s := ""
	if id, ok := a.userSession.Identity(); ok {
		s = fmt.Sprintf("%s %s ", id.DisplayName(), id.Role)
	}
	if id, ok := a.expertSession.Identity(); ok {
		s += fmt.Sprintf("expert:%s ", id.DisplayName())
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}

	a.mu.RLock()
	loc := a.location
	a.mu.RUnlock()

	status := fmt.Sprintf("(%s) %s", s, loc)
	if n, ok := a.notes.Current(); ok {
		status += " [" + string(n.Severity) + "]"
	}
	return status
}

// enter navigates to path through the guard. A refusal is reported and moves
// the client to the route the guard chose instead.
func (a *App) enter(ctx context.Context, path string) bool {
	d := a.guard.Navigate(ctx, path)

	a.mu.Lock()
	if d.Allowed() {
		a.location = path
	} else {
		a.location = d.Target.Path
	}
	a.mu.Unlock()

	if !d.Allowed() {
		a.notes.Warning(fmt.Sprintf("%s, redirected to %s", d.Reason, d.Target.Path))
	}
	return d.Allowed()
}

// report shows err as an error notification.
func (a *App) report(err error) {
	if _, ok := a.notes.Error(err); ok {
		a.log.Debug(context.Background(), "command failed", "error", err)
	}
}
