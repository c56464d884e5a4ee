package routes

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/dmitrijs2005/qacurator/internal/client/session"
	"github.com/dmitrijs2005/qacurator/internal/logging"
)

// SessionReader is the part of a session store the guard needs.
type SessionReader interface {
	Read(ctx context.Context) (session.State, error)
	Clear(ctx context.Context) error
}

// Outcome of a guard check.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

func (o Outcome) String() string {
	if o == Allow {
		return "allow"
	}
	return "redirect"
}

// Decision is the guard's verdict. Target is the route to go to: the
// requested one on Allow, the fallback on Redirect.
type Decision struct {
	Outcome Outcome
	Target  Route
	Params  map[string]string
	Reason  string
}

// Allowed is shorthand for Outcome == Allow.
func (d Decision) Allowed() bool { return d.Outcome == Allow }

// Landing returns the name of the route an identity with role is sent to
// when it is refused a role-restricted route.
func Landing(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return AdminHome
	case models.RoleUser, models.RoleExpert:
		return Marketplace
	default:
		return Entry
	}
}

// Guard decides every navigation against the persisted session. It reads
// storage on each check and never caches the identity.
type Guard struct {
	table *Table
	sess  SessionReader
	log   logging.Logger
}

// NewGuard checks that the table holds every fallback route the guard may
// redirect to.
func NewGuard(table *Table, sess SessionReader, log logging.Logger) (*Guard, error) {
	for _, name := range []string{Entry, AdminHome, Marketplace} {
		if _, ok := table.ByName(name); !ok {
			return nil, fmt.Errorf("%w: fallback route %s missing", ErrInvalidRoute, name)
		}
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Guard{table: table, sess: sess, log: log}, nil
}

// Table returns the route table the guard resolves paths against.
func (g *Guard) Table() *Table { return g.table }

// Check decides a navigation to r. It never fails: any internal error
// degrades to a redirect to the entry route.
func (g *Guard) Check(ctx context.Context, r Route) Decision {
	// Read first so a corrupted record is healed on any navigation.
	state, err := g.sess.Read(ctx)
	if !r.Meta.RequiresAuth {
		return Decision{Outcome: Allow, Target: r}
	}
	if err != nil {
		g.log.Error(ctx, "guard could not read session", "route", r.Name, "error", err)
		return g.redirect(Entry, "session unavailable")
	}

	if !state.Complete() {
		if !state.Empty() {
			g.log.Warn(ctx, "purging half-valid session", "route", r.Name)
			if err := g.sess.Clear(ctx); err != nil {
				g.log.Error(ctx, "session purge failed", "error", err)
			}
		}
		return g.redirect(Entry, "authentication required")
	}

	if r.Meta.Role != "" && state.Identity.Role != r.Meta.Role {
		g.log.Debug(ctx, "role mismatch", "route", r.Name, "need", r.Meta.Role, "have", state.Identity.Role)
		return g.redirect(Landing(state.Identity.Role), fmt.Sprintf("route requires role %s", r.Meta.Role))
	}

	return Decision{Outcome: Allow, Target: r}
}

// Navigate resolves path and checks the matched route. Unknown paths
// redirect to the entry route.
func (g *Guard) Navigate(ctx context.Context, path string) Decision {
	m, ok := g.table.Match(path)
	if !ok {
		return g.redirect(Entry, fmt.Sprintf("no route for %s", path))
	}
	d := g.Check(ctx, m.Route)
	if d.Allowed() {
		d.Params = m.Params
	}
	return d
}

func (g *Guard) redirect(name, reason string) Decision {
	r, _ := g.table.ByName(name)
	return Decision{Outcome: Redirect, Target: r, Reason: reason}
}
