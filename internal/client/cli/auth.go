package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/dmitrijs2005/qacurator/internal/client/routes"
	"github.com/dmitrijs2005/qacurator/internal/client/session"
	"github.com/dmitrijs2005/qacurator/internal/common"
)

// getSimpleText, getOptionalText and getPassword are swapped out in tests.
var (
	getSimpleText   = GetSimpleText
	getOptionalText = GetOptionalText
	getPassword     = GetPassword
)

var errUnknownRole = errors.New("role must be user or admin")

// Register creates an account and signs into it. The role defaults to user.
func (a *App) Register(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	role, err := getOptionalText(a.reader, "Role (user|admin)", string(models.RoleUser), a.out)
	if err != nil {
		return err
	}
	if r := models.Role(role); r != models.RoleUser && r != models.RoleAdmin {
		return errUnknownRole
	}

	res, err := a.auth.Register(ctx, models.RegisterRequest{Username: username, Password: string(password), Role: models.Role(role)})
	if err != nil {
		return err
	}
	a.signedIn(ctx, res.User.Identity())
	return nil
}

// Login signs the user session in and moves to the role's landing route.
func (a *App) Login(ctx context.Context, _ []string) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.auth.Login(ctx, username, string(password))
	if err != nil {
		return err
	}
	a.signedIn(ctx, res.User.Identity())
	return nil
}

func (a *App) signedIn(ctx context.Context, id models.Identity) {
	a.notes.Success(fmt.Sprintf("Signed in as %s (%s)", id.DisplayName(), id.Role))
	r, _ := a.guard.Table().ByName(routes.Landing(id.Role))
	a.enter(ctx, r.Path)
}

// ExpertLogin signs the expert session in. It is independent of the user
// session.
func (a *App) ExpertLogin(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	expert, err := a.experts.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	a.notes.Success(fmt.Sprintf("Expert %s signed in", expert.Name))
	return nil
}

// Logout clears the user session, or the expert session with "logout expert".
func (a *App) Logout(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "expert" {
		if err := a.experts.Logout(ctx); err != nil {
			return err
		}
		a.notes.Success("Expert signed out")
		return nil
	}

	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	a.location = "/"
	a.mu.Unlock()
	a.notes.Success("Signed out")
	return nil
}

// Whoami prints both sessions and the user token's expiry when known.
func (a *App) Whoami(_ context.Context, _ []string) error {
	printSession(a, "user", a.userSession)
	printSession(a, "expert", a.expertSession)
	return nil
}

func printSession(a *App, label string, s *session.Store) {
	id, ok := s.Identity()
	if !ok {
		fmt.Fprintf(a.out, "%s: not signed in\n", label)
		return
	}
	fmt.Fprintf(a.out, "%s: %s (id %d, role %s)", label, id.DisplayName(), id.ID, id.Role)
	if c, err := s.TokenClaims(); err == nil && !c.ExpiresAt.IsZero() {
		if c.Expired(time.Now()) {
			fmt.Fprint(a.out, ", token expired")
		} else {
			fmt.Fprintf(a.out, ", token valid until %s", c.ExpiresAt.UTC().Format(time.RFC3339))
		}
	}
	fmt.Fprintln(a.out)
}
