package cli

import (
	"context"
	"errors"
	"fmt"
)

var errExpertSignedOut = errors.New("sign in with expert-login first")

// Join attaches the signed-in expert to an admin's pool by invite code.
func (a *App) Join(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("join <invite-code>")
	}
	if !a.expertSession.IsAuthenticated() {
		return errExpertSignedOut
	}

	info, err := a.experts.InviteCodeInfo(ctx, args[0])
	if err != nil {
		return err
	}
	task, err := a.experts.JoinTask(ctx, args[0])
	if err != nil {
		return err
	}
	a.notes.Success(fmt.Sprintf("Joined task %d of %s", task.ID, info.AdminUsername))
	return nil
}

// Invite shows, issues or revokes the admin's expert invite code.
func (a *App) Invite(ctx context.Context, args []string) error {
	if !a.enter(ctx, "/admin") {
		return nil
	}

	action := ""
	if len(args) > 0 {
		action = args[0]
	}
	switch action {
	case "":
		code, err := a.auth.InviteCode(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, code.InviteCode)
	case "issue":
		code, err := a.auth.IssueInviteCode(ctx)
		if err != nil {
			return err
		}
		a.notes.Success("New invite code " + code.InviteCode)
	case "revoke":
		if err := a.auth.RevokeInviteCode(ctx); err != nil {
			return err
		}
		a.notes.Success("Invite code revoked")
	default:
		return usage("invite [issue|revoke]")
	}
	return nil
}
