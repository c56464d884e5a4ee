package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
)

// SessionWriter is the part of a session store the login flows update.
type SessionWriter interface {
	SetIdentity(ctx context.Context, identity models.Identity, token string) error
	Clear(ctx context.Context) error
}

// AuthService defines account operations of the user session.
//
// Contract:
//   - Login: exchange credentials for a token, fetch the account with it and
//     persist both as the user session.
//   - Register: create the account, then Login with the same credentials.
//   - Logout: clear the user session. It does not call the server.
//   - Invite codes belong to the signed-in admin.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.AuthResult, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
	Me(ctx context.Context) (*models.User, error)
	User(ctx context.Context, userID int64) (*models.User, error)
	Logout(ctx context.Context) error
	InviteCode(ctx context.Context) (*models.InviteCode, error)
	IssueInviteCode(ctx context.Context) (*models.InviteCode, error)
	RevokeInviteCode(ctx context.Context) error
	Ping(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session SessionWriter
}

// NewAuthService binds the service to a gateway and the user session.
func NewAuthService(c client.Client, session SessionWriter) AuthService {
	return &authService{client: c, session: session}
}

func (a *authService) Login(ctx context.Context, username, password string) (*models.AuthResult, error) {
	var tok models.Token
	if err := post(ctx, a.client, "/api/auth/login", models.LoginRequest{Username: username, Password: password}, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, &client.APIError{Status: http.StatusOK, Message: "server issued no token", Err: client.ErrMalformedResponse}
	}

	// The token is not persisted yet, so pass it explicitly.
	var user models.User
	if err := a.client.Do(ctx, &client.Request{Method: http.MethodGet, Path: "/api/auth/me", Token: tok.AccessToken}, &user); err != nil {
		return nil, err
	}

	if err := a.session.SetIdentity(ctx, user.Identity(), tok.AccessToken); err != nil {
		return nil, err
	}
	return &models.AuthResult{Token: tok.AccessToken, User: user}, nil
}

func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	if err := post(ctx, a.client, "/api/auth/register", req, nil); err != nil {
		return nil, err
	}
	return a.Login(ctx, req.Username, req.Password)
}

func (a *authService) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	err := a.client.Do(ctx, &client.Request{Method: http.MethodGet, Path: "/api/auth/me", RequireToken: true}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authService) User(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	if err := get(ctx, a.client, "/api/auth/users/"+itoa(userID), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.session.Clear(ctx)
}

func (a *authService) InviteCode(ctx context.Context) (*models.InviteCode, error) {
	var code models.InviteCode
	if err := get(ctx, a.client, "/api/auth/invite-code", &code); err != nil {
		return nil, err
	}
	return &code, nil
}

func (a *authService) IssueInviteCode(ctx context.Context) (*models.InviteCode, error) {
	var code models.InviteCode
	if err := post(ctx, a.client, "/api/auth/invite-code", nil, &code); err != nil {
		return nil, err
	}
	return &code, nil
}

func (a *authService) RevokeInviteCode(ctx context.Context) error {
	return del(ctx, a.client, "/api/auth/invite-code", nil)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
