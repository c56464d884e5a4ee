// Package models defines the data exchanged with the curation API and kept
// in local stores.
package models

// Role is the account role assigned by the server.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleExpert Role = "expert"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleExpert:
		return true
	}
	return false
}

// Identity is the authenticated principal held by a session store.
// Users carry Username; experts carry Name and Email.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
}

// DisplayName is Name when set, else Username.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Username
}

// User is the account record returned by /auth/me.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Role      Role   `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Identity projects the account onto a session identity.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Token is the bearer credential issued at login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthResult is what a completed login yields.
type AuthResult struct {
	Token string `json:"access_token"`
	User  User   `json:"user"`
}

// Expert is an expert account of the legacy expert login.
type Expert struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsDeleted bool   `json:"is_deleted"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Identity projects the expert onto a session identity.
func (e Expert) Identity() Identity {
	return Identity{ID: e.ID, Name: e.Name, Email: e.Email, Role: RoleExpert}
}

type ExpertLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ExpertLoginResponse struct {
	Expert      Expert `json:"expert"`
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	Success     bool   `json:"success,omitempty"`
}

// InviteCode is an admin's expert invitation code.
type InviteCode struct {
	InviteCode string `json:"invite_code"`
}

// InviteCodeInfo describes the admin behind an invite code.
type InviteCodeInfo struct {
	AdminUsername string `json:"admin_username"`
	AdminID       int64  `json:"admin_id"`
	InviteCode    string `json:"invite_code"`
}

// Message is the generic {"message": ...} acknowledgement.
type Message struct {
	Message string `json:"message"`
}
