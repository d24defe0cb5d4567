package models

// Role is the authorization level granted by the backend.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cajero"
)

// ParseRole maps the backend "rol" value. Anything but admin is treated as a cashier.
func ParseRole(value string) Role {
	if value == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleCashier
}

// Session is the persisted authentication state of the terminal.
type Session struct {
	Token    string `json:"-" yaml:"token"`
	Role     Role   `json:"role" yaml:"role"`
	Username string `json:"username" yaml:"username"`
}

// IsAdmin reports whether the session may use admin-only screens.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// LoginResult mirrors the POST /token response.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"rol"`
}
