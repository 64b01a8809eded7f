package domain

// UserProfile is the operator profile returned by the login endpoint.
type UserProfile struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Session is the locally cached credential pair: an opaque token minted by
// the upstream plus the operator profile. The BFF never inspects the token's
// contents and never re-validates it against the server.
type Session struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// LoginRequest is the body for POST /api/login upstream.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the upstream's login reply. On rejection the body carries
// Success=false and a user-displayable Message instead of token/user.
type LoginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token,omitempty"`
	User    UserProfile `json:"user,omitempty"`
	Message string      `json:"message,omitempty"`
}

// SessionInfo is what GET /v1/auth/session returns to the frontend. The
// token itself stays server-side in the BFF's durable store.
type SessionInfo struct {
	Authenticated bool         `json:"authenticated"`
	User          *UserProfile `json:"user,omitempty"`
}
