package request

// RegisterRequest is the request body for POST /api/auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request body for POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateGameRequest is the request body for POST /api/games
type CreateGameRequest struct {
	GameVariant string `json:"game_variant"`
}

// InviteRequest is the request body for POST /api/invite
type InviteRequest struct {
	GameVariant string `json:"game_variant"`
	InviteEmail string `json:"invite_email"`
}
