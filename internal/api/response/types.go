package response

import (
	"github.com/chala47/checker/internal/model"
)

// Account represents an account in API responses; the credential hash is
// never included
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AccountFromModel converts a model.Account to a response Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		ID:    string(a.ID),
		Email: a.Email,
	}
}

// GameDetail is the response for GET /api/games/{id}: the game plus the
// requesting account's id, so the client knows which seat it holds
type GameDetail struct {
	Game     *model.Game `json:"game"`
	PlayerID string      `json:"player_id"`
}
