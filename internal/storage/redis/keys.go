package redis

import (
	"fmt"

	"github.com/chala47/checker/internal/model"
)

// Key prefix for all checkers data
const keyPrefix = "checker"

// accountKey returns the Redis key for an Account
func accountKey(id model.AccountID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// emailIndexKey returns the Redis key for the email -> account_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// accountsIndexKey returns the Redis key for the SET of all account ids
func accountsIndexKey() string {
	return fmt.Sprintf("%s:idx:accounts", keyPrefix)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesByStatusKey returns the Redis key for the SET of game ids in a status
func gamesByStatusKey(status model.GameStatus) string {
	return fmt.Sprintf("%s:idx:games:%s", keyPrefix, status)
}
