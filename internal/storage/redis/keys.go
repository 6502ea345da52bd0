package redis

import (
	"fmt"

	"github.com/mcoot/fourpics/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "fpgame"

func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey maps a username to its player ID
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesForPlayerIndexKey is a SET of game keys owned by a player
func gamesForPlayerIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:games_for_player:%s", keyPrefix, playerID)
}

// dictionaryKey is a SET of dictionary words
func dictionaryKey() string {
	return fmt.Sprintf("%s:dictionary", keyPrefix)
}
