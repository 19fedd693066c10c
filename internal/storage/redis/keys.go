package redis

import (
	"fmt"

	"github.com/dmorelli/guessphrase/internal/model"
)

// Key prefixes for all stored entities
const (
	keyPrefix = "gp:"

	playerSeqKey = keyPrefix + "seq:player"
	gameSeqKey   = keyPrefix + "seq:game"

	ongoingGamesKey = keyPrefix + "games:ongoing"
)

func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%splayer:%d", keyPrefix, id)
}

func usernameIndexKey(username string) string {
	return keyPrefix + "player:username:" + username
}

func gameKey(id model.GameID) string {
	return fmt.Sprintf("%sgame:%d", keyPrefix, id)
}
