package redis

import "fmt"

const keyPrefix = "rivalry"

func playerKey(id string) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersKey is the SET of every player id.
func playersKey() string {
	return fmt.Sprintf("%s:players", keyPrefix)
}

func playerNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:player_name:%s", keyPrefix, name)
}

func matchKey(id string) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchesIndexKey is the ZSET of every match id scored by date.
func matchesIndexKey() string {
	return fmt.Sprintf("%s:idx:matches", keyPrefix)
}

func playerMatchesIndexKey(playerID string) string {
	return fmt.Sprintf("%s:idx:player_matches:%s", keyPrefix, playerID)
}

func tournamentMatchesIndexKey(tournamentID string) string {
	return fmt.Sprintf("%s:idx:tournament_matches:%s", keyPrefix, tournamentID)
}

func tournamentKey(id string) string {
	return fmt.Sprintf("%s:tournament:%s", keyPrefix, id)
}

func tournamentsKey() string {
	return fmt.Sprintf("%s:tournaments", keyPrefix)
}

func tournamentSlugIndexKey(slug string) string {
	return fmt.Sprintf("%s:idx:tournament_slug:%s", keyPrefix, slug)
}
