package keys

import "strings"

const (
	fightPrefix = "fight:"
	stateSuffix = ":state"
)

// StateKey returns the state store key of a fight, "fight:<id>:state".
func StateKey(fightID string) string {
	return fightPrefix + fightID + stateSuffix
}

// FightIDFromStateKey is the inverse of StateKey. It reports false for keys
// that do not have the state key shape.
func FightIDFromStateKey(key string) (string, bool) {
	if !strings.HasPrefix(key, fightPrefix) || !strings.HasSuffix(key, stateSuffix) {
		return "", false
	}
	id := key[len(fightPrefix) : len(key)-len(stateSuffix)]
	if id == "" {
		return "", false
	}
	return id, true
}
