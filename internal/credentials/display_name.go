package credentials

import (
	"crypto/rand"
	"math/big"
)

// Word lists for generating friendly display names for players who
// sign up without choosing one.
var adjectives = []string{
	"curious", "thoughtful", "quick", "bright", "bold", "calm", "keen", "sharp",
	"steady", "lively", "witty", "clever", "eager", "honest", "patient", "daring",
	"gentle", "sunny", "swift", "vivid", "wise", "brave", "earnest", "nimble",
}

var nouns = []string{
	"thinker", "dreamer", "explorer", "scholar", "wanderer", "observer", "seeker",
	"builder", "reader", "writer", "puzzler", "sketcher", "stargazer", "pathfinder",
	"listener", "mapmaker", "inventor", "voyager", "keeper", "rambler",
}

// GenerateDisplayName produces a random "adjective-noun" display name
func GenerateDisplayName() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}
	noun, err := randomElement(nouns)
	if err != nil {
		return "", err
	}
	return adjective + "-" + noun, nil
}

func randomElement(words []string) (string, error) {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return "", err
	}
	return words[num.Int64()], nil
}
