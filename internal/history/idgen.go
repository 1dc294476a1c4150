package history

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// adjectives is a list of descriptive words for memorable ID generation.
var adjectives = []string{
	"agile", "amber", "bold", "brave", "bright",
	"brisk", "calm", "clear", "crisp", "deft",
	"eager", "fleet", "fresh", "golden", "hardy",
	"keen", "lively", "lucid", "mellow", "nimble",
	"polar", "quick", "quiet", "rapid", "solid",
	"sonic", "stable", "steady", "swift", "vivid",
}

// nouns is a list of concrete nouns for memorable ID generation.
var nouns = []string{
	"anchor", "arch", "aspen", "beacon", "birch",
	"bridge", "brook", "cedar", "cliff", "comet",
	"delta", "ember", "field", "gate", "grove",
	"harbor", "haven", "lake", "maple", "meadow",
	"oak", "peak", "pine", "ridge", "river",
	"slope", "spire", "summit", "trail", "willow",
}

// GenerateID returns a memorable unique ID in the form
// adjective_noun_YYYYMMDD_HHMMSS.
// Uses crypto/rand for secure random word selection to prevent collisions.
func GenerateID() (string, error) {
	adj, err := randomWord(adjectives)
	if err != nil {
		return "", fmt.Errorf("selecting random adjective: %w", err)
	}

	noun, err := randomWord(nouns)
	if err != nil {
		return "", fmt.Errorf("selecting random noun: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s_%s", adj, noun, timestamp), nil
}

// randomWord selects a random word from the given slice using crypto/rand.
func randomWord(words []string) (string, error) {
	if len(words) == 0 {
		return "", fmt.Errorf("word list is empty")
	}

	max := big.NewInt(int64(len(words)))
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generating random number: %w", err)
	}

	return words[n.Int64()], nil
}
