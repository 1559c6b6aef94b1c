// Package username generates and validates usernames.
//
// Auto-provisioned users receive a random adjective_noun_digits handle
// (e.g. "quiet_otter_4821") which they can change later. Both generated
// and user-chosen usernames must satisfy the same format rules.
package username

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

const (
	// MinLength is the minimum username length.
	MinLength = 3
	// MaxLength is the maximum username length.
	MaxLength = 30
)

// validPattern matches allowed usernames: alphanumeric and underscore only.
var validPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var adjectives = []string{
	"amber", "bold", "brave", "bright", "calm", "clever", "cosmic", "crisp",
	"daring", "eager", "fuzzy", "gentle", "golden", "happy", "humble", "keen",
	"lively", "lucky", "mellow", "misty", "noble", "quiet", "rapid", "rustic",
	"silent", "silver", "sleepy", "subtle", "sunny", "swift", "vivid", "witty",
}

var nouns = []string{
	"badger", "bison", "comet", "condor", "coral", "crane", "delta", "falcon",
	"fjord", "gecko", "heron", "ibis", "lemur", "lynx", "maple", "marmot",
	"meadow", "nebula", "otter", "panda", "pebble", "pine", "raven", "reef",
	"sparrow", "spruce", "summit", "tundra", "walrus", "willow", "wren", "yak",
}

// Generate produces a random adjective_noun_digits username.
// The digits suffix is four decimal digits, so collisions are possible
// and callers must handle uniqueness violations by regenerating.
func Generate() (string, error) {
	adj, err := pick(adjectives)
	if err != nil {
		return "", fmt.Errorf("pick adjective: %w", err)
	}
	noun, err := pick(nouns)
	if err != nil {
		return "", fmt.Errorf("pick noun: %w", err)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("pick digits: %w", err)
	}
	return fmt.Sprintf("%s_%s_%04d", adj, noun, n.Int64()), nil
}

// Validate reports whether a username satisfies the format rules:
// 3-30 characters, alphanumeric and underscore only.
// Returns a descriptive error for use in validation responses.
func Validate(name string) error {
	if len(name) < MinLength {
		return fmt.Errorf("username must be at least %d characters", MinLength)
	}
	if len(name) > MaxLength {
		return fmt.Errorf("username must not exceed %d characters", MaxLength)
	}
	if !validPattern.MatchString(name) {
		return fmt.Errorf("username may only contain letters, numbers, and underscores")
	}
	return nil
}

// pick selects a uniformly random element from list.
func pick(list []string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(list))))
	if err != nil {
		return "", err
	}
	return list[n.Int64()], nil
}
