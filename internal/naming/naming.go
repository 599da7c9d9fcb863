// Package naming generates Docker-style adjective-noun workspace names.
package naming

import (
	"math/rand/v2"
	"regexp"

	"github.com/firefly-engineering/agentspaces/internal/errors"
)

// DefaultMaxAttempts bounds how many candidates Generate tries.
const DefaultMaxAttempts = 100

// generatedForm matches exactly two lowercase alphabetic words joined by a hyphen.
var generatedForm = regexp.MustCompile(`^[a-z]+-[a-z]+$`)

// Generator produces adjective-noun names.
type Generator struct {
	// MaxAttempts defaults to DefaultMaxAttempts when zero.
	MaxAttempts int

	intN func(n int) int
}

// New returns a Generator using the global random source.
func New() *Generator {
	return &Generator{MaxAttempts: DefaultMaxAttempts, intN: rand.IntN}
}

// NewSeeded returns a Generator with a deterministic source.
func NewSeeded(seed uint64) *Generator {
	r := rand.New(rand.NewPCG(seed, seed))
	return &Generator{MaxAttempts: DefaultMaxAttempts, intN: r.IntN}
}

// Generate returns the first sampled candidate for which exists reports
// false. A nil exists accepts the first candidate. After MaxAttempts
// rejected candidates it returns a NameExhaustion error.
func (g *Generator) Generate(exists func(name string) bool) (string, error) {
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	intN := g.intN
	if intN == nil {
		intN = rand.IntN
	}

	for i := 0; i < attempts; i++ {
		name := adjectives[intN(len(adjectives))] + "-" + nouns[intN(len(nouns))]
		if exists == nil || !exists(name) {
			return name, nil
		}
	}
	return "", errors.NameExhaustion(attempts)
}

// IsValidGeneratedForm reports whether name looks like a generated name.
func IsValidGeneratedForm(name string) bool {
	return generatedForm.MatchString(name)
}

// Combinations returns the size of the name space.
func Combinations() int {
	return len(adjectives) * len(nouns)
}
