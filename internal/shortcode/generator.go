// Package shortcode generates the random tokens used as redirect path
// segments. Uniqueness is not guaranteed here; the storage layer's unique
// constraint is the arbiter, and collisions surface to the caller.
package shortcode

import gonanoid "github.com/matoous/go-nanoid/v2"

// Alphabet is the 62-character set short codes are drawn from.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateFunc draws length characters independently and uniformly at random
// from alphabet.
type GenerateFunc func(alphabet string, length int) (string, error)

// Generator produces random short codes.
type Generator struct {
	generate GenerateFunc
}

// Option configures a Generator.
type Option func(*Generator)

// WithGenerateFunc replaces the random source, e.g. with a deterministic one
// in tests.
func WithGenerateFunc(fn GenerateFunc) Option {
	return func(g *Generator) {
		g.generate = fn
	}
}

// New creates a Generator backed by a cryptographically seeded source.
func New(opts ...Option) *Generator {
	g := &Generator{
		generate: gonanoid.Generate,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate returns a random code of the given length.
func (g *Generator) Generate(length int) (string, error) {
	return g.generate(Alphabet, length)
}
