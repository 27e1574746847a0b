package id

import "crypto/rand"

// Generator creates opaque IDs for externally visible records, like
// webhook deliveries and sync runs.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// NewID returns a random base32 token. The error is always nil.
func (g *RandomGenerator) NewID() (string, error) {
	return rand.Text(), nil
}
