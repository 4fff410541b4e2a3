// Package id mints the prefixed identifiers used across the store
// partitions. Every record id starts with a short type prefix so a bare
// id in a log line or URL is self-describing.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// alphabet deliberately excludes "-" and "_" so the prefix separator is
// the only dash in an id; ids stay double-click selectable and safe to
// embed in badger keys and URL paths without escaping.
const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	length   = 21
)

// Generate creates a prefixed unique id, e.g. "q-V1StGXR8Z5jdHi6BmyTxq".
//
// Returns an error only when the system cannot provide secure random
// bytes.
func Generate(prefix string) (string, error) {
	suffix, err := gonanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return prefix + "-" + suffix, nil
}

// MustGenerate is like Generate but panics when generation fails. Entropy
// exhaustion is not a condition the request path can recover from anyway.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate id: %v", err))
	}
	return id
}
