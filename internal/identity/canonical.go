// Package identity derives stable identifiers for coded dimension values and
// resolves foreign-key codes across joined tables.
package identity

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrEmptyLabel is returned for labels that are empty after trimming.
	ErrEmptyLabel = errors.New("label is empty")

	// ErrCollision is returned in strict mode when two distinct labels
	// canonicalize to the same identifier.
	ErrCollision = errors.New("canonical identifier collision")
)

// Canonicalize turns a free-text label into an identifier fragment.
//
// The label is trimmed and NFC-normalized, ", " collapses to ",", remaining
// spaces become "_" and the result is lowercased. Canonicalize is pure and
// idempotent. Empty or all-whitespace input yields "", which is not a usable
// identifier; callers filter such rows first.
func Canonicalize(label string) string {
	s := norm.NFC.String(strings.TrimSpace(label))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, ", ", ",")
	s = strings.ReplaceAll(s, " ", "_")
	// Caser values carry state and must not be shared.
	s = cases.Lower(language.Und).String(s)
	return norm.NFC.String(s)
}

// CollisionError reports two labels sharing one identifier.
type CollisionError struct {
	ID     string
	First  string
	Second string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("labels %q and %q both canonicalize to %q", e.First, e.Second, e.ID)
}

// Unwrap lets errors.Is match ErrCollision.
func (e *CollisionError) Unwrap() error {
	return ErrCollision
}

// Resolver canonicalizes labels and remembers which label produced each
// identifier.
//
// By default colliding labels silently share one identifier and the
// collision is only recorded. In strict mode Resolve returns a
// *CollisionError instead. A Resolver is not safe for concurrent use.
type Resolver struct {
	strict     bool
	seen       map[string]string
	reported   map[CollisionError]struct{}
	collisions []CollisionError
}

// NewResolver creates a Resolver.
func NewResolver(strict bool) *Resolver {
	return &Resolver{
		strict:   strict,
		seen:     make(map[string]string),
		reported: make(map[CollisionError]struct{}),
	}
}

// Resolve returns the identifier for label.
//
// Labels are compared after trimming and NFC normalization, so "Praha" and
// " Praha" are the same label, while "Praha" and "praha" collide.
func (r *Resolver) Resolve(label string) (string, error) {
	id := Canonicalize(label)
	if id == "" {
		return "", ErrEmptyLabel
	}

	key := norm.NFC.String(strings.TrimSpace(label))
	prev, ok := r.seen[id]
	if !ok {
		r.seen[id] = key
		return id, nil
	}
	if prev == key {
		return id, nil
	}

	c := CollisionError{ID: id, First: prev, Second: key}
	if _, ok := r.reported[c]; !ok {
		r.reported[c] = struct{}{}
		r.collisions = append(r.collisions, c)
	}
	if r.strict {
		return "", &c
	}
	return id, nil
}

// Strict reports whether collisions are errors.
func (r *Resolver) Strict() bool {
	return r.strict
}

// Collisions returns each distinct collision seen so far, in order.
func (r *Resolver) Collisions() []CollisionError {
	return append([]CollisionError(nil), r.collisions...)
}

// Label returns the first label that produced id.
func (r *Resolver) Label(id string) (string, bool) {
	l, ok := r.seen[id]
	return l, ok
}
