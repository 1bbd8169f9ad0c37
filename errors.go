package mathy

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the engine can surface. Callers
// match them with errors.Is; ParseError additionally carries position data
// reachable through errors.As.
var (
	// ErrParse marks malformed problem text. Fatal to the episode.
	ErrParse = errors.New("parse error")

	// ErrStructure marks an invalid tree edit, such as setting a child on a
	// leaf node. Programming error; the tree must be discarded.
	ErrStructure = errors.New("invalid tree edit")

	// ErrRuleMisuse marks an ApplyTo call on a node the rule cannot rewrite,
	// usually a stale reference into a tree that has mutated since the
	// applicability check. The caller must re-enumerate actions.
	ErrRuleMisuse = errors.New("rule applied to unverified node")

	// ErrInvalidAction marks an action outside the current legal set.
	// Recoverable: re-enumerate and pick again.
	ErrInvalidAction = errors.New("action not in legal set")
)

// ParseError reports where problem text stopped making sense.
type ParseError struct {
	Input string // full problem text
	Pos   int    // byte offset of the offending token
	Token string // the offending substring
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: unexpected %q in %q", e.Pos, e.Token, e.Input)
}

func (e *ParseError) Unwrap() error { return ErrParse }
