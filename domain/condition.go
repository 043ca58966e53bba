package domain

// Condition is a cryptographic predicate a transfer is locked under.
// It is satisfied only by presenting a matching fulfillment; this library
// treats it as an opaque URI and never inspects or fulfills it.
type Condition string

// Empty reports whether no condition is set.
func (c Condition) Empty() bool { return c == "" }
