package graph

import "errors"

var (
	// ErrEmptyWord is returned when a node is created from an empty string.
	ErrEmptyWord = errors.New("word must not be empty")

	// ErrInvalidDepth is returned when path enumeration is given a negative
	// depth bound.
	ErrInvalidDepth = errors.New("max depth must be non-negative")

	// ErrInvalidSnapshotEdge is returned when a snapshot lists an edge between
	// words that are not one letter apart.
	ErrInvalidSnapshotEdge = errors.New("snapshot edge is not one letter apart")

	// ErrUnknownStrategy is returned for an unrecognised build strategy name.
	ErrUnknownStrategy = errors.New("unknown build strategy")
)
