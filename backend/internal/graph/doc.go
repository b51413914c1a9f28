// Package graph holds the one-letter-apart word graph and the algorithms that
// query it.
//
// A Graph is built by a single writer (usually a Builder) and is treated as
// read-only afterwards. An Analyzer indexes a finished Graph once and can then
// be shared by any number of concurrent readers; none of its methods mutate
// state. Rebuilding the vocabulary produces a new Graph and a new Analyzer
// rather than modifying the ones being served.
//
// Missing words are never an error: queries over absent words return empty
// results. Only malformed parameters, such as a negative path depth, are
// reported as errors.
package graph
