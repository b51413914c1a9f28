package graph

import "github.com/cespare/xxhash/v2"

// Node is a vertex of the word graph. Nodes are compared by word, so the
// zero-cost struct itself is usable as a map key.
type Node struct {
	word string
}

// NewNode creates a node for word. The word is not validated beyond being
// non-empty.
func NewNode(word string) (Node, error) {
	if word == "" {
		return Node{}, ErrEmptyWord
	}
	return Node{word: word}, nil
}

// Word returns the underlying word.
func (n Node) Word() string {
	return n.word
}

// Equal reports whether both nodes wrap the same word.
func (n Node) Equal(other Node) bool {
	return n.word == other.word
}

// Hash returns a stable 64-bit hash of the word.
func (n Node) Hash() uint64 {
	return xxhash.Sum64String(n.word)
}

// IsZero reports whether n was never initialised with a word.
func (n Node) IsZero() bool {
	return n.word == ""
}

func (n Node) String() string {
	return "Node(" + n.word + ")"
}
