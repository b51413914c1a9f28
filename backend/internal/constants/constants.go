package constants

// Query defaults
const (
	// DefaultPathDepth is the max_depth used by all-paths when none is given
	DefaultPathDepth = 15

	// MaxPathDepth caps max_depth; simple path enumeration is exponential in it
	MaxPathDepth = 20

	// MaxPaths caps the paths returned by a single all-paths request
	MaxPaths = 1000

	// DefaultHighConnectivityDegree is the degree threshold when none is given
	DefaultHighConnectivityDegree = 2
)

// Ingestion
const (
	// GutenbergMinWordLength drops tokens such as "a", "an", "of" from books
	GutenbergMinWordLength = 3

	// UserAgent identifies downloads made by the ingester
	UserAgent = "wordgraph/1.0"
)

// Server
const (
	// DefaultPort matches the port the service has always listened on
	DefaultPort = "5001"
)
