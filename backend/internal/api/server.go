// Package api exposes the word graph over HTTP.
package api

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"wordgraph/backend/internal/constants"
	"wordgraph/backend/internal/graph"
	"wordgraph/backend/internal/snapshot"
)

// Limits bounds the work a single request may ask for
type Limits struct {
	DefaultPathDepth int
	MaxPathDepth     int
	MaxPaths         int
	QueryTimeout     time.Duration
}

// DefaultLimits matches the configuration defaults
func DefaultLimits() Limits {
	return Limits{
		DefaultPathDepth: constants.DefaultPathDepth,
		MaxPathDepth:     constants.MaxPathDepth,
		MaxPaths:         constants.MaxPaths,
		QueryTimeout:     30 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultLimits
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.DefaultPathDepth == 0 {
		l.DefaultPathDepth = d.DefaultPathDepth
	}
	if l.MaxPathDepth == 0 {
		l.MaxPathDepth = d.MaxPathDepth
	}
	if l.MaxPaths == 0 {
		l.MaxPaths = d.MaxPaths
	}
	if l.QueryTimeout == 0 {
		l.QueryTimeout = d.QueryTimeout
	}
	return l
}

// Rebuilder rebuilds and publishes the graph on demand
type Rebuilder interface {
	Rebuild(ctx context.Context) (*snapshot.Loaded, graph.BuildStats, error)
}

// Server holds the dependencies shared by all handlers
type Server struct {
	holder    *snapshot.Holder
	rebuilder Rebuilder
	limits    Limits
	logger    *zap.Logger
}

// NewServer creates the HTTP layer. Zero limits take their defaults. rebuilder
// may be nil, which disables the admin rebuild endpoint.
func NewServer(holder *snapshot.Holder, rebuilder Rebuilder, limits Limits, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		holder:    holder,
		rebuilder: rebuilder,
		limits:    limits.withDefaults(),
		logger:    logger,
	}
}

// endpoints documents the query routes on the index page
var endpoints = map[string]string{
	"GET /api/shortest-path?word1=...&word2=...":               "Shortest transformation path between two words",
	"GET /api/all-paths?word1=...&word2=...&max_depth=&limit=": "All simple paths up to max_depth edges",
	"GET /api/clusters":                                        "Connected components, largest first",
	"GET /api/high-connectivity?degree=2":                      "Words with degree >= degree",
	"GET /api/nodes-by-degree?degree=...":                      "Words with exactly the given degree",
	"GET /api/isolated-nodes":                                  "Words with no neighbors",
	"GET /api/maximum-distance":                                "Graph diameter",
	"GET /api/info":                                            "Node, edge and component counts",
	"GET /api/degree-distribution":                             "Number of words per degree",
	"GET /api/neighbors/:word":                                 "Words one letter apart from word",
	"POST /api/admin/rebuild":                                  "Rebuild the graph from the datamart",
}

// Router builds the gin engine with all middleware and routes
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(s.logger))
	router.Use(gin.Recovery())
	router.Use(metricsMiddleware())
	router.Use(cors())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Word graph API",
			"endpoints": endpoints,
		})
	})

	// Health check
	router.GET("/health", s.health)

	router.GET("/routes", func(c *gin.Context) {
		routes := make(map[string][]string)
		for _, r := range router.Routes() {
			routes[r.Path] = append(routes[r.Path], r.Method)
		}
		for path := range routes {
			sort.Strings(routes[path])
		}
		c.JSON(http.StatusOK, routes)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api")
	{
		api.GET("/shortest-path", s.shortestPath)
		api.GET("/all-paths", s.allPaths)
		api.GET("/clusters", s.clusters)
		api.GET("/high-connectivity", s.highConnectivity)
		api.GET("/nodes-by-degree", s.nodesByDegree)
		api.GET("/isolated-nodes", s.isolatedNodes)
		api.GET("/maximum-distance", s.maximumDistance)
		api.GET("/info", s.info)
		api.GET("/degree-distribution", s.degreeDistribution)
		api.GET("/neighbors/:word", s.neighbors)

		admin := api.Group("/admin")
		admin.POST("/rebuild", s.rebuild)
	}

	return router
}

func (s *Server) health(c *gin.Context) {
	l, ok := s.holder.Current()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "graph_loaded": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"graph_loaded": true,
		"snapshot_id":  l.Meta.ID,
	})
}

// normalizeWord matches the lowercase vocabulary built by ingestion
func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}
