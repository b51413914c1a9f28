package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wordgraph/backend/internal/constants"
	"wordgraph/backend/internal/graph"
	"wordgraph/backend/internal/snapshot"
	apperrors "wordgraph/backend/pkg/errors"
)

// loaded returns the published graph or answers 503
func (s *Server) loaded(c *gin.Context) (*snapshot.Loaded, bool) {
	l, ok := s.holder.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": apperrors.ErrGraphNotLoaded.Message})
		return nil, false
	}
	return l, true
}

// queryInt parses an optional integer query parameter. present is false when
// the parameter is absent or empty.
func queryInt(c *gin.Context, key string) (value int, present bool, err error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, true, fmt.Errorf("parameter %s must be an integer", key)
	}
	return v, true, nil
}

func (s *Server) queryContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.limits.QueryTimeout)
}

// queryFailed maps an error from a long-running query to a response
func (s *Server) queryFailed(c *gin.Context, query string, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		queryTimeoutsTotal.WithLabelValues(query).Inc()
		timeoutErr := apperrors.NewContextTimeout(query, s.limits.QueryTimeout, err)
		s.logger.Warn("Query timed out", zap.String("query", query), zap.Duration("timeout", s.limits.QueryTimeout))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": timeoutErr.Message})
		return
	}
	if errors.Is(err, context.Canceled) {
		// client went away
		c.AbortWithStatus(499)
		return
	}
	s.logger.Error("Query failed", zap.String("query", query), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to run %s", query)})
}

func (s *Server) shortestPath(c *gin.Context) {
	l, ok := s.loaded(c)
	if !ok {
		return
	}

	w1 := normalizeWord(c.Query("word1"))
	w2 := normalizeWord(c.Query("word2"))
	if w1 == "" || w2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing parameters: word1 and word2"})
		return
	}

	path := l.Analyzer.ShortestPath(w1, w2)
	if path == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "no path found between the given words"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path, "length": len(path) - 1})
}

func (s *Server) allPaths(c *gin.Context) {
	l, ok := s.loaded(c)
	if !ok {
		return
	}

	w1 := normalizeWord(c.Query("word1"))
	w2 := normalizeWord(c.Query("word2"))
	if w1 == "" || w2 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing parameters: word1 and word2"})
		return
	}

	maxDepth, present, err := queryInt(c, "max_depth")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !present {
		maxDepth = s.limits.DefaultPathDepth
	}
	if maxDepth < 0 || maxDepth > s.limits.MaxPathDepth {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("max_depth must be between 0 and %d", s.limits.MaxPathDepth),
		})
		return
	}

	limit, present, err := queryInt(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !present || limit <= 0 || limit > s.limits.MaxPaths {
		limit = s.limits.MaxPaths
	}

	ctx, cancel := s.queryContext(c)
	defer cancel()

	paths, truncated, err := l.Analyzer.AllSimplePathsContext(ctx, w1, w2, maxDepth, limit)
	if err != nil {
		if errors.Is(err, graph.ErrInvalidDepth) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.queryFailed(c, "all-paths", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"paths":     paths,
		"count":     len(paths),
		"max_depth": maxDepth,
		"truncated": truncated,
	})
}

func (s *Server) clusters(c *gin.Context) {
	l, ok := s.loaded(c)
	if !ok {
		return
	}
	clusters := l.Analyzer.Clusters()
	c.JSON(http.StatusOK, gin.H{"clusters": clusters, "count": len(clusters)})
}

func (s *Server) highConnectivity(c *gin.Context) {
	l, ok := s.loaded(c)
	if !ok {
		return
	}
	degree, present, err := queryInt(c, "degree")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !present {
		degree = constants.DefaultHighConnectivityDegree
	}
	c.JSON(http.StatusOK, gin.H{"nodes": l.Analyzer.HighConnectivityNodes(degree), "degree": degree})
}

func (s *Server) nodesByDegree(c *gin.Context) {
	l, ok := s.loaded(c)
	if !ok {
		return
	}
	degree, present, err := queryInt(c, "degree")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !present {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing parameter: degree"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": l.Analyzer.NodesByDegree(degree), "degree": degree})
}

func (s *Server) isolatedNodes(c *gin.Context) {
	l, ok := s.loaded(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": l.Analyzer.IsolatedNodes()})
}

func (s *Server) maximumDistance(c *gin.Context) {
	l, ok := s.loaded(c)
	if !ok {
		return
	}

	ctx, cancel := s.queryContext(c)
	defer cancel()

	report, err := l.Analyzer.MaximumDistanceContext(ctx)
	if err != nil {
		s.queryFailed(c, "maximum-distance", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) info(c *gin.Context) {
	l, ok := s.loaded(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"info":         l.Analyzer.BasicInfo(),
		"snapshot":     l.Meta,
		"published_at": l.PublishedAt,
	})
}

func (s *Server) degreeDistribution(c *gin.Context) {
	l, ok := s.loaded(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"distribution": l.Analyzer.DegreeDistribution()})
}

func (s *Server) neighbors(c *gin.Context) {
	l, ok := s.loaded(c)
	if !ok {
		return
	}
	word := normalizeWord(c.Param("word"))
	if !l.Graph.HasNode(word) {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("word %q is not in the graph", word)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"word":      word,
		"neighbors": l.Graph.Neighbors(word),
		"degree":    l.Graph.Degree(word),
		"cluster":   len(l.Analyzer.ClusterOf(word)),
	})
}

func (s *Server) rebuild(c *gin.Context) {
	if s.rebuilder == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "rebuild is not configured"})
		return
	}

	l, stats, err := s.rebuilder.Rebuild(c.Request.Context())
	observeBuild(stats, err)
	if err != nil {
		if errors.Is(err, apperrors.ErrGraphEmptyVocabulary) {
			c.JSON(http.StatusConflict, gin.H{"error": apperrors.ErrGraphEmptyVocabulary.Message})
			return
		}
		s.logger.Error("Rebuild failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rebuild graph"})
		return
	}

	ObservePublished(l)
	c.JSON(http.StatusOK, gin.H{
		"status":   "rebuilt",
		"snapshot": l.Meta,
		"stats":    stats,
	})
}
