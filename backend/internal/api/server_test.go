package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordgraph/backend/internal/graph"
	"wordgraph/backend/internal/snapshot"
	apperrors "wordgraph/backend/pkg/errors"
)

var testWords = []string{"dog", "dot", "cot", "cat", "bat", "zebra"}

func testLimits() Limits {
	return Limits{
		DefaultPathDepth: 15,
		MaxPathDepth:     20,
		MaxPaths:         100,
		QueryTimeout:     5 * time.Second,
	}
}

func loadedHolder() *snapshot.Holder {
	h := snapshot.NewHolder()
	g := graph.NewBuilder(graph.StrategyBucketed, nil).Build(testWords)
	h.Publish(g, snapshot.Metadata{ID: "test-snapshot", Strategy: graph.StrategyBucketed})
	return h
}

func newTestRouter(h *snapshot.Holder, r Rebuilder, limits Limits) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewServer(h, r, limits, nil).Router()
}

func doRequest(t *testing.T, router *gin.Engine, method, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, target, nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func toStrings(v interface{}) []string {
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.(string))
	}
	return out
}

func TestLimits_Defaults(t *testing.T) {
	l := Limits{MaxPaths: 5}.withDefaults()
	assert.Equal(t, 5, l.MaxPaths)
	assert.Equal(t, DefaultLimits().DefaultPathDepth, l.DefaultPathDepth)
	assert.Equal(t, DefaultLimits().QueryTimeout, l.QueryTimeout)

	router := newTestRouter(loadedHolder(), nil, Limits{})
	w, body := doRequest(t, router, "GET", "/api/all-paths?word1=dog&word2=bat")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(15), body["max_depth"])
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(snapshot.NewHolder(), nil, testLimits())

	w, body := doRequest(t, router, "GET", "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["graph_loaded"])

	router = newTestRouter(loadedHolder(), nil, testLimits())
	_, body = doRequest(t, router, "GET", "/health")
	assert.Equal(t, true, body["graph_loaded"])
	assert.Equal(t, "test-snapshot", body["snapshot_id"])
}

func TestGraphRoutes_NotLoaded(t *testing.T) {
	router := newTestRouter(snapshot.NewHolder(), nil, testLimits())

	for _, target := range []string{
		"/api/shortest-path?word1=dog&word2=dot",
		"/api/all-paths?word1=dog&word2=dot",
		"/api/clusters",
		"/api/high-connectivity",
		"/api/nodes-by-degree?degree=1",
		"/api/isolated-nodes",
		"/api/maximum-distance",
		"/api/info",
		"/api/degree-distribution",
		"/api/neighbors/dog",
	} {
		t.Run(target, func(t *testing.T) {
			w, body := doRequest(t, router, "GET", target)
			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.Equal(t, "graph not initialized", body["error"])
		})
	}
}

func TestShortestPath(t *testing.T) {
	router := newTestRouter(loadedHolder(), nil, testLimits())

	w, body := doRequest(t, router, "GET", "/api/shortest-path?word1=dog&word2=bat")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"dog", "dot", "cot", "cat", "bat"}, toStrings(body["path"]))
	assert.Equal(t, float64(4), body["length"])

	w, body = doRequest(t, router, "GET", "/api/shortest-path?word1=DOG&word2=dog")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"dog"}, toStrings(body["path"]))

	w, _ = doRequest(t, router, "GET", "/api/shortest-path?word1=dog")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = doRequest(t, router, "GET", "/api/shortest-path?word1=dog&word2=zebra")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, body["message"])

	w, _ = doRequest(t, router, "GET", "/api/shortest-path?word1=dog&word2=unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAllPaths(t *testing.T) {
	router := newTestRouter(loadedHolder(), nil, testLimits())

	w, body := doRequest(t, router, "GET", "/api/all-paths?word1=dog&word2=bat")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(15), body["max_depth"])
	assert.Equal(t, false, body["truncated"])

	w, body = doRequest(t, router, "GET", "/api/all-paths?word1=dog&word2=bat&max_depth=3")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["count"])
	assert.Empty(t, body["paths"])

	// The only path fills the limit without anything being cut off.
	w, body = doRequest(t, router, "GET", "/api/all-paths?word1=dog&word2=bat&limit=1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, false, body["truncated"])

	for _, bad := range []string{"max_depth=-1", "max_depth=21", "max_depth=abc", "limit=x"} {
		w, _ = doRequest(t, router, "GET", "/api/all-paths?word1=dog&word2=bat&"+bad)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}

	w, _ = doRequest(t, router, "GET", "/api/all-paths?word2=bat")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAllPaths_Truncated(t *testing.T) {
	h := snapshot.NewHolder()
	g := graph.NewBuilder(graph.StrategyBucketed, nil).Build([]string{"cold", "cord", "word", "wold"})
	h.Publish(g, snapshot.Metadata{ID: "square"})
	router := newTestRouter(h, nil, testLimits())

	w, body := doRequest(t, router, "GET", "/api/all-paths?word1=cold&word2=word&limit=1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, true, body["truncated"])

	w, body = doRequest(t, router, "GET", "/api/all-paths?word1=cold&word2=word&limit=2")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, false, body["truncated"])
}

func TestStructureRoutes(t *testing.T) {
	router := newTestRouter(loadedHolder(), nil, testLimits())

	_, body := doRequest(t, router, "GET", "/api/clusters")
	clusters := body["clusters"].([]interface{})
	require.Len(t, clusters, 2)
	assert.Equal(t, []string{"bat", "cat", "cot", "dog", "dot"}, toStrings(clusters[0]))
	assert.Equal(t, []string{"zebra"}, toStrings(clusters[1]))

	_, body = doRequest(t, router, "GET", "/api/high-connectivity")
	assert.Equal(t, []string{"cat", "cot", "dot"}, toStrings(body["nodes"]))

	_, body = doRequest(t, router, "GET", "/api/high-connectivity?degree=3")
	assert.Empty(t, body["nodes"])

	w, _ := doRequest(t, router, "GET", "/api/nodes-by-degree")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, body = doRequest(t, router, "GET", "/api/nodes-by-degree?degree=1")
	assert.Equal(t, []string{"bat", "dog"}, toStrings(body["nodes"]))

	_, body = doRequest(t, router, "GET", "/api/isolated-nodes")
	assert.Equal(t, []string{"zebra"}, toStrings(body["nodes"]))

	_, body = doRequest(t, router, "GET", "/api/maximum-distance")
	assert.Equal(t, float64(4), body["maximum_distance"])

	_, body = doRequest(t, router, "GET", "/api/info")
	info := body["info"].(map[string]interface{})
	assert.Equal(t, float64(6), info["number_of_nodes"])
	assert.Equal(t, float64(4), info["number_of_edges"])
	assert.Equal(t, float64(2), info["number_of_connected_components"])

	_, body = doRequest(t, router, "GET", "/api/degree-distribution")
	assert.Equal(t, map[string]interface{}{"0": float64(1), "1": float64(2), "2": float64(3)}, body["distribution"])
}

func TestNeighbors(t *testing.T) {
	router := newTestRouter(loadedHolder(), nil, testLimits())

	w, body := doRequest(t, router, "GET", "/api/neighbors/dot")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"cot", "dog"}, toStrings(body["neighbors"]))
	assert.Equal(t, float64(2), body["degree"])
	assert.Equal(t, float64(5), body["cluster"])

	w, _ = doRequest(t, router, "GET", "/api/neighbors/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMaximumDistance_Timeout(t *testing.T) {
	limits := testLimits()
	limits.QueryTimeout = -time.Second // deadline already passed
	router := newTestRouter(loadedHolder(), nil, limits)

	w, body := doRequest(t, router, "GET", "/api/maximum-distance")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, body["error"], "maximum-distance")
}

type fakeRebuilder struct {
	holder *snapshot.Holder
	words  []string
	err    error
}

func (f *fakeRebuilder) Rebuild(ctx context.Context) (*snapshot.Loaded, graph.BuildStats, error) {
	if f.err != nil {
		return nil, graph.BuildStats{}, f.err
	}
	g, stats, err := graph.NewBuilder(graph.StrategyBucketed, nil).BuildContext(ctx, f.words)
	if err != nil {
		return nil, stats, err
	}
	return f.holder.Publish(g, snapshot.Metadata{ID: "rebuilt"}), stats, nil
}

func TestRebuild(t *testing.T) {
	w, _ := doRequest(t, newTestRouter(snapshot.NewHolder(), nil, testLimits()), "POST", "/api/admin/rebuild")
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	holder := snapshot.NewHolder()
	router := newTestRouter(holder, &fakeRebuilder{holder: holder, words: []string{"cold", "cord"}}, testLimits())

	w, body := doRequest(t, router, "POST", "/api/admin/rebuild")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rebuilt", body["status"])

	_, body = doRequest(t, router, "GET", "/api/shortest-path?word1=cold&word2=cord")
	assert.Equal(t, []string{"cold", "cord"}, toStrings(body["path"]))

	router = newTestRouter(holder, &fakeRebuilder{err: apperrors.ErrGraphEmptyVocabulary}, testLimits())
	w, _ = doRequest(t, router, "POST", "/api/admin/rebuild")
	assert.Equal(t, http.StatusConflict, w.Code)

	router = newTestRouter(holder, &fakeRebuilder{err: errors.New("disk on fire")}, testLimits())
	w, _ = doRequest(t, router, "POST", "/api/admin/rebuild")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestIndexRoutesAndMetrics(t *testing.T) {
	router := newTestRouter(loadedHolder(), nil, testLimits())

	w, body := doRequest(t, router, "GET", "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body["endpoints"], "GET /api/clusters")

	_, body = doRequest(t, router, "GET", "/routes")
	assert.Equal(t, []string{"GET"}, toStrings(body["/api/shortest-path"]))
	assert.Equal(t, []string{"POST"}, toStrings(body["/api/admin/rebuild"]))

	w, _ = doRequest(t, router, "GET", "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "wordgraph_http_requests_total")

	w, _ = doRequest(t, router, "OPTIONS", "/api/clusters")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
