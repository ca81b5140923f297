package http

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProbeRouter exposes only the probe handlers of server.
func newProbeRouter(server *Server) *gin.Engine {
	router := gin.New()
	router.GET("/health", server.healthHandler)
	router.GET("/ready", server.readinessHandler)
	return router
}

func TestHealthHandler(t *testing.T) {
	server := NewServer(nil, "localhost", 0, discardLogger())
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })

	router := newProbeRouter(server)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestReadinessHandler_NilDB(t *testing.T) {
	server := NewServer(nil, "localhost", 0, discardLogger())
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })

	router := newProbeRouter(server)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"not_ready","components":{"database":"error"}}`, w.Body.String())
}

func TestServer_RouterBeforeSetup(t *testing.T) {
	server := NewServer(nil, "localhost", 0, discardLogger())
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })

	assert.Nil(t, server.Router())
}

func TestServer_StartAndShutdown(t *testing.T) {
	// Reserve a free port, then release it for the server.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	server := NewServer(nil, "127.0.0.1", port, discardLogger())
	server.router = newProbeRouter(server)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://" + server.server.Addr + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}

	assert.Error(t, server.ctx.Err(), "shutdown stops middleware background work")
}
