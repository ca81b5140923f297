package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_ExposesCollectorsAndTarget(t *testing.T) {
	provider, err := NewProvider("quizly_provider")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	counter, err := provider.MeterProvider().Meter("test").Int64Counter("quizly_provider_probe_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	output := scrape(t, provider)
	assert.Contains(t, output, "go_goroutines")
	assert.Regexp(t, `target_info\{[^}]*service_name="quizly_provider"`, output)
	assert.Regexp(t, `quizly_provider_probe_total\{[^}]*\} 1`, output)
}

func TestProvider_EmptyNamespace(t *testing.T) {
	provider, err := NewProvider("")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	assert.Contains(t, scrape(t, provider), "go_goroutines")
}

func TestProvider_OpenMetricsNegotiation(t *testing.T) {
	provider, err := NewProvider("quizly_openmetrics")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept", "application/openmetrics-text; version=1.0.0")
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/openmetrics-text")
	assert.Contains(t, w.Body.String(), "# EOF")
}

func TestProvider_Shutdown(t *testing.T) {
	provider, err := NewProvider("quizly_shutdown")
	require.NoError(t, err)

	assert.NoError(t, provider.Shutdown(context.Background()))
	assert.NoError(t, provider.Shutdown(context.Background()), "second shutdown is tolerated")

	var nilProvider *Provider
	assert.NoError(t, nilProvider.Shutdown(context.Background()))
	assert.NoError(t, (&Provider{}).Shutdown(context.Background()))
}
