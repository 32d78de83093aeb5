package oracle_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmartFormAI/FormGuard/pkg/infra/oracle"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newClient(serverURL string) *oracle.Client {
	return oracle.NewClient(oracle.Config{
		Endpoint: serverURL,
		Model:    "unitary/toxic-bert",
	}, newTestLogger())
}

func TestScore_ParsesLabelScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/unitary/toxic-bert", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[{"label":"toxic","score":0.91},{"label":"threat","score":0.02},{"label":"insult","score":0.4}]]`))
	}))
	defer server.Close()

	scores, err := newClient(server.URL).Score(context.Background(), "some text")

	require.NoError(t, err)
	assert.InDelta(t, 0.91, scores["toxic"], 1e-9)
	assert.InDelta(t, 0.02, scores["threat"], 1e-9)
	assert.InDelta(t, 0.4, scores["insult"], 1e-9)
}

func TestScore_FlatArrayResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"label":"toxic","score":0.1}]`))
	}))
	defer server.Close()

	scores, err := newClient(server.URL).Score(context.Background(), "text")

	require.NoError(t, err)
	assert.InDelta(t, 0.1, scores["toxic"], 1e-9)
}

func TestScore_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newClient(server.URL).Score(context.Background(), "text")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestScore_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"model loading"}`))
	}))
	defer server.Close()

	_, err := newClient(server.URL).Score(context.Background(), "text")

	assert.Error(t, err)
}

func TestScore_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newClient(server.URL)
	for i := 0; i < 5; i++ {
		_, err := client.Score(context.Background(), "text")
		assert.Error(t, err)
	}

	// The breaker is now open; calls fail without reaching the server.
	_, err := client.Score(context.Background(), "text")
	assert.Error(t, err)
}
