package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayq/relayq/internal/pkg/client"
	"github.com/relayq/relayq/internal/pkg/config"
	apperrors "github.com/relayq/relayq/internal/pkg/errors"
	"github.com/relayq/relayq/internal/pkg/remote"
	"github.com/relayq/relayq/internal/pkg/settings"
	"github.com/relayq/relayq/internal/pkg/ui"
)

// newTestService wires a service against an httptest server with
// retries disabled and a CLI-provided token.
func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	store, err := config.NewStore(filepath.Join(dir, "config.json"))
	require.NoError(t, err)

	mgr, err := settings.NewManager(filepath.Join(dir, "settings.yaml"))
	require.NoError(t, err)
	mgr.SetOverride("endpoint", server.URL)

	svc, err := NewService(store, mgr, ui.NewNonInteractiveManager(false),
		WithExecutor(remote.NewExecutor(apperrors.RetryPolicy{Enabled: false})),
		WithResolveOptions(config.ResolveOptions{CLIToken: "rq_test_token"}),
	)
	require.NoError(t, err)
	return svc
}

func TestService_ListQueuesSuccess(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/queues", r.URL.Path)
		assert.Equal(t, "Bearer rq_test_token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(client.QueueListResponse{Queues: []client.Queue{
			{ID: "q_1", Name: "orders"},
		}})
	})

	result := svc.ListQueues(context.Background())
	require.True(t, result.Success, result.Error)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "orders", result.Data[0].Name)
	assert.Nil(t, result.Classified)
}

func TestService_GetQueueNotFound(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "queue not found"})
	})

	result := svc.GetQueue(context.Background(), "orders")
	assert.False(t, result.Success)
	require.NotNil(t, result.Classified)
	assert.Equal(t, apperrors.KindNotFound, result.Classified.Kind)
	assert.Contains(t, result.Error, `queue "orders" not found`)
	assert.Contains(t, result.Error, "get queue: ")
}

func TestService_UnauthorizedEnvelope(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid token"})
	})

	result := svc.ListQueues(context.Background())
	assert.False(t, result.Success)
	require.NotNil(t, result.Classified)
	assert.Equal(t, apperrors.KindUnauthorized, result.Classified.Kind)
	assert.Contains(t, result.Error, "authentication failed")
}

func TestService_MissingToken(t *testing.T) {
	dir := t.TempDir()
	store, err := config.NewStore(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	mgr, err := settings.NewManager(filepath.Join(dir, "settings.yaml"))
	require.NoError(t, err)

	t.Setenv(config.TokenEnvVar, "")

	svc, err := NewService(store, mgr, ui.NewNonInteractiveManager(false))
	require.NoError(t, err)

	result := svc.ListQueues(context.Background())
	assert.False(t, result.Success)
	require.NotNil(t, result.Classified)
	assert.Equal(t, apperrors.KindInvalidInput, result.Classified.Kind)
	assert.Contains(t, result.Error, "no token configured")
}

func TestService_ConfigTokenUsedWhenNoOverride(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(client.QueueListResponse{})
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	store, err := config.NewStore(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	_, err = store.AddEnvironment("prod", "rq_stored_token", "")
	require.NoError(t, err)

	mgr, err := settings.NewManager(filepath.Join(dir, "settings.yaml"))
	require.NoError(t, err)
	mgr.SetOverride("endpoint", server.URL)

	t.Setenv(config.TokenEnvVar, "")

	svc, err := NewService(store, mgr, ui.NewNonInteractiveManager(false),
		WithExecutor(remote.NewExecutor(apperrors.RetryPolicy{Enabled: false})),
	)
	require.NoError(t, err)

	result := svc.ListQueues(context.Background())
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "Bearer rq_stored_token", gotAuth)
}

func TestService_DeleteQueue(t *testing.T) {
	var gotMethod, gotPath string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	result := svc.DeleteQueue(context.Background(), "q_1")
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "DELETE", gotMethod)
	assert.Equal(t, "/v1/queues/q_1", gotPath)
}

func TestService_PublishAndTrack(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/publish":
			var req client.PublishRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.NotEmpty(t, req.DedupKey)
			json.NewEncoder(w).Encode(client.PublishResponse{MessageID: "m_1", Queue: "orders"})
		case "/v1/messages/m_1":
			json.NewEncoder(w).Encode(client.Message{ID: "m_1", Status: "delivered", Attempts: 1})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	pub := svc.Publish(context.Background(), &client.PublishRequest{Queue: "orders", Body: "{}"})
	require.True(t, pub.Success, pub.Error)
	assert.Equal(t, "m_1", pub.Data.MessageID)

	track := svc.TrackMessage(context.Background(), pub.Data.MessageID)
	require.True(t, track.Success, track.Error)
	assert.Equal(t, "delivered", track.Data.Status)
}

func TestService_RetryFailedMessage(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/failed/m_dead/retry", r.URL.Path)
		json.NewEncoder(w).Encode(client.RetryResponse{MessageID: "m_dead", Requeued: true})
	})

	result := svc.RetryFailed(context.Background(), "m_dead")
	require.True(t, result.Success, result.Error)
	assert.True(t, result.Data.Requeued)
}

func TestService_TokenResolutionReportsSource(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})

	res, ok := svc.TokenResolution()
	require.True(t, ok)
	assert.Equal(t, config.TokenSourceCLI, res.Source)
}
