package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, New(server.URL, "rq_test_token_abc123")
}

func TestClient_RequestHeaders(t *testing.T) {
	var got http.Header
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		json.NewEncoder(w).Encode(QueueListResponse{})
	})

	_, err := c.Queues.List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer rq_test_token_abc123", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "relayq-cli", got.Get("User-Agent"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestClient_RequestIDUniquePerCall(t *testing.T) {
	seen := make(map[string]bool)
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		seen[r.Header.Get("X-Request-ID")] = true
		json.NewEncoder(w).Encode(QueueListResponse{})
	})

	for range 3 {
		_, err := c.Queues.List(context.Background())
		require.NoError(t, err)
	}
	assert.Len(t, seen, 3)
}

func TestQueues_List(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/v1/queues", r.URL.Path)
		json.NewEncoder(w).Encode(QueueListResponse{Queues: []Queue{
			{ID: "q_1", Name: "orders"},
			{ID: "q_2", Name: "emails", Paused: true},
		}})
	})

	queues, err := c.Queues.List(context.Background())
	require.NoError(t, err)
	require.Len(t, queues, 2)
	assert.Equal(t, "orders", queues[0].Name)
	assert.True(t, queues[1].Paused)
}

func TestQueues_Create(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/queues", r.URL.Path)

		var req CreateQueueRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "orders", req.Name)

		json.NewEncoder(w).Encode(Queue{ID: "q_new", Name: req.Name})
	})

	queue, err := c.Queues.Create(context.Background(), &CreateQueueRequest{Name: "orders"})
	require.NoError(t, err)
	assert.Equal(t, "q_new", queue.ID)
}

func TestQueues_PauseResume(t *testing.T) {
	var paths []string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		json.NewEncoder(w).Encode(Queue{ID: "q_1"})
	})

	_, err := c.Queues.Pause(context.Background(), "q_1")
	require.NoError(t, err)
	_, err = c.Queues.Resume(context.Background(), "q_1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /v1/queues/q_1/pause",
		"POST /v1/queues/q_1/resume",
	}, paths)
}

func TestMessages_PublishAndEnqueue(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/publish":
			var req PublishRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "orders", req.Queue)
			json.NewEncoder(w).Encode(PublishResponse{MessageID: "m_1", Queue: req.Queue})
		case "/v1/queues/q_1/enqueue":
			json.NewEncoder(w).Encode(PublishResponse{MessageID: "m_2"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	resp, err := c.Messages.Publish(context.Background(), &PublishRequest{Queue: "orders", Body: "{}"})
	require.NoError(t, err)
	assert.Equal(t, "m_1", resp.MessageID)

	resp, err = c.Messages.Enqueue(context.Background(), "q_1", &EnqueueRequest{Body: "{}"})
	require.NoError(t, err)
	assert.Equal(t, "m_2", resp.MessageID)
}

func TestFailed_ListWithFilters(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/failed", r.URL.Path)
		assert.Equal(t, "orders", r.URL.Query().Get("queue"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(FailedListResponse{
			Messages: []FailedMessage{{ID: "m_dead", LastError: "timeout"}},
			Total:    1,
		})
	})

	resp, err := c.Failed.List(context.Background(), &FailedListOptions{Queue: "orders", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "m_dead", resp.Messages[0].ID)
}

func TestClient_ErrorResponse(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "queue not found"})
	})

	_, err := c.Queues.Get(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "queue not found", apiErr.Message)
	assert.Contains(t, err.Error(), "status=404")
}

func TestClient_ErrorResponseNonJSON(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.Queues.List(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Message, "502")
}

func TestClient_RateLimitCarriesRetryAfter(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
	})

	_, err := c.Queues.List(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Contains(t, apiErr.Message, "retry after 30 seconds")
}

func TestClient_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := New(server.URL, "tok")
	server.Close()

	_, err := c.Queues.List(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.Contains(t, apiErr.Message, "connection failed")
}

func TestKeys_Rotate(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/keys/signing/rotate", r.URL.Path)
		json.NewEncoder(w).Encode(SigningKey{KeyID: "key_2", Secret: "whsec_new"})
	})

	key, err := c.Keys.Rotate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "key_2", key.KeyID)
	assert.Equal(t, "whsec_new", key.Secret)
}
