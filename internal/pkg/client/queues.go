package client

import (
	"context"
	"net/url"
)

// QueuesService provides queue management operations.
type QueuesService struct {
	client *Client
}

// List returns all queues in the environment.
func (s *QueuesService) List(ctx context.Context) ([]Queue, error) {
	var resp QueueListResponse
	if err := s.client.do(ctx, "GET", "/v1/queues", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Queues, nil
}

// Get returns a single queue by id.
func (s *QueuesService) Get(ctx context.Context, id string) (*Queue, error) {
	var resp Queue
	if err := s.client.do(ctx, "GET", "/v1/queues/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create creates a new queue.
func (s *QueuesService) Create(ctx context.Context, req *CreateQueueRequest) (*Queue, error) {
	var resp Queue
	if err := s.client.do(ctx, "POST", "/v1/queues", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete permanently deletes a queue and all its messages.
func (s *QueuesService) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, "DELETE", "/v1/queues/"+url.PathEscape(id), nil, nil, nil)
}

// Pause stops delivery from a queue. Publishing is unaffected.
func (s *QueuesService) Pause(ctx context.Context, id string) (*Queue, error) {
	var resp Queue
	if err := s.client.do(ctx, "POST", "/v1/queues/"+url.PathEscape(id)+"/pause", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Resume restarts delivery from a paused queue.
func (s *QueuesService) Resume(ctx context.Context, id string) (*Queue, error) {
	var resp Queue
	if err := s.client.do(ctx, "POST", "/v1/queues/"+url.PathEscape(id)+"/resume", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
