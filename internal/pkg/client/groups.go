package client

import (
	"context"
	"net/url"
)

// GroupsService provides consumer group operations.
type GroupsService struct {
	client *Client
}

// List returns all consumer groups.
func (s *GroupsService) List(ctx context.Context) ([]Group, error) {
	var resp GroupListResponse
	if err := s.client.do(ctx, "GET", "/v1/groups", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

// Get returns a single consumer group by id.
func (s *GroupsService) Get(ctx context.Context, id string) (*Group, error) {
	var resp Group
	if err := s.client.do(ctx, "GET", "/v1/groups/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create creates a new consumer group.
func (s *GroupsService) Create(ctx context.Context, req *CreateGroupRequest) (*Group, error) {
	var resp Group
	if err := s.client.do(ctx, "POST", "/v1/groups", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete deletes a consumer group. Messages already in flight to the
// group finish delivery.
func (s *GroupsService) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, "DELETE", "/v1/groups/"+url.PathEscape(id), nil, nil, nil)
}

// Pause stops delivery to a consumer group. Messages keep accumulating
// on its queues.
func (s *GroupsService) Pause(ctx context.Context, id string) (*Group, error) {
	var resp Group
	if err := s.client.do(ctx, "POST", "/v1/groups/"+url.PathEscape(id)+"/pause", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Resume restarts delivery to a paused consumer group.
func (s *GroupsService) Resume(ctx context.Context, id string) (*Group, error) {
	var resp Group
	if err := s.client.do(ctx, "POST", "/v1/groups/"+url.PathEscape(id)+"/resume", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
