package client

import (
	"context"
	"net/url"
)

// MessagesService provides message publish, enqueue, track and cancel
// operations.
type MessagesService struct {
	client *Client
}

// Publish publishes a message to a queue addressed by name.
func (s *MessagesService) Publish(ctx context.Context, req *PublishRequest) (*PublishResponse, error) {
	var resp PublishResponse
	if err := s.client.do(ctx, "POST", "/v1/publish", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Enqueue publishes a message to a queue addressed by id.
func (s *MessagesService) Enqueue(ctx context.Context, queueID string, req *EnqueueRequest) (*PublishResponse, error) {
	var resp PublishResponse
	path := "/v1/queues/" + url.PathEscape(queueID) + "/enqueue"
	if err := s.client.do(ctx, "POST", path, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Track returns the delivery state of a message.
func (s *MessagesService) Track(ctx context.Context, messageID string) (*Message, error) {
	var resp Message
	if err := s.client.do(ctx, "GET", "/v1/messages/"+url.PathEscape(messageID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Cancel cancels an undelivered message. Messages already in flight
// cannot be cancelled.
func (s *MessagesService) Cancel(ctx context.Context, messageID string) error {
	return s.client.do(ctx, "DELETE", "/v1/messages/"+url.PathEscape(messageID), nil, nil, nil)
}
