package client

import (
	"context"
	"net/url"
	"strconv"
)

// FailedService provides dead-letter operations.
type FailedService struct {
	client *Client
}

// FailedListOptions filter a failed-message listing.
type FailedListOptions struct {
	// Queue restricts results to one queue.
	Queue string

	// Limit caps the number of returned messages.
	Limit int
}

// List returns messages that exhausted their delivery retries.
func (s *FailedService) List(ctx context.Context, opts *FailedListOptions) (*FailedListResponse, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Queue != "" {
			params.Set("queue", opts.Queue)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
	}
	var resp FailedListResponse
	if err := s.client.do(ctx, "GET", "/v1/failed", params, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Retry requeues a failed message for delivery with a fresh attempt
// budget.
func (s *FailedService) Retry(ctx context.Context, messageID string) (*RetryResponse, error) {
	var resp RetryResponse
	path := "/v1/failed/" + url.PathEscape(messageID) + "/retry"
	if err := s.client.do(ctx, "POST", path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete permanently discards a failed message.
func (s *FailedService) Delete(ctx context.Context, messageID string) error {
	return s.client.do(ctx, "DELETE", "/v1/failed/"+url.PathEscape(messageID), nil, nil, nil)
}
