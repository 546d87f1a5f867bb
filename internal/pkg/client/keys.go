package client

import "context"

// KeysService provides webhook signing key operations.
type KeysService struct {
	client *Client
}

// Get returns the current signing key. The secret is included only on
// rotation; Get returns metadata.
func (s *KeysService) Get(ctx context.Context) (*SigningKey, error) {
	var resp SigningKey
	if err := s.client.do(ctx, "GET", "/v1/keys/signing", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Rotate replaces the signing key and returns the new secret. The old
// key remains valid for a grace period.
func (s *KeysService) Rotate(ctx context.Context) (*SigningKey, error) {
	var resp SigningKey
	if err := s.client.do(ctx, "POST", "/v1/keys/signing/rotate", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
