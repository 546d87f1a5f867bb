package client

import (
	"context"
	"net/url"
)

// SchedulesService provides scheduled delivery operations.
type SchedulesService struct {
	client *Client
}

// List returns all schedules.
func (s *SchedulesService) List(ctx context.Context) ([]Schedule, error) {
	var resp ScheduleListResponse
	if err := s.client.do(ctx, "GET", "/v1/schedules", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Schedules, nil
}

// Get returns a single schedule by id.
func (s *SchedulesService) Get(ctx context.Context, id string) (*Schedule, error) {
	var resp Schedule
	if err := s.client.do(ctx, "GET", "/v1/schedules/"+url.PathEscape(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Create creates a new schedule.
func (s *SchedulesService) Create(ctx context.Context, req *CreateScheduleRequest) (*Schedule, error) {
	var resp Schedule
	if err := s.client.do(ctx, "POST", "/v1/schedules", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete deletes a schedule. Already-dispatched runs are unaffected.
func (s *SchedulesService) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, "DELETE", "/v1/schedules/"+url.PathEscape(id), nil, nil, nil)
}

// Pause suspends future runs of a schedule.
func (s *SchedulesService) Pause(ctx context.Context, id string) (*Schedule, error) {
	var resp Schedule
	if err := s.client.do(ctx, "POST", "/v1/schedules/"+url.PathEscape(id)+"/pause", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Resume re-enables a paused schedule.
func (s *SchedulesService) Resume(ctx context.Context, id string) (*Schedule, error) {
	var resp Schedule
	if err := s.client.do(ctx, "POST", "/v1/schedules/"+url.PathEscape(id)+"/resume", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
