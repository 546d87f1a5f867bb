// Package app wires the config store, settings, API client and retry
// executor into the operations the CLI commands invoke.
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/relayq/relayq/internal/pkg/client"
	"github.com/relayq/relayq/internal/pkg/config"
	apperrors "github.com/relayq/relayq/internal/pkg/errors"
	"github.com/relayq/relayq/internal/pkg/remote"
	"github.com/relayq/relayq/internal/pkg/settings"
	"github.com/relayq/relayq/internal/pkg/ui"
)

// ClientFactory builds an API client; replaceable for tests.
type ClientFactory func(endpoint, token string, opts ...client.Option) *client.Client

// Service implements the CLI's remote operations. Every method returns
// an OperationResult envelope so commands render success and failure
// uniformly.
type Service struct {
	store     *config.Store
	settings  *settings.Manager
	ui        ui.Manager
	executor  *remote.Executor
	newClient ClientFactory

	// resolveOpts carry the per-invocation token override and
	// environment selection from global flags.
	resolveOpts config.ResolveOptions
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClientFactory replaces the API client constructor.
func WithClientFactory(f ClientFactory) ServiceOption {
	return func(s *Service) {
		s.newClient = f
	}
}

// WithExecutor replaces the retry executor.
func WithExecutor(e *remote.Executor) ServiceOption {
	return func(s *Service) {
		s.executor = e
	}
}

// WithResolveOptions sets the token override and environment selection.
func WithResolveOptions(opts config.ResolveOptions) ServiceOption {
	return func(s *Service) {
		s.resolveOpts = opts
	}
}

// NewService creates the service. The retry executor defaults to the
// policy from settings with a circuit breaker attached.
func NewService(store *config.Store, mgr *settings.Manager, uiMgr ui.Manager, opts ...ServiceOption) (*Service, error) {
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	s := &Service{
		store:     store,
		settings:  mgr,
		ui:        uiMgr,
		newClient: client.New,
		executor: remote.NewExecutor(
			cfg.RetryPolicy(),
			remote.WithCircuitBreaker(apperrors.NewCircuitBreaker(apperrors.DefaultCircuitBreakerConfig())),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Store exposes the config store for local (non-remote) commands.
func (s *Service) Store() *config.Store {
	return s.store
}

// Settings exposes the settings manager.
func (s *Service) Settings() *settings.Manager {
	return s.settings
}

// UI exposes the UI manager.
func (s *Service) UI() ui.Manager {
	return s.ui
}

// apiClient resolves a token and builds a client for the configured
// endpoint. A missing token is reported as a classified error so the
// caller gets the standard remediation message.
func (s *Service) apiClient() (*client.Client, *apperrors.ClassifiedError) {
	resolution, ok := s.store.ResolveToken(s.resolveOpts)
	if !ok {
		return nil, apperrors.NewMissingTokenError()
	}

	cfg, err := s.settings.Load()
	if err != nil {
		return nil, apperrors.Classify(err, "load settings")
	}

	apperrors.Debug("token resolved from %s source", resolution.Source)
	return s.newClient(cfg.Endpoint, resolution.Token, client.WithTimeout(cfg.Timeout())), nil
}

// TokenResolution reports where the active token would come from
// without performing any remote call.
func (s *Service) TokenResolution() (*config.Resolution, bool) {
	return s.store.ResolveToken(s.resolveOpts)
}

func run[T any](ctx context.Context, s *Service, spinnerText, opContext string, resource *apperrors.ResourceInfo, op func(context.Context, *client.Client) (T, error)) remote.OperationResult[T] {
	api, cerr := s.apiClient()
	if cerr != nil {
		return remote.Fail[T](cerr)
	}

	spin := s.ui.ShowSpinner(spinnerText)
	spin.Start()
	defer spin.Stop()

	return remote.ExecuteResource(ctx, s.executor, opContext, resource, func(ctx context.Context) (T, error) {
		return op(ctx, api)
	})
}

func queueResource(id string) *apperrors.ResourceInfo {
	return &apperrors.ResourceInfo{Type: "queue", ID: id}
}

func groupResource(id string) *apperrors.ResourceInfo {
	return &apperrors.ResourceInfo{Type: "group", ID: id}
}

func scheduleResource(id string) *apperrors.ResourceInfo {
	return &apperrors.ResourceInfo{Type: "schedule", ID: id}
}

func messageResource(id string) *apperrors.ResourceInfo {
	return &apperrors.ResourceInfo{Type: "message", ID: id}
}

// ListQueues returns all queues in the environment.
func (s *Service) ListQueues(ctx context.Context) remote.OperationResult[[]client.Queue] {
	return run(ctx, s, "Fetching queues...", "list queues", nil,
		func(ctx context.Context, api *client.Client) ([]client.Queue, error) {
			return api.Queues.List(ctx)
		})
}

// GetQueue returns a single queue by id.
func (s *Service) GetQueue(ctx context.Context, id string) remote.OperationResult[*client.Queue] {
	return run(ctx, s, "Fetching queue...", "get queue", queueResource(id),
		func(ctx context.Context, api *client.Client) (*client.Queue, error) {
			return api.Queues.Get(ctx, id)
		})
}

// CreateQueue creates a new queue.
func (s *Service) CreateQueue(ctx context.Context, req *client.CreateQueueRequest) remote.OperationResult[*client.Queue] {
	return run(ctx, s, "Creating queue...", "create queue", nil,
		func(ctx context.Context, api *client.Client) (*client.Queue, error) {
			return api.Queues.Create(ctx, req)
		})
}

// DeleteQueue permanently deletes a queue.
func (s *Service) DeleteQueue(ctx context.Context, id string) remote.OperationResult[struct{}] {
	return run(ctx, s, "Deleting queue...", "delete queue", queueResource(id),
		func(ctx context.Context, api *client.Client) (struct{}, error) {
			return struct{}{}, api.Queues.Delete(ctx, id)
		})
}

// PauseQueue stops delivery from a queue.
func (s *Service) PauseQueue(ctx context.Context, id string) remote.OperationResult[*client.Queue] {
	return run(ctx, s, "Pausing queue...", "pause queue", queueResource(id),
		func(ctx context.Context, api *client.Client) (*client.Queue, error) {
			return api.Queues.Pause(ctx, id)
		})
}

// ResumeQueue restarts delivery from a paused queue.
func (s *Service) ResumeQueue(ctx context.Context, id string) remote.OperationResult[*client.Queue] {
	return run(ctx, s, "Resuming queue...", "resume queue", queueResource(id),
		func(ctx context.Context, api *client.Client) (*client.Queue, error) {
			return api.Queues.Resume(ctx, id)
		})
}

// ListGroups returns all consumer groups.
func (s *Service) ListGroups(ctx context.Context) remote.OperationResult[[]client.Group] {
	return run(ctx, s, "Fetching groups...", "list groups", nil,
		func(ctx context.Context, api *client.Client) ([]client.Group, error) {
			return api.Groups.List(ctx)
		})
}

// GetGroup returns a single consumer group by id.
func (s *Service) GetGroup(ctx context.Context, id string) remote.OperationResult[*client.Group] {
	return run(ctx, s, "Fetching group...", "get group", groupResource(id),
		func(ctx context.Context, api *client.Client) (*client.Group, error) {
			return api.Groups.Get(ctx, id)
		})
}

// CreateGroup creates a new consumer group.
func (s *Service) CreateGroup(ctx context.Context, req *client.CreateGroupRequest) remote.OperationResult[*client.Group] {
	return run(ctx, s, "Creating group...", "create group", nil,
		func(ctx context.Context, api *client.Client) (*client.Group, error) {
			return api.Groups.Create(ctx, req)
		})
}

// DeleteGroup deletes a consumer group.
func (s *Service) DeleteGroup(ctx context.Context, id string) remote.OperationResult[struct{}] {
	return run(ctx, s, "Deleting group...", "delete group", groupResource(id),
		func(ctx context.Context, api *client.Client) (struct{}, error) {
			return struct{}{}, api.Groups.Delete(ctx, id)
		})
}

// PauseGroup stops delivery to a consumer group.
func (s *Service) PauseGroup(ctx context.Context, id string) remote.OperationResult[*client.Group] {
	return run(ctx, s, "Pausing group...", "pause group", groupResource(id),
		func(ctx context.Context, api *client.Client) (*client.Group, error) {
			return api.Groups.Pause(ctx, id)
		})
}

// ResumeGroup restarts delivery to a paused consumer group.
func (s *Service) ResumeGroup(ctx context.Context, id string) remote.OperationResult[*client.Group] {
	return run(ctx, s, "Resuming group...", "resume group", groupResource(id),
		func(ctx context.Context, api *client.Client) (*client.Group, error) {
			return api.Groups.Resume(ctx, id)
		})
}

// ListSchedules returns all schedules.
func (s *Service) ListSchedules(ctx context.Context) remote.OperationResult[[]client.Schedule] {
	return run(ctx, s, "Fetching schedules...", "list schedules", nil,
		func(ctx context.Context, api *client.Client) ([]client.Schedule, error) {
			return api.Schedules.List(ctx)
		})
}

// GetSchedule returns a single schedule by id.
func (s *Service) GetSchedule(ctx context.Context, id string) remote.OperationResult[*client.Schedule] {
	return run(ctx, s, "Fetching schedule...", "get schedule", scheduleResource(id),
		func(ctx context.Context, api *client.Client) (*client.Schedule, error) {
			return api.Schedules.Get(ctx, id)
		})
}

// CreateSchedule creates a new schedule.
func (s *Service) CreateSchedule(ctx context.Context, req *client.CreateScheduleRequest) remote.OperationResult[*client.Schedule] {
	return run(ctx, s, "Creating schedule...", "create schedule", nil,
		func(ctx context.Context, api *client.Client) (*client.Schedule, error) {
			return api.Schedules.Create(ctx, req)
		})
}

// DeleteSchedule deletes a schedule.
func (s *Service) DeleteSchedule(ctx context.Context, id string) remote.OperationResult[struct{}] {
	return run(ctx, s, "Deleting schedule...", "delete schedule", scheduleResource(id),
		func(ctx context.Context, api *client.Client) (struct{}, error) {
			return struct{}{}, api.Schedules.Delete(ctx, id)
		})
}

// PauseSchedule suspends future runs of a schedule.
func (s *Service) PauseSchedule(ctx context.Context, id string) remote.OperationResult[*client.Schedule] {
	return run(ctx, s, "Pausing schedule...", "pause schedule", scheduleResource(id),
		func(ctx context.Context, api *client.Client) (*client.Schedule, error) {
			return api.Schedules.Pause(ctx, id)
		})
}

// ResumeSchedule re-enables a paused schedule.
func (s *Service) ResumeSchedule(ctx context.Context, id string) remote.OperationResult[*client.Schedule] {
	return run(ctx, s, "Resuming schedule...", "resume schedule", scheduleResource(id),
		func(ctx context.Context, api *client.Client) (*client.Schedule, error) {
			return api.Schedules.Resume(ctx, id)
		})
}

// Publish publishes a message to a queue by name. A dedup key is
// generated when the caller supplied none, so a retried publish never
// delivers twice.
func (s *Service) Publish(ctx context.Context, req *client.PublishRequest) remote.OperationResult[*client.PublishResponse] {
	if req.DedupKey == "" {
		req.DedupKey = uuid.NewString()
	}
	return run(ctx, s, "Publishing message...", "publish message", nil,
		func(ctx context.Context, api *client.Client) (*client.PublishResponse, error) {
			return api.Messages.Publish(ctx, req)
		})
}

// Enqueue publishes a message to a queue addressed by id.
func (s *Service) Enqueue(ctx context.Context, queueID string, req *client.EnqueueRequest) remote.OperationResult[*client.PublishResponse] {
	if req.DedupKey == "" {
		req.DedupKey = uuid.NewString()
	}
	return run(ctx, s, "Enqueuing message...", "enqueue message", queueResource(queueID),
		func(ctx context.Context, api *client.Client) (*client.PublishResponse, error) {
			return api.Messages.Enqueue(ctx, queueID, req)
		})
}

// TrackMessage returns the delivery state of a message.
func (s *Service) TrackMessage(ctx context.Context, id string) remote.OperationResult[*client.Message] {
	return run(ctx, s, "Tracking message...", "track message", messageResource(id),
		func(ctx context.Context, api *client.Client) (*client.Message, error) {
			return api.Messages.Track(ctx, id)
		})
}

// CancelMessage cancels an undelivered message.
func (s *Service) CancelMessage(ctx context.Context, id string) remote.OperationResult[struct{}] {
	return run(ctx, s, "Cancelling message...", "cancel message", messageResource(id),
		func(ctx context.Context, api *client.Client) (struct{}, error) {
			return struct{}{}, api.Messages.Cancel(ctx, id)
		})
}

// ListFailed returns dead-lettered messages.
func (s *Service) ListFailed(ctx context.Context, opts *client.FailedListOptions) remote.OperationResult[*client.FailedListResponse] {
	return run(ctx, s, "Fetching failed messages...", "list failed messages", nil,
		func(ctx context.Context, api *client.Client) (*client.FailedListResponse, error) {
			return api.Failed.List(ctx, opts)
		})
}

// RetryFailed requeues a failed message.
func (s *Service) RetryFailed(ctx context.Context, id string) remote.OperationResult[*client.RetryResponse] {
	return run(ctx, s, "Requeuing message...", "retry failed message", messageResource(id),
		func(ctx context.Context, api *client.Client) (*client.RetryResponse, error) {
			return api.Failed.Retry(ctx, id)
		})
}

// DeleteFailed permanently discards a failed message.
func (s *Service) DeleteFailed(ctx context.Context, id string) remote.OperationResult[struct{}] {
	return run(ctx, s, "Deleting message...", "delete failed message", messageResource(id),
		func(ctx context.Context, api *client.Client) (struct{}, error) {
			return struct{}{}, api.Failed.Delete(ctx, id)
		})
}

// GetSigningKey returns the current webhook signing key metadata.
func (s *Service) GetSigningKey(ctx context.Context) remote.OperationResult[*client.SigningKey] {
	return run(ctx, s, "Fetching signing key...", "get signing key", nil,
		func(ctx context.Context, api *client.Client) (*client.SigningKey, error) {
			return api.Keys.Get(ctx)
		})
}

// RotateSigningKey replaces the signing key.
func (s *Service) RotateSigningKey(ctx context.Context) remote.OperationResult[*client.SigningKey] {
	return run(ctx, s, "Rotating signing key...", "rotate signing key", nil,
		func(ctx context.Context, api *client.Client) (*client.SigningKey, error) {
			return api.Keys.Rotate(ctx)
		})
}
