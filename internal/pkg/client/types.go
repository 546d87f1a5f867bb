package client

import "time"

// Queue is a message queue resource.
type Queue struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Paused        bool      `json:"paused"`
	MessageCount  int64     `json:"messageCount"`
	InFlightCount int64     `json:"inFlightCount"`
	FailedCount   int64     `json:"failedCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateQueueRequest contains the parameters for creating a queue.
type CreateQueueRequest struct {
	// Name is the queue name. Required.
	Name string `json:"name"`

	// MaxRetries is the delivery retry budget per message.
	MaxRetries int `json:"maxRetries,omitempty"`

	// RetentionHours is how long delivered messages are retained.
	RetentionHours int `json:"retentionHours,omitempty"`
}

// QueueListResponse is returned when listing queues.
type QueueListResponse struct {
	Queues []Queue `json:"queues"`
}

// Group is a consumer group attached to one or more queues.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Queues      []string  `json:"queues"`
	Concurrency int       `json:"concurrency"`
	Endpoint    string    `json:"endpoint,omitempty"`
	Paused      bool      `json:"paused"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateGroupRequest contains the parameters for creating a group.
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Queues      []string `json:"queues"`
	Concurrency int      `json:"concurrency,omitempty"`
	Endpoint    string   `json:"endpoint,omitempty"`
}

// GroupListResponse is returned when listing groups.
type GroupListResponse struct {
	Groups []Group `json:"groups"`
}

// Schedule is a recurring or one-shot scheduled delivery.
type Schedule struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Queue     string    `json:"queue"`
	Cron      string    `json:"cron,omitempty"`
	RunAt     time.Time `json:"runAt,omitzero"`
	Body      string    `json:"body"`
	Paused    bool      `json:"paused"`
	NextRunAt time.Time `json:"nextRunAt,omitzero"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateScheduleRequest contains the parameters for creating a schedule.
// Exactly one of Cron or RunAt must be set.
type CreateScheduleRequest struct {
	Name  string     `json:"name"`
	Queue string     `json:"queue"`
	Cron  string     `json:"cron,omitempty"`
	RunAt *time.Time `json:"runAt,omitempty"`
	Body  string     `json:"body"`
}

// ScheduleListResponse is returned when listing schedules.
type ScheduleListResponse struct {
	Schedules []Schedule `json:"schedules"`
}

// PublishRequest publishes a message to a queue by name.
type PublishRequest struct {
	Queue string `json:"queue"`

	// Body is the message payload. Required.
	Body string `json:"body"`

	// Headers are optional message headers.
	Headers map[string]string `json:"headers,omitempty"`

	// Delay defers delivery (e.g. "30s", "1h").
	Delay string `json:"delay,omitempty"`

	// DedupKey suppresses duplicate publishes within the dedup window.
	DedupKey string `json:"dedupKey,omitempty"`
}

// PublishResponse is returned after a publish or enqueue.
type PublishResponse struct {
	MessageID  string    `json:"messageId"`
	Queue      string    `json:"queue"`
	AcceptedAt time.Time `json:"acceptedAt"`
	Duplicate  bool      `json:"duplicate,omitempty"`
}

// EnqueueRequest enqueues a message to a queue addressed by id.
type EnqueueRequest struct {
	Body     string            `json:"body"`
	Headers  map[string]string `json:"headers,omitempty"`
	Delay    string            `json:"delay,omitempty"`
	DedupKey string            `json:"dedupKey,omitempty"`
}

// Message is the delivery state of a single message.
type Message struct {
	ID          string            `json:"id"`
	Queue       string            `json:"queue"`
	Status      string            `json:"status"`
	Body        string            `json:"body,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Attempts    int               `json:"attempts"`
	LastError   string            `json:"lastError,omitempty"`
	AcceptedAt  time.Time         `json:"acceptedAt"`
	DeliveredAt time.Time         `json:"deliveredAt,omitzero"`
}

// FailedMessage is a message that exhausted its delivery retries.
type FailedMessage struct {
	ID        string    `json:"id"`
	Queue     string    `json:"queue"`
	Body      string    `json:"body,omitempty"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"lastError"`
	FailedAt  time.Time `json:"failedAt"`
}

// FailedListResponse is returned when listing failed messages.
type FailedListResponse struct {
	Messages []FailedMessage `json:"messages"`
	Total    int             `json:"total"`
}

// RetryResponse is returned when a failed message is requeued.
type RetryResponse struct {
	MessageID string `json:"messageId"`
	Queue     string `json:"queue"`
	Requeued  bool   `json:"requeued"`
}

// SigningKey is the webhook signing key for the account.
type SigningKey struct {
	KeyID     string    `json:"keyId"`
	Secret    string    `json:"secret,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	RotatedAt time.Time `json:"rotatedAt,omitzero"`
}
