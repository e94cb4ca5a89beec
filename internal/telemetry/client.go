// Package telemetry sends anonymous run lifecycle events. It is opt-in,
// carries no project paths or request text, and must never block or fail a
// refactor session.
package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
)

// Client is the interface the engine reports events through. The abstraction
// keeps the engine testable and telemetry swappable.
type Client interface {
	// Track sends an event asynchronously and returns immediately.
	Track(event string, properties map[string]any)

	// Close flushes pending events.
	Close() error
}

// Event names emitted by the engine.
const (
	EventRunStarted   = "run_started"
	EventRunCompleted = "run_completed"
	EventRunFailed    = "run_failed"
)

// enqueuer is the slice of the PostHog client we use; tests substitute it.
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// PostHogClient wraps the PostHog SDK for async event delivery.
type PostHogClient struct {
	client      enqueuer
	anonymousID string
	version     string
	mu          sync.RWMutex
	initialized bool
}

// NewPostHogClient creates a telemetry client. An empty API key yields an
// uninitialized client whose Track is a no-op.
func NewPostHogClient(apiKey, anonymousID, version string) (*PostHogClient, error) {
	if apiKey == "" || anonymousID == "" {
		return &PostHogClient{anonymousID: anonymousID, version: version}, nil
	}

	client, err := posthog.NewWithConfig(apiKey, posthog.Config{
		// CLI sessions are short; flush small batches quickly.
		BatchSize: 10,
		Interval:  1 * time.Second,
		// Transport warnings must not pollute CLI output.
		Logger: quietLogger{},
	})
	if err != nil {
		return nil, err
	}

	return &PostHogClient{
		client:      client,
		anonymousID: anonymousID,
		version:     version,
		initialized: true,
	}, nil
}

// newClientWithEnqueuer builds an initialized client around a custom
// enqueuer (for testing).
func newClientWithEnqueuer(enq enqueuer, anonymousID, version string) *PostHogClient {
	return &PostHogClient{
		client:      enq,
		anonymousID: anonymousID,
		version:     version,
		initialized: true,
	}
}

// Track enqueues an event with the standard OS/arch/version properties.
func (c *PostHogClient) Track(event string, properties map[string]any) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("cli_version", c.version)
	// Anonymous events only: no person profiles.
	props.Set("$process_person_profile", false)

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.anonymousID,
		Event:      event,
		Properties: props,
	})
}

// Close flushes the queue.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// NoopClient is used when telemetry is disabled.
type NoopClient struct{}

func (NoopClient) Track(string, map[string]any) {}
func (NoopClient) Close() error                 { return nil }

// NewNoopClient returns a client that does nothing.
func NewNoopClient() NoopClient { return NoopClient{} }

// quietLogger suppresses PostHog SDK logging.
type quietLogger struct{}

func (quietLogger) Debugf(string, ...interface{}) {}
func (quietLogger) Logf(string, ...interface{})   {}
func (quietLogger) Warnf(string, ...interface{})  {}
func (quietLogger) Errorf(string, ...interface{}) {}
