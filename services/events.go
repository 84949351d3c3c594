package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vinitha-rv/library-backend/models"
	awspkg "github.com/vinitha-rv/library-backend/pkg/aws"
)

const EventCheckoutCompleted = "checkout.completed"

// EventPublisher announces committed checkouts to downstream consumers.
type EventPublisher interface {
	PublishCheckoutCompleted(ctx context.Context, event models.CheckoutEvent) error
}

type snsPublisher interface {
	Publish(ctx context.Context, topicArn, eventType string, message []byte) error
}

var _ snsPublisher = (*awspkg.SNSClient)(nil)

type SNSEventPublisher struct {
	client   snsPublisher
	topicArn string
}

func NewSNSEventPublisher(client snsPublisher, topicArn string) *SNSEventPublisher {
	return &SNSEventPublisher{client: client, topicArn: topicArn}
}

func (p *SNSEventPublisher) PublishCheckoutCompleted(ctx context.Context, event models.CheckoutEvent) error {
	if event.EventType == "" {
		event.EventType = EventCheckoutCompleted
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal checkout event: %w", err)
	}
	return p.client.Publish(ctx, p.topicArn, event.EventType, body)
}

// NoopEventPublisher is used when event publishing is disabled.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishCheckoutCompleted(context.Context, models.CheckoutEvent) error {
	return nil
}

// MetricsRecorder is the subset of the CloudWatch client services use.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordValue(ctx context.Context, metricName string, value float64, dimensions map[string]string) error
}

var _ MetricsRecorder = (*awspkg.MetricsClient)(nil)

type metricPoint struct {
	name    string
	value   float64
	isCount bool
	dims    map[string]string
}

func countPoint(name string, dims map[string]string) metricPoint {
	return metricPoint{name: name, isCount: true, dims: dims}
}

func valuePoint(name string, value float64, dims map[string]string) metricPoint {
	return metricPoint{name: name, value: value, dims: dims}
}

// recordAsync sends data points off the request path.
func recordAsync(m MetricsRecorder, points ...metricPoint) {
	if m == nil || len(points) == 0 {
		return
	}
	if e, ok := m.(interface{ IsEnabled() bool }); ok && !e.IsEnabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, p := range points {
			if p.isCount {
				_ = m.RecordCount(ctx, p.name, p.dims)
			} else {
				_ = m.RecordValue(ctx, p.name, p.value, p.dims)
			}
		}
	}()
}
