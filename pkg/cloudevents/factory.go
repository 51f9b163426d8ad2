package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/freelansire/hrh/pkg/logging"
	"github.com/freelansire/hrh/pkg/tracing"
)

// EventFactory creates CloudEvents for HRH domain events
type EventFactory struct {
	source string
	now    func() time.Time
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{
		source: source,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateEvent creates a new HRHCloudEvent. The correlation ID and trace
// context of ctx travel with the event.
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *HRHCloudEvent {
	event := &HRHCloudEvent{
		SpecVersion:     SpecVersion,
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            f.now(),
		DataContentType: JSONContentType,
		Data:            data,
		Extensions:      make(map[string]interface{}),
		CorrelationID:   logging.CorrelationIDFromContext(ctx),
	}

	carrier := tracing.MapCarrier{}
	tracing.InjectTraceContext(ctx, carrier)
	event.TraceParent = carrier[ExtTraceParent]
	event.TraceState = carrier[ExtTraceState]

	return event
}
